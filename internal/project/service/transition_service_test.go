package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qualiflow/qualiflow/internal/audit"
	"github.com/qualiflow/qualiflow/internal/project/model"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func newTransitionService(db *gorm.DB) *TransitionService {
	auditor := audit.NewWriter(db)
	assignments := NewAssignmentService(db)
	approvals := NewApprovalService(db, auditor)
	return NewTransitionService(db, assignments, approvals, auditor)
}

func projectRow(id uuid.UUID, status model.Stage) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "name", "status", "created_at", "updated_at"}).
		AddRow(id, "Cold room qualification", string(status), now, now)
}

func expectProjectReload(mock sqlmock.Sqlmock, projectID uuid.UUID, status model.Stage) {
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(projectRow(projectID, status))
	mock.ExpectQuery(`SELECT (.+) FROM "project_qualification_objects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "stage_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "stage"}))
}

func TestAdvanceTerminalIsNoOp(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTransitionService(gormDB)
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(projectRow(projectID, model.StageCompleted))
	mock.ExpectCommit()
	expectProjectReload(mock, projectID, model.StageCompleted)

	project, err := svc.Advance(context.Background(), projectID, nil)
	assert.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, model.StageCompleted, project.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceProjectNotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTransitionService(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status"}))
	mock.ExpectRollback()

	_, err := svc.Advance(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceNegotiationGateBlocks(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTransitionService(gormDB)
	projectID := uuid.New()
	docID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(projectRow(projectID, model.StageContractNegotiation))
	// One gate document exists and carries no approval decision.
	mock.ExpectQuery(`SELECT (.+) FROM "project_documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(docID))
	mock.ExpectQuery(`SELECT (.+) FROM "document_approvals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "status"}))
	mock.ExpectRollback()

	_, err := svc.Advance(context.Background(), projectID, nil)
	assert.ErrorIs(t, err, ErrDocumentsNotApproved)
	// Nothing past the gate check ran, so the project row was not touched.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceNegotiationVacuousGate(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTransitionService(gormDB)
	projectID := uuid.New()
	assignmentID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(projectRow(projectID, model.StageContractNegotiation))
	// No gate documents at all: the gate passes vacuously.
	mock.ExpectQuery(`SELECT (.+) FROM "project_documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// The stage's assignment is already completed, so no assignment write.
	mock.ExpectQuery(`SELECT (.+) FROM "stage_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "stage", "assigned_at", "completed_at"}).
			AddRow(assignmentID, projectID, string(model.StageContractNegotiation), now, now))
	mock.ExpectExec(`UPDATE "projects"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "audit_entries"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectProjectReload(mock, projectID, model.StageProtocolPreparation)

	project, err := svc.Advance(context.Background(), projectID, nil)
	assert.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, model.StageProtocolPreparation, project.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceConcurrentUpdate(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTransitionService(gormDB)
	projectID := uuid.New()
	assignmentID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(projectRow(projectID, model.StageTestingExecution))
	mock.ExpectQuery(`SELECT (.+) FROM "stage_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "stage", "assigned_at", "completed_at"}).
			AddRow(assignmentID, projectID, string(model.StageTestingExecution), now, now))
	// Another advance won the race: the status check matches no rows.
	mock.ExpectExec(`UPDATE "projects"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Advance(context.Background(), projectID, nil)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceNilProjectID(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	svc := newTransitionService(gormDB)

	_, err := svc.Advance(context.Background(), uuid.Nil, nil)
	assert.Error(t, err)
}
