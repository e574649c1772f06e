package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/internal/audit"
	"github.com/qualiflow/qualiflow/internal/equipment"
	"github.com/qualiflow/qualiflow/internal/project/model"
)

func newPlacementService(db *gorm.DB) *PlacementService {
	return NewPlacementService(db, audit.NewWriter(db))
}

func equipmentRow(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "serial_number"}).
		AddRow(id, "Testo 174T", "SN-001")
}

func TestSetPlacementInvalidEquipmentID(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newPlacementService(db)

	items := []model.EquipmentPlacementItemDTO{
		{EquipmentID: "not-a-uuid", ZoneNumber: 1, MeasurementLevel: 1},
	}
	_, err := svc.SetPlacement(context.Background(), uuid.New(), uuid.New(), items, nil)
	assert.Error(t, err)
	// Validation fails before any database work.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPlacementRejectsBadZone(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newPlacementService(db)

	items := []model.EquipmentPlacementItemDTO{
		{EquipmentID: uuid.New().String(), ZoneNumber: 0, MeasurementLevel: 1},
	}
	_, err := svc.SetPlacement(context.Background(), uuid.New(), uuid.New(), items, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPlacementUnknownEquipment(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newPlacementService(db)
	projectID := uuid.New()
	objectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(projectRow(projectID, model.StageTestingExecution))
	mock.ExpectQuery(`SELECT (.+) FROM "equipment"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	items := []model.EquipmentPlacementItemDTO{
		{EquipmentID: uuid.New().String(), ZoneNumber: 1, MeasurementLevel: 1},
	}
	_, err := svc.SetPlacement(context.Background(), projectID, objectID, items, nil)
	assert.ErrorIs(t, err, equipment.ErrEquipmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPlacementReplacesRows(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newPlacementService(db)
	projectID := uuid.New()
	objectID := uuid.New()
	equipmentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(projectRow(projectID, model.StageTestingExecution))
	mock.ExpectQuery(`SELECT (.+) FROM "equipment"`).
		WillReturnRows(equipmentRow(equipmentID))
	mock.ExpectExec(`DELETE FROM "project_equipment_assignments"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "project_equipment_assignments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "audit_entries"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	items := []model.EquipmentPlacementItemDTO{
		{EquipmentID: equipmentID.String(), ZoneNumber: 3, MeasurementLevel: 2},
	}
	saved, err := svc.SetPlacement(context.Background(), projectID, objectID, items, nil)
	require.NoError(t, err)
	require.Len(t, saved, 1)

	assert.Equal(t, projectID, saved[0].ProjectID)
	assert.Equal(t, objectID, saved[0].QualificationObjectID)
	assert.Equal(t, equipmentID, saved[0].EquipmentID)
	assert.Equal(t, 3, saved[0].ZoneNumber)
	assert.Equal(t, 2, saved[0].MeasurementLevel)
	assert.False(t, saved[0].AssignedAt.IsZero())
	assert.Nil(t, saved[0].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPlacementEmptyListClears(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newPlacementService(db)
	projectID := uuid.New()
	objectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(projectRow(projectID, model.StageTestingExecution))
	mock.ExpectExec(`DELETE FROM "project_equipment_assignments"`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`INSERT INTO "audit_entries"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	saved, err := svc.SetPlacement(context.Background(), projectID, objectID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteEquipmentAssignmentIsIdempotent(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newPlacementService(db)
	assignmentID := uuid.New()
	completedAt := time.Now().UTC().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "project_equipment_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "qualification_object_id", "equipment_id", "zone_number", "measurement_level", "assigned_at", "completed_at"}).
			AddRow(assignmentID, uuid.New(), uuid.New(), uuid.New(), 1, 1, completedAt.Add(-time.Hour), completedAt))
	// Already completed: no UPDATE runs.
	mock.ExpectCommit()

	assignment, err := svc.CompleteAssignment(context.Background(), assignmentID)
	require.NoError(t, err)
	require.NotNil(t, assignment.CompletedAt)
	assert.WithinDuration(t, completedAt, *assignment.CompletedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteEquipmentAssignmentNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newPlacementService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "project_equipment_assignments"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	_, err := svc.CompleteAssignment(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
