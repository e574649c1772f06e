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
	"github.com/qualiflow/qualiflow/internal/project/model"
)

func newApprovalService(db *gorm.DB) *ApprovalService {
	return NewApprovalService(db, audit.NewWriter(db))
}

func documentRow(id, projectID uuid.UUID) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "project_id", "document_type", "file_name", "created_at", "updated_at"}).
		AddRow(id, projectID, string(model.DocumentTypeContract), "contract.pdf", now, now)
}

func TestGetStatusUnknownDocument(t *testing.T) {
	db, mock := setupMockDB(t)
	approvals := newApprovalService(db)
	documentID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "project_documents"`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := approvals.GetStatus(context.Background(), documentID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatusNoDecisionsIsPending(t *testing.T) {
	db, mock := setupMockDB(t)
	approvals := newApprovalService(db)
	documentID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "project_documents"`).
		WillReturnRows(documentRow(documentID, projectID))
	mock.ExpectQuery(`SELECT (.+) FROM "document_approvals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "status"}))
	mock.ExpectQuery(`SELECT (.+) FROM "document_comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "comment"}))

	status, err := approvals.GetStatus(context.Background(), documentID)
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalStatusPending, status.Status)
	assert.Nil(t, status.LastDecision)
	assert.Empty(t, status.ApprovalHistory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecideUnknownDocument(t *testing.T) {
	db, mock := setupMockDB(t)
	approvals := newApprovalService(db)
	documentID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "project_documents"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	_, err := approvals.Approve(context.Background(), documentID, userID, "manager", nil)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
