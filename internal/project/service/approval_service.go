package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/internal/audit"
	"github.com/qualiflow/qualiflow/internal/project/approval"
	"github.com/qualiflow/qualiflow/internal/project/model"
)

// ApprovalService persists per-document review decisions and answers the
// negotiation gate question for the transition service. Decisions are
// append-only; the newest row per document is its current status.
type ApprovalService struct {
	db      *gorm.DB
	auditor *audit.Writer
}

func NewApprovalService(db *gorm.DB, auditor *audit.Writer) *ApprovalService {
	return &ApprovalService{db: db, auditor: auditor}
}

// Approve records an approval for a document. Approving an already-approved
// document is a no-op returning the standing decision.
func (s *ApprovalService) Approve(ctx context.Context, documentID, userID uuid.UUID, userRole string, comment *string) (*model.DocumentApproval, error) {
	return s.decide(ctx, documentID, userID, userRole, comment, model.ApprovalStatusApproved)
}

// Reject records a rejection for a document. Rejecting an already-rejected
// document is a no-op returning the standing decision.
func (s *ApprovalService) Reject(ctx context.Context, documentID, userID uuid.UUID, userRole string, comment *string) (*model.DocumentApproval, error) {
	return s.decide(ctx, documentID, userID, userRole, comment, model.ApprovalStatusRejected)
}

func (s *ApprovalService) decide(ctx context.Context, documentID, userID uuid.UUID, userRole string, comment *string, status model.ApprovalStatus) (*model.DocumentApproval, error) {
	if documentID == uuid.Nil {
		return nil, fmt.Errorf("document ID cannot be nil")
	}
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user ID cannot be nil")
	}

	var decision *model.DocumentApproval
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.ProjectDocument
		if err := tx.First(&doc, "id = ?", documentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
			}
			return fmt.Errorf("failed to query document: %w", err)
		}

		latest, err := latestDecisionInTx(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if latest != nil && latest.Status == status {
			decision = latest
			return nil
		}

		created := model.DocumentApproval{
			DocumentID: documentID,
			Status:     status,
			UserID:     userID,
			UserRole:   userRole,
			Comment:    comment,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to record approval decision: %w", err)
		}
		if err := s.auditor.RecordInTx(ctx, tx, audit.Entry{
			Entity:   "document",
			EntityID: documentID,
			Action:   "document." + string(status),
			ActorID:  &userID,
		}); err != nil {
			return err
		}
		decision = &created
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "document review decision recorded",
		"document_id", documentID,
		"status", status,
		"user_id", userID,
	)
	return decision, nil
}

// AddComment attaches a free-text remark to a document.
func (s *ApprovalService) AddComment(ctx context.Context, documentID, userID uuid.UUID, text string) (*model.DocumentComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment cannot be empty")
	}

	var doc model.ProjectDocument
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	comment := model.DocumentComment{
		DocumentID: documentID,
		UserID:     userID,
		Comment:    text,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.auditor.Record(ctx, audit.Entry{
		Entity:   "document",
		EntityID: documentID,
		Action:   "document.commented",
		ActorID:  &userID,
	}); err != nil {
		slog.WarnContext(ctx, "failed to audit document comment", "error", err)
	}
	return &comment, nil
}

// GetStatus returns a document's current review status, full decision
// history and comments. A document with no decisions yet is pending.
func (s *ApprovalService) GetStatus(ctx context.Context, documentID uuid.UUID) (*model.DocumentApprovalStatusDTO, error) {
	var doc model.ProjectDocument
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	var history []model.DocumentApproval
	result := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&history)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query approval history: %w", result.Error)
	}

	var comments []model.DocumentComment
	result = s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&comments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query comments: %w", result.Error)
	}

	status := &model.DocumentApprovalStatusDTO{
		DocumentID:      documentID,
		Status:          model.ApprovalStatusPending,
		ApprovalHistory: history,
		Comments:        comments,
	}
	if len(history) > 0 {
		status.LastDecision = &history[0]
		status.Status = history[0].Status
	}
	return status, nil
}

// isNegotiationApprovedInTx answers the contract negotiation gate: every
// document that exists for the project and participates in the gate must
// currently be approved. A project with zero gate documents passes vacuously.
func (s *ApprovalService) isNegotiationApprovedInTx(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (bool, error) {
	existing, err := gateDocumentIDsInTx(ctx, tx, projectID)
	if err != nil {
		return false, err
	}
	if len(existing) == 0 {
		return true, nil
	}

	approved := make(map[uuid.UUID]struct{}, len(existing))
	for _, docID := range existing {
		latest, err := latestDecisionInTx(ctx, tx, docID)
		if err != nil {
			return false, err
		}
		if latest != nil && latest.Status == model.ApprovalStatusApproved {
			approved[docID] = struct{}{}
		}
	}

	return approval.IsFullyApproved(existing, approved), nil
}

// IsNegotiationApproved is the out-of-transaction variant of the gate check.
func (s *ApprovalService) IsNegotiationApproved(ctx context.Context, projectID uuid.UUID) (bool, error) {
	return s.isNegotiationApprovedInTx(ctx, s.db, projectID)
}

func latestDecisionInTx(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*model.DocumentApproval, error) {
	var latest model.DocumentApproval
	result := tx.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		First(&latest)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest decision: %w", result.Error)
	}
	return &latest, nil
}
