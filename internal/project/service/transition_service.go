package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/internal/audit"
	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/project/stage"
)

// TransitionService is the only component that advances a project's status.
// Each advance completes the current stage's assignment and moves the status
// to the next catalog stage inside a single transaction, with an optimistic
// check so concurrent advances fail cleanly instead of double-advancing.
type TransitionService struct {
	db          *gorm.DB
	assignments *AssignmentService
	approvals   *ApprovalService
	auditor     *audit.Writer
}

func NewTransitionService(db *gorm.DB, assignments *AssignmentService, approvals *ApprovalService, auditor *audit.Writer) *TransitionService {
	return &TransitionService{
		db:          db,
		assignments: assignments,
		approvals:   approvals,
		auditor:     auditor,
	}
}

// Advance completes the project's current stage and moves it to the next
// one. Advancing a project already in the terminal stage is a no-op that
// returns the project unchanged. Advancing out of contract negotiation
// additionally requires every gate document to be approved.
func (s *TransitionService) Advance(ctx context.Context, projectID uuid.UUID, actorID *uuid.UUID) (*model.Project, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil")
	}

	var advancedFrom, advancedTo model.Stage
	var terminal bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
			}
			return fmt.Errorf("failed to retrieve project: %w", err)
		}

		current := project.Status
		if !stage.IsValid(current) {
			return fmt.Errorf("%w: project %s has status %q", ErrUnknownStage, projectID, current)
		}
		if current == stage.Terminal() {
			terminal = true
			return nil
		}

		if current == model.StageContractNegotiation {
			approved, err := s.approvals.isNegotiationApprovedInTx(ctx, tx, projectID)
			if err != nil {
				return err
			}
			if !approved {
				return ErrDocumentsNotApproved
			}
		}

		if _, err := s.assignments.completeInTx(ctx, tx, projectID, current); err != nil {
			return err
		}

		next, ok := stage.SuccessorOf(current)
		if !ok {
			// Unreachable: only the terminal stage lacks a successor.
			return fmt.Errorf("stage %s has no successor", current)
		}

		result := tx.Model(&model.Project{}).
			Where("id = ? AND status = ?", projectID, current).
			Updates(map[string]any{
				"status":     next,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to advance project status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}

		advancedFrom, advancedTo = current, next

		details, _ := json.Marshal(map[string]string{
			"from": string(current),
			"to":   string(next),
		})
		return s.auditor.RecordInTx(ctx, tx, audit.Entry{
			Entity:   "project",
			EntityID: projectID,
			Action:   "stage_advanced",
			ActorID:  actorID,
			Details:  details,
		})
	})
	if err != nil {
		return nil, err
	}

	if terminal {
		slog.InfoContext(ctx, "advance on completed project is a no-op", "project_id", projectID)
	} else {
		slog.InfoContext(ctx, "project stage advanced",
			"project_id", projectID,
			"from", advancedFrom,
			"to", advancedTo,
		)
	}

	// Re-read the aggregate after commit so the caller gets the fresh state.
	var refreshed model.Project
	result := s.db.WithContext(ctx).
		Preload("QualificationObjects").
		Preload("StageAssignments").
		First(&refreshed, "id = ?", projectID)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to reload project: %w", result.Error)
	}
	return &refreshed, nil
}
