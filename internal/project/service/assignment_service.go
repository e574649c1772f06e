package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/project/stage"
)

// AssignmentService owns the durable stage assignment rows: one row per
// (project, stage) pair with upsert semantics.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// UpsertAssignment creates the assignment row if absent, setting assigned_at
// to now, otherwise updates the assignee and notes in place. assigned_at and
// completed_at are never touched on update, so a completed stage's assignee
// stays editable without losing completion history.
func (s *AssignmentService) UpsertAssignment(ctx context.Context, projectID uuid.UUID, req model.UpsertStageAssignmentDTO) (*model.StageAssignment, error) {
	if !stage.IsValid(req.Stage) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStage, req.Stage)
	}

	var assignment *model.StageAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		assignment, err = s.upsertInTx(ctx, tx, projectID, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) upsertInTx(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, req model.UpsertStageAssignmentDTO) (*model.StageAssignment, error) {
	var assignedUserID *uuid.UUID
	if req.AssignedUserID != nil && *req.AssignedUserID != "" {
		parsed, err := uuid.Parse(*req.AssignedUserID)
		if err != nil {
			return nil, fmt.Errorf("invalid assigned user ID: %w", err)
		}
		assignedUserID = &parsed
	}

	var existing model.StageAssignment
	result := tx.WithContext(ctx).
		Where("project_id = ? AND stage = ?", projectID, req.Stage).
		First(&existing)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to query stage assignment: %w", result.Error)
		}
		created := model.StageAssignment{
			ProjectID:      projectID,
			Stage:          req.Stage,
			AssignedUserID: assignedUserID,
			AssignedAt:     time.Now().UTC(),
			Notes:          req.Notes,
		}
		if err := tx.WithContext(ctx).Create(&created).Error; err != nil {
			return nil, fmt.Errorf("failed to create stage assignment: %w", err)
		}
		return &created, nil
	}

	existing.AssignedUserID = assignedUserID
	existing.Notes = req.Notes
	if err := tx.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update stage assignment: %w", err)
	}
	return &existing, nil
}

// CompleteAssignment marks the stage's assignment as completed, creating the
// row first if assignee and notes were never set. Completing an already
// completed stage is a no-op that preserves the original timestamp.
func (s *AssignmentService) CompleteAssignment(ctx context.Context, projectID uuid.UUID, st model.Stage) (*model.StageAssignment, error) {
	if !stage.IsValid(st) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStage, st)
	}

	var assignment *model.StageAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		assignment, err = s.completeInTx(ctx, tx, projectID, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) completeInTx(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, st model.Stage) (*model.StageAssignment, error) {
	now := time.Now().UTC()

	var existing model.StageAssignment
	result := tx.WithContext(ctx).
		Where("project_id = ? AND stage = ?", projectID, st).
		First(&existing)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to query stage assignment: %w", result.Error)
		}
		created := model.StageAssignment{
			ProjectID:   projectID,
			Stage:       st,
			AssignedAt:  now,
			CompletedAt: &now,
		}
		if err := tx.WithContext(ctx).Create(&created).Error; err != nil {
			return nil, fmt.Errorf("failed to create stage assignment: %w", err)
		}
		return &created, nil
	}

	if existing.CompletedAt != nil {
		// Already completed, keep the original timestamp
		return &existing, nil
	}

	existing.CompletedAt = &now
	if err := tx.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to complete stage assignment: %w", err)
	}
	return &existing, nil
}

// GetAssignments retrieves all stage assignments for a project.
func (s *AssignmentService) GetAssignments(ctx context.Context, projectID uuid.UUID) ([]model.StageAssignment, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil")
	}

	var assignments []model.StageAssignment
	result := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&assignments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve stage assignments: %w", result.Error)
	}
	return assignments, nil
}
