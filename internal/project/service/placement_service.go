package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/internal/audit"
	"github.com/qualiflow/qualiflow/internal/equipment"
	"github.com/qualiflow/qualiflow/internal/project/model"
)

// PlacementService links catalog equipment to the measurement points of a
// project's qualification objects during testing execution. A placement is
// saved per (project, object) pair as a whole: the new set of rows replaces
// whatever was stored before, inside one transaction.
type PlacementService struct {
	db      *gorm.DB
	auditor *audit.Writer
}

func NewPlacementService(db *gorm.DB, auditor *audit.Writer) *PlacementService {
	return &PlacementService{db: db, auditor: auditor}
}

// SetPlacement replaces the equipment placement of one qualification object
// within a project. Every equipment ID must refer to an existing catalog
// entry. An empty item list clears the placement.
func (s *PlacementService) SetPlacement(ctx context.Context, projectID, objectID uuid.UUID, items []model.EquipmentPlacementItemDTO, actorID *uuid.UUID) ([]model.EquipmentAssignment, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil")
	}
	if objectID == uuid.Nil {
		return nil, fmt.Errorf("qualification object ID cannot be nil")
	}

	parsed := make([]uuid.UUID, len(items))
	for i, item := range items {
		equipmentID, err := uuid.Parse(item.EquipmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid equipment ID %q: %w", item.EquipmentID, err)
		}
		if item.ZoneNumber < 1 {
			return nil, fmt.Errorf("zone number must be positive, got %d", item.ZoneNumber)
		}
		if item.MeasurementLevel < 1 {
			return nil, fmt.Errorf("measurement level must be positive, got %d", item.MeasurementLevel)
		}
		parsed[i] = equipmentID
	}

	var saved []model.EquipmentAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
			}
			return fmt.Errorf("failed to query project: %w", err)
		}

		for _, equipmentID := range parsed {
			if _, err := equipment.GetEquipmentInTx(ctx, tx, equipmentID); err != nil {
				return err
			}
		}

		result := tx.WithContext(ctx).
			Where("project_id = ? AND qualification_object_id = ?", projectID, objectID).
			Delete(&model.EquipmentAssignment{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear previous placement: %w", result.Error)
		}

		now := time.Now().UTC()
		saved = make([]model.EquipmentAssignment, 0, len(items))
		for i, item := range items {
			row := model.EquipmentAssignment{
				ProjectID:             projectID,
				QualificationObjectID: objectID,
				EquipmentID:           parsed[i],
				ZoneNumber:            item.ZoneNumber,
				MeasurementLevel:      item.MeasurementLevel,
				AssignedAt:            now,
				Notes:                 item.Notes,
			}
			if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create equipment assignment: %w", err)
			}
			saved = append(saved, row)
		}

		return s.auditor.RecordInTx(ctx, tx, audit.Entry{
			Entity:   "project",
			EntityID: projectID,
			Action:   "equipment_placement.saved",
			ActorID:  actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "equipment placement saved",
		"project_id", projectID,
		"qualification_object_id", objectID,
		"assignments", len(saved),
	)
	return saved, nil
}

// GetPlacement returns the placement of one qualification object within a
// project, ordered by zone and measurement level.
func (s *PlacementService) GetPlacement(ctx context.Context, projectID, objectID uuid.UUID) ([]model.EquipmentAssignment, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil")
	}
	if objectID == uuid.Nil {
		return nil, fmt.Errorf("qualification object ID cannot be nil")
	}

	var assignments []model.EquipmentAssignment
	result := s.db.WithContext(ctx).
		Where("project_id = ? AND qualification_object_id = ?", projectID, objectID).
		Order("zone_number ASC, measurement_level ASC").
		Find(&assignments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve equipment placement: %w", result.Error)
	}
	return assignments, nil
}

// ListProjectAssignments returns every equipment assignment of a project
// across all of its qualification objects.
func (s *PlacementService) ListProjectAssignments(ctx context.Context, projectID uuid.UUID) ([]model.EquipmentAssignment, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil")
	}

	var assignments []model.EquipmentAssignment
	result := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("qualification_object_id ASC, zone_number ASC, measurement_level ASC").
		Find(&assignments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list equipment assignments: %w", result.Error)
	}
	return assignments, nil
}

// CompleteAssignment marks one equipment assignment's measurements as done.
// Completing an already completed assignment is a no-op that preserves the
// original timestamp.
func (s *PlacementService) CompleteAssignment(ctx context.Context, assignmentID uuid.UUID) (*model.EquipmentAssignment, error) {
	if assignmentID == uuid.Nil {
		return nil, fmt.Errorf("assignment ID cannot be nil")
	}

	var assignment *model.EquipmentAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.EquipmentAssignment
		if err := tx.First(&existing, "id = ?", assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrAssignmentNotFound, assignmentID)
			}
			return fmt.Errorf("failed to query equipment assignment: %w", err)
		}

		if existing.CompletedAt != nil {
			assignment = &existing
			return nil
		}

		now := time.Now().UTC()
		existing.CompletedAt = &now
		if err := tx.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to complete equipment assignment: %w", err)
		}
		assignment = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}
