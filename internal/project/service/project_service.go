package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/project/stage"
	"github.com/qualiflow/qualiflow/internal/qualification"
	"github.com/qualiflow/qualiflow/utils"
)

// ProjectService owns project CRUD. Status transitions are not handled here;
// they belong to the TransitionService.
type ProjectService struct {
	db          *gorm.DB
	assignments *AssignmentService
}

func NewProjectService(db *gorm.DB, assignments *AssignmentService) *ProjectService {
	return &ProjectService{db: db, assignments: assignments}
}

// Create creates a project in the initial stage, links its qualification
// objects with denormalized name/type snapshots, and applies any initial
// stage assignments, all within one transaction.
func (s *ProjectService) Create(ctx context.Context, req *model.CreateProjectDTO, createdBy *uuid.UUID) (*model.Project, error) {
	if req == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("project name cannot be empty")
	}
	contractorID, err := uuid.Parse(req.ContractorID)
	if err != nil {
		return nil, fmt.Errorf("invalid contractor ID: %w", err)
	}
	objectIDs := make([]uuid.UUID, len(req.QualificationObjectIDs))
	for i, raw := range req.QualificationObjectIDs {
		objectIDs[i], err = uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid qualification object ID %q: %w", raw, err)
		}
	}
	for _, a := range req.StageAssignments {
		if !stage.IsValid(a.Stage) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, a.Stage)
		}
	}

	var project *model.Project
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project = &model.Project{
			Name:         req.Name,
			Description:  req.Description,
			ContractorID: contractorID,
			Status:       stage.First(),
			CreatedBy:    createdBy,
		}
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		for _, objectID := range objectIDs {
			obj, err := qualification.GetObjectInTx(ctx, tx, objectID)
			if err != nil {
				return fmt.Errorf("failed to resolve qualification object %s: %w", objectID, err)
			}
			link := model.ProjectQualificationObject{
				ProjectID:             project.ID,
				QualificationObjectID: objectID,
				ObjectName:            obj.DisplayName(),
				ObjectType:            string(obj.ObjectType),
			}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link qualification object: %w", err)
			}
		}

		for _, a := range req.StageAssignments {
			if _, err := s.assignments.upsertInTx(ctx, tx, project.ID, a); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, project.ID)
}

// GetByID retrieves the full project aggregate.
func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil")
	}

	var project model.Project
	result := s.db.WithContext(ctx).
		Preload("QualificationObjects").
		Preload("StageAssignments").
		First(&project, "id = ?", projectID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to retrieve project: %w", result.Error)
	}
	return &project, nil
}

// List retrieves projects with optional status filtering and pagination.
func (s *ProjectService) List(ctx context.Context, status *model.Stage, offset, limit *int) ([]model.Project, error) {
	query := s.db.WithContext(ctx).Model(&model.Project{})
	if status != nil {
		if !stage.IsValid(*status) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, *status)
		}
		query = query.Where("status = ?", *status)
	}

	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var projects []model.Project
	result := query.
		Preload("QualificationObjects").
		Preload("StageAssignments").
		Order("created_at DESC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&projects)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list projects: %w", result.Error)
	}
	return projects, nil
}

// Update applies partial edits to project fields. The status column is out
// of reach here on purpose.
func (s *ProjectService) Update(ctx context.Context, projectID uuid.UUID, req *model.UpdateProjectDTO) (*model.Project, error) {
	if req == nil {
		return nil, fmt.Errorf("update request cannot be nil")
	}

	updates := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("project name cannot be empty")
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ContractNumber != nil {
		updates["contract_number"] = *req.ContractNumber
	}
	if req.ContractDate != nil {
		updates["contract_date"] = *req.ContractDate
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		result := s.db.WithContext(ctx).
			Model(&model.Project{}).
			Where("id = ?", projectID).
			Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
	}

	return s.GetByID(ctx, projectID)
}

// StageReport computes the derived gate status of every catalog stage for a
// project, in lifecycle order.
func (s *ProjectService) StageReport(ctx context.Context, projectID uuid.UUID) ([]model.StageStatusDTO, error) {
	project, err := s.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	report := make([]model.StageStatusDTO, 0, len(stage.Definitions()))
	for _, def := range stage.Definitions() {
		entry := model.StageStatusDTO{
			Stage:           def.Stage,
			Title:           def.Title,
			ResponsibleRole: def.ResponsibleRole,
			Duration:        def.Duration,
			Status:          stage.Status(def.Stage, project.Status, project.StageAssignments),
		}
		if a := project.AssignmentFor(def.Stage); a != nil {
			entry.AssignedUserID = a.AssignedUserID
			entry.CompletedAt = a.CompletedAt
		}
		report = append(report, entry)
	}
	return report, nil
}
