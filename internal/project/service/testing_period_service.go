package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/qualification"
)

// TestingPeriodService manages the measurement windows planned for
// qualification objects.
type TestingPeriodService struct {
	db *gorm.DB
}

func NewTestingPeriodService(db *gorm.DB) *TestingPeriodService {
	return &TestingPeriodService{db: db}
}

// TestingPeriodFilter narrows List results. Both fields are optional.
type TestingPeriodFilter struct {
	ProjectID             *uuid.UUID
	QualificationObjectID *uuid.UUID
}

// Create plans a testing period for a qualification object. The status
// defaults to planned and the period number to 1.
func (s *TestingPeriodService) Create(ctx context.Context, req *model.CreateTestingPeriodDTO) (*model.TestingPeriod, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	objectID, err := uuid.Parse(req.QualificationObjectID)
	if err != nil {
		return nil, fmt.Errorf("invalid qualification object ID: %w", err)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("start and end dates are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("end date cannot precede start date")
	}

	var projectID *uuid.UUID
	if req.ProjectID != nil && *req.ProjectID != "" {
		parsed, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid project ID: %w", err)
		}
		projectID = &parsed
	}

	status := req.Status
	if status == "" {
		status = model.TestingPeriodPlanned
	}
	if !model.IsValidTestingPeriodStatus(status) {
		return nil, fmt.Errorf("invalid testing period status: %s", status)
	}

	periodNumber := 1
	if req.PeriodNumber != nil {
		if *req.PeriodNumber < 1 {
			return nil, fmt.Errorf("period number must be positive, got %d", *req.PeriodNumber)
		}
		periodNumber = *req.PeriodNumber
	}

	var period *model.TestingPeriod
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := qualification.GetObjectInTx(ctx, tx, objectID); err != nil {
			return err
		}

		created := model.TestingPeriod{
			ProjectID:             projectID,
			QualificationObjectID: objectID,
			PeriodNumber:          periodNumber,
			StartDate:             req.StartDate.UTC(),
			EndDate:               req.EndDate.UTC(),
			Status:                status,
			Notes:                 req.Notes,
		}
		if err := tx.WithContext(ctx).Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create testing period: %w", err)
		}
		period = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// GetByID retrieves a testing period.
func (s *TestingPeriodService) GetByID(ctx context.Context, periodID uuid.UUID) (*model.TestingPeriod, error) {
	if periodID == uuid.Nil {
		return nil, fmt.Errorf("testing period ID cannot be nil")
	}

	var period model.TestingPeriod
	result := s.db.WithContext(ctx).First(&period, "id = ?", periodID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTestingPeriodNotFound, periodID)
		}
		return nil, fmt.Errorf("failed to retrieve testing period: %w", result.Error)
	}
	return &period, nil
}

// List returns testing periods matching the filter, ordered by start date.
func (s *TestingPeriodService) List(ctx context.Context, filter TestingPeriodFilter) ([]model.TestingPeriod, error) {
	query := s.db.WithContext(ctx)
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.QualificationObjectID != nil {
		query = query.Where("qualification_object_id = ?", *filter.QualificationObjectID)
	}

	var periods []model.TestingPeriod
	result := query.Order("start_date ASC").Find(&periods)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list testing periods: %w", result.Error)
	}
	return periods, nil
}

// Update applies a partial update to a testing period. The date-order
// invariant is re-checked against the resulting pair of dates.
func (s *TestingPeriodService) Update(ctx context.Context, periodID uuid.UUID, req *model.UpdateTestingPeriodDTO) (*model.TestingPeriod, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	period, err := s.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	if req.PeriodNumber != nil {
		if *req.PeriodNumber < 1 {
			return nil, fmt.Errorf("period number must be positive, got %d", *req.PeriodNumber)
		}
		period.PeriodNumber = *req.PeriodNumber
	}
	if req.StartDate != nil {
		period.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		period.EndDate = req.EndDate.UTC()
	}
	if period.EndDate.Before(period.StartDate) {
		return nil, fmt.Errorf("end date cannot precede start date")
	}
	if req.Status != nil {
		if !model.IsValidTestingPeriodStatus(*req.Status) {
			return nil, fmt.Errorf("invalid testing period status: %s", *req.Status)
		}
		period.Status = *req.Status
	}
	if req.Notes != nil {
		period.Notes = req.Notes
	}

	if err := s.db.WithContext(ctx).Save(period).Error; err != nil {
		return nil, fmt.Errorf("failed to update testing period: %w", err)
	}
	return period, nil
}

// Delete removes a testing period.
func (s *TestingPeriodService) Delete(ctx context.Context, periodID uuid.UUID) error {
	if periodID == uuid.Nil {
		return fmt.Errorf("testing period ID cannot be nil")
	}

	result := s.db.WithContext(ctx).Delete(&model.TestingPeriod{}, "id = ?", periodID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete testing period: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrTestingPeriodNotFound, periodID)
	}
	return nil
}
