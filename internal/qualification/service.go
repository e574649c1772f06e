package qualification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/utils"
)

// ErrObjectNotFound is returned when a qualification object does not exist.
var ErrObjectNotFound = errors.New("qualification object not found")

// Service provides CRUD over qualification objects.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create validates and persists a new qualification object.
func (s *Service) Create(ctx context.Context, req *CreateObjectDTO) (*QualificationObject, error) {
	if req == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}
	contractorID, err := uuid.Parse(req.ContractorID)
	if err != nil {
		return nil, fmt.Errorf("invalid contractor ID: %w", err)
	}

	obj := QualificationObject{
		ContractorID: contractorID,
		ObjectType:   req.ObjectType,
		Data:         req.Data,
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&obj).Error; err != nil {
		return nil, fmt.Errorf("failed to create qualification object: %w", err)
	}
	return &obj, nil
}

// GetByID retrieves a qualification object.
func (s *Service) GetByID(ctx context.Context, objectID uuid.UUID) (*QualificationObject, error) {
	return GetObjectInTx(ctx, s.db, objectID)
}

// GetObjectInTx retrieves a qualification object using the caller's
// transaction. It exists so other services can snapshot object data inside
// their own transactions.
func GetObjectInTx(ctx context.Context, tx *gorm.DB, objectID uuid.UUID) (*QualificationObject, error) {
	if objectID == uuid.Nil {
		return nil, fmt.Errorf("object ID cannot be nil")
	}

	var obj QualificationObject
	result := tx.WithContext(ctx).First(&obj, "id = ?", objectID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, objectID)
		}
		return nil, fmt.Errorf("failed to retrieve qualification object: %w", result.Error)
	}
	return &obj, nil
}

// ListByContractor retrieves a contractor's objects with pagination.
func (s *Service) ListByContractor(ctx context.Context, contractorID uuid.UUID, offset, limit *int) ([]QualificationObject, error) {
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var objects []QualificationObject
	result := s.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("created_at ASC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&objects)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list qualification objects: %w", result.Error)
	}
	return objects, nil
}

// Update replaces the object's data payload after re-validating it for the
// object's type.
func (s *Service) Update(ctx context.Context, objectID uuid.UUID, req *UpdateObjectDTO) (*QualificationObject, error) {
	if req == nil || req.Data == nil {
		return nil, fmt.Errorf("update request requires data")
	}

	obj, err := s.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	obj.Data = *req.Data
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	obj.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(obj).Error; err != nil {
		return nil, fmt.Errorf("failed to update qualification object: %w", err)
	}
	return obj, nil
}

// SetPlanFile records the stored plan file for an object, or clears it when
// key and name are nil.
func (s *Service) SetPlanFile(ctx context.Context, objectID uuid.UUID, key, name *string) (*QualificationObject, error) {
	obj, err := s.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	obj.PlanFileKey = key
	obj.PlanFileName = name
	obj.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(obj).Error; err != nil {
		return nil, fmt.Errorf("failed to update plan file: %w", err)
	}
	return obj, nil
}

// Delete removes a qualification object.
func (s *Service) Delete(ctx context.Context, objectID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&QualificationObject{}, "id = ?", objectID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete qualification object: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objectID)
	}
	return nil
}
