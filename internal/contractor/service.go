package contractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/utils"
)

// ErrContractorNotFound is returned when a contractor does not exist.
var ErrContractorNotFound = errors.New("contractor not found")

// Service provides CRUD over contractors.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create persists a new contractor.
func (s *Service) Create(ctx context.Context, req *CreateContractorDTO) (*Contractor, error) {
	if req == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("contractor name cannot be empty")
	}

	contractor := Contractor{
		Name:           req.Name,
		Address:        req.Address,
		ContactPersons: req.ContactPersons,
	}
	if contractor.ContactPersons == nil {
		contractor.ContactPersons = []ContactPerson{}
	}

	if err := s.db.WithContext(ctx).Create(&contractor).Error; err != nil {
		return nil, fmt.Errorf("failed to create contractor: %w", err)
	}
	return &contractor, nil
}

// GetByID retrieves a contractor.
func (s *Service) GetByID(ctx context.Context, contractorID uuid.UUID) (*Contractor, error) {
	if contractorID == uuid.Nil {
		return nil, fmt.Errorf("contractor ID cannot be nil")
	}

	var contractor Contractor
	result := s.db.WithContext(ctx).First(&contractor, "id = ?", contractorID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrContractorNotFound, contractorID)
		}
		return nil, fmt.Errorf("failed to retrieve contractor: %w", result.Error)
	}
	return &contractor, nil
}

// List retrieves contractors matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Contractor, error) {
	query := s.db.WithContext(ctx).Model(&Contractor{})
	if filter.NameContains != nil && *filter.NameContains != "" {
		query = query.Where("name ILIKE ?", "%"+*filter.NameContains+"%")
	}

	finalOffset, finalLimit := utils.GetPaginationParams(filter.Offset, filter.Limit)

	var contractors []Contractor
	result := query.
		Order("name ASC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&contractors)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", result.Error)
	}
	return contractors, nil
}

// Update applies partial edits to a contractor.
func (s *Service) Update(ctx context.Context, contractorID uuid.UUID, req *UpdateContractorDTO) (*Contractor, error) {
	if req == nil {
		return nil, fmt.Errorf("update request cannot be nil")
	}

	contractor, err := s.GetByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("contractor name cannot be empty")
		}
		contractor.Name = *req.Name
	}
	if req.Address != nil {
		contractor.Address = *req.Address
	}
	if req.ContactPersons != nil {
		contractor.ContactPersons = *req.ContactPersons
	}

	contractor.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(contractor).Error; err != nil {
		return nil, fmt.Errorf("failed to update contractor: %w", err)
	}
	return contractor, nil
}

// Delete removes a contractor.
func (s *Service) Delete(ctx context.Context, contractorID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&Contractor{}, "id = ?", contractorID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contractor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrContractorNotFound, contractorID)
	}
	return nil
}
