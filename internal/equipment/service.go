package equipment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/utils"
)

// ErrEquipmentNotFound is returned when a catalog entry does not exist.
var ErrEquipmentNotFound = errors.New("equipment not found")

// Service provides access to the equipment catalog.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create adds a catalog entry.
func (s *Service) Create(ctx context.Context, item *Equipment) (*Equipment, error) {
	if item == nil {
		return nil, fmt.Errorf("equipment cannot be nil")
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("equipment name cannot be empty")
	}
	if strings.TrimSpace(item.SerialNumber) == "" {
		return nil, fmt.Errorf("serial number cannot be empty")
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}
	return item, nil
}

// GetByID retrieves a catalog entry.
func (s *Service) GetByID(ctx context.Context, equipmentID uuid.UUID) (*Equipment, error) {
	if equipmentID == uuid.Nil {
		return nil, fmt.Errorf("equipment ID cannot be nil")
	}

	var item Equipment
	result := s.db.WithContext(ctx).First(&item, "id = ?", equipmentID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEquipmentNotFound, equipmentID)
		}
		return nil, fmt.Errorf("failed to retrieve equipment: %w", result.Error)
	}
	return &item, nil
}

// GetEquipmentInTx retrieves a catalog entry using the caller's transaction,
// for services that link catalog equipment into their own aggregates.
func GetEquipmentInTx(ctx context.Context, tx *gorm.DB, equipmentID uuid.UUID) (*Equipment, error) {
	var item Equipment
	result := tx.WithContext(ctx).First(&item, "id = ?", equipmentID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEquipmentNotFound, equipmentID)
		}
		return nil, fmt.Errorf("failed to retrieve equipment: %w", result.Error)
	}
	return &item, nil
}

// List retrieves a page of catalog entries matching the filter, along with
// the total match count.
func (s *Service) List(ctx context.Context, filter Filter) (*ListResult, error) {
	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.NameStartsWith != nil && *filter.NameStartsWith != "" {
			q = q.Where("name ILIKE ?", *filter.NameStartsWith+"%")
		}
		return q
	}

	var totalCount int64
	if err := applyFilter(s.db.WithContext(ctx).Model(&Equipment{})).Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count equipment: %w", err)
	}

	finalOffset, finalLimit := utils.GetPaginationParams(filter.Offset, filter.Limit)

	var items []Equipment
	result := applyFilter(s.db.WithContext(ctx)).
		Order("name ASC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", result.Error)
	}

	return &ListResult{
		TotalCount: totalCount,
		Equipment:  items,
		Offset:     finalOffset,
		Limit:      finalLimit,
	}, nil
}

// Update applies a partial update to a catalog entry.
func (s *Service) Update(ctx context.Context, equipmentID uuid.UUID, dto UpdateEquipmentDTO) (*Equipment, error) {
	item, err := s.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		if strings.TrimSpace(*dto.Name) == "" {
			return nil, fmt.Errorf("equipment name cannot be empty")
		}
		item.Name = *dto.Name
	}
	if dto.Model != nil {
		item.Model = *dto.Model
	}
	if dto.SerialNumber != nil {
		if strings.TrimSpace(*dto.SerialNumber) == "" {
			return nil, fmt.Errorf("serial number cannot be empty")
		}
		item.SerialNumber = *dto.SerialNumber
	}
	if dto.CalibrationDueDate != nil {
		item.CalibrationDueDate = dto.CalibrationDueDate
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}
	return item, nil
}

// Delete removes a catalog entry.
func (s *Service) Delete(ctx context.Context, equipmentID uuid.UUID) error {
	if equipmentID == uuid.Nil {
		return fmt.Errorf("equipment ID cannot be nil")
	}

	result := s.db.WithContext(ctx).Delete(&Equipment{}, "id = ?", equipmentID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete equipment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrEquipmentNotFound, equipmentID)
	}
	return nil
}
