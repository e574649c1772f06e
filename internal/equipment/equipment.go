// Package equipment holds the catalog of measurement equipment (data
// loggers, thermohygrometers) used during testing execution.
package equipment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Equipment represents a single catalog entry.
type Equipment struct {
	ID                 uuid.UUID  `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	Name               string     `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Model              string     `gorm:"type:varchar(255);column:model" json:"model"`
	SerialNumber       string     `gorm:"type:varchar(100);column:serial_number;not null;unique" json:"serialNumber"`
	CalibrationDueDate *time.Time `gorm:"type:timestamptz;column:calibration_due_date" json:"calibrationDueDate,omitempty"`
	CreatedAt          time.Time  `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"type:timestamptz;column:updated_at;not null" json:"updatedAt"`
}

func (e *Equipment) TableName() string {
	return "equipment"
}

// BeforeCreate assigns the ID and timestamps.
func (e *Equipment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = time.Now().UTC()
	return
}

// BeforeUpdate refreshes the update timestamp.
func (e *Equipment) BeforeUpdate(tx *gorm.DB) (err error) {
	e.UpdatedAt = time.Now().UTC()
	return
}

// UpdateEquipmentDTO carries partial catalog updates.
type UpdateEquipmentDTO struct {
	Name               *string    `json:"name,omitempty"`
	Model              *string    `json:"model,omitempty"`
	SerialNumber       *string    `json:"serialNumber,omitempty"`
	CalibrationDueDate *time.Time `json:"calibrationDueDate,omitempty"`
}

// Filter narrows equipment listings.
type Filter struct {
	NameStartsWith *string `json:"nameStartsWith,omitempty"`
	Offset         *int    `json:"offset,omitempty"`
	Limit          *int    `json:"limit,omitempty"`
}

// ListResult is a page of equipment with the total match count.
type ListResult struct {
	TotalCount int64       `json:"totalCount"`
	Equipment  []Equipment `json:"equipment"`
	Offset     int         `json:"offset"`
	Limit      int         `json:"limit"`
}
