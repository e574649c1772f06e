package model

import (
	"time"

	"github.com/google/uuid"
)

// EquipmentAssignment places one catalog equipment item at a measurement
// point of a qualification object during the testing execution stage. The
// placement for a (project, object) pair is saved as a whole: writing a new
// placement replaces all previous rows for that pair.
type EquipmentAssignment struct {
	BaseModel
	ProjectID             uuid.UUID  `gorm:"type:uuid;column:project_id;not null;index" json:"projectId"`
	QualificationObjectID uuid.UUID  `gorm:"type:uuid;column:qualification_object_id;not null;index" json:"qualificationObjectId"`
	EquipmentID           uuid.UUID  `gorm:"type:uuid;column:equipment_id;not null" json:"equipmentId"`
	ZoneNumber            int        `gorm:"column:zone_number;not null" json:"zoneNumber"`
	MeasurementLevel      int        `gorm:"column:measurement_level;not null" json:"measurementLevel"`
	AssignedAt            time.Time  `gorm:"type:timestamptz;column:assigned_at;not null" json:"assignedAt"`
	CompletedAt           *time.Time `gorm:"type:timestamptz;column:completed_at" json:"completedAt,omitempty"`
	Notes                 *string    `gorm:"type:text;column:notes" json:"notes,omitempty"`
}

func (a *EquipmentAssignment) TableName() string {
	return "project_equipment_assignments"
}

// EquipmentPlacementItemDTO is one placement row in a save-placement request.
type EquipmentPlacementItemDTO struct {
	EquipmentID      string  `json:"equipmentId"`
	ZoneNumber       int     `json:"zoneNumber"`
	MeasurementLevel int     `json:"measurementLevel"`
	Notes            *string `json:"notes,omitempty"`
}
