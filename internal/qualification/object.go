// Package qualification manages the physical assets (rooms, vehicles,
// refrigeration units) being qualified under projects.
package qualification

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ObjectType is the closed set of qualification object kinds.
type ObjectType string

const (
	ObjectTypeRoom         ObjectType = "room"
	ObjectTypeVehicle      ObjectType = "vehicle"
	ObjectTypeColdRoom     ObjectType = "cold_room"
	ObjectTypeRefrigerator ObjectType = "refrigerator"
	ObjectTypeFreezer      ObjectType = "freezer"
)

// KnownObjectTypes lists every accepted object type.
var KnownObjectTypes = []ObjectType{
	ObjectTypeRoom,
	ObjectTypeVehicle,
	ObjectTypeColdRoom,
	ObjectTypeRefrigerator,
	ObjectTypeFreezer,
}

// IsValidObjectType reports whether t is one of the known object types.
func IsValidObjectType(t ObjectType) bool {
	for _, known := range KnownObjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ObjectData is the type-specific payload of a qualification object, stored
// as jsonb. Which fields are required depends on the object type; see
// Validate.
type ObjectData struct {
	Name               string  `json:"name,omitempty"`
	Address            string  `json:"address,omitempty"`
	Area               float64 `json:"area,omitempty"`          // m², rooms
	ClimateSystem      string  `json:"climateSystem,omitempty"`
	VIN                string  `json:"vin,omitempty"`
	RegistrationNumber string  `json:"registrationNumber,omitempty"`
	BodyVolume         float64 `json:"bodyVolume,omitempty"` // m³, vehicles
	InventoryNumber    string  `json:"inventoryNumber,omitempty"`
	ChamberVolume      float64 `json:"chamberVolume,omitempty"` // m³, cold rooms
	SerialNumber       string  `json:"serialNumber,omitempty"`
}

// QualificationObject is a physical asset owned by a contractor.
type QualificationObject struct {
	ID           uuid.UUID  `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	ContractorID uuid.UUID  `gorm:"type:uuid;column:contractor_id;not null;index" json:"contractorId"`
	ObjectType   ObjectType `gorm:"type:varchar(50);column:object_type;not null" json:"objectType"`
	Data         ObjectData `gorm:"type:jsonb;column:data;not null;serializer:json" json:"data"`
	PlanFileKey  *string    `gorm:"type:varchar(255);column:plan_file_key" json:"planFileKey,omitempty"`
	PlanFileName *string    `gorm:"type:varchar(255);column:plan_file_name" json:"planFileName,omitempty"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"type:timestamptz;column:updated_at;not null" json:"updatedAt"`
}

func (o *QualificationObject) TableName() string {
	return "qualification_objects"
}

// BeforeCreate assigns the ID and timestamps.
func (o *QualificationObject) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = time.Now().UTC()
	return
}

// BeforeUpdate refreshes the update timestamp.
func (o *QualificationObject) BeforeUpdate(tx *gorm.DB) (err error) {
	o.UpdatedAt = time.Now().UTC()
	return
}

// DisplayName returns the human identifier used in denormalized snapshots:
// the name where one exists, otherwise the vehicle VIN or unit serial number.
func (o *QualificationObject) DisplayName() string {
	switch {
	case o.Data.Name != "":
		return o.Data.Name
	case o.Data.VIN != "":
		return o.Data.VIN
	case o.Data.SerialNumber != "":
		return o.Data.SerialNumber
	default:
		return o.ID.String()
	}
}

// Validate checks the required fields for the object's type.
func (o *QualificationObject) Validate() error {
	if !IsValidObjectType(o.ObjectType) {
		return fmt.Errorf("invalid object type: %s", o.ObjectType)
	}

	missing := func(field string) error {
		return fmt.Errorf("%s is required for object type %s", field, o.ObjectType)
	}

	switch o.ObjectType {
	case ObjectTypeRoom:
		if strings.TrimSpace(o.Data.Name) == "" {
			return missing("name")
		}
		if strings.TrimSpace(o.Data.Address) == "" {
			return missing("address")
		}
		if o.Data.Area <= 0 {
			return missing("area")
		}
		if strings.TrimSpace(o.Data.ClimateSystem) == "" {
			return missing("climateSystem")
		}
	case ObjectTypeVehicle:
		if strings.TrimSpace(o.Data.VIN) == "" {
			return missing("vin")
		}
		if strings.TrimSpace(o.Data.RegistrationNumber) == "" {
			return missing("registrationNumber")
		}
		if o.Data.BodyVolume <= 0 {
			return missing("bodyVolume")
		}
	case ObjectTypeColdRoom:
		if strings.TrimSpace(o.Data.Name) == "" {
			return missing("name")
		}
		if strings.TrimSpace(o.Data.InventoryNumber) == "" {
			return missing("inventoryNumber")
		}
		if o.Data.ChamberVolume <= 0 {
			return missing("chamberVolume")
		}
	case ObjectTypeRefrigerator, ObjectTypeFreezer:
		if strings.TrimSpace(o.Data.SerialNumber) == "" {
			return missing("serialNumber")
		}
		if strings.TrimSpace(o.Data.InventoryNumber) == "" {
			return missing("inventoryNumber")
		}
	}
	return nil
}

// CreateObjectDTO is the request body for creating a qualification object.
type CreateObjectDTO struct {
	ContractorID string     `json:"contractorId"`
	ObjectType   ObjectType `json:"objectType"`
	Data         ObjectData `json:"data"`
}

// UpdateObjectDTO is the request body for editing an object's data payload.
type UpdateObjectDTO struct {
	Data *ObjectData `json:"data,omitempty"`
}
