// Package contractor manages the business entities (customers) that own
// qualification objects and commission projects.
package contractor

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactPerson is a named contact at a contractor, stored inside the
// contractor row as jsonb.
type ContactPerson struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Comment string `json:"comment,omitempty"`
}

// Contractor is a business entity associated with projects.
type Contractor struct {
	ID             uuid.UUID       `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Address        string          `gorm:"type:text;column:address" json:"address"`
	ContactPersons []ContactPerson `gorm:"type:jsonb;column:contact_persons;serializer:json" json:"contactPersons"`
	CreatedAt      time.Time       `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"type:timestamptz;column:updated_at;not null" json:"updatedAt"`
}

func (c *Contractor) TableName() string {
	return "contractors"
}

// BeforeCreate assigns the ID and timestamps.
func (c *Contractor) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = time.Now().UTC()
	return
}

// BeforeUpdate refreshes the update timestamp.
func (c *Contractor) BeforeUpdate(tx *gorm.DB) (err error) {
	c.UpdatedAt = time.Now().UTC()
	return
}

// CreateContractorDTO is the request body for creating a contractor.
type CreateContractorDTO struct {
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	ContactPersons []ContactPerson `json:"contactPersons,omitempty"`
}

// UpdateContractorDTO is the request body for partial contractor edits.
type UpdateContractorDTO struct {
	Name           *string          `json:"name,omitempty"`
	Address        *string          `json:"address,omitempty"`
	ContactPersons *[]ContactPerson `json:"contactPersons,omitempty"`
}

// Filter narrows contractor listings.
type Filter struct {
	NameContains *string
	Offset       *int
	Limit        *int
}
