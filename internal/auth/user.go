package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole describes what a user is allowed to do.
type UserRole string

const (
	RoleAdministrator UserRole = "administrator"
	RoleManager       UserRole = "manager"
	RoleSpecialist    UserRole = "specialist"
	RoleDirector      UserRole = "director"
)

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role UserRole) bool {
	switch role {
	case RoleAdministrator, RoleManager, RoleSpecialist, RoleDirector:
		return true
	}
	return false
}

// User represents an account that can be assigned to stages and
// approve documents.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	FullName  string    `gorm:"type:varchar(255);column:full_name;not null" json:"fullName"`
	Email     string    `gorm:"type:varchar(255);column:email;not null;unique" json:"email"`
	Role      UserRole  `gorm:"type:varchar(50);column:role;not null" json:"role"`
	CreatedAt time.Time `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;column:updated_at;not null" json:"updatedAt"`
}

func (u *User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = time.Now().UTC()
	return
}

func (u *User) BeforeUpdate(tx *gorm.DB) (err error) {
	u.UpdatedAt = time.Now().UTC()
	return
}

// AuthContext is the authentication context available in a request.
// It is injected by the auth middleware based on the bearer token.
type AuthContext struct {
	*User
}
