package model

import (
	"time"

	"github.com/google/uuid"
)

// TestingPeriodStatus is the lifecycle state of a testing period.
type TestingPeriodStatus string

const (
	TestingPeriodPlanned    TestingPeriodStatus = "planned"
	TestingPeriodInProgress TestingPeriodStatus = "in_progress"
	TestingPeriodCompleted  TestingPeriodStatus = "completed"
	TestingPeriodCancelled  TestingPeriodStatus = "cancelled"
)

// IsValidTestingPeriodStatus reports whether s is a known period status.
func IsValidTestingPeriodStatus(s TestingPeriodStatus) bool {
	switch s {
	case TestingPeriodPlanned, TestingPeriodInProgress, TestingPeriodCompleted, TestingPeriodCancelled:
		return true
	}
	return false
}

// TestingPeriod is a planned or executed measurement window for a
// qualification object. Periods are numbered per object; the project link is
// optional because periods can be planned before the object joins a project.
type TestingPeriod struct {
	BaseModel
	ProjectID             *uuid.UUID          `gorm:"type:uuid;column:project_id;index" json:"projectId,omitempty"`
	QualificationObjectID uuid.UUID           `gorm:"type:uuid;column:qualification_object_id;not null;index" json:"qualificationObjectId"`
	PeriodNumber          int                 `gorm:"column:period_number;not null;default:1" json:"periodNumber"`
	StartDate             time.Time           `gorm:"type:timestamptz;column:start_date;not null" json:"startDate"`
	EndDate               time.Time           `gorm:"type:timestamptz;column:end_date;not null" json:"endDate"`
	Status                TestingPeriodStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`
	Notes                 *string             `gorm:"type:text;column:notes" json:"notes,omitempty"`
}

func (p *TestingPeriod) TableName() string {
	return "testing_periods"
}

// CreateTestingPeriodDTO is the request body for planning a testing period.
type CreateTestingPeriodDTO struct {
	ProjectID             *string             `json:"projectId,omitempty"`
	QualificationObjectID string              `json:"qualificationObjectId"`
	PeriodNumber          *int                `json:"periodNumber,omitempty"`
	StartDate             time.Time           `json:"startDate"`
	EndDate               time.Time           `json:"endDate"`
	Status                TestingPeriodStatus `json:"status,omitempty"`
	Notes                 *string             `json:"notes,omitempty"`
}

// UpdateTestingPeriodDTO is the request body for a partial period update.
type UpdateTestingPeriodDTO struct {
	PeriodNumber *int                 `json:"periodNumber,omitempty"`
	StartDate    *time.Time           `json:"startDate,omitempty"`
	EndDate      *time.Time           `json:"endDate,omitempty"`
	Status       *TestingPeriodStatus `json:"status,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
}
