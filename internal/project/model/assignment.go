package model

import (
	"time"

	"github.com/google/uuid"
)

// StageAssignment is the durable record of who is responsible for a stage of
// a project and whether the stage is complete. There is at most one row per
// (project, stage) pair; upserts update the row in place.
//
// CompletedAt is the sole authoritative signal that a stage is done. Once
// set it is never cleared by the workflow engine; re-assigning the stage's
// user or notes leaves it untouched.
type StageAssignment struct {
	BaseModel
	ProjectID      uuid.UUID  `gorm:"type:uuid;column:project_id;not null;uniqueIndex:idx_stage_assignments_project_stage" json:"projectId"`
	Stage          Stage      `gorm:"type:varchar(50);column:stage;not null;uniqueIndex:idx_stage_assignments_project_stage" json:"stage"`
	AssignedUserID *uuid.UUID `gorm:"type:uuid;column:assigned_user_id" json:"assignedUserId,omitempty"`
	AssignedAt     time.Time  `gorm:"type:timestamptz;column:assigned_at;not null" json:"assignedAt"`
	CompletedAt    *time.Time `gorm:"type:timestamptz;column:completed_at" json:"completedAt,omitempty"`
	Notes          *string    `gorm:"type:text;column:notes" json:"notes,omitempty"`
}

func (a *StageAssignment) TableName() string {
	return "stage_assignments"
}

// IsCompleted reports whether the assignment carries a completion timestamp.
func (a *StageAssignment) IsCompleted() bool {
	return a != nil && a.CompletedAt != nil
}
