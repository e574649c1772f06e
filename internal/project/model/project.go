package model

import (
	"time"

	"github.com/google/uuid"
)

// Project is the aggregate root of the qualification workflow. Its Status
// column holds the currently active stage; it is advanced one step at a time
// by the transition service and never written directly by handlers.
type Project struct {
	BaseModel
	Name           string     `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Description    string     `gorm:"type:text;column:description" json:"description,omitempty"`
	ContractorID   uuid.UUID  `gorm:"type:uuid;column:contractor_id;not null" json:"contractorId"`
	ContractNumber *string    `gorm:"type:varchar(100);column:contract_number" json:"contractNumber,omitempty"`
	ContractDate   *time.Time `gorm:"type:timestamptz;column:contract_date" json:"contractDate,omitempty"`
	Status         Stage      `gorm:"type:varchar(50);column:status;not null" json:"status"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;column:created_by" json:"createdBy,omitempty"`

	// Relationships
	QualificationObjects []ProjectQualificationObject `gorm:"foreignKey:ProjectID;references:ID" json:"qualificationObjects"`
	StageAssignments     []StageAssignment            `gorm:"foreignKey:ProjectID;references:ID" json:"stageAssignments"`
}

func (p *Project) TableName() string {
	return "projects"
}

// AssignmentFor returns the stage assignment for the given stage, or nil if
// no row exists yet for that (project, stage) pair.
func (p *Project) AssignmentFor(stage Stage) *StageAssignment {
	for i := range p.StageAssignments {
		if p.StageAssignments[i].Stage == stage {
			return &p.StageAssignments[i]
		}
	}
	return nil
}

// ProjectQualificationObject links a project to a qualification object and
// carries a denormalized name/type snapshot taken at link time, so the
// project view stays stable if the object is later edited.
type ProjectQualificationObject struct {
	BaseModel
	ProjectID             uuid.UUID `gorm:"type:uuid;column:project_id;not null;index" json:"projectId"`
	QualificationObjectID uuid.UUID `gorm:"type:uuid;column:qualification_object_id;not null" json:"qualificationObjectId"`
	ObjectName            string    `gorm:"type:varchar(255);column:object_name" json:"objectName"`
	ObjectType            string    `gorm:"type:varchar(50);column:object_type" json:"objectType"`
}

func (o *ProjectQualificationObject) TableName() string {
	return "project_qualification_objects"
}

// CreateProjectDTO is the request body for creating a project.
type CreateProjectDTO struct {
	Name                   string                     `json:"name"`
	Description            string                     `json:"description,omitempty"`
	ContractorID           string                     `json:"contractorId"`
	QualificationObjectIDs []string                   `json:"qualificationObjectIds"`
	StageAssignments       []UpsertStageAssignmentDTO `json:"stageAssignments,omitempty"`
}

// UpdateProjectDTO is the request body for updating project fields. Status is
// deliberately absent: it only moves through the transition service.
type UpdateProjectDTO struct {
	Name           *string    `json:"name,omitempty"`
	Description    *string    `json:"description,omitempty"`
	ContractNumber *string    `json:"contractNumber,omitempty"`
	ContractDate   *time.Time `json:"contractDate,omitempty"`
}

// UpsertStageAssignmentDTO is the request body for assigning a user and notes
// to a stage of a project.
type UpsertStageAssignmentDTO struct {
	Stage          Stage   `json:"stage"`
	AssignedUserID *string `json:"assignedUserId,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// StageStatusDTO reports the derived gate status of a single stage.
type StageStatusDTO struct {
	Stage           Stage       `json:"stage"`
	Title           string      `json:"title"`
	ResponsibleRole string      `json:"responsibleRole"`
	Duration        string      `json:"duration"`
	Status          StageStatus `json:"status"`
	AssignedUserID  *uuid.UUID  `json:"assignedUserId,omitempty"`
	CompletedAt     *time.Time  `json:"completedAt,omitempty"`
}
