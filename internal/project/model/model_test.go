package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStageAssignmentIsCompleted(t *testing.T) {
	now := time.Now().UTC()

	var nilAssignment *StageAssignment
	assert.False(t, nilAssignment.IsCompleted(), "nil receiver is safe and not completed")

	open := &StageAssignment{Stage: StageTestingExecution, AssignedAt: now}
	assert.False(t, open.IsCompleted())

	done := &StageAssignment{Stage: StageTestingExecution, AssignedAt: now, CompletedAt: &now}
	assert.True(t, done.IsCompleted())
}

func TestProjectAssignmentFor(t *testing.T) {
	projectID := uuid.New()
	project := Project{
		BaseModel: BaseModel{ID: projectID},
		StageAssignments: []StageAssignment{
			{ProjectID: projectID, Stage: StageContractNegotiation},
			{ProjectID: projectID, Stage: StageProtocolPreparation},
		},
	}

	found := project.AssignmentFor(StageProtocolPreparation)
	assert.NotNil(t, found)
	assert.Equal(t, StageProtocolPreparation, found.Stage)

	assert.Nil(t, project.AssignmentFor(StageReportApproval))
}

func TestIsValidDocumentType(t *testing.T) {
	for _, known := range KnownDocumentTypes {
		assert.True(t, IsValidDocumentType(known))
	}
	assert.False(t, IsValidDocumentType(DocumentType("invoice")))
	assert.False(t, IsValidDocumentType(DocumentType("")))
}
