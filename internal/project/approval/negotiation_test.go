package approval

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsFullyApproved(t *testing.T) {
	docA := uuid.New()
	docB := uuid.New()

	t.Run("No Documents Is Vacuously Approved", func(t *testing.T) {
		assert.True(t, IsFullyApproved(nil, nil))
		assert.True(t, IsFullyApproved([]uuid.UUID{}, map[uuid.UUID]struct{}{}))
	})

	t.Run("All Documents Approved", func(t *testing.T) {
		approved := map[uuid.UUID]struct{}{docA: {}, docB: {}}
		assert.True(t, IsFullyApproved([]uuid.UUID{docA, docB}, approved))
	})

	t.Run("One Document Missing", func(t *testing.T) {
		approved := map[uuid.UUID]struct{}{docA: {}}
		assert.False(t, IsFullyApproved([]uuid.UUID{docA, docB}, approved))
	})

	t.Run("Extra Approvals Do Not Matter", func(t *testing.T) {
		// An approval for a document that no longer exists must not
		// block the gate.
		approved := map[uuid.UUID]struct{}{docA: {}, docB: {}, uuid.New(): {}}
		assert.True(t, IsFullyApproved([]uuid.UUID{docA}, approved))
	})
}

func TestNegotiationStateApprove(t *testing.T) {
	state := NewNegotiationState(uuid.New())
	docID := uuid.New()
	userID := uuid.New()

	state.Approve(docID, userID, "director")

	record, ok := state.Approved[docID]
	assert.True(t, ok)
	assert.Equal(t, userID, record.ApprovedBy)
	assert.Equal(t, "director", record.Role)
	assert.False(t, record.ApprovedAt.IsZero())
}

func TestNegotiationStateApproveIsIdempotent(t *testing.T) {
	state := NewNegotiationState(uuid.New())
	docID := uuid.New()
	firstUser := uuid.New()

	state.Approve(docID, firstUser, "manager")
	original := state.Approved[docID]

	time.Sleep(time.Millisecond)
	state.Approve(docID, uuid.New(), "director")

	assert.Equal(t, original, state.Approved[docID],
		"re-approval must keep the original record")
	assert.Len(t, state.Approved, 1)
}

func TestNegotiationStateUnapprove(t *testing.T) {
	state := NewNegotiationState(uuid.New())
	docID := uuid.New()

	state.Approve(docID, uuid.New(), "manager")
	state.Unapprove(docID)
	assert.Empty(t, state.Approved)

	// Unapproving an unknown document is a no-op.
	state.Unapprove(uuid.New())
	assert.Empty(t, state.Approved)
}

func TestApprovedIDs(t *testing.T) {
	state := NewNegotiationState(uuid.New())
	docA := uuid.New()
	docB := uuid.New()

	state.Approve(docA, uuid.New(), "manager")
	state.Approve(docB, uuid.New(), "director")

	ids := state.ApprovedIDs()
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, docA)
	assert.Contains(t, ids, docB)
	assert.True(t, IsFullyApproved([]uuid.UUID{docA, docB}, ids))
}
