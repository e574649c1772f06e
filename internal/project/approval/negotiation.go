// Package approval implements the document approval gate used during the
// contract negotiation stage. The state is an explicit serializable value so
// the gating rules can be exercised without any HTTP or storage machinery.
package approval

import (
	"time"

	"github.com/google/uuid"

	"github.com/qualiflow/qualiflow/internal/project/model"
)

// NegotiationState tracks which documents of a project have been approved
// and by whom. The zero value is not usable; construct via NewNegotiationState.
type NegotiationState struct {
	ProjectID uuid.UUID                          `json:"projectId"`
	Approved  map[uuid.UUID]model.ApprovalRecord `json:"approved"`
}

// NewNegotiationState returns an empty negotiation state for a project.
func NewNegotiationState(projectID uuid.UUID) *NegotiationState {
	return &NegotiationState{
		ProjectID: projectID,
		Approved:  make(map[uuid.UUID]model.ApprovalRecord),
	}
}

// Approve marks a document as approved. Approving an already-approved
// document is a no-op that keeps the original record.
func (s *NegotiationState) Approve(documentID, userID uuid.UUID, role string) {
	if _, ok := s.Approved[documentID]; ok {
		return
	}
	s.Approved[documentID] = model.ApprovalRecord{
		ApprovedAt: time.Now().UTC(),
		ApprovedBy: userID,
		Role:       role,
	}
}

// Unapprove clears a document's approval. Unapproving a document that was
// never approved is a no-op.
func (s *NegotiationState) Unapprove(documentID uuid.UUID) {
	delete(s.Approved, documentID)
}

// ApprovedIDs returns the set of approved document IDs.
func (s *NegotiationState) ApprovedIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(s.Approved))
	for id := range s.Approved {
		ids[id] = struct{}{}
	}
	return ids
}

// IsFullyApproved reports whether every existing document is approved, i.e.
// existing is a subset of approved. A project with no documents uploaded is
// vacuously fully approved; it is the caller's UI that keeps prompting for
// uploads in that case.
func IsFullyApproved(existing []uuid.UUID, approved map[uuid.UUID]struct{}) bool {
	for _, id := range existing {
		if _, ok := approved[id]; !ok {
			return false
		}
	}
	return true
}
