package service

import "errors"

var (
	// ErrProjectNotFound is returned when a project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrDocumentNotFound is returned when a project document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUnknownStage is returned when a stage identifier is not in the catalog.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrDocumentsNotApproved is the precondition failure raised when a
	// project is advanced out of contract negotiation while at least one of
	// its documents is still unapproved.
	ErrDocumentsNotApproved = errors.New("not all negotiation documents are approved")

	// ErrConcurrentUpdate is returned when the optimistic status check fails,
	// i.e. another request advanced the project between our read and write.
	ErrConcurrentUpdate = errors.New("project status changed concurrently")

	// ErrAssignmentNotFound is returned when an equipment assignment row
	// does not exist.
	ErrAssignmentNotFound = errors.New("equipment assignment not found")

	// ErrTestingPeriodNotFound is returned when a testing period does not exist.
	ErrTestingPeriodNotFound = errors.New("testing period not found")
)
