package model

// Stage identifies a phase in a project's lifecycle. The set of stages is
// closed: a project's status column only ever holds one of the constants
// below, and the stage catalog defines their order and dependencies.
type Stage string

const (
	StageContractNegotiation Stage = "contract_negotiation"
	StageProtocolPreparation Stage = "protocol_preparation"
	StageTestingExecution    Stage = "testing_execution"
	StageReportPreparation   Stage = "report_preparation"
	StageReportApproval      Stage = "report_approval"
	StageReportPrinting      Stage = "report_printing"
	StageCompleted           Stage = "completed"
)

func (s Stage) String() string {
	return string(s)
}

// StageStatus is the derived display/operational status of a stage for a
// given project, computed by the gate evaluator. It is never persisted.
type StageStatus string

const (
	// StageStatusCompleted means the stage's assignment carries a completion timestamp.
	StageStatusCompleted StageStatus = "COMPLETED"
	// StageStatusActive means the stage equals the project's current status.
	StageStatusActive StageStatus = "ACTIVE"
	// StageStatusPending means every stage in the predecessor chain is completed
	// but the stage itself has not started.
	StageStatusPending StageStatus = "PENDING"
	// StageStatusBlocked means at least one predecessor is incomplete.
	StageStatusBlocked StageStatus = "BLOCKED"
)
