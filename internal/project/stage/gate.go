package stage

import (
	"github.com/qualiflow/qualiflow/internal/project/model"
)

// Status derives the gate status of a stage from the project's current
// status and its stage assignments. It never mutates anything and always
// returns a value; callers are expected to validate the stage against the
// catalog first.
//
//   - COMPLETED when the stage's assignment carries a completion timestamp.
//   - ACTIVE when the stage equals the project's current status.
//   - PENDING when every stage in the predecessor chain is completed.
//   - BLOCKED otherwise.
func Status(s model.Stage, projectStatus model.Stage, assignments []model.StageAssignment) model.StageStatus {
	byStage := make(map[model.Stage]*model.StageAssignment, len(assignments))
	for i := range assignments {
		byStage[assignments[i].Stage] = &assignments[i]
	}

	if byStage[s].IsCompleted() {
		return model.StageStatusCompleted
	}
	if s == projectStatus {
		return model.StageStatusActive
	}
	if chainCompleted(s, byStage) {
		return model.StageStatusPending
	}
	return model.StageStatusBlocked
}

// chainCompleted walks the full predecessor chain rather than assuming a
// single hop, so the evaluation stays correct if the catalog ever gains
// multi-level gaps.
func chainCompleted(s model.Stage, byStage map[model.Stage]*model.StageAssignment) bool {
	dep, ok := DependencyOf(s)
	for ok {
		if !byStage[dep].IsCompleted() {
			return false
		}
		dep, ok = DependencyOf(dep)
	}
	return true
}

// CanActivate reports whether the stage's predecessor chain is fully
// completed, i.e. the stage may become the project's active stage.
func CanActivate(s model.Stage, assignments []model.StageAssignment) bool {
	byStage := make(map[model.Stage]*model.StageAssignment, len(assignments))
	for i := range assignments {
		byStage[assignments[i].Stage] = &assignments[i]
	}
	return chainCompleted(s, byStage)
}
