// Package stage holds the compiled-in stage catalog and the pure gate
// evaluation logic for project lifecycles. Nothing in this package touches
// the database.
package stage

import (
	"github.com/qualiflow/qualiflow/internal/project/model"
)

// Definition describes a single stage of the qualification lifecycle.
type Definition struct {
	Stage           model.Stage `json:"stage"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	ResponsibleRole string      `json:"responsibleRole"`
	Duration        string      `json:"duration"`
	// DependsOn is the stage's single predecessor, or empty for the first
	// stage. The catalog is a chain: every stage depends on the stage
	// immediately before it in catalog order.
	DependsOn model.Stage `json:"dependsOn,omitempty"`
}

// catalog is the canonical ordered list of stages. Order matters: the
// transition service advances a project's status one entry at a time.
var catalog = []Definition{
	{
		Stage:           model.StageContractNegotiation,
		Title:           "Contract negotiation",
		Description:     "Agree on the scope of work and prepare the commercial offer",
		ResponsibleRole: "Manager",
		Duration:        "3 days",
	},
	{
		Stage:           model.StageProtocolPreparation,
		Title:           "Protocol preparation",
		Description:     "Prepare the testing protocol and the measurement methodology",
		ResponsibleRole: "Specialist",
		Duration:        "1 day",
		DependsOn:       model.StageContractNegotiation,
	},
	{
		Stage:           model.StageTestingExecution,
		Title:           "Testing execution",
		Description:     "Perform measurements and collect logger data",
		ResponsibleRole: "Specialist",
		Duration:        "5-10 days",
		DependsOn:       model.StageProtocolPreparation,
	},
	{
		Stage:           model.StageReportPreparation,
		Title:           "Report preparation",
		Description:     "Analyze the collected data and assemble the report",
		ResponsibleRole: "Specialist",
		Duration:        "2 days",
		DependsOn:       model.StageTestingExecution,
	},
	{
		Stage:           model.StageReportApproval,
		Title:           "Report approval",
		Description:     "Review and sign-off of the report by the director",
		ResponsibleRole: "Director",
		Duration:        "1 day",
		DependsOn:       model.StageReportPreparation,
	},
	{
		Stage:           model.StageReportPrinting,
		Title:           "Report printing",
		Description:     "Prepare the final version and print the report",
		ResponsibleRole: "Specialist",
		Duration:        "1 day",
		DependsOn:       model.StageReportApproval,
	},
	{
		Stage:           model.StageCompleted,
		Title:           "Completed",
		Description:     "The project is fully finished",
		ResponsibleRole: "All",
		Duration:        "-",
		DependsOn:       model.StageReportPrinting,
	},
}

var byStage = func() map[model.Stage]Definition {
	m := make(map[model.Stage]Definition, len(catalog))
	for _, d := range catalog {
		m[d.Stage] = d
	}
	return m
}()

// Definitions returns the catalog in lifecycle order.
func Definitions() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for the given stage.
func Lookup(s model.Stage) (Definition, bool) {
	d, ok := byStage[s]
	return d, ok
}

// IsValid reports whether s is a stage the catalog knows about.
func IsValid(s model.Stage) bool {
	_, ok := byStage[s]
	return ok
}

// DependencyOf returns the stage's predecessor and whether one exists.
func DependencyOf(s model.Stage) (model.Stage, bool) {
	d, ok := byStage[s]
	if !ok || d.DependsOn == "" {
		return "", false
	}
	return d.DependsOn, true
}

// SuccessorOf returns the stage following s in catalog order, or false when
// s is the terminal stage (or unknown).
func SuccessorOf(s model.Stage) (model.Stage, bool) {
	for i, d := range catalog {
		if d.Stage == s {
			if i+1 < len(catalog) {
				return catalog[i+1].Stage, true
			}
			return "", false
		}
	}
	return "", false
}

// First returns the initial stage every new project starts in.
func First() model.Stage {
	return catalog[0].Stage
}

// Terminal returns the final stage of the lifecycle.
func Terminal() model.Stage {
	return catalog[len(catalog)-1].Stage
}
