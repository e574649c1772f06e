package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qualiflow/qualiflow/internal/project/model"
)

func TestCatalogOrder(t *testing.T) {
	defs := Definitions()
	expected := []model.Stage{
		model.StageContractNegotiation,
		model.StageProtocolPreparation,
		model.StageTestingExecution,
		model.StageReportPreparation,
		model.StageReportApproval,
		model.StageReportPrinting,
		model.StageCompleted,
	}

	assert.Len(t, defs, len(expected))
	for i, d := range defs {
		assert.Equal(t, expected[i], d.Stage)
	}
}

func TestCatalogIsChain(t *testing.T) {
	defs := Definitions()

	assert.Empty(t, defs[0].DependsOn, "first stage has no predecessor")
	for i := 1; i < len(defs); i++ {
		assert.Equal(t, defs[i-1].Stage, defs[i].DependsOn,
			"stage %s must depend on the stage before it", defs[i].Stage)
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(model.StageTestingExecution)
	assert.True(t, ok)
	assert.Equal(t, model.StageTestingExecution, d.Stage)
	assert.NotEmpty(t, d.Title)
	assert.NotEmpty(t, d.ResponsibleRole)

	_, ok = Lookup(model.Stage("shipping"))
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	for _, d := range Definitions() {
		assert.True(t, IsValid(d.Stage))
	}
	assert.False(t, IsValid(model.Stage("")))
	assert.False(t, IsValid(model.Stage("unknown_stage")))
}

func TestSuccessorOf(t *testing.T) {
	next, ok := SuccessorOf(model.StageContractNegotiation)
	assert.True(t, ok)
	assert.Equal(t, model.StageProtocolPreparation, next)

	next, ok = SuccessorOf(model.StageReportPrinting)
	assert.True(t, ok)
	assert.Equal(t, model.StageCompleted, next)

	_, ok = SuccessorOf(model.StageCompleted)
	assert.False(t, ok, "terminal stage has no successor")

	_, ok = SuccessorOf(model.Stage("unknown_stage"))
	assert.False(t, ok)
}

func TestDependencyOf(t *testing.T) {
	_, ok := DependencyOf(model.StageContractNegotiation)
	assert.False(t, ok, "first stage has no predecessor")

	dep, ok := DependencyOf(model.StageCompleted)
	assert.True(t, ok)
	assert.Equal(t, model.StageReportPrinting, dep)
}

func TestFirstAndTerminal(t *testing.T) {
	assert.Equal(t, model.StageContractNegotiation, First())
	assert.Equal(t, model.StageCompleted, Terminal())
}
