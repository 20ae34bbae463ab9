package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mediamix/mixplan/internal/config"
	"github.com/mediamix/mixplan/internal/model"
	"github.com/mediamix/mixplan/internal/scenario"
	"github.com/mediamix/mixplan/internal/solver"
)

var (
	varA = model.Variable{Platform: "a", Objective: "lg"}
	varB = model.Variable{Platform: "b", Objective: "lg"}
)

func leadsModel() *model.Model {
	return &model.Model{
		Vars:   []model.Variable{varA, varB},
		Coeffs: []float64{2, 1},
		Budget: 10000,
		KPIRatios: map[model.Variable]map[string]float64{
			varA: {"A_LG_LEADS": 2},
			varB: {"B_LG_LEADS": 1},
		},
	}
}

func solvedAllocation(amountA, amountB float64) *solver.AllocationResult {
	return &solver.AllocationResult{
		Scenario: "base",
		Vars:     []model.Variable{varA, varB},
		Amounts:  map[model.Variable]float64{varA: amountA, varB: amountB},
		Feasible: true,
	}
}

func TestForecastAppliesRatios(t *testing.T) {
	adapted := scenario.Adapt(leadsModel(), config.Scenario{Name: "base", Multiplier: 1})
	engine := NewEngine(zap.NewNop())

	result, err := engine.Forecast(solvedAllocation(10000, 0), adapted)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.InDelta(t, 20000, result.Rows[0].Predicted, 1e-9, "10000 allocated at 2 leads per unit")
	assert.InDelta(t, 0, result.Rows[1].Predicted, 1e-9, "zero allocation forecasts zero, not omission")
	assert.InDelta(t, 20000, result.KPITotals["A_LG_LEADS"], 1e-9)
	assert.InDelta(t, 0, result.KPITotals["B_LG_LEADS"], 1e-9)
}

func TestForecastAppliesScenarioMultiplier(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	alloc := solvedAllocation(7000, 3000)

	conservative, err := engine.Forecast(alloc, scenario.Adapt(leadsModel(), config.Scenario{Name: "conservative", Multiplier: 0.85}))
	require.NoError(t, err)
	optimistic, err := engine.Forecast(alloc, scenario.Adapt(leadsModel(), config.Scenario{Name: "optimistic", Multiplier: 1.15}))
	require.NoError(t, err)

	// Same allocation, different expectations: that is the whole point of
	// forecast-time multipliers.
	assert.InDelta(t, 7000*2*0.85, conservative.KPITotals["A_LG_LEADS"], 1e-9)
	assert.InDelta(t, 7000*2*1.15, optimistic.KPITotals["A_LG_LEADS"], 1e-9)
	assert.InDelta(t, 3000*1*0.85, conservative.KPITotals["B_LG_LEADS"], 1e-9)
}

func TestForecastPerObjectiveOverride(t *testing.T) {
	m := leadsModel()
	m.Vars = append(m.Vars, model.Variable{Platform: "a", Objective: "aw"})
	m.KPIRatios[model.Variable{Platform: "a", Objective: "aw"}] = map[string]float64{"A_AW_REACH": 100}

	alloc := solvedAllocation(5000, 0)
	alloc.Amounts[model.Variable{Platform: "a", Objective: "aw"}] = 2000
	alloc.Vars = m.Vars

	adapted := scenario.Adapt(m, config.Scenario{
		Name:                 "optimistic",
		Multiplier:           1.15,
		ObjectiveMultipliers: map[string]float64{"lg": 1.25},
	})

	result, err := NewEngine(zap.NewNop()).Forecast(alloc, adapted)
	require.NoError(t, err)

	assert.InDelta(t, 5000*2*1.25, result.KPITotals["A_LG_LEADS"], 1e-9, "override applies to its objective")
	assert.InDelta(t, 2000*100*1.15, result.KPITotals["A_AW_REACH"], 1e-9, "other objectives use the global multiplier")
}

func TestForecastOmitsPairsWithoutRatios(t *testing.T) {
	m := leadsModel()
	delete(m.KPIRatios, varB)
	adapted := scenario.Adapt(m, config.Scenario{Name: "base", Multiplier: 1})

	result, err := NewEngine(zap.NewNop()).Forecast(solvedAllocation(7000, 3000), adapted)
	require.NoError(t, err)

	require.Len(t, result.Rows, 1, "pair without a ratio produces no row at all")
	assert.Equal(t, "a", result.Rows[0].Platform)
	assert.NotContains(t, result.KPITotals, "B_LG_LEADS")
	assert.NotContains(t, result.PlatformTotals, "b", "omission, not a zero entry")
}

func TestForecastAggregatesByPlatformAndKPI(t *testing.T) {
	m := leadsModel()
	m.KPIRatios[varA]["A_LG_QUALIFIED"] = 0.5
	adapted := scenario.Adapt(m, config.Scenario{Name: "base", Multiplier: 1})

	result, err := NewEngine(zap.NewNop()).Forecast(solvedAllocation(4000, 6000), adapted)
	require.NoError(t, err)

	require.Len(t, result.Rows, 3)
	// Rows for one pair are ordered by KPI name.
	assert.Equal(t, "A_LG_LEADS", result.Rows[0].KPI)
	assert.Equal(t, "A_LG_QUALIFIED", result.Rows[1].KPI)
	assert.InDelta(t, 8000, result.PlatformTotals["a"]["A_LG_LEADS"], 1e-9)
	assert.InDelta(t, 2000, result.PlatformTotals["a"]["A_LG_QUALIFIED"], 1e-9)
	assert.InDelta(t, 6000, result.PlatformTotals["b"]["B_LG_LEADS"], 1e-9)
}

func TestForecastRejectsInfeasibleAllocation(t *testing.T) {
	adapted := scenario.Adapt(leadsModel(), config.Scenario{Name: "base", Multiplier: 1})
	alloc := &solver.AllocationResult{Scenario: "base", Feasible: false}

	_, err := NewEngine(zap.NewNop()).Forecast(alloc, adapted)
	assert.Error(t, err)
}
