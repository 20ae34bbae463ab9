// Package scenario adapts the base model to one named uncertainty scenario.
// Multipliers express uncertainty about achieved performance, not a change in
// strategic priority, so the allocation model passes through untouched and
// the multipliers are only threaded forward for the forecast stage.
package scenario

import (
	"github.com/mediamix/mixplan/internal/config"
	"github.com/mediamix/mixplan/internal/model"
	"github.com/mediamix/mixplan/pkg/constants"
)

// Adapted is one scenario's solvable instance: the shared base model plus the
// scenario's forecast multipliers. The objective coefficients are identical
// across scenarios.
type Adapted struct {
	*model.Model

	Name                 string
	GlobalMultiplier     float64
	ObjectiveMultipliers map[string]float64
}

// Adapt produces the scenario instance for one scenario.
func Adapt(base *model.Model, sc config.Scenario) Adapted {
	global := sc.Multiplier
	if global <= 0 {
		global = 1
	}
	var overrides map[string]float64
	if len(sc.ObjectiveMultipliers) > 0 {
		overrides = make(map[string]float64, len(sc.ObjectiveMultipliers))
		for obj, m := range sc.ObjectiveMultipliers {
			if m > 0 {
				overrides[obj] = m
			}
		}
	}
	return Adapted{
		Model:                base,
		Name:                 sc.Name,
		GlobalMultiplier:     global,
		ObjectiveMultipliers: overrides,
	}
}

// Multiplier resolves the forecast multiplier for one objective: the
// per-objective override when present, otherwise the scenario's global
// multiplier.
func (a Adapted) Multiplier(objectiveID string) float64 {
	if m, ok := a.ObjectiveMultipliers[objectiveID]; ok {
		return m
	}
	return a.GlobalMultiplier
}

// Defaults returns the conservative/base/optimistic scenario set used when a
// configuration declares no scenarios.
func Defaults() []config.Scenario {
	return []config.Scenario{
		{Name: constants.ScenarioConservative, Multiplier: constants.ConservativeMultiplier},
		{Name: constants.ScenarioBase, Multiplier: constants.BaseMultiplier},
		{Name: constants.ScenarioOptimistic, Multiplier: constants.OptimisticMultiplier},
	}
}

// Normalize returns the scenario list to evaluate: the configured scenarios
// with a base scenario appended when missing, or the default set when none
// are configured.
func Normalize(scenarios []config.Scenario) []config.Scenario {
	if len(scenarios) == 0 {
		return Defaults()
	}
	for _, sc := range scenarios {
		if sc.Name == constants.ScenarioBase {
			return scenarios
		}
	}
	out := make([]config.Scenario, 0, len(scenarios)+1)
	out = append(out, scenarios...)
	out = append(out, config.Scenario{Name: constants.ScenarioBase, Multiplier: constants.BaseMultiplier})
	return out
}
