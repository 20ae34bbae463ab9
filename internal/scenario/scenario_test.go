package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamix/mixplan/internal/config"
	"github.com/mediamix/mixplan/internal/model"
)

func baseModel() *model.Model {
	return &model.Model{
		Vars:   []model.Variable{{Platform: "a", Objective: "lg"}},
		Coeffs: []float64{2},
		Budget: 1000,
	}
}

func TestAdaptLeavesAllocationModelUntouched(t *testing.T) {
	m := baseModel()
	adapted := Adapt(m, config.Scenario{Name: "conservative", Multiplier: 0.85})

	assert.Same(t, m, adapted.Model, "the base model is shared, never copied or rescaled")
	assert.Equal(t, []float64{2}, adapted.Coeffs, "coefficients are not rescaled by the multiplier")
	assert.Equal(t, "conservative", adapted.Name)
}

func TestMultiplierResolution(t *testing.T) {
	tests := []struct {
		name      string
		sc        config.Scenario
		objective string
		expected  float64
	}{
		{
			name:      "global multiplier",
			sc:        config.Scenario{Name: "conservative", Multiplier: 0.85},
			objective: "lg",
			expected:  0.85,
		},
		{
			name: "per-objective override wins",
			sc: config.Scenario{
				Name:                 "optimistic",
				Multiplier:           1.15,
				ObjectiveMultipliers: map[string]float64{"lg": 1.25},
			},
			objective: "lg",
			expected:  1.25,
		},
		{
			name: "other objectives keep the global multiplier",
			sc: config.Scenario{
				Name:                 "optimistic",
				Multiplier:           1.15,
				ObjectiveMultipliers: map[string]float64{"lg": 1.25},
			},
			objective: "aw",
			expected:  1.15,
		},
		{
			name:      "missing multiplier defaults to one",
			sc:        config.Scenario{Name: "odd"},
			objective: "lg",
			expected:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapted := Adapt(baseModel(), tt.sc)
			assert.Equal(t, tt.expected, adapted.Multiplier(tt.objective))
		})
	}
}

func TestNormalizeEmptyUsesDefaults(t *testing.T) {
	scenarios := Normalize(nil)
	require.Len(t, scenarios, 3)
	assert.Equal(t, "conservative", scenarios[0].Name)
	assert.Equal(t, 0.85, scenarios[0].Multiplier)
	assert.Equal(t, "base", scenarios[1].Name)
	assert.Equal(t, 1.0, scenarios[1].Multiplier)
	assert.Equal(t, "optimistic", scenarios[2].Name)
	assert.Equal(t, 1.15, scenarios[2].Multiplier)
}

func TestNormalizeAppendsMissingBase(t *testing.T) {
	scenarios := Normalize([]config.Scenario{{Name: "stretch", Multiplier: 1.4}})
	require.Len(t, scenarios, 2)
	assert.Equal(t, "stretch", scenarios[0].Name)
	assert.Equal(t, "base", scenarios[1].Name)
	assert.Equal(t, 1.0, scenarios[1].Multiplier)
}

func TestNormalizeKeepsExistingBase(t *testing.T) {
	in := []config.Scenario{{Name: "base", Multiplier: 1.0}}
	assert.Equal(t, in, Normalize(in))
}
