// Package testutil provides canned configurations for tests.
package testutil

import "github.com/mediamix/mixplan/internal/config"

// TwoPlatformLeadsConfiguration is the smallest interesting run: two
// platforms competing for one objective, platform A twice as productive as
// platform B.
func TwoPlatformLeadsConfiguration() *config.Configuration {
	return &config.Configuration{
		Budget: 10000,
		Platforms: []config.Platform{
			{ID: "a", Name: "Platform A"},
			{ID: "b", Name: "Platform B"},
		},
		Objectives: []config.Objective{
			{ID: "lg", Name: "Lead Generation", Category: config.CategoryLeads},
		},
		Weights: config.Weights{
			PlatformObjective: map[string]map[string]float64{
				"a": {"lg": 1},
				"b": {"lg": 1},
			},
		},
		Ratios: []config.KPIRatio{
			{Platform: "a", Objective: "lg", KPI: "A_LG_LEADS", PerUnit: 2},
			{Platform: "b", Objective: "lg", KPI: "B_LG_LEADS", PerUnit: 1},
		},
		Scenarios: []config.Scenario{
			{Name: "base", Multiplier: 1.0},
		},
	}
}

// BaselineConfiguration is a fuller run: the four catalog platforms, two
// objectives, history-derived ratios, minimum-spend policy, and the default
// three-scenario spread.
func BaselineConfiguration() *config.Configuration {
	return &config.Configuration{
		Budget: 50000,
		Platforms: []config.Platform{
			{ID: "fb", Name: "Facebook"},
			{ID: "ig", Name: "Instagram"},
			{ID: "li", Name: "LinkedIn"},
			{ID: "yt", Name: "YouTube"},
		},
		Objectives: []config.Objective{
			{ID: "aw", Name: "Awareness", Category: config.CategoryAwareness},
			{ID: "lg", Name: "Lead Generation", Category: config.CategoryLeads},
		},
		Weights: config.Weights{
			Objective: map[string]float64{"aw": 1, "lg": 2},
			PlatformObjective: map[string]map[string]float64{
				"fb": {"aw": 2, "lg": 1},
				"ig": {"aw": 3, "lg": 1},
				"li": {"aw": 1, "lg": 3},
				"yt": {"aw": 4, "lg": 0},
			},
		},
		History: []config.HistoricalRecord{
			{Platform: "fb", Objective: "aw", KPI: "FB_AW_REACH", TimeWindow: "Q4 2025", Spend: 5000, Value: 400000},
			{Platform: "fb", Objective: "aw", KPI: "FB_AW_IMPRESSION", TimeWindow: "Q4 2025", Spend: 5000, Value: 900000},
			{Platform: "fb", Objective: "lg", KPI: "FB_LG_LEADS", TimeWindow: "Q4 2025", Spend: 5000, Value: 650},
			{Platform: "ig", Objective: "aw", KPI: "IG_AW_REACH", TimeWindow: "Q4 2025", Spend: 4000, Value: 500000},
			{Platform: "ig", Objective: "lg", KPI: "IG_LG_LEADS", TimeWindow: "Q4 2025", Spend: 4000, Value: 380},
			{Platform: "li", Objective: "aw", KPI: "LI_AW_REACH", TimeWindow: "Q4 2025", Spend: 3000, Value: 90000},
			{Platform: "li", Objective: "lg", KPI: "LI_LG_LEADS", TimeWindow: "Q4 2025", Spend: 3000, Value: 510},
			{Platform: "yt", Objective: "aw", KPI: "YT_AW_VIEWS", TimeWindow: "Q4 2025", Spend: 2000, Value: 260000},
		},
		Constraints: config.Constraints{
			PlatformMin:  map[string]float64{"yt": 2500},
			ObjectiveMin: map[string]float64{"aw": 10000},
		},
		Scenarios: []config.Scenario{
			{Name: "conservative", Multiplier: 0.85},
			{Name: "base", Multiplier: 1.0},
			{Name: "optimistic", Multiplier: 1.15, ObjectiveMultipliers: map[string]float64{"lg": 1.25}},
		},
	}
}
