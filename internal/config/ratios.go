package config

import "github.com/mediamix/mixplan/pkg/mathutil"

// RatioTable maps platform -> objective -> KPI variable -> units per budget
// unit. Only positive, finite ratios appear; the absence of an entry is the
// explicit missing-data marker the forecast layer relies on.
type RatioTable map[string]map[string]map[string]float64

// DeriveRatios merges history-derived ratios with explicitly configured
// ratios. Explicit ratios win for the same triple. Records with zero spend or
// a non-positive result are omitted rather than stored as zero so that
// "no expected output" stays distinguishable from "unknown".
func (c *Configuration) DeriveRatios() RatioTable {
	table := make(RatioTable)

	set := func(platform, objective, kpi string, perUnit float64) {
		if !mathutil.IsFinite(perUnit) || perUnit <= 0 {
			return
		}
		if !c.HasPlatform(platform) || !c.HasObjective(objective) {
			return
		}
		if table[platform] == nil {
			table[platform] = make(map[string]map[string]float64)
		}
		if table[platform][objective] == nil {
			table[platform][objective] = make(map[string]float64)
		}
		table[platform][objective][kpi] = perUnit
	}

	for _, rec := range c.History {
		if rec.Spend <= 0 {
			continue
		}
		set(rec.Platform, rec.Objective, rec.KPI, rec.Value/rec.Spend)
	}

	// Explicit ratios override derived ones.
	for _, ratio := range c.Ratios {
		set(ratio.Platform, ratio.Objective, ratio.KPI, ratio.PerUnit)
	}

	return table
}
