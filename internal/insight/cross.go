package insight

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mediamix/mixplan/pkg/constants"
	"github.com/mediamix/mixplan/pkg/mathutil"
)

// ruleAllocationStability measures, per decision variable, how much its
// allocation moves across feasible scenarios. The coefficient of variation
// separates scenario-sensitive variables from robust core allocations.
func ruleAllocationStability(in CrossInput) []Finding {
	feasible := feasibleScenarios(in)
	if len(feasible) < 2 {
		return nil
	}

	var findings []Finding
	for _, v := range feasible[0].Allocation.Vars {
		amounts := make([]float64, len(feasible))
		for i, sc := range feasible {
			amounts[i] = sc.Allocation.Amounts[v]
		}
		mean := stat.Mean(amounts, nil)
		if mean <= 0 {
			continue
		}
		sd := stat.StdDev(amounts, nil)
		cv := sd / mean
		min, max := amounts[0], amounts[0]
		for _, a := range amounts[1:] {
			min = mathutil.Min(min, a)
			max = mathutil.Max(max, a)
		}
		evidence := map[string]float64{
			"mean":   mean,
			"stddev": sd,
			"cv":     cv,
			"min":    min,
			"max":    max,
			"spread": max - min,
		}

		switch {
		case cv > constants.VolatilityCV:
			findings = append(findings, Finding{
				Scenario: CrossScenario,
				Type:     TypeRisk,
				Severity: SeverityWarning,
				Category: CategoryVolatility,
				Message: fmt.Sprintf("Allocation to %s/%s is scenario-sensitive: it ranges from %.2f to %.2f (coefficient of variation %.2f).",
					v.Platform, v.Objective, min, max, cv),
				Evidence: evidence,
			})
		case cv <= constants.RobustCV && mathutil.Share(mean, in.Budget) >= constants.RobustMinShare:
			findings = append(findings, Finding{
				Scenario: CrossScenario,
				Type:     TypeStability,
				Severity: SeverityInfo,
				Category: CategoryCoreAllocation,
				Message: fmt.Sprintf("Allocation to %s/%s is robust across all %d scenarios at %.2f (%.1f%% of budget).",
					v.Platform, v.Objective, len(feasible), mean, mathutil.SharePercent(mean, in.Budget)),
				Evidence: evidence,
			})
		}
	}

	if vol := countCategory(findings, CategoryVolatility); vol > 0 {
		findings = append(findings, Finding{
			Scenario: CrossScenario,
			Type:     TypeRecommendation,
			Severity: SeverityInfo,
			Category: CategoryVolatility,
			Message: fmt.Sprintf("%d allocation(s) shift materially between scenarios; hold that budget flexible rather than committing it up front.",
				vol),
			Evidence: map[string]float64{"sensitiveAllocations": float64(vol)},
		})
	}
	return findings
}

// ruleForecastSpread reports, per KPI, the range of predicted totals across
// feasible scenarios.
func ruleForecastSpread(in CrossInput) []Finding {
	feasible := feasibleScenarios(in)
	if len(feasible) < 2 {
		return nil
	}

	seen := make(map[string]bool)
	var kpis []string
	for _, sc := range feasible {
		if sc.Forecast == nil {
			continue
		}
		for kpi := range sc.Forecast.KPITotals {
			if !seen[kpi] {
				seen[kpi] = true
				kpis = append(kpis, kpi)
			}
		}
	}
	sort.Strings(kpis)

	var findings []Finding
	for _, kpi := range kpis {
		var values []float64
		for _, sc := range feasible {
			if sc.Forecast == nil {
				continue
			}
			if total, ok := sc.Forecast.KPITotals[kpi]; ok {
				values = append(values, total)
			}
		}
		if len(values) < 2 {
			continue
		}
		min, max := values[0], values[0]
		for _, val := range values[1:] {
			min = mathutil.Min(min, val)
			max = mathutil.Max(max, val)
		}
		findings = append(findings, Finding{
			Scenario: CrossScenario,
			Type:     TypeStability,
			Severity: SeverityInfo,
			Category: CategoryForecastSpread,
			Message: fmt.Sprintf("Predicted %s ranges from %.2f to %.2f across %d scenarios.",
				kpi, min, max, len(values)),
			Evidence: map[string]float64{
				"min":    min,
				"max":    max,
				"spread": max - min,
			},
		})
	}
	return findings
}

func feasibleScenarios(in CrossInput) []Input {
	var out []Input
	for _, sc := range in.Scenarios {
		if sc.Allocation != nil && sc.Allocation.Feasible {
			out = append(out, sc)
		}
	}
	return out
}

func countCategory(findings []Finding, category string) int {
	var n int
	for _, f := range findings {
		if f.Category == category && f.Type == TypeRisk {
			n++
		}
	}
	return n
}
