// Package model builds the normalized optimization model: decision variables,
// objective coefficients, and constraint bounds. The result is scenario
// independent and computed once per run.
package model

import (
	"github.com/mediamix/mixplan/internal/config"
)

// Variable identifies one decision variable: the budget allocated to a
// platform/objective pair.
type Variable struct {
	Platform  string
	Objective string
}

// Model is the normalized allocation model. It is immutable after Build and
// shared read-only across scenario evaluations.
type Model struct {
	// Vars is the ordered set of decision variables; the order is
	// deterministic (platforms then objectives in configured order) and
	// identical across scenarios.
	Vars []Variable

	// Coeffs holds the objective coefficient per variable, aligned with Vars:
	// normalized objective weight x normalized platform weight x aggregate
	// KPI ratio.
	Coeffs []float64

	Budget       float64
	PlatformMin  map[string]float64
	ObjectiveMin map[string]float64

	// PairRatio is the aggregate units-per-budget-unit ratio per pair used in
	// the objective function.
	PairRatio map[Variable]float64

	// KPIRatios keeps the per-KPI ratios per pair for the forecast stage.
	// Absent entries mean no forecast is available for that KPI.
	KPIRatios map[Variable]map[string]float64

	// ObjectiveWeight and CombinedWeight are the normalized weights, kept for
	// reporting and interpretation.
	ObjectiveWeight map[string]float64
	CombinedWeight  map[Variable]float64
}

// Build validates the configuration and converts it into a normalized model.
// Pure transformation: the configuration is not mutated and no solving
// happens here. Infeasible-by-construction inputs (e.g. minimums exceeding
// the budget) are rejected as *config.FieldError before any solver runs.
func Build(conf *config.Configuration) (*Model, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	ratios := conf.DeriveRatios()
	objWeights := normalizedObjectiveWeights(conf)
	platWeights := normalizedPlatformWeights(conf)

	m := &Model{
		Budget:          conf.Budget,
		PlatformMin:     make(map[string]float64),
		ObjectiveMin:    make(map[string]float64),
		PairRatio:       make(map[Variable]float64),
		KPIRatios:       make(map[Variable]map[string]float64),
		ObjectiveWeight: objWeights,
		CombinedWeight:  make(map[Variable]float64),
	}

	for _, p := range conf.Platforms {
		for _, o := range conf.Objectives {
			v := Variable{Platform: p.ID, Objective: o.ID}
			ratio := aggregateRatio(ratios[p.ID][o.ID], conf.Weights.KPI[o.ID])
			combined := objWeights[o.ID] * platWeights[p.ID][o.ID]

			m.Vars = append(m.Vars, v)
			m.Coeffs = append(m.Coeffs, combined*ratio)
			m.PairRatio[v] = ratio
			m.CombinedWeight[v] = combined
			if kpis := ratios[p.ID][o.ID]; len(kpis) > 0 {
				pairKPIs := make(map[string]float64, len(kpis))
				for kpi, r := range kpis {
					pairKPIs[kpi] = r
				}
				m.KPIRatios[v] = pairKPIs
			}
		}
	}

	// Only strictly positive minimums become constraint rows.
	for platform, min := range conf.Constraints.PlatformMin {
		if min > 0 {
			m.PlatformMin[platform] = min
		}
	}
	for obj, min := range conf.Constraints.ObjectiveMin {
		if min > 0 {
			m.ObjectiveMin[obj] = min
		}
	}

	return m, nil
}

// normalizedObjectiveWeights scales the system-level objective weights to sum
// to one, falling back to uniform weights when none are configured.
func normalizedObjectiveWeights(conf *config.Configuration) map[string]float64 {
	weights := make(map[string]float64, len(conf.Objectives))
	var total float64
	for _, o := range conf.Objectives {
		w := conf.Weights.Objective[o.ID]
		if w < 0 {
			w = 0
		}
		weights[o.ID] = w
		total += w
	}
	if total > 0 {
		for id, w := range weights {
			weights[id] = w / total
		}
		return weights
	}
	uniform := 1.0 / float64(len(conf.Objectives))
	for _, o := range conf.Objectives {
		weights[o.ID] = uniform
	}
	return weights
}

// normalizedPlatformWeights scales each platform's objective emphasis to sum
// to one per platform. An all-zero row stays zero: the platform contributes
// nothing to the objective function but remains spend-eligible.
func normalizedPlatformWeights(conf *config.Configuration) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(conf.Platforms))
	for _, p := range conf.Platforms {
		row := make(map[string]float64, len(conf.Objectives))
		var total float64
		for _, o := range conf.Objectives {
			w := conf.Weights.PlatformObjective[p.ID][o.ID]
			if w < 0 {
				w = 0
			}
			row[o.ID] = w
			total += w
		}
		if total > 0 {
			for id, w := range row {
				row[id] = w / total
			}
		}
		out[p.ID] = row
	}
	return out
}

// aggregateRatio combines a pair's KPI ratios into a single productivity
// figure: a weighted mean using objective-level KPI weights, equal weights by
// default. With no positive ratios the pair keeps coefficient zero.
func aggregateRatio(kpis map[string]float64, kpiWeights map[string]float64) float64 {
	if len(kpis) == 0 {
		return 0
	}
	var weighted, total float64
	for kpi, ratio := range kpis {
		w := 1.0
		if kpiWeights != nil {
			if cw, ok := kpiWeights[kpi]; ok {
				w = cw
			}
		}
		if w <= 0 {
			continue
		}
		weighted += w * ratio
		total += w
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}
