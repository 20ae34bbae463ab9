// Package forecast maps a solved allocation back through the KPI ratios to
// predicted KPI outcomes per platform, objective, and KPI.
package forecast

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mediamix/mixplan/internal/config"
	"github.com/mediamix/mixplan/internal/scenario"
	"github.com/mediamix/mixplan/internal/solver"
)

// Row is one predicted KPI outcome. Predicted = Allocated x Ratio x
// Multiplier; a pure linear function of the allocation.
type Row struct {
	Platform   string  `json:"platform"`
	Objective  string  `json:"objective"`
	KPI        string  `json:"kpi"`
	Label      string  `json:"label"`
	Ratio      float64 `json:"ratio"`
	Allocated  float64 `json:"allocated"`
	Multiplier float64 `json:"multiplier"`
	Predicted  float64 `json:"predicted"`
}

// Result holds one scenario's KPI forecast. Pairs without a KPI ratio have no
// rows at all: "no expected output" and "unknown" stay distinguishable.
type Result struct {
	Scenario string `json:"scenario"`
	Rows     []Row  `json:"rows"`

	// PlatformTotals aggregates predicted values per platform per KPI.
	PlatformTotals map[string]map[string]float64 `json:"platformTotals"`

	// KPITotals aggregates predicted values per KPI across platforms.
	KPITotals map[string]float64 `json:"kpiTotals"`
}

// Engine computes forecasts. Safe for concurrent use; it holds only a logger.
type Engine struct {
	logger *zap.Logger
}

// NewEngine constructs a forecast Engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Forecast produces the KPI predictions for one feasible allocation. For each
// decision variable and each KPI with a known positive ratio, the predicted
// value is allocation x ratio x the scenario's multiplier for the pair's
// objective. A zero allocation forecasts zero for every KPI tied to the pair;
// a missing ratio produces no row.
func (e *Engine) Forecast(alloc *solver.AllocationResult, adapted scenario.Adapted) (*Result, error) {
	if !alloc.Feasible {
		return nil, fmt.Errorf("scenario %s: cannot forecast an infeasible allocation", alloc.Scenario)
	}

	result := &Result{
		Scenario:       alloc.Scenario,
		PlatformTotals: make(map[string]map[string]float64),
		KPITotals:      make(map[string]float64),
	}

	for _, v := range alloc.Vars {
		ratios := adapted.KPIRatios[v]
		if len(ratios) == 0 {
			continue
		}
		allocated := alloc.Amounts[v]
		multiplier := adapted.Multiplier(v.Objective)

		kpis := make([]string, 0, len(ratios))
		for kpi := range ratios {
			kpis = append(kpis, kpi)
		}
		sort.Strings(kpis)

		for _, kpi := range kpis {
			ratio := ratios[kpi]
			predicted := allocated * ratio * multiplier
			result.Rows = append(result.Rows, Row{
				Platform:   v.Platform,
				Objective:  v.Objective,
				KPI:        kpi,
				Label:      config.KPILabel(kpi),
				Ratio:      ratio,
				Allocated:  allocated,
				Multiplier: multiplier,
				Predicted:  predicted,
			})

			if result.PlatformTotals[v.Platform] == nil {
				result.PlatformTotals[v.Platform] = make(map[string]float64)
			}
			result.PlatformTotals[v.Platform][kpi] += predicted
			result.KPITotals[kpi] += predicted
		}
	}

	e.logger.Debug("forecast computed",
		zap.String("op", "forecast.Forecast"),
		zap.String("scenario", alloc.Scenario),
		zap.Int("rows", len(result.Rows)),
	)

	return result, nil
}
