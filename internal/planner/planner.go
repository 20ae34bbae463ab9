// Package planner orchestrates a full optimization run: the base model is
// built once and shared read-only, each scenario's adapt/solve/forecast/
// interpret chain runs independently, and the cross-scenario interpretation
// waits on the join.
package planner

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediamix/mixplan/internal/config"
	"github.com/mediamix/mixplan/internal/forecast"
	"github.com/mediamix/mixplan/internal/insight"
	"github.com/mediamix/mixplan/internal/model"
	"github.com/mediamix/mixplan/internal/scenario"
	"github.com/mediamix/mixplan/internal/solver"
)

// ScenarioOutcome bundles one scenario's results. Forecast is nil when the
// scenario is infeasible.
type ScenarioOutcome struct {
	Name       string                   `json:"name"`
	Allocation *solver.AllocationResult `json:"allocation"`
	Forecast   *forecast.Result         `json:"forecast,omitempty"`
	Findings   []insight.Finding        `json:"findings"`
}

// Plan is the read-only result of one run: everything the reporting and
// export layers need, with no further computation required downstream.
type Plan struct {
	RunID         string            `json:"runId"`
	GeneratedAt   time.Time         `json:"generatedAt"`
	Budget        float64           `json:"budget"`
	Scenarios     []ScenarioOutcome `json:"scenarios"`
	CrossFindings []insight.Finding `json:"crossFindings"`
}

// Scenario returns the outcome for a named scenario, or nil.
func (p *Plan) Scenario(name string) *ScenarioOutcome {
	for i := range p.Scenarios {
		if p.Scenarios[i].Name == name {
			return &p.Scenarios[i]
		}
	}
	return nil
}

// Run executes the pipeline for one configuration. Configuration errors and
// solver failures abort the run; a scenario coming back infeasible does not,
// it is part of the reported outcome.
func Run(logger *zap.Logger, conf *config.Configuration) (*Plan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := model.Build(conf)
	if err != nil {
		return nil, err
	}

	scenarios := scenario.Normalize(conf.Scenarios)
	outcomes := make([]ScenarioOutcome, len(scenarios))
	inputs := make([]insight.Input, len(scenarios))
	errs := make([]error, len(scenarios))

	// Scenario evaluation is embarrassingly parallel: the base model is never
	// mutated and each goroutine writes only its own slot.
	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(i int, sc config.Scenario) {
			defer wg.Done()
			outcomes[i], inputs[i], errs[i] = evaluate(logger, conf.Budget, base, sc)
		}(i, sc)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	plan := &Plan{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Budget:      conf.Budget,
		Scenarios:   outcomes,
		CrossFindings: insight.InterpretAcross(logger, insight.CrossInput{
			Budget:    conf.Budget,
			Model:     base,
			Scenarios: inputs,
		}),
	}

	logger.Info("plan computed",
		zap.String("op", "planner.Run"),
		zap.String("runId", plan.RunID),
		zap.Int("scenarios", len(plan.Scenarios)),
		zap.Int("crossFindings", len(plan.CrossFindings)),
	)

	return plan, nil
}

func evaluate(logger *zap.Logger, budget float64, base *model.Model, sc config.Scenario) (ScenarioOutcome, insight.Input, error) {
	adapted := scenario.Adapt(base, sc)

	alloc, err := solver.Solve(logger, adapted)
	if err != nil {
		return ScenarioOutcome{}, insight.Input{}, err
	}

	var fc *forecast.Result
	if alloc.Feasible {
		fc, err = forecast.NewEngine(logger).Forecast(alloc, adapted)
		if err != nil {
			return ScenarioOutcome{}, insight.Input{}, err
		}
	}

	in := insight.Input{
		Budget:     budget,
		Model:      base,
		Allocation: alloc,
		Forecast:   fc,
	}
	outcome := ScenarioOutcome{
		Name:       sc.Name,
		Allocation: alloc,
		Forecast:   fc,
		Findings:   insight.Interpret(logger, in),
	}
	return outcome, in, nil
}
