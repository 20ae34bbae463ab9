// Package insight applies declarative rules to allocation and forecast
// results to produce structured findings: risks, recommendations, and
// stability statements. Rules are pure functions of their numeric inputs,
// held in ordered tables so adding or removing a rule is a data change.
package insight

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mediamix/mixplan/internal/forecast"
	"github.com/mediamix/mixplan/internal/model"
	"github.com/mediamix/mixplan/internal/solver"
	"github.com/mediamix/mixplan/pkg/constants"
	"github.com/mediamix/mixplan/pkg/mathutil"
)

// Finding types.
const (
	TypeRisk           = "risk"
	TypeRecommendation = "recommendation"
	TypeStability      = "stability"
)

// Finding severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Finding categories.
const (
	CategoryPlatformConcentration  = "platform-concentration"
	CategoryObjectiveConcentration = "objective-concentration"
	CategoryBindingMinimum         = "binding-minimum"
	CategoryUnderutilization       = "budget-underutilization"
	CategoryMissingData            = "missing-data"
	CategoryInfeasible             = "infeasible"
	CategoryVolatility             = "allocation-volatility"
	CategoryCoreAllocation         = "core-allocation"
	CategoryForecastSpread         = "forecast-spread"
)

// CrossScenario is the scenario label on findings produced by the
// cross-scenario pass.
const CrossScenario = "cross-scenario"

// Finding is one typed statement bound to the numeric evidence that produced
// it, so every statement is traceable back to the model.
type Finding struct {
	Scenario string             `json:"scenario"`
	Type     string             `json:"type"`
	Severity string             `json:"severity"`
	Category string             `json:"category"`
	Message  string             `json:"message"`
	Evidence map[string]float64 `json:"evidence,omitempty"`
}

// Rule is one per-scenario rule: a named predicate-plus-template over the
// numeric inputs. A rule whose required input is missing returns no findings.
type Rule struct {
	Name  string
	Apply func(in Input) []Finding
}

// Input is the per-scenario rule input. Forecast is nil for an infeasible
// scenario; rules that need it skip themselves.
type Input struct {
	Budget     float64
	Model      *model.Model
	Allocation *solver.AllocationResult
	Forecast   *forecast.Result
}

// CrossInput is the cross-scenario rule input: all scenarios' results in
// evaluation order.
type CrossInput struct {
	Budget    float64
	Model     *model.Model
	Scenarios []Input
}

// CrossRule is one cross-scenario rule.
type CrossRule struct {
	Name  string
	Apply func(in CrossInput) []Finding
}

// scenarioRules is the ordered per-scenario rule table.
var scenarioRules = []Rule{
	{Name: "infeasible-scenario", Apply: ruleInfeasible},
	{Name: "platform-concentration", Apply: rulePlatformConcentration},
	{Name: "objective-concentration", Apply: ruleObjectiveConcentration},
	{Name: "binding-minimums", Apply: ruleBindingMinimums},
	{Name: "budget-underutilization", Apply: ruleUnderutilization},
	{Name: "missing-forecast-coverage", Apply: ruleMissingCoverage},
}

// crossRules is the ordered cross-scenario rule table.
var crossRules = []CrossRule{
	{Name: "allocation-stability", Apply: ruleAllocationStability},
	{Name: "forecast-spread", Apply: ruleForecastSpread},
}

// Interpret runs the per-scenario rules in order and appends the
// recommendations synthesized from the risks that fired. Absence of insight
// is itself reported; no rule failure blocks the run.
func Interpret(logger *zap.Logger, in Input) []Finding {
	if logger == nil {
		logger = zap.NewNop()
	}
	var findings []Finding
	for _, rule := range scenarioRules {
		findings = append(findings, rule.Apply(in)...)
	}
	findings = append(findings, synthesizeRecommendations(in.Allocation.Scenario, findings)...)

	logger.Debug("scenario interpreted",
		zap.String("op", "insight.Interpret"),
		zap.String("scenario", in.Allocation.Scenario),
		zap.Int("findings", len(findings)),
	)
	return findings
}

// InterpretAcross runs the cross-scenario rules over all scenarios' results.
func InterpretAcross(logger *zap.Logger, in CrossInput) []Finding {
	if logger == nil {
		logger = zap.NewNop()
	}
	var findings []Finding
	for _, rule := range crossRules {
		findings = append(findings, rule.Apply(in)...)
	}
	if len(findings) == 0 {
		findings = append(findings, Finding{
			Scenario: CrossScenario,
			Type:     TypeStability,
			Severity: SeverityInfo,
			Category: CategoryMissingData,
			Message:  "Insufficient data for a cross-scenario comparison; fewer than two feasible scenarios were produced.",
		})
	}
	logger.Debug("scenarios interpreted",
		zap.String("op", "insight.InterpretAcross"),
		zap.Int("findings", len(findings)),
	)
	return findings
}

func ruleInfeasible(in Input) []Finding {
	if in.Allocation.Feasible {
		return nil
	}
	return []Finding{{
		Scenario: in.Allocation.Scenario,
		Type:     TypeRisk,
		Severity: SeverityCritical,
		Category: CategoryInfeasible,
		Message: fmt.Sprintf("Scenario '%s' has no allocation satisfying all %d constraints; relax the declared minimums or raise the budget.",
			in.Allocation.Scenario, len(in.Allocation.Unsatisfiable)),
		Evidence: map[string]float64{
			"budget":      in.Budget,
			"constraints": float64(len(in.Allocation.Unsatisfiable)),
		},
	}}
}

func rulePlatformConcentration(in Input) []Finding {
	if !in.Allocation.Feasible {
		return nil
	}
	total := in.Allocation.Total()
	if total <= 0 {
		return nil
	}
	var findings []Finding
	for _, platform := range platformsOf(in.Allocation) {
		spend := in.Allocation.PlatformTotal(platform)
		share := mathutil.Share(spend, total)
		if share <= constants.ConcentrationShare {
			continue
		}
		severity := SeverityWarning
		if share > 0.80 {
			severity = SeverityCritical
		}
		findings = append(findings, Finding{
			Scenario: in.Allocation.Scenario,
			Type:     TypeRisk,
			Severity: severity,
			Category: CategoryPlatformConcentration,
			Message: fmt.Sprintf("Platform '%s' receives %.1f%% of total spend (%.2f of %.2f), above the %.0f%% concentration threshold.",
				platform, share*100, spend, total, constants.ConcentrationShare*100),
			Evidence: map[string]float64{
				"share":     share,
				"allocated": spend,
				"total":     total,
				"threshold": constants.ConcentrationShare,
			},
		})
	}
	return findings
}

func ruleObjectiveConcentration(in Input) []Finding {
	if !in.Allocation.Feasible {
		return nil
	}
	total := in.Allocation.Total()
	if total <= 0 {
		return nil
	}
	var findings []Finding
	for _, objective := range objectivesOf(in.Allocation) {
		spend := in.Allocation.ObjectiveTotal(objective)
		share := mathutil.Share(spend, total)
		if share <= constants.ConcentrationShare {
			continue
		}
		severity := SeverityWarning
		if share > 0.80 {
			severity = SeverityCritical
		}
		findings = append(findings, Finding{
			Scenario: in.Allocation.Scenario,
			Type:     TypeRisk,
			Severity: severity,
			Category: CategoryObjectiveConcentration,
			Message: fmt.Sprintf("Objective '%s' receives %.1f%% of total spend (%.2f of %.2f), above the %.0f%% concentration threshold.",
				objective, share*100, spend, total, constants.ConcentrationShare*100),
			Evidence: map[string]float64{
				"share":     share,
				"allocated": spend,
				"total":     total,
				"threshold": constants.ConcentrationShare,
			},
		})
	}
	return findings
}

func ruleBindingMinimums(in Input) []Finding {
	if !in.Allocation.Feasible {
		return nil
	}
	var findings []Finding
	for _, ref := range in.Allocation.Binding {
		var subject string
		switch ref.Kind {
		case solver.BoundPlatformMin:
			subject = fmt.Sprintf("platform '%s'", ref.ID)
		case solver.BoundObjectiveMin:
			subject = fmt.Sprintf("objective '%s'", ref.ID)
		default:
			// The budget ceiling binding is the expected outcome, not a risk.
			continue
		}
		findings = append(findings, Finding{
			Scenario: in.Allocation.Scenario,
			Type:     TypeRisk,
			Severity: SeverityInfo,
			Category: CategoryBindingMinimum,
			Message: fmt.Sprintf("The minimum-spend policy for %s is binding at %.2f; the optimizer would have allocated less without it.",
				subject, ref.Bound),
			Evidence: map[string]float64{
				"bound":    ref.Bound,
				"attained": ref.Attained,
			},
		})
	}
	return findings
}

func ruleUnderutilization(in Input) []Finding {
	if !in.Allocation.Feasible {
		return nil
	}
	total := in.Allocation.Total()
	slack := in.Budget - total
	if slack <= in.Budget*constants.UnderutilizationShare {
		return nil
	}
	return []Finding{{
		Scenario: in.Allocation.Scenario,
		Type:     TypeStability,
		Severity: SeverityInfo,
		Category: CategoryUnderutilization,
		Message: fmt.Sprintf("Only %.2f of the %.2f budget is allocated; the remaining %.2f cannot improve any objective coefficient.",
			total, in.Budget, slack),
		Evidence: map[string]float64{
			"allocated": total,
			"budget":    in.Budget,
			"slack":     slack,
		},
	}}
}

func ruleMissingCoverage(in Input) []Finding {
	if !in.Allocation.Feasible || in.Forecast == nil {
		return nil
	}
	var findings []Finding
	for _, platform := range platformsOf(in.Allocation) {
		spend := in.Allocation.PlatformTotal(platform)
		if !mathutil.IsPositive(spend) {
			continue
		}
		if len(in.Forecast.PlatformTotals[platform]) > 0 {
			continue
		}
		findings = append(findings, Finding{
			Scenario: in.Allocation.Scenario,
			Type:     TypeStability,
			Severity: SeverityInfo,
			Category: CategoryMissingData,
			Message: fmt.Sprintf("Insufficient data for platform '%s': %.2f is allocated but no KPI ratio exists, so no outcome can be forecast.",
				platform, spend),
			Evidence: map[string]float64{
				"allocated": spend,
			},
		})
	}
	return findings
}

// synthesizeRecommendations derives recommendations mechanically from the
// risk findings that fired.
func synthesizeRecommendations(scenarioName string, fired []Finding) []Finding {
	var recs []Finding
	for _, f := range fired {
		switch f.Category {
		case CategoryPlatformConcentration, CategoryObjectiveConcentration:
			recs = append(recs, Finding{
				Scenario: scenarioName,
				Type:     TypeRecommendation,
				Severity: SeverityInfo,
				Category: f.Category,
				Message: fmt.Sprintf("Consider diversifying: %.1f%% of spend sits in one %s. Spreading budget reduces exposure to a single channel underperforming.",
					f.Evidence["share"]*100, subjectOf(f.Category)),
				Evidence: f.Evidence,
			})
		case CategoryBindingMinimum:
			recs = append(recs, Finding{
				Scenario: scenarioName,
				Type:     TypeRecommendation,
				Severity: SeverityInfo,
				Category: f.Category,
				Message: fmt.Sprintf("A minimum-spend floor of %.2f is overriding the optimizer; confirm the policy is intentional or relax it to free budget for higher-ratio pairs.",
					f.Evidence["bound"]),
				Evidence: f.Evidence,
			})
		case CategoryMissingData:
			recs = append(recs, Finding{
				Scenario: scenarioName,
				Type:     TypeRecommendation,
				Severity: SeverityInfo,
				Category: f.Category,
				Message:  "Collect historical KPI data for the uncovered platforms so future runs can forecast their outcomes.",
				Evidence: f.Evidence,
			})
		case CategoryInfeasible:
			recs = append(recs, Finding{
				Scenario: scenarioName,
				Type:     TypeRecommendation,
				Severity: SeverityWarning,
				Category: f.Category,
				Message:  "Relax the declared platform or objective minimums, or raise the total budget, until the constraint set admits a solution.",
				Evidence: f.Evidence,
			})
		}
	}
	return recs
}

func subjectOf(category string) string {
	if category == CategoryObjectiveConcentration {
		return "objective"
	}
	return "platform"
}

func platformsOf(alloc *solver.AllocationResult) []string {
	seen := make(map[string]bool)
	var platforms []string
	for _, v := range alloc.Vars {
		if !seen[v.Platform] {
			seen[v.Platform] = true
			platforms = append(platforms, v.Platform)
		}
	}
	return platforms
}

func objectivesOf(alloc *solver.AllocationResult) []string {
	seen := make(map[string]bool)
	var objectives []string
	for _, v := range alloc.Vars {
		if !seen[v.Objective] {
			seen[v.Objective] = true
			objectives = append(objectives, v.Objective)
		}
	}
	return objectives
}
