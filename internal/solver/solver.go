// Package solver solves the continuous linear program for one scenario
// instance. The problem is small (tens of variables) so correctness and
// reproducibility matter more than speed: the same model always yields the
// same vertex.
package solver

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/mediamix/mixplan/internal/config"
	"github.com/mediamix/mixplan/internal/model"
	"github.com/mediamix/mixplan/internal/scenario"
	"github.com/mediamix/mixplan/pkg/constants"
	"github.com/mediamix/mixplan/pkg/mathutil"
)

// Constraint kinds referenced by BoundRef.
const (
	BoundBudget       = "budget"
	BoundPlatformMin  = "platform-min"
	BoundObjectiveMin = "objective-min"
)

// BoundRef names one constraint together with its bound and the value the
// solution attained against it.
type BoundRef struct {
	Kind     string  `json:"kind"`
	ID       string  `json:"id,omitempty"`
	Bound    float64 `json:"bound"`
	Attained float64 `json:"attained"`
}

// AllocationResult is the solved allocation for one scenario. When Feasible
// is false, Amounts is empty and Unsatisfiable lists the constraint set the
// solver could not satisfy jointly; callers decide whether to relax.
type AllocationResult struct {
	Scenario       string
	Vars           []model.Variable
	Amounts        map[model.Variable]float64
	ObjectiveValue float64
	Feasible       bool
	Binding        []BoundRef
	Unsatisfiable  []BoundRef
}

// Total returns the total allocated budget.
func (r *AllocationResult) Total() float64 {
	var total float64
	for _, amount := range r.Amounts {
		total += amount
	}
	return total
}

// PlatformTotal returns the spend allocated to one platform across
// objectives.
func (r *AllocationResult) PlatformTotal(platform string) float64 {
	var total float64
	for v, amount := range r.Amounts {
		if v.Platform == platform {
			total += amount
		}
	}
	return total
}

// ObjectiveTotal returns the spend allocated to one objective across
// platforms.
func (r *AllocationResult) ObjectiveTotal(objective string) float64 {
	var total float64
	for v, amount := range r.Amounts {
		if v.Objective == objective {
			total += amount
		}
	}
	return total
}

// Solve maximizes sum(c[v]*x[v]) subject to the budget ceiling, platform and
// objective minimums, and x >= 0. The program is encoded in standard form by
// hand (slack on the budget row, surplus columns on minimum rows, so every
// column is naturally non-negative) and handed to gonum's simplex.
//
// Infeasibility is a result, not an error. An unbounded report is translated
// into a configuration error: the budget ceiling is always present, so
// unboundedness can only mean a broken model.
func Solve(logger *zap.Logger, adapted scenario.Adapted) (*AllocationResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := adapted.Model
	n := len(m.Vars)
	if n == 0 {
		return nil, config.NewFieldError("platforms", "model has no decision variables")
	}

	platforms := sortedKeys(m.PlatformMin)
	objectives := sortedKeys(m.ObjectiveMin)

	rows := 1 + len(platforms) + len(objectives)
	cols := n + rows // one slack or surplus column per row

	c := make([]float64, cols)
	for j, coeff := range m.Coeffs {
		c[j] = -coeff // simplex minimizes
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)

	// Budget ceiling: sum(x) + slack = budget.
	for j := 0; j < n; j++ {
		a.Set(0, j, 1)
	}
	a.Set(0, n, 1)
	b[0] = m.Budget

	// Platform minimums: sum over the platform's pairs minus surplus = min.
	for i, platform := range platforms {
		row := 1 + i
		for j, v := range m.Vars {
			if v.Platform == platform {
				a.Set(row, j, 1)
			}
		}
		a.Set(row, n+row, -1)
		b[row] = m.PlatformMin[platform]
	}

	// Objective minimums: sum over the objective's pairs minus surplus = min.
	for i, objective := range objectives {
		row := 1 + len(platforms) + i
		for j, v := range m.Vars {
			if v.Objective == objective {
				a.Set(row, j, 1)
			}
		}
		a.Set(row, n+row, -1)
		b[row] = m.ObjectiveMin[objective]
	}

	result := &AllocationResult{
		Scenario: adapted.Name,
		Vars:     m.Vars,
		Amounts:  make(map[model.Variable]float64, n),
	}

	optF, optX, err := lp.Simplex(c, a, b, constants.SimplexTolerance, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			result.Feasible = false
			result.Unsatisfiable = constraintSet(m, platforms, objectives)
			logger.Warn("scenario model is infeasible",
				zap.String("op", "solver.Solve"),
				zap.String("scenario", adapted.Name),
				zap.Int("constraints", len(result.Unsatisfiable)),
			)
			return result, nil
		case errors.Is(err, lp.ErrUnbounded):
			// Cannot legitimately occur: the budget row bounds every variable.
			return nil, config.NewFieldError("budget",
				"solver reported an unbounded model; the budget ceiling is missing or broken")
		default:
			return nil, fmt.Errorf("scenario %s: simplex failed: %w", adapted.Name, err)
		}
	}

	result.Feasible = true
	result.ObjectiveValue = -optF
	for j, v := range m.Vars {
		amount := optX[j]
		if amount < 0 {
			// Numerical dust from the solver; decision variables are
			// non-negative by construction.
			amount = 0
		}
		result.Amounts[v] = amount
	}
	result.Binding = bindingConstraints(result, m, platforms, objectives)

	logger.Debug("scenario solved",
		zap.String("op", "solver.Solve"),
		zap.String("scenario", adapted.Name),
		zap.Float64("objectiveValue", result.ObjectiveValue),
		zap.Float64("totalAllocated", result.Total()),
		zap.Int("bindingConstraints", len(result.Binding)),
	)

	return result, nil
}

// bindingConstraints reports the constraints satisfied with equality at the
// optimum, i.e. the ones actively shaping the solution.
func bindingConstraints(r *AllocationResult, m *model.Model, platforms, objectives []string) []BoundRef {
	var binding []BoundRef

	total := r.Total()
	if isBinding(total, m.Budget) {
		binding = append(binding, BoundRef{Kind: BoundBudget, Bound: m.Budget, Attained: total})
	}
	for _, platform := range platforms {
		attained := r.PlatformTotal(platform)
		if isBinding(attained, m.PlatformMin[platform]) {
			binding = append(binding, BoundRef{
				Kind: BoundPlatformMin, ID: platform,
				Bound: m.PlatformMin[platform], Attained: attained,
			})
		}
	}
	for _, objective := range objectives {
		attained := r.ObjectiveTotal(objective)
		if isBinding(attained, m.ObjectiveMin[objective]) {
			binding = append(binding, BoundRef{
				Kind: BoundObjectiveMin, ID: objective,
				Bound: m.ObjectiveMin[objective], Attained: attained,
			})
		}
	}
	return binding
}

func isBinding(attained, bound float64) bool {
	return mathutil.WithinTolerance(attained, bound, constants.BindingTolerance*mathutil.Max(1, bound))
}

// constraintSet enumerates every constraint of the model, used to report an
// unsatisfiable system.
func constraintSet(m *model.Model, platforms, objectives []string) []BoundRef {
	refs := []BoundRef{{Kind: BoundBudget, Bound: m.Budget}}
	for _, platform := range platforms {
		refs = append(refs, BoundRef{Kind: BoundPlatformMin, ID: platform, Bound: m.PlatformMin[platform]})
	}
	for _, objective := range objectives {
		refs = append(refs, BoundRef{Kind: BoundObjectiveMin, ID: objective, Bound: m.ObjectiveMin[objective]})
	}
	return refs
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
