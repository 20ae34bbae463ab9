package config

import (
	"fmt"

	"github.com/mediamix/mixplan/pkg/constants"
	"github.com/mediamix/mixplan/pkg/mathutil"
)

var validCategories = map[string]bool{
	"":                 true, // category is optional
	CategoryAwareness:  true,
	CategoryEngagement: true,
	CategoryTraffic:    true,
	CategoryLeads:      true,
}

// Validate performs the hard configuration checks. The first violation is
// returned as a *FieldError naming the offending field; nothing is coerced.
func (c *Configuration) Validate() error {
	if !mathutil.IsFinite(c.Budget) {
		return NewFieldError("budget", "must be a finite number, got %v", c.Budget)
	}
	if c.Budget <= constants.MinimumBudget {
		return NewFieldError("budget", "must be greater than %v, got %v", constants.MinimumBudget, c.Budget)
	}
	if len(c.Platforms) == 0 {
		return NewFieldError("platforms", "at least one platform must be selected")
	}
	if len(c.Objectives) == 0 {
		return NewFieldError("objectives", "at least one objective must be selected")
	}

	seenPlatforms := make(map[string]bool)
	for i, p := range c.Platforms {
		if p.ID == "" {
			return NewFieldError(fmt.Sprintf("platforms[%d].id", i), "must not be empty")
		}
		if seenPlatforms[p.ID] {
			return NewFieldError(fmt.Sprintf("platforms[%d].id", i), "duplicate platform %q", p.ID)
		}
		seenPlatforms[p.ID] = true
	}

	seenObjectives := make(map[string]bool)
	for i, o := range c.Objectives {
		if o.ID == "" {
			return NewFieldError(fmt.Sprintf("objectives[%d].id", i), "must not be empty")
		}
		if seenObjectives[o.ID] {
			return NewFieldError(fmt.Sprintf("objectives[%d].id", i), "duplicate objective %q", o.ID)
		}
		if !validCategories[o.Category] {
			return NewFieldError(fmt.Sprintf("objectives[%d].category", i),
				"unknown category %q (want awareness, engagement, traffic, or leads)", o.Category)
		}
		seenObjectives[o.ID] = true
	}

	if err := c.validateWeights(); err != nil {
		return err
	}
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateConstraints(); err != nil {
		return err
	}
	return c.validateScenarios()
}

func (c *Configuration) validateWeights() error {
	for obj, w := range c.Weights.Objective {
		if !mathutil.IsFinite(w) || w < 0 {
			return NewFieldError("weights.objective."+obj, "must be non-negative and finite, got %v", w)
		}
	}
	for platform, row := range c.Weights.PlatformObjective {
		for obj, w := range row {
			if !mathutil.IsFinite(w) || w < 0 {
				return NewFieldError(fmt.Sprintf("weights.platformObjective.%s.%s", platform, obj),
					"must be non-negative and finite, got %v", w)
			}
		}
	}
	for obj, row := range c.Weights.KPI {
		for kpi, w := range row {
			if !mathutil.IsFinite(w) || w < 0 {
				return NewFieldError(fmt.Sprintf("weights.kpi.%s.%s", obj, kpi),
					"must be non-negative and finite, got %v", w)
			}
		}
	}
	return nil
}

func (c *Configuration) validateData() error {
	for i, rec := range c.History {
		if rec.Spend < 0 {
			return NewFieldError(fmt.Sprintf("history[%d].spend", i),
				"must be non-negative, got %v", rec.Spend)
		}
		if rec.Value < 0 {
			return NewFieldError(fmt.Sprintf("history[%d].value", i),
				"must be non-negative, got %v", rec.Value)
		}
	}
	for i, ratio := range c.Ratios {
		if !mathutil.IsFinite(ratio.PerUnit) || ratio.PerUnit < 0 {
			return NewFieldError(fmt.Sprintf("ratios[%d].perUnit", i),
				"must be non-negative and finite, got %v", ratio.PerUnit)
		}
	}
	return nil
}

func (c *Configuration) validateConstraints() error {
	var platformSum float64
	for platform, min := range c.Constraints.PlatformMin {
		if !c.HasPlatform(platform) {
			return NewFieldError("constraints.platformMin."+platform,
				"platform %q is not selected", platform)
		}
		if !mathutil.IsFinite(min) || min < 0 {
			return NewFieldError("constraints.platformMin."+platform,
				"must be non-negative and finite, got %v", min)
		}
		platformSum += min
	}
	if platformSum > c.Budget+constants.FeasibilityTolerance {
		return NewFieldError("constraints.platformMin",
			"sum of platform minimums (%v) exceeds total budget (%v)", platformSum, c.Budget)
	}

	var objectiveSum float64
	for obj, min := range c.Constraints.ObjectiveMin {
		if !c.HasObjective(obj) {
			return NewFieldError("constraints.objectiveMin."+obj,
				"objective %q is not selected", obj)
		}
		if !mathutil.IsFinite(min) || min < 0 {
			return NewFieldError("constraints.objectiveMin."+obj,
				"must be non-negative and finite, got %v", min)
		}
		objectiveSum += min
	}
	if objectiveSum > c.Budget+constants.FeasibilityTolerance {
		return NewFieldError("constraints.objectiveMin",
			"sum of objective minimums (%v) exceeds total budget (%v)", objectiveSum, c.Budget)
	}
	return nil
}

func (c *Configuration) validateScenarios() error {
	seen := make(map[string]bool)
	for i, sc := range c.Scenarios {
		if sc.Name == "" {
			return NewFieldError(fmt.Sprintf("scenarios[%d].name", i), "must not be empty")
		}
		if seen[sc.Name] {
			return NewFieldError(fmt.Sprintf("scenarios[%d].name", i), "duplicate scenario %q", sc.Name)
		}
		seen[sc.Name] = true
		if !mathutil.IsFinite(sc.Multiplier) || sc.Multiplier <= 0 {
			return NewFieldError(fmt.Sprintf("scenarios[%d].multiplier", i),
				"must be positive and finite, got %v", sc.Multiplier)
		}
		for obj, m := range sc.ObjectiveMultipliers {
			if !c.HasObjective(obj) {
				return NewFieldError(fmt.Sprintf("scenarios[%d].objectiveMultipliers.%s", i, obj),
					"objective %q is not selected", obj)
			}
			if !mathutil.IsFinite(m) || m <= 0 {
				return NewFieldError(fmt.Sprintf("scenarios[%d].objectiveMultipliers.%s", i, obj),
					"must be positive and finite, got %v", m)
			}
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Warnings never block a run.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	for _, p := range c.Platforms {
		row := c.Weights.PlatformObjective[p.ID]
		allZero := true
		for _, o := range c.Objectives {
			if row[o.ID] > 0 {
				allZero = false
				break
			}
		}
		if allZero {
			warnings = append(warnings, fmt.Sprintf(
				"Platform '%s' has no positive objective weight and will contribute nothing to the objective function", p.ID))
		}
	}

	for _, rec := range c.History {
		if rec.Spend == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"History for %s/%s/%s has zero spend; no ratio can be derived and the KPI will be omitted from forecasts",
				rec.Platform, rec.Objective, rec.KPI))
		}
		if !c.HasPlatform(rec.Platform) {
			warnings = append(warnings, fmt.Sprintf(
				"History references platform '%s' which is not selected; the record is ignored", rec.Platform))
		}
		if !c.HasObjective(rec.Objective) {
			warnings = append(warnings, fmt.Sprintf(
				"History references objective '%s' which is not selected; the record is ignored", rec.Objective))
		}
	}

	ratios := c.DeriveRatios()
	for _, p := range c.Platforms {
		for _, o := range c.Objectives {
			if len(ratios[p.ID][o.ID]) == 0 {
				warnings = append(warnings, fmt.Sprintf(
					"No KPI ratio available for %s/%s; the pair stays spend-eligible but cannot be forecast", p.ID, o.ID))
			}
		}
	}

	if len(c.Scenarios) > 0 {
		hasBase := false
		for _, sc := range c.Scenarios {
			if sc.Name == "base" {
				hasBase = true
				break
			}
		}
		if !hasBase {
			warnings = append(warnings, "No 'base' scenario declared; one with multiplier 1.0 will be added")
		}
	}

	return warnings
}
