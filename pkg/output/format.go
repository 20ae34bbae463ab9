// Package output provides utilities for formatting and displaying plan results.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mediamix/mixplan/internal/planner"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(plan *planner.Plan) {
	p := message.NewPrinter(language.English)

	_, _ = p.Printf("Run %s | budget %.2f | %d scenario(s)\n\n", plan.RunID, plan.Budget, len(plan.Scenarios))

	for _, outcome := range plan.Scenarios {
		fmt.Printf("--- Results for scenario %s ---\n", outcome.Name)
		if !outcome.Allocation.Feasible {
			fmt.Printf("INFEASIBLE: no allocation satisfies the declared constraints\n")
			for _, ref := range outcome.Allocation.Unsatisfiable {
				_, _ = p.Printf("  %s %s >= %.2f\n", ref.Kind, ref.ID, ref.Bound)
			}
		} else {
			fmt.Printf("Platform | Objective | Allocated\n")
			fmt.Printf("________ | _________ | _________\n")
			for _, v := range outcome.Allocation.Vars {
				_, _ = p.Printf("%s | %s | %.2f\n", v.Platform, v.Objective, outcome.Allocation.Amounts[v])
			}
			_, _ = p.Printf("Total allocated: %.2f | Objective value: %.2f\n",
				outcome.Allocation.Total(), outcome.Allocation.ObjectiveValue)
			for _, ref := range outcome.Allocation.Binding {
				_, _ = p.Printf("Binding: %s %s at %.2f\n", ref.Kind, ref.ID, ref.Bound)
			}
			if outcome.Forecast != nil && len(outcome.Forecast.KPITotals) > 0 {
				fmt.Printf("Predicted KPI totals:\n")
				for _, row := range outcome.Forecast.Rows {
					if row.Predicted == 0 && row.Allocated == 0 {
						continue
					}
					_, _ = p.Printf("  %s/%s %s: %.2f\n", row.Platform, row.Objective, row.Label, row.Predicted)
				}
			}
		}
		for _, finding := range outcome.Findings {
			fmt.Printf("[%s/%s] %s\n", finding.Type, finding.Severity, finding.Message)
		}
		fmt.Printf("\n")
	}

	fmt.Printf("--- Cross-scenario findings ---\n")
	for _, finding := range plan.CrossFindings {
		fmt.Printf("[%s/%s] %s\n", finding.Type, finding.Severity, finding.Message)
	}
}

// CsvFormat outputs in comma-separated value format, one row per scenario,
// platform, objective, and KPI.
func CsvFormat(plan *planner.Plan) {
	fmt.Printf(`"scenario","feasible","platform","objective","kpi","ratio","multiplier","allocated","predicted"`)
	fmt.Printf("\n")
	for _, outcome := range plan.Scenarios {
		if !outcome.Allocation.Feasible {
			fmt.Printf(`"%s","false","","","","","","",""`, outcome.Name)
			fmt.Printf("\n")
			continue
		}
		covered := make(map[string]bool)
		if outcome.Forecast != nil {
			for _, row := range outcome.Forecast.Rows {
				covered[row.Platform+"|"+row.Objective] = true
				fmt.Printf(`"%s","true","%s","%s","%s","%.6f","%.2f","%.2f","%.2f"`,
					outcome.Name, row.Platform, row.Objective, row.KPI, row.Ratio, row.Multiplier, row.Allocated, row.Predicted)
				fmt.Printf("\n")
			}
		}
		// Pairs without a KPI ratio still carry an allocation; keep the KPI
		// columns empty rather than writing zeros.
		for _, v := range outcome.Allocation.Vars {
			if covered[v.Platform+"|"+v.Objective] {
				continue
			}
			fmt.Printf(`"%s","true","%s","%s","","","","%.2f",""`,
				outcome.Name, v.Platform, v.Objective, outcome.Allocation.Amounts[v])
			fmt.Printf("\n")
		}
	}
}

// JsonFormat outputs the full plan as indented JSON.
func JsonFormat(plan *planner.Plan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimSpace(string(data)))
	return nil
}
