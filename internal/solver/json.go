package solver

import "encoding/json"

type allocationEntry struct {
	Platform  string  `json:"platform"`
	Objective string  `json:"objective"`
	Amount    float64 `json:"amount"`
}

type allocationResultJSON struct {
	Scenario       string            `json:"scenario"`
	Feasible       bool              `json:"feasible"`
	ObjectiveValue float64           `json:"objectiveValue"`
	TotalAllocated float64           `json:"totalAllocated"`
	Allocations    []allocationEntry `json:"allocations"`
	Binding        []BoundRef        `json:"binding,omitempty"`
	Unsatisfiable  []BoundRef        `json:"unsatisfiable,omitempty"`
}

// MarshalJSON renders the allocation in variable order; a struct-keyed map
// has no natural JSON form.
func (r *AllocationResult) MarshalJSON() ([]byte, error) {
	out := allocationResultJSON{
		Scenario:       r.Scenario,
		Feasible:       r.Feasible,
		ObjectiveValue: r.ObjectiveValue,
		TotalAllocated: r.Total(),
		Binding:        r.Binding,
		Unsatisfiable:  r.Unsatisfiable,
	}
	for _, v := range r.Vars {
		out.Allocations = append(out.Allocations, allocationEntry{
			Platform:  v.Platform,
			Objective: v.Objective,
			Amount:    r.Amounts[v],
		})
	}
	return json.Marshal(out)
}
