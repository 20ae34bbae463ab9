package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mediamix/mixplan/internal/planner"
	"github.com/mediamix/mixplan/pkg/testutil"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	_ = w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(data)
}

func testPlan(t *testing.T) *planner.Plan {
	t.Helper()
	plan, err := planner.Run(zap.NewNop(), testutil.TwoPlatformLeadsConfiguration())
	if err != nil {
		t.Fatalf("planner.Run() error = %v", err)
	}
	return plan
}

func TestPrettyFormat(t *testing.T) {
	plan := testPlan(t)
	out := captureStdout(t, func() { PrettyFormat(plan) })

	for _, want := range []string{
		"--- Results for scenario base ---",
		"Platform | Objective | Allocated",
		"Total allocated:",
		"--- Cross-scenario findings ---",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, out)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	plan := testPlan(t)
	out := captureStdout(t, func() { CsvFormat(plan) })

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != `"scenario","feasible","platform","objective","kpi","ratio","multiplier","allocated","predicted"` {
		t.Errorf("CSV header = %q", lines[0])
	}
	// One forecast row per covered pair: a/lg and b/lg.
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], `"base","true","a","lg","A_LG_LEADS"`) {
		t.Errorf("unexpected first data row: %q", lines[1])
	}
}

func TestCsvFormatUncoveredPairKeepsKPIColumnsEmpty(t *testing.T) {
	conf := testutil.TwoPlatformLeadsConfiguration()
	conf.Ratios = conf.Ratios[:1] // platform b loses its only ratio

	plan, err := planner.Run(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("planner.Run() error = %v", err)
	}
	out := captureStdout(t, func() { CsvFormat(plan) })

	if !strings.Contains(out, `"base","true","b","lg","","","","0.00",""`) {
		t.Errorf("expected an uncovered-pair row with empty KPI columns:\n%s", out)
	}
}

func TestJsonFormat(t *testing.T) {
	plan := testPlan(t)
	out := captureStdout(t, func() {
		if err := JsonFormat(plan); err != nil {
			t.Errorf("JsonFormat() error = %v", err)
		}
	})

	var decoded struct {
		RunID     string `json:"runId"`
		Budget    float64
		Scenarios []struct {
			Name string `json:"name"`
		} `json:"scenarios"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded.RunID != plan.RunID {
		t.Errorf("runId = %q, want %q", decoded.RunID, plan.RunID)
	}
	if decoded.Budget != 10000 {
		t.Errorf("budget = %v, want 10000", decoded.Budget)
	}
	if len(decoded.Scenarios) != 1 || decoded.Scenarios[0].Name != "base" {
		t.Errorf("scenarios = %+v, want one base scenario", decoded.Scenarios)
	}
}
