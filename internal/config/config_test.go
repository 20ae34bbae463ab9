package config

import (
	"strings"
	"testing"
)

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration("testdata/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Budget != 50000 {
		t.Errorf("Budget = %v, want 50000", conf.Budget)
	}
	if len(conf.Platforms) != 2 {
		t.Fatalf("len(Platforms) = %d, want 2", len(conf.Platforms))
	}
	if conf.Platforms[0].ID != "fb" || conf.Platforms[0].Name != "Facebook" {
		t.Errorf("Platforms[0] = %+v, want fb/Facebook", conf.Platforms[0])
	}
	if len(conf.Objectives) != 2 {
		t.Fatalf("len(Objectives) = %d, want 2", len(conf.Objectives))
	}
	if conf.Objectives[1].Category != CategoryLeads {
		t.Errorf("Objectives[1].Category = %q, want %q", conf.Objectives[1].Category, CategoryLeads)
	}
	if got := conf.Weights.Objective["lg"]; got != 2 {
		t.Errorf("Weights.Objective[lg] = %v, want 2", got)
	}
	if got := conf.Weights.PlatformObjective["yt"]["aw"]; got != 4 {
		t.Errorf("Weights.PlatformObjective[yt][aw] = %v, want 4", got)
	}
	if len(conf.History) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(conf.History))
	}
	if conf.History[0].TimeWindow != "Q4 2025" {
		t.Errorf("History[0].TimeWindow = %q, want Q4 2025", conf.History[0].TimeWindow)
	}
	if len(conf.Ratios) != 1 || conf.Ratios[0].PerUnit != 130 {
		t.Errorf("Ratios = %+v, want one yt/aw ratio of 130", conf.Ratios)
	}
	if got := conf.Constraints.PlatformMin["yt"]; got != 2500 {
		t.Errorf("Constraints.PlatformMin[yt] = %v, want 2500", got)
	}
	if got := conf.Constraints.ObjectiveMin["aw"]; got != 10000 {
		t.Errorf("Constraints.ObjectiveMin[aw] = %v, want 10000", got)
	}
	if len(conf.Scenarios) != 3 {
		t.Fatalf("len(Scenarios) = %d, want 3", len(conf.Scenarios))
	}
	if got := conf.Scenarios[2].ObjectiveMultipliers["lg"]; got != 1.25 {
		t.Errorf("Scenarios[2].ObjectiveMultipliers[lg] = %v, want 1.25", got)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want debug/console", conf.Logging)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Output.Format = %q, want csv", conf.Output.Format)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration("testdata/does_not_exist.yaml"); err == nil {
		t.Error("LoadConfiguration() expected error for missing file, got nil")
	}
}

func TestParseConfiguration(t *testing.T) {
	yaml := `---
budget: 10000
platforms:
  - id: a
objectives:
  - id: lg
    category: leads
`
	conf, err := ParseConfiguration(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("ParseConfiguration() error = %v", err)
	}
	if conf.Budget != 10000 {
		t.Errorf("Budget = %v, want 10000", conf.Budget)
	}
	if len(conf.Platforms) != 1 || conf.Platforms[0].ID != "a" {
		t.Errorf("Platforms = %+v, want one platform 'a'", conf.Platforms)
	}
}

func TestParseConfigurationInvalidYAML(t *testing.T) {
	if _, err := ParseConfiguration(strings.NewReader("budget: [not closed")); err == nil {
		t.Error("ParseConfiguration() expected error for invalid YAML, got nil")
	}
}

func TestValidate(t *testing.T) {
	conf, err := LoadConfiguration("testdata/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Configuration)
		field  string
	}{
		{
			name:   "budget too small",
			mutate: func(c *Configuration) { c.Budget = 1 },
			field:  "budget",
		},
		{
			name:   "no platforms",
			mutate: func(c *Configuration) { c.Platforms = nil },
			field:  "platforms",
		},
		{
			name:   "no objectives",
			mutate: func(c *Configuration) { c.Objectives = nil },
			field:  "objectives",
		},
		{
			name: "duplicate platform",
			mutate: func(c *Configuration) {
				c.Platforms = append(c.Platforms, Platform{ID: "fb"})
			},
			field: "platforms[2].id",
		},
		{
			name: "unknown category",
			mutate: func(c *Configuration) {
				c.Objectives[0].Category = "branding"
			},
			field: "objectives[0].category",
		},
		{
			name: "negative objective weight",
			mutate: func(c *Configuration) {
				c.Weights.Objective["aw"] = -1
			},
			field: "weights.objective.aw",
		},
		{
			name: "negative history spend",
			mutate: func(c *Configuration) {
				c.History[0].Spend = -100
			},
			field: "history[0].spend",
		},
		{
			name: "minimum references unknown platform",
			mutate: func(c *Configuration) {
				c.Constraints.PlatformMin["tiktok"] = 500
			},
			field: "constraints.platformMin.tiktok",
		},
		{
			name: "objective minimums exceed budget",
			mutate: func(c *Configuration) {
				c.Constraints.ObjectiveMin["aw"] = 60000
			},
			field: "constraints.objectiveMin",
		},
		{
			name: "duplicate scenario",
			mutate: func(c *Configuration) {
				c.Scenarios = append(c.Scenarios, Scenario{Name: "base", Multiplier: 1})
			},
			field: "scenarios[3].name",
		},
		{
			name: "override for unselected objective",
			mutate: func(c *Configuration) {
				c.Scenarios[0].ObjectiveMultipliers = map[string]float64{"en": 1.1}
			},
			field: "scenarios[0].objectiveMultipliers.en",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conf, err := LoadConfiguration("testdata/test_config.yaml")
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			tc.mutate(conf)

			err = conf.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			fieldErr, ok := err.(*FieldError)
			if !ok {
				t.Fatalf("Validate() error type = %T, want *FieldError", err)
			}
			if fieldErr.Field != tc.field {
				t.Errorf("FieldError.Field = %q, want %q", fieldErr.Field, tc.field)
			}
		})
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf, err := LoadConfiguration("testdata/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	warnings := conf.ValidateConfiguration()

	// yt has no lead-generation data, so the yt/lg pair cannot be forecast.
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "yt/lg") {
			found = true
		}
	}
	if !found {
		t.Errorf("ValidateConfiguration() = %v, want a warning about yt/lg coverage", warnings)
	}

	// A platform with no positive weight anywhere triggers its own warning.
	conf.Weights.PlatformObjective["yt"] = map[string]float64{"aw": 0, "lg": 0}
	warnings = conf.ValidateConfiguration()
	found = false
	for _, w := range warnings {
		if strings.Contains(w, "Platform 'yt'") {
			found = true
		}
	}
	if !found {
		t.Errorf("ValidateConfiguration() = %v, want a zero-weight warning for yt", warnings)
	}
}

func TestDeriveRatios(t *testing.T) {
	conf, err := LoadConfiguration("testdata/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	table := conf.DeriveRatios()

	if got := table["fb"]["aw"]["FB_AW_REACH"]; got != 80 {
		t.Errorf("fb/aw/FB_AW_REACH = %v, want 80 (400000 / 5000)", got)
	}
	if got := table["fb"]["lg"]["FB_LG_LEADS"]; got != 0.13 {
		t.Errorf("fb/lg/FB_LG_LEADS = %v, want 0.13 (650 / 5000)", got)
	}
	if got := table["yt"]["aw"]["YT_AW_VIEWS"]; got != 130 {
		t.Errorf("yt/aw/YT_AW_VIEWS = %v, want 130 from the explicit ratio", got)
	}
	if _, ok := table["yt"]["lg"]; ok {
		t.Error("yt/lg should be absent, not present with zero entries")
	}
}

func TestDeriveRatiosExplicitOverridesHistory(t *testing.T) {
	conf := &Configuration{
		Budget:     10000,
		Platforms:  []Platform{{ID: "fb"}},
		Objectives: []Objective{{ID: "aw"}},
		History: []HistoricalRecord{
			{Platform: "fb", Objective: "aw", KPI: "FB_AW_REACH", Spend: 1000, Value: 50000},
		},
		Ratios: []KPIRatio{
			{Platform: "fb", Objective: "aw", KPI: "FB_AW_REACH", PerUnit: 75},
		},
	}

	table := conf.DeriveRatios()
	if got := table["fb"]["aw"]["FB_AW_REACH"]; got != 75 {
		t.Errorf("explicit ratio = %v, want 75 to override the derived 50", got)
	}
}

func TestDeriveRatiosSkipsZeroSpend(t *testing.T) {
	conf := &Configuration{
		Budget:     10000,
		Platforms:  []Platform{{ID: "fb"}},
		Objectives: []Objective{{ID: "aw"}},
		History: []HistoricalRecord{
			{Platform: "fb", Objective: "aw", KPI: "FB_AW_REACH", Spend: 0, Value: 50000},
		},
	}

	table := conf.DeriveRatios()
	if _, ok := table["fb"]; ok {
		t.Errorf("DeriveRatios() = %v, want empty table for zero-spend history", table)
	}
}

func TestKPILabel(t *testing.T) {
	if got := KPILabel("FB_LG_LEADS"); got != "Leads" {
		t.Errorf("KPILabel(FB_LG_LEADS) = %q, want Leads", got)
	}
	if got := KPILabel("CUSTOM_KPI"); got != "CUSTOM_KPI" {
		t.Errorf("KPILabel(CUSTOM_KPI) = %q, want the raw variable name", got)
	}
}

func TestCatalogKPIs(t *testing.T) {
	vars := CatalogKPIs("fb", "aw")
	if len(vars) != 2 {
		t.Fatalf("CatalogKPIs(fb, aw) = %v, want 2 entries", vars)
	}
	if vars[0] != "FB_AW_REACH" || vars[1] != "FB_AW_IMPRESSION" {
		t.Errorf("CatalogKPIs(fb, aw) = %v, want [FB_AW_REACH FB_AW_IMPRESSION]", vars)
	}
	if got := CatalogKPIs("li", "wt"); got != nil {
		t.Errorf("CatalogKPIs(li, wt) = %v, want nil", got)
	}
}

func TestNames(t *testing.T) {
	conf := &Configuration{
		Platforms:  []Platform{{ID: "fb", Name: "Facebook"}, {ID: "x"}},
		Objectives: []Objective{{ID: "aw", Name: "Awareness"}},
	}

	if got := conf.PlatformName("fb"); got != "Facebook" {
		t.Errorf("PlatformName(fb) = %q, want Facebook", got)
	}
	if got := conf.PlatformName("x"); got != "x" {
		t.Errorf("PlatformName(x) = %q, want the ID fallback", got)
	}
	if got := conf.ObjectiveName("missing"); got != "missing" {
		t.Errorf("ObjectiveName(missing) = %q, want the ID fallback", got)
	}
	if !conf.HasPlatform("fb") || conf.HasPlatform("yt") {
		t.Error("HasPlatform() gave wrong answers")
	}
	if !conf.HasObjective("aw") || conf.HasObjective("lg") {
		t.Error("HasObjective() gave wrong answers")
	}
}
