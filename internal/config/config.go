// Package config defines the data structures related to a planning run and
// includes functions for loading and validating the configuration.
package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
)

// Configuration holds everything a single optimization run needs: the budget,
// the selected objectives and platforms, priority weights, historical
// performance, policy constraints, and the uncertainty scenarios.
type Configuration struct {
	Budget      float64
	Objectives  []Objective
	Platforms   []Platform
	Weights     Weights
	History     []HistoricalRecord
	Ratios      []KPIRatio
	Constraints Constraints
	Scenarios   []Scenario
	Logging     LoggingConfig `yaml:"logging,omitempty"`
	Output      OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Objective is a selected campaign objective. Immutable after selection.
type Objective struct {
	ID       string
	Name     string
	Category string // awareness, engagement, traffic, leads
}

// Platform is a selected advertising platform. Immutable after selection.
type Platform struct {
	ID   string
	Name string
}

// Weights expresses relative emphasis at three levels: system-wide per
// objective, per platform per objective, and per objective per KPI (used only
// to aggregate multiple KPI ratios into one per-pair ratio).
type Weights struct {
	Objective         map[string]float64
	PlatformObjective map[string]map[string]float64
	KPI               map[string]map[string]float64
}

// HistoricalRecord is observed spend and KPI output for one
// platform/objective/KPI triple over a time window. Only the derived ratio is
// ever consumed downstream.
type HistoricalRecord struct {
	Platform   string
	Objective  string
	KPI        string
	TimeWindow string
	Spend      float64
	Value      float64
}

// KPIRatio is KPI units produced per unit of budget for one
// platform/objective/KPI triple. Explicit ratios take precedence over ratios
// derived from History for the same triple.
type KPIRatio struct {
	Platform  string
	Objective string
	KPI       string
	PerUnit   float64
}

// Constraints holds the policy minimums. The total budget ceiling is the
// Configuration.Budget itself.
type Constraints struct {
	PlatformMin  map[string]float64
	ObjectiveMin map[string]float64
}

// Scenario names an assumption set: a global forecast multiplier with
// optional per-objective overrides. Multipliers shift expected outcomes, not
// where budget goes.
type Scenario struct {
	Name                 string
	Multiplier           float64
	ObjectiveMultipliers map[string]float64
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ParseConfiguration reads a YAML-formatted configuration from a reader,
// e.g. an HTTP upload.
func ParseConfiguration(reader io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(reader); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// HasPlatform reports whether a platform ID was selected.
func (c *Configuration) HasPlatform(id string) bool {
	for _, p := range c.Platforms {
		if p.ID == id {
			return true
		}
	}
	return false
}

// HasObjective reports whether an objective ID was selected.
func (c *Configuration) HasObjective(id string) bool {
	for _, o := range c.Objectives {
		if o.ID == id {
			return true
		}
	}
	return false
}

// PlatformName returns the display name for a platform ID, falling back to
// the ID itself.
func (c *Configuration) PlatformName(id string) string {
	for _, p := range c.Platforms {
		if p.ID == id && p.Name != "" {
			return p.Name
		}
	}
	return id
}

// ObjectiveName returns the display name for an objective ID, falling back
// to the ID itself.
func (c *Configuration) ObjectiveName(id string) string {
	for _, o := range c.Objectives {
		if o.ID == id && o.Name != "" {
			return o.Name
		}
	}
	return id
}
