// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/iwvelando/floatcheck/pkg/catalog"
	"github.com/iwvelando/floatcheck/pkg/constants"
	"github.com/iwvelando/floatcheck/pkg/scenario"
	"github.com/iwvelando/floatcheck/pkg/validation"
)

// DefaultSuiteName is used when a suite omits its name.
const DefaultSuiteName = "floatcheck"

// Configuration holds all configuration for floatcheck.
type Configuration struct {
	Suite     Suite
	Scenarios []ScenarioConfig
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// Suite holds the parameters shared by every scenario in a run.
type Suite struct {
	Name    string `yaml:"name,omitempty" mapstructure:"name"`
	Workers int    `yaml:"workers,omitempty" mapstructure:"workers"`
}

// ScenarioConfig describes one scenario to verify. Tolerance and
// Repetitions carry no defaults; every suite states them explicitly.
type ScenarioConfig struct {
	Name                string             `yaml:"name" mapstructure:"name"`
	Kind                string             `yaml:"kind" mapstructure:"kind"`
	Repetitions         int                `yaml:"repetitions" mapstructure:"repetitions"`
	Tolerance           float64            `yaml:"tolerance" mapstructure:"tolerance"`
	Reference           *float64           `yaml:"reference,omitempty" mapstructure:"reference"`
	StabilizationDigits *uint              `yaml:"stabilizationDigits,omitempty" mapstructure:"stabilizationDigits"`
	Scale               int64              `yaml:"scale,omitempty" mapstructure:"scale"`
	Params              map[string]float64 `yaml:"params,omitempty" mapstructure:"params"`
	Series              []float64          `yaml:"series,omitempty" mapstructure:"series"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// arbitrary stream, such as an uploaded suite file.
func LoadConfigurationFromReader(reader io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(reader); err != nil {
		return nil, fmt.Errorf("error reading config stream, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Normalize ensures defaults and canonical values are applied before
// validation. Scenario tolerances and repetition counts are deliberately
// left alone.
func (c *Configuration) Normalize() {
	if strings.TrimSpace(c.Suite.Name) == "" {
		c.Suite.Name = DefaultSuiteName
	}
	if c.Suite.Workers <= 0 {
		c.Suite.Workers = 1
	}
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	for i := range c.Scenarios {
		c.Scenarios[i].Name = strings.TrimSpace(c.Scenarios[i].Name)
		c.Scenarios[i].Kind = strings.ToLower(strings.TrimSpace(c.Scenarios[i].Kind))
	}
}

// BuildDefinitions instantiates every configured scenario through the
// catalog. The first bad entry aborts the build so a suite never runs
// partially constructed.
func (c *Configuration) BuildDefinitions() ([]scenario.Definition, error) {
	definitions := make([]scenario.Definition, 0, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		definition, err := catalog.Build(catalog.Spec{
			Name:                sc.Name,
			Kind:                sc.Kind,
			Repetitions:         sc.Repetitions,
			Tolerance:           sc.Tolerance,
			Reference:           sc.Reference,
			StabilizationDigits: sc.StabilizationDigits,
			Scale:               sc.Scale,
			Params:              sc.Params,
			Series:              sc.Series,
		})
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, definition)
	}
	return definitions, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	// Convert config structs to validation format
	var checks []validation.ScenarioCheck
	for _, sc := range c.Scenarios {
		checks = append(checks, validation.ScenarioCheck{
			Name:                sc.Name,
			Kind:                sc.Kind,
			Repetitions:         sc.Repetitions,
			Tolerance:           sc.Tolerance,
			StabilizationDigits: sc.StabilizationDigits,
			Scale:               sc.Scale,
		})
	}

	validator := validation.SuiteValidator{
		Suite: validation.SuiteCheck{
			Name:    c.Suite.Name,
			Workers: c.Suite.Workers,
		},
		Scenarios: checks,
	}

	return validator.ValidateAll()
}
