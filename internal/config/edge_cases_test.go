package config

import (
	"strings"
	"testing"
)

// TestScenarioValueEdgeCases tests how unusual YAML values decode into the
// scenario schema.
func TestScenarioValueEdgeCases(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		expectError bool
		check       func(t *testing.T, c *Configuration)
		description string
	}{
		{
			name: "Integer valued floats",
			yaml: `
scenarios:
  - name: ints
    kind: classic-sum
    repetitions: 3
    tolerance: 1
    reference: 2
    params:
      a: 1
      b: 1
`,
			check: func(t *testing.T, c *Configuration) {
				sc := c.Scenarios[0]
				if sc.Tolerance != 1.0 {
					t.Errorf("Expected tolerance 1.0, got %v", sc.Tolerance)
				}
				if sc.Reference == nil || *sc.Reference != 2.0 {
					t.Errorf("Expected reference 2.0, got %v", sc.Reference)
				}
				if sc.Params["a"] != 1.0 {
					t.Errorf("Expected param a = 1.0, got %v", sc.Params["a"])
				}
			},
			description: "Should widen whole-number YAML values into float fields",
		},
		{
			name: "Scientific notation tolerance",
			yaml: `
scenarios:
  - name: tiny
    kind: classic-sum
    repetitions: 3
    tolerance: 2.5e-8
    params:
      a: 0.1
      b: 0.2
`,
			check: func(t *testing.T, c *Configuration) {
				if c.Scenarios[0].Tolerance != 2.5e-8 {
					t.Errorf("Expected tolerance 2.5e-8, got %v", c.Scenarios[0].Tolerance)
				}
			},
			description: "Should parse scientific notation tolerances",
		},
		{
			name: "Pinned zero reference",
			yaml: `
scenarios:
  - name: vanishing
    kind: precision-limit64
    repetitions: 3
    tolerance: 0.0
    reference: 0
    params:
      delta: 0.4
`,
			check: func(t *testing.T, c *Configuration) {
				sc := c.Scenarios[0]
				if sc.Reference == nil {
					t.Fatalf("Expected pinned reference, got nil")
				}
				if *sc.Reference != 0 {
					t.Errorf("Expected reference 0, got %v", *sc.Reference)
				}
			},
			description: "Should distinguish an explicit zero reference from an absent one",
		},
		{
			name: "Absent reference stays nil",
			yaml: `
scenarios:
  - name: derived
    kind: classic-sum
    repetitions: 3
    tolerance: 1.0e-15
    params:
      a: 0.1
      b: 0.2
`,
			check: func(t *testing.T, c *Configuration) {
				if c.Scenarios[0].Reference != nil {
					t.Errorf("Expected nil reference, got %v", *c.Scenarios[0].Reference)
				}
			},
			description: "Should leave the reference pointer nil when the key is missing",
		},
		{
			name: "Zero stabilization digits",
			yaml: `
scenarios:
  - name: integral
    kind: compound
    repetitions: 3
    tolerance: 1.0
    stabilizationDigits: 0
    params:
      principal: 1000
      rate: 0.05
      periods: 10
`,
			check: func(t *testing.T, c *Configuration) {
				sc := c.Scenarios[0]
				if sc.StabilizationDigits == nil {
					t.Fatalf("Expected stabilizationDigits pointer, got nil")
				}
				if *sc.StabilizationDigits != 0 {
					t.Errorf("Expected 0 stabilization digits, got %d", *sc.StabilizationDigits)
				}
			},
			description: "Should allocate the digits pointer even for an explicit zero",
		},
		{
			name: "Negative series entries",
			yaml: `
scenarios:
  - name: ledger
    kind: ledger-sum
    repetitions: 3
    tolerance: 1.0e-9
    params:
      cycles: 2
    series: [-0.5, 0.5, -1.25]
`,
			check: func(t *testing.T, c *Configuration) {
				sc := c.Scenarios[0]
				if len(sc.Series) != 3 {
					t.Fatalf("Expected 3 series entries, got %d", len(sc.Series))
				}
				if sc.Series[2] != -1.25 {
					t.Errorf("Expected series[2] = -1.25, got %v", sc.Series[2])
				}
			},
			description: "Should carry signed series entries through unchanged",
		},
		{
			name: "Unknown keys ignored",
			yaml: `
website: true
scenarios:
  - name: sum
    kind: classic-sum
    repetitions: 3
    tolerance: 1.0e-15
    flavor: vanilla
    params:
      a: 0.1
      b: 0.2
`,
			check: func(t *testing.T, c *Configuration) {
				if len(c.Scenarios) != 1 {
					t.Errorf("Expected 1 scenario, got %d", len(c.Scenarios))
				}
			},
			description: "Should ignore unrecognized keys at any level",
		},
		{
			name:        "Scenarios holding a scalar",
			yaml:        "scenarios: 42\n",
			expectError: true,
			description: "Should reject a scenarios key that is not a list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))

			if tt.expectError && err == nil {
				t.Errorf("Expected error for %s but got none", tt.description)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.description, err)
			}
			if err != nil || tt.check == nil {
				return
			}

			if len(config.Scenarios) == 0 {
				t.Fatalf("Expected scenarios for %s but got none", tt.description)
			}
			tt.check(t, config)
		})
	}
}

// TestNormalizeEdgeCases tests normalization of degenerate suite settings.
func TestNormalizeEdgeCases(t *testing.T) {
	tests := []struct {
		name        string
		config      Configuration
		check       func(t *testing.T, c *Configuration)
		description string
	}{
		{
			name: "Negative workers",
			config: Configuration{
				Suite: Suite{Name: "suite", Workers: -3},
			},
			check: func(t *testing.T, c *Configuration) {
				if c.Suite.Workers != 1 {
					t.Errorf("Expected workers clamped to 1, got %d", c.Suite.Workers)
				}
			},
			description: "Should clamp a negative worker count to one",
		},
		{
			name: "Large worker count kept",
			config: Configuration{
				Suite: Suite{Name: "suite", Workers: 64},
			},
			check: func(t *testing.T, c *Configuration) {
				if c.Suite.Workers != 64 {
					t.Errorf("Expected workers 64, got %d", c.Suite.Workers)
				}
			},
			description: "Should keep an explicit oversized worker count",
		},
		{
			name: "Whitespace suite name",
			config: Configuration{
				Suite: Suite{Name: "   ", Workers: 1},
			},
			check: func(t *testing.T, c *Configuration) {
				if c.Suite.Name != DefaultSuiteName {
					t.Errorf("Expected default suite name, got %q", c.Suite.Name)
				}
			},
			description: "Should treat a blank suite name as missing",
		},
		{
			name: "Mixed case output format",
			config: Configuration{
				Output: OutputConfig{Format: "  CSV "},
			},
			check: func(t *testing.T, c *Configuration) {
				if c.Output.Format != "csv" {
					t.Errorf("Expected canonical output format csv, got %q", c.Output.Format)
				}
			},
			description: "Should lowercase and trim the output format",
		},
		{
			name: "Mixed case kind",
			config: Configuration{
				Scenarios: []ScenarioConfig{
					{Name: "sum", Kind: " Ledger-Sum ", Repetitions: 3, Tolerance: 1e-9},
				},
			},
			check: func(t *testing.T, c *Configuration) {
				if c.Scenarios[0].Kind != "ledger-sum" {
					t.Errorf("Expected canonical kind ledger-sum, got %q", c.Scenarios[0].Kind)
				}
			},
			description: "Should canonicalize scenario kinds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Normalize()
			tt.check(t, &tt.config)
		})
	}
}

// TestBuildDefinitionsEdgeCases tests catalog construction on unusual but
// well-formed configurations.
func TestBuildDefinitionsEdgeCases(t *testing.T) {
	pinned := 0.3

	tests := []struct {
		name        string
		scenario    ScenarioConfig
		expectError string
		check       func(t *testing.T, c *Configuration)
		description string
	}{
		{
			name: "Scale on a non fixed-point kind",
			scenario: ScenarioConfig{
				Name:        "sum",
				Kind:        "classic-sum",
				Repetitions: 3,
				Tolerance:   1e-15,
				Scale:       100,
				Params:      map[string]float64{"a": 0.1, "b": 0.2},
			},
			description: "Should ignore a scale the kind never consults",
		},
		{
			name: "Series on a non series kind",
			scenario: ScenarioConfig{
				Name:        "sum",
				Kind:        "classic-sum",
				Repetitions: 3,
				Tolerance:   1e-15,
				Params:      map[string]float64{"a": 0.1, "b": 0.2},
				Series:      []float64{1, 2, 3},
			},
			description: "Should ignore a series the kind never consults",
		},
		{
			name: "Explicit reference overrides derivation",
			scenario: ScenarioConfig{
				Name:        "pinned sum",
				Kind:        "classic-sum",
				Repetitions: 3,
				Tolerance:   1e-15,
				Reference:   &pinned,
				Params:      map[string]float64{"a": 0.1, "b": 0.2},
			},
			check: func(t *testing.T, c *Configuration) {
				definitions, err := c.BuildDefinitions()
				if err != nil {
					t.Fatalf("BuildDefinitions() error = %v", err)
				}
				if definitions[0].Reference != 0.3 {
					t.Errorf("Expected pinned reference 0.3, got %v", definitions[0].Reference)
				}
			},
			description: "Should prefer the configured reference over the exact-decimal path",
		},
		{
			name: "Missing series",
			scenario: ScenarioConfig{
				Name:        "ledger",
				Kind:        "ledger-sum",
				Repetitions: 3,
				Tolerance:   1e-9,
				Params:      map[string]float64{"cycles": 2},
			},
			expectError: "non-empty series",
			description: "Should reject a series kind without series data",
		},
		{
			name: "Missing scale",
			scenario: ScenarioConfig{
				Name:        "cents",
				Kind:        "compound-cents",
				Repetitions: 3,
				Tolerance:   0.01,
				Params:      map[string]float64{"principal": 1000, "rate": 0.05, "periods": 10},
			},
			expectError: "positive scale",
			description: "Should reject a fixed-point kind without a scale",
		},
		{
			name: "Fractional count",
			scenario: ScenarioConfig{
				Name:        "drift",
				Kind:        "accumulation64",
				Repetitions: 3,
				Tolerance:   1e-9,
				Params:      map[string]float64{"increment": 0.1, "count": 2.5},
			},
			expectError: "must be an integer",
			description: "Should reject a fractional repetition-style parameter",
		},
		{
			name: "Negative count",
			scenario: ScenarioConfig{
				Name:        "drift",
				Kind:        "accumulation64",
				Repetitions: 3,
				Tolerance:   1e-9,
				Params:      map[string]float64{"increment": 0.1, "count": -5},
			},
			expectError: "must not be negative",
			description: "Should reject a negative count",
		},
		{
			name: "Reference required",
			scenario: ScenarioConfig{
				Name:        "power",
				Kind:        "power",
				Repetitions: 3,
				Tolerance:   1e-9,
				Params:      map[string]float64{"base": 2, "exponent": 0.5},
			},
			expectError: "explicit reference",
			description: "Should demand a pinned reference for kinds without a derivation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Configuration{
				Suite:     Suite{Name: "edge", Workers: 1},
				Scenarios: []ScenarioConfig{tt.scenario},
			}

			if tt.check != nil {
				tt.check(t, &config)
				return
			}

			_, err := config.BuildDefinitions()
			if tt.expectError == "" {
				if err != nil {
					t.Errorf("Unexpected error for %s: %v", tt.description, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error for %s but got none", tt.description)
			}
			if !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("Error %q should mention %q", err, tt.expectError)
			}
		})
	}
}
