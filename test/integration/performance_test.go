package integration

import (
	"math"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/iwvelando/floatcheck/internal/config"
	"github.com/iwvelando/floatcheck/internal/runner"
	"github.com/iwvelando/floatcheck/pkg/scenario"
)

// TestRunner is a simple test runner for debugging
func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}

// TestBasicFunctionality tests basic functionality works
func TestBasicFunctionality(t *testing.T) {
	// Create a no-op logger to avoid debug output during testing
	logger := zap.NewNop()

	// Test basic config loading
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	conf.Normalize()

	// Test runner construction
	batch, err := runner.NewRunner(logger, conf)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	// Test suite execution
	result, err := batch.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Empty() {
		t.Fatalf("Expected verification results but got none")
	}

	t.Logf("Successfully verified %d scenarios", len(result.Results))
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	// Create a no-op logger to avoid debug output during testing
	logger := zap.NewNop()

	start := time.Now()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	conf.Normalize()
	normalizeTime := time.Since(start)

	start = time.Now()
	batch, err := runner.NewRunner(logger, conf)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	buildTime := time.Since(start)

	start = time.Now()
	result, err := batch.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	runTime := time.Since(start)

	totalTime := loadTime + normalizeTime + buildTime + runTime

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  Normalize: %v", normalizeTime)
	t.Logf("  Build scenarios: %v", buildTime)
	t.Logf("  Run suite: %v", runTime)
	t.Logf("  Total time: %v", totalTime)

	// Performance expectations (adjust as needed)
	if totalTime > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", totalTime)
	}

	if len(result.Results) != 6 {
		t.Errorf("Expected 6 results, got %d", len(result.Results))
	}

	// Check that every scenario retained its full set of observations
	for i, res := range result.Results {
		if len(res.Observations) != res.Repetitions {
			t.Errorf("Scenario %d (%s) has %d observations, expected %d",
				i, res.Name, len(res.Observations), res.Repetitions)
		}
	}
}

// TestMemoryUsage performs basic memory usage validation
func TestMemoryUsage(t *testing.T) {
	// Create a no-op logger to avoid debug output during testing
	logger := zap.NewNop()

	// Run multiple iterations to check for memory leaks
	for i := 0; i < 10; i++ {
		conf, err := config.LoadConfiguration("../test_config.yaml")
		if err != nil {
			t.Fatalf("LoadConfiguration failed on iteration %d: %v", i, err)
		}

		conf.Normalize()

		batch, err := runner.NewRunner(logger, conf)
		if err != nil {
			t.Fatalf("NewRunner failed on iteration %d: %v", i, err)
		}

		_, err = batch.Run()
		if err != nil {
			t.Fatalf("Run failed on iteration %d: %v", i, err)
		}
	}

	t.Log("Successfully completed 10 iterations without memory issues")
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	// Create a no-op logger to avoid debug output during testing
	logger := zap.NewNop()

	// Run the same configuration multiple times
	var firstResults []scenario.Result

	for run := 0; run < 3; run++ {
		conf, err := config.LoadConfiguration("../test_config.yaml")
		if err != nil {
			t.Fatalf("LoadConfiguration failed on run %d: %v", run, err)
		}

		conf.Normalize()

		batch, err := runner.NewRunner(logger, conf)
		if err != nil {
			t.Fatalf("NewRunner failed on run %d: %v", run, err)
		}

		result, err := batch.Run()
		if err != nil {
			t.Fatalf("Run failed on run %d: %v", run, err)
		}

		if run == 0 {
			firstResults = result.Results
			continue
		}

		// Compare with first run
		if len(result.Results) != len(firstResults) {
			t.Errorf("Run %d: got %d results, expected %d",
				run, len(result.Results), len(firstResults))
			continue
		}

		for i, res := range result.Results {
			firstRes := firstResults[i]

			if res.Name != firstRes.Name {
				t.Errorf("Run %d, scenario %d: name mismatch %s != %s",
					run, i, res.Name, firstRes.Name)
			}

			if res.State != firstRes.State {
				t.Errorf("Run %d, scenario %d: state mismatch %s != %s",
					run, i, res.State, firstRes.State)
			}

			if len(res.Observations) != len(firstRes.Observations) {
				t.Errorf("Run %d, scenario %d: observation count mismatch %d != %d",
					run, i, len(res.Observations), len(firstRes.Observations))
				continue
			}

			// Observations must match bit for bit between runs
			for j, obs := range res.Observations {
				if !obs.Identical(firstRes.Observations[j]) {
					t.Errorf("Run %d, scenario %s, observation %d: bit pattern %#x != %#x",
						run, res.Name, j, obs.Bits(), firstRes.Observations[j].Bits())
				}
			}

			if math.Float64bits(res.Observed) != math.Float64bits(firstRes.Observed) {
				t.Errorf("Run %d, scenario %s: observed value %v != %v",
					run, res.Name, res.Observed, firstRes.Observed)
			}
		}
	}

	t.Log("Data consistency verified across multiple runs")
}

// TestConfigurationVariations tests different configuration variations
func TestConfigurationVariations(t *testing.T) {
	// Create a no-op logger to avoid debug output during testing
	logger := zap.NewNop()

	variations := []struct {
		name            string
		modifyConfig    func(*config.Configuration)
		expectError     bool
		expectScenarios int
	}{
		{
			name: "Baseline config",
			modifyConfig: func(c *config.Configuration) {
				// No changes
			},
			expectError:     false,
			expectScenarios: 6,
		},
		{
			name: "Single worker",
			modifyConfig: func(c *config.Configuration) {
				c.Suite.Workers = 1
			},
			expectError:     false,
			expectScenarios: 6,
		},
		{
			name: "More workers than scenarios",
			modifyConfig: func(c *config.Configuration) {
				c.Suite.Workers = 16
			},
			expectError:     false,
			expectScenarios: 6,
		},
		{
			name: "Drop one scenario",
			modifyConfig: func(c *config.Configuration) {
				c.Scenarios = c.Scenarios[:len(c.Scenarios)-1]
			},
			expectError:     false,
			expectScenarios: 5,
		},
		{
			name: "Unknown kind",
			modifyConfig: func(c *config.Configuration) {
				c.Scenarios[0].Kind = "time-travel"
			},
			expectError: true,
		},
		{
			name: "Negative tolerance",
			modifyConfig: func(c *config.Configuration) {
				c.Scenarios[0].Tolerance = -1.0
			},
			expectError: true,
		},
		{
			name: "Zero repetitions",
			modifyConfig: func(c *config.Configuration) {
				c.Scenarios[0].Repetitions = 0
			},
			expectError: true,
		},
	}

	for _, variation := range variations {
		t.Run(variation.name, func(t *testing.T) {
			conf, err := config.LoadConfiguration("../test_config.yaml")
			if err != nil {
				t.Fatalf("LoadConfiguration failed: %v", err)
			}

			conf.Normalize()

			// Apply variation
			variation.modifyConfig(conf)

			batch, err := runner.NewRunner(logger, conf)
			if variation.expectError && err == nil {
				t.Errorf("Expected error constructing the runner but got none")
				return
			}
			if !variation.expectError && err != nil {
				t.Errorf("Unexpected error constructing the runner: %v", err)
				return
			}

			if variation.expectError {
				return // Skip remaining checks for error cases
			}

			result, err := batch.Run()
			if err != nil {
				t.Errorf("Run failed: %v", err)
				return
			}

			if len(result.Results) != variation.expectScenarios {
				t.Errorf("Expected %d scenarios, got %d",
					variation.expectScenarios, len(result.Results))
			}

			if !result.Passed() {
				t.Errorf("Expected every scenario to pass")
			}
		})
	}
}

// BenchmarkSuiteRun measures repeated batch runs over the standard test suite
func BenchmarkSuiteRun(b *testing.B) {
	logger := zap.NewNop()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		b.Fatalf("LoadConfiguration failed: %v", err)
	}

	conf.Normalize()

	batch, err := runner.NewRunner(logger, conf)
	if err != nil {
		b.Fatalf("NewRunner failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := batch.Run()
		if err != nil {
			b.Fatalf("Run failed: %v", err)
		}
		if result.Empty() {
			b.Fatalf("Expected verification results but got none")
		}
	}
}

// BenchmarkSingleScenario measures one accumulation scenario without worker fan-out
func BenchmarkSingleScenario(b *testing.B) {
	logger := zap.NewNop()

	conf := &config.Configuration{
		Suite: config.Suite{Name: "bench", Workers: 1},
		Scenarios: []config.ScenarioConfig{
			{
				Name:        "drift float64",
				Kind:        "accumulation64",
				Repetitions: 5,
				Tolerance:   1.0e-10,
				Params:      map[string]float64{"increment": 0.1, "count": 1000},
			},
		},
	}
	conf.Normalize()

	batch, err := runner.NewRunner(logger, conf)
	if err != nil {
		b.Fatalf("NewRunner failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := batch.Run(); err != nil {
			b.Fatalf("Run failed: %v", err)
		}
	}
}
