// Package runner executes verification scenarios and collects their
// results. A batch never aborts: scenarios that fail or error are recorded
// alongside the ones that pass.
package runner

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iwvelando/floatcheck/internal/config"
	"github.com/iwvelando/floatcheck/pkg/floatcmp"
	"github.com/iwvelando/floatcheck/pkg/scenario"
)

// Runner executes a batch of scenario definitions.
type Runner struct {
	logger      *zap.Logger
	suite       string
	workers     int
	definitions []scenario.Definition
}

// Result summarizes one batch run keyed by scenario order.
type Result struct {
	Suite   string
	Results []scenario.Result
	Elapsed time.Duration
}

// Empty indicates whether the run produced any results.
func (r Result) Empty() bool {
	return len(r.Results) == 0
}

// Passed reports whether every scenario reached the passed state. An empty
// batch passes trivially.
func (r Result) Passed() bool {
	for _, result := range r.Results {
		if result.State != scenario.StatePassed {
			return false
		}
	}
	return true
}

// Counts tallies results by state.
func (r Result) Counts() map[scenario.State]int {
	counts := make(map[scenario.State]int)
	for _, result := range r.Results {
		counts[result.State]++
	}
	return counts
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := conf.Suite.Workers
	if workers < 1 {
		workers = 1
	}

	runner := &Runner{logger: logger, suite: conf.Suite.Name, workers: workers}

	definitions, err := conf.BuildDefinitions()
	if err != nil {
		return nil, err
	}
	for _, definition := range definitions {
		if err := runner.Register(definition); err != nil {
			return nil, err
		}
	}

	return runner, nil
}

// Register adds a definition to the batch after checking its contract. The
// definition is cloned so later caller mutations cannot reach into the run.
func (r *Runner) Register(definition scenario.Definition) error {
	if err := definition.Validate(); err != nil {
		return err
	}
	r.definitions = append(r.definitions, definition.Clone())
	return nil
}

// Run executes every registered scenario and returns results in
// registration order. Scenarios fan out across the configured workers while
// the repetitions inside each scenario stay strictly sequential.
func (r *Runner) Run() (*Result, error) {
	started := time.Now()
	results := make([]scenario.Result, len(r.definitions))

	workers := r.workers
	if workers > len(r.definitions) {
		workers = len(r.definitions)
	}

	if workers <= 1 {
		for i := range r.definitions {
			results[i] = r.execute(r.definitions[i])
		}
	} else {
		indexes := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indexes {
					results[i] = r.execute(r.definitions[i])
				}
			}()
		}
		for i := range r.definitions {
			indexes <- i
		}
		close(indexes)
		wg.Wait()
	}

	result := &Result{Suite: r.suite, Results: results, Elapsed: time.Since(started)}

	counts := result.Counts()
	r.logger.Info("batch run complete",
		zap.String("suite", r.suite),
		zap.Int("scenarios", len(results)),
		zap.Int("passed", counts[scenario.StatePassed]),
		zap.Int("failedDeterminism", counts[scenario.StateFailedDeterminism]),
		zap.Int("failedTolerance", counts[scenario.StateFailedTolerance]),
		zap.Int("failedError", counts[scenario.StateFailedError]),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

// execute runs one scenario through its repetitions and derives the verdict.
func (r *Runner) execute(definition scenario.Definition) scenario.Result {
	result := scenario.Result{
		Name:        definition.Name,
		Kind:        definition.Kind,
		State:       scenario.StateRunning,
		Reference:   definition.Reference,
		Tolerance:   definition.Tolerance,
		Repetitions: definition.Repetitions,
	}

	started := time.Now()
	observations := make([]scenario.Value, 0, definition.Repetitions)
	for i := 0; i < definition.Repetitions; i++ {
		value, err := definition.Compute()
		if err != nil {
			result.State = scenario.StateFailedError
			result.Err = fmt.Errorf("repetition %d: %w", i+1, err)
			result.Observations = observations
			result.Elapsed = time.Since(started)
			r.logger.Warn("scenario computation failed",
				zap.String("scenario", definition.Name),
				zap.String("kind", definition.Kind),
				zap.Int("repetition", i+1),
				zap.Error(err),
			)
			return result
		}
		observations = append(observations, value)
	}

	result.Observations = observations
	result.Elapsed = time.Since(started)
	result.Deterministic = scenario.Identical(observations)
	result.Spread = scenario.ComputeSpread(observations)

	observed := observations[0]
	result.Observed = observed.Float64()
	result.WithinTolerance = floatcmp.Within(result.Observed, definition.Reference, definition.Tolerance)

	if observed.IsNaN() {
		result.Notes = append(result.Notes, "observed value is NaN and can never fall within tolerance")
	} else if observed.IsInf() {
		result.Notes = append(result.Notes, "observed value is infinite")
	}
	if !result.Deterministic {
		result.Notes = append(result.Notes, fmt.Sprintf("%d distinct bit patterns across %d repetitions",
			distinctObservations(observations), len(observations)))
	}

	switch {
	case !result.Deterministic:
		result.State = scenario.StateFailedDeterminism
	case !result.WithinTolerance:
		result.State = scenario.StateFailedTolerance
	default:
		result.State = scenario.StatePassed
	}

	fields := []zap.Field{
		zap.String("scenario", definition.Name),
		zap.String("kind", definition.Kind),
		zap.String("state", result.State.String()),
		zap.Bool("deterministic", result.Deterministic),
		zap.Bool("withinTolerance", result.WithinTolerance),
		zap.Float64("observed", result.Observed),
		zap.Float64("reference", definition.Reference),
		zap.Float64("delta", math.Abs(result.Observed-definition.Reference)),
		zap.Float64("tolerance", definition.Tolerance),
		zap.Int("repetitions", definition.Repetitions),
		zap.Duration("elapsed", result.Elapsed),
	}
	if result.State == scenario.StatePassed {
		r.logger.Info("scenario verified", fields...)
	} else {
		r.logger.Warn("scenario failed verification", fields...)
	}

	return result
}

func distinctObservations(observations []scenario.Value) int {
	seen := make(map[scenario.Value]struct{}, len(observations))
	for _, value := range observations {
		seen[value] = struct{}{}
	}
	return len(seen)
}
