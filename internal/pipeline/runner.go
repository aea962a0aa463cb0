package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfeller/coverbrief/internal/audit"
	"github.com/mfeller/coverbrief/internal/logging"
)

// ErrRunInFlight is returned by Run when another run is still active.
// Each Runner permits one run at a time.
var ErrRunInFlight = errors.New("a pipeline run is already in flight")

// Stage is a single pipeline step. A stage reads its input keys from the
// state, invokes the generation port once, writes its output keys, and
// returns the same state for chaining.
type Stage interface {
	// Name identifies the stage in logs, audit events and progress
	// updates.
	Name() string

	// Run executes the stage. Backend failures propagate; a stage never
	// partially completes its output keys.
	Run(ctx context.Context, state State) (State, error)
}

// Observer receives progress notifications during a run. Implementations
// must be fast; they are called synchronously between stages.
type Observer interface {
	StageStarted(stage string)
	StageCompleted(stage string, duration time.Duration)
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each run. Zero means unbounded, matching a backend
// that is trusted to always answer.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithAudit attaches an audit logger to the runner.
func WithAudit(log *audit.Logger) Option {
	return func(r *Runner) {
		r.audit = log
	}
}

// WithObserver attaches a progress observer to the runner.
func WithObserver(obs Observer) Option {
	return func(r *Runner) {
		r.observer = obs
	}
}

// Runner executes the fixed research -> writer chain: strictly
// sequential, no branching, the research stage fully completes before
// the writer stage begins.
type Runner struct {
	research Stage
	writer   Stage
	timeout  time.Duration
	audit    *audit.Logger
	observer Observer
	logger   *logging.Logger

	mu       sync.Mutex
	inFlight atomic.Bool
}

// NewRunner creates a Runner over the two stages.
func NewRunner(research, writer Stage, opts ...Option) *Runner {
	r := &Runner{
		research: research,
		writer:   writer,
		logger:   logging.GetLogger("pipeline"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Busy reports whether a run is currently in flight.
func (r *Runner) Busy() bool {
	return r.inFlight.Load()
}

// Run executes both stages for the given query and returns the final
// state. A second concurrent call fails fast with ErrRunInFlight. Stage
// errors are returned wrapped with the stage name; the state produced so
// far is returned alongside so front ends can render partial output.
func (r *Runner) Run(ctx context.Context, query string) (State, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInFlight
	}
	defer r.mu.Unlock()

	r.inFlight.Store(true)
	defer r.inFlight.Store(false)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.audit.LogUserQuery(query); err != nil {
		r.logger.Warn("audit write failed: %v", err)
	}

	state := NewState(query)
	start := time.Now()
	r.logger.InfoWithFields("run started",
		logging.Field("query_bytes", len(query)),
	)

	for _, stage := range []Stage{r.research, r.writer} {
		var err error
		if state, err = r.runStage(ctx, stage, state); err != nil {
			return state, err
		}
	}

	r.logger.InfoWithFields("run complete",
		logging.Field("duration_ms", time.Since(start).Milliseconds()),
		logging.Field("report_bytes", len(state.FinalReport())),
	)
	return state, nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage, state State) (State, error) {
	name := stage.Name()

	if r.observer != nil {
		r.observer.StageStarted(name)
	}
	if err := r.audit.LogStageStart(name); err != nil {
		r.logger.Warn("audit write failed: %v", err)
	}

	start := time.Now()
	state, err := stage.Run(ctx, state)
	elapsed := time.Since(start)

	if err != nil {
		if auditErr := r.audit.LogError(name, err); auditErr != nil {
			r.logger.Warn("audit write failed: %v", auditErr)
		}
		return state, fmt.Errorf("%s stage: %w", name, err)
	}

	if r.observer != nil {
		r.observer.StageCompleted(name, elapsed)
	}
	if auditErr := r.audit.LogStageComplete(name, elapsed, stageOutputBytes(stage, state)); auditErr != nil {
		r.logger.Warn("audit write failed: %v", auditErr)
	}
	return state, nil
}

func stageOutputBytes(stage Stage, state State) int {
	if stage.Name() == "writer" {
		return len(state.FinalReport())
	}
	if rd, ok := state.ResearchData(); ok {
		return len(rd.Text())
	}
	return 0
}
