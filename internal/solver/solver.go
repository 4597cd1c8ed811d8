package solver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/telescope/internal/chain"
	"github.com/roach88/telescope/internal/dataset"
	"github.com/roach88/telescope/internal/event"
	"github.com/roach88/telescope/internal/store"
)

// Version is recorded with every run.
const Version = "0.1.0"

// Provider supplies the dataset to solve.
// Implemented by dataset.FileProvider, dataset.StaticProvider and
// dataset.GeneratorProvider.
type Provider interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Consumer receives a finished run.
// Implemented by TextConsumer; the CLI supplies its own for JSON output.
type Consumer interface {
	Consume(ctx context.Context, run *Run) error
}

// Recorder persists a finished run.
// Implemented by *store.Store.
type Recorder interface {
	RecordRun(ctx context.Context, rec store.RunRecord) error
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(ctx context.Context, run *Run) error

// Consume calls f(ctx, run).
func (f ConsumerFunc) Consume(ctx context.Context, run *Run) error {
	return f(ctx, run)
}

// Run is the outcome of one solve.
type Run struct {
	ID            string        `json:"id"`
	DatasetName   string        `json:"dataset"`
	DatasetDigest string        `json:"digest"`
	Dimensions    int           `json:"dimensions"`
	InputCount    int           `json:"input_count"`
	PrunedCount   int           `json:"pruned_count"`
	Sorted        bool          `json:"sorted"`
	Chain         []event.Event `json:"chain"`
	Length        int           `json:"length"`
	Levels        int           `json:"levels"`
	Stats         chain.Stats   `json:"stats"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	StartedAt     time.Time     `json:"started_at"`
}

// Record converts r into the form stored in run history.
func (r *Run) Record() store.RunRecord {
	return store.RunRecord{
		ID:            r.ID,
		DatasetName:   r.DatasetName,
		DatasetDigest: r.DatasetDigest,
		Dimensions:    r.Dimensions,
		InputCount:    r.InputCount,
		PrunedCount:   r.PrunedCount,
		Length:        r.Length,
		Levels:        r.Levels,
		Sorted:        r.Sorted,
		Stats:         r.Stats,
		Elapsed:       r.Elapsed,
		CreatedAt:     r.StartedAt,
		SolverVersion: Version,
		Chain:         r.Chain,
	}
}

// Solver runs solves. The zero configuration logs to slog.Default, uses the
// wall clock, generates UUIDv7 run IDs and records nothing.
type Solver struct {
	logger   *slog.Logger
	now      func() time.Time
	ids      IDGenerator
	recorder Recorder
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock used for start times and elapsed time.
// Tests pass a testutil.StepClock's Now.
func WithClock(now func() time.Time) Option {
	return func(s *Solver) {
		s.now = now
	}
}

// WithIDGenerator sets the run ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Solver) {
		s.ids = g
	}
}

// WithRecorder records every successful run. A nil recorder disables
// recording.
func WithRecorder(r Recorder) Option {
	return func(s *Solver) {
		s.recorder = r
	}
}

// New creates a Solver.
func New(opts ...Option) *Solver {
	s := &Solver{
		logger: slog.Default(),
		now:    time.Now,
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve loads a dataset from p, finds its longest observable chain, passes
// the run to c and records it when a recorder is configured. c may be nil.
func (s *Solver) Solve(ctx context.Context, p Provider, c Consumer) (*Run, error) {
	s.logger.Debug("loading dataset")
	ds, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	s.logger.Debug("dataset loaded",
		"dataset", ds.Name,
		"events", ds.Len(),
		"dimensions", ds.Dim,
		"sorted", ds.Sorted,
	)

	run, err := s.SolveDataset(ctx, ds)
	if err != nil {
		return nil, err
	}

	if c != nil {
		if err := c.Consume(ctx, run); err != nil {
			return nil, fmt.Errorf("consume run: %w", err)
		}
	}

	if s.recorder != nil {
		if err := s.recorder.RecordRun(ctx, run.Record()); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		s.logger.Info("run recorded", "run_id", run.ID)
	}

	return run, nil
}

// SolveDataset solves an already loaded dataset. Nothing is consumed or
// recorded.
func (s *Solver) SolveDataset(ctx context.Context, ds *dataset.Dataset) (*Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	digest, err := dataset.Digest(ds)
	if err != nil {
		return nil, err
	}

	id := s.ids.Generate()
	started := s.now()
	res, err := chain.Solve(ds.Events)
	elapsed := s.now().Sub(started)
	if err != nil {
		if chain.IsInvariantError(err) {
			s.logger.Error("solver invariant violated",
				"run_id", id,
				"dataset", ds.Name,
				"error", err,
			)
		} else {
			s.logger.Debug("no chain", "run_id", id, "dataset", ds.Name, "error", err)
		}
		return nil, fmt.Errorf("solve %s: %w", ds.Name, err)
	}

	run := &Run{
		ID:            id,
		DatasetName:   ds.Name,
		DatasetDigest: digest,
		Dimensions:    ds.Dim,
		InputCount:    res.InputCount,
		PrunedCount:   res.PrunedCount,
		Sorted:        res.Sorted,
		Chain:         res.Chain,
		Length:        res.Length,
		Levels:        res.Levels,
		Stats:         res.Stats,
		Elapsed:       elapsed,
		StartedAt:     started,
	}

	s.logger.Info("chain solved",
		"run_id", run.ID,
		"dataset", run.DatasetName,
		"events", run.InputCount,
		"pruned", run.PrunedCount,
		"length", run.Length,
		"levels", run.Levels,
		"elapsed", run.Elapsed,
	)
	return run, nil
}
