package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/telescope/internal/dataset"
	"github.com/roach88/telescope/internal/solver"
	"github.com/roach88/telescope/internal/store"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Timing  bool
	Summary bool

	// IDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to solver.UUIDv7Generator.
	IDGenerator solver.IDGenerator

	// Clock allows overriding the wall clock (for testing).
	Clock func() time.Time
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	return newSolveCommand(&SolveOptions{RootOptions: rootOpts})
}

func newSolveCommand(opts *SolveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <dataset>",
		Short: "Find the longest observable chain in a dataset",
		Long: `Load a dataset, find its longest observable chain and print it.

The dataset format is chosen by extension: .txt/.in or none for the
"<count> <dim>" text format, .yaml/.yml/.json for YAML documents and .cue
for CUE documents.

When a database is configured with --db or TELESCOPE_DB the run is
recorded in the run history.

Exit codes:
  0 - Chain found
  1 - No chain (endpoints unreachable, fewer than two events, mixed dimensions)
  2 - Command error (unreadable dataset, database error)

Examples:
  telescope solve input.txt
  telescope solve --timing --summary input.txt
  telescope solve --db runs.db --format json events.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, dataset.FileProvider{Path: args[0]}, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Timing, "timing", false, "print the time taken by the solve")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "print input and pruning counts")

	return cmd
}

// runSolve solves the dataset from p and prints the chain. Shared by solve
// and generate --solve.
func runSolve(opts *SolveOptions, p solver.Provider, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	solverOpts := []solver.Option{solver.WithLogger(slog.Default())}
	if opts.IDGenerator != nil {
		solverOpts = append(solverOpts, solver.WithIDGenerator(opts.IDGenerator))
	}
	if opts.Clock != nil {
		solverOpts = append(solverOpts, solver.WithClock(opts.Clock))
	}

	if opts.Database != "" {
		st, err := openStore(formatter, opts.Database)
		if err != nil {
			return err
		}
		defer closeStore(st)
		solverOpts = append(solverOpts, solver.WithRecorder(st))
	}

	var consumer solver.Consumer = solver.TextConsumer{
		W:       cmd.OutOrStdout(),
		Timing:  opts.Timing,
		Summary: opts.Summary,
	}
	if opts.Format == "json" {
		consumer = solver.ConsumerFunc(func(ctx context.Context, run *solver.Run) error {
			return formatter.SuccessWithRun(run.ID, run)
		})
	}

	if _, err := solver.New(solverOpts...).Solve(ctx, p, consumer); err != nil {
		return reportError(formatter, "solve failed", err)
	}
	return nil
}

// openStore opens the run history, reporting failure through formatter.
func openStore(formatter *OutputFormatter, path string) (*store.Store, error) {
	formatter.VerboseLog("Opening run history %s", path)
	st, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
