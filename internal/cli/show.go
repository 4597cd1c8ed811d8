package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/telescope/internal/store"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a recorded run",
		Long: `Print a recorded run's details and its chain.

The chain is printed in the same form solve prints it.

Examples:
  telescope show --db runs.db 01935c7e-8a4b-7c3d-9e2f-1a2b3c4d5e6f
  telescope show --db runs.db --format json 01935c7e-8a4b-7c3d-9e2f-1a2b3c4d5e6f`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	st, err := openExistingStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	rec, err := st.ReadRun(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		msg := fmt.Sprintf("run not found: %s", runID)
		_ = formatter.Error(ErrCodeRunNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Format == "json" {
		return formatter.SuccessWithRun(rec.ID, rec)
	}
	outputRunText(formatter, rec)
	return nil
}

func outputRunText(formatter *OutputFormatter, rec store.RunRecord) {
	w := formatter.Writer
	p := newPrinter()

	fmt.Fprintf(w, "Run %s (seq %d)\n", rec.ID, rec.Seq)
	fmt.Fprintf(w, "  Dataset:  %s\n", rec.DatasetName)
	fmt.Fprintf(w, "  Digest:   %s\n", rec.DatasetDigest)
	fmt.Fprintf(w, "  Created:  %s\n", rec.CreatedAt.Format(time.RFC3339Nano))
	fmt.Fprintf(w, "  Solver:   %s\n", rec.SolverVersion)
	p.Fprintf(w, "  Events:   %d in %d dimensions, %d after pruning\n", rec.InputCount, rec.Dimensions, rec.PrunedCount)
	p.Fprintf(w, "  Levels:   %d (%d demotions)\n", rec.Levels, rec.Stats.Demotions)
	fmt.Fprintf(w, "  Elapsed:  %v\n", rec.Elapsed)
	fmt.Fprintln(w)

	for _, e := range rec.Chain {
		fmt.Fprintln(w, e.String())
	}
	fmt.Fprintf(w, "Path size: %d\n", rec.Length)
}
