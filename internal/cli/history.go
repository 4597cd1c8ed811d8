package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/telescope/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit  int
	Digest string
}

// HistoryResult holds the listed runs.
type HistoryResult struct {
	Runs  []store.RunRecord `json:"runs"`
	Total int               `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded in the run history, newest first.

Runs over the same events share a dataset digest; --digest lists only
those.

Examples:
  telescope history --db runs.db
  telescope history --db runs.db --limit 5
  telescope history --db runs.db --digest 3f1a... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "only runs over the dataset with this digest")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	st, err := openExistingStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	var runs []store.RunRecord
	if opts.Digest != "" {
		runs, err = st.ListRunsByDigest(ctx, opts.Digest)
		if err == nil && opts.Limit > 0 && len(runs) > opts.Limit {
			runs = runs[:opts.Limit]
		}
	} else {
		runs, err = st.ListRuns(ctx, opts.Limit)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	result := HistoryResult{Runs: runs, Total: len(runs)}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputHistoryText(formatter, result)
}

func outputHistoryText(formatter *OutputFormatter, result HistoryResult) error {
	w := formatter.Writer
	if result.Total == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	p := newPrinter()
	fmt.Fprintf(w, "Runs (%d):\n", result.Total)
	for _, r := range result.Runs {
		fmt.Fprintf(w, "  [%d] %s %s\n", r.Seq, r.ID, r.CreatedAt.Format(time.RFC3339))
		p.Fprintf(w, "       %s: path size %d, %d events, %d after pruning, %v\n",
			r.DatasetName, r.Length, r.InputCount, r.PrunedCount, r.Elapsed)
		if formatter.Verbose {
			fmt.Fprintf(w, "       digest %s\n", r.DatasetDigest)
		}
	}
	return nil
}

// requireDatabase reports a missing --db through formatter.
func requireDatabase(formatter *OutputFormatter, path string) error {
	if path != "" {
		return nil
	}
	msg := "no database configured: use --db or TELESCOPE_DB"
	_ = formatter.Error(ErrCodeNoDatabase, msg, nil)
	return NewExitError(ExitCommandError, msg)
}

// openExistingStore opens a run history that must already exist, so a
// mistyped path is not silently created empty.
func openExistingStore(formatter *OutputFormatter, path string) (*store.Store, error) {
	if err := requireDatabase(formatter, path); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		msg := fmt.Sprintf("database not found: %s", path)
		_ = formatter.Error(ErrCodeStore, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}
	return openStore(formatter, path)
}
