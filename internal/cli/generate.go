package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/telescope/internal/dataset"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*SolveOptions
	Count  int
	Bound  int64
	Dim    int
	Seed   uint64
	Name   string
	Output string
	Solve  bool
}

// GenerateResult describes a written dataset.
type GenerateResult struct {
	Path       string `json:"path"`
	Dataset    string `json:"dataset"`
	Events     int    `json:"events"`
	Dimensions int    `json:"dimensions"`
	Seed       uint64 `json:"seed"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{SolveOptions: &SolveOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random dataset",
		Long: `Generate a random dataset of count events.

Times are drawn from [0, count) and every coordinate from [-bound, bound).
The same seed always yields the same dataset; without --seed a time-based
seed is used. Without -o the dataset is written to stdout in text format.

With --solve the generated dataset is solved right away, read back from -o
when given.

Examples:
  telescope generate -n 100000 -b 100 -d 3 --seed 7 -o input.txt
  telescope generate -n 1000 -d 2 --solve --timing`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.Seed = uint64(time.Now().UnixNano())
			}
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 100000, "number of events")
	cmd.Flags().Int64VarP(&opts.Bound, "bound", "b", 100, "coordinate bound")
	cmd.Flags().IntVarP(&opts.Dim, "dim", "d", 3, "number of coordinates per event")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&opts.Name, "name", "", "dataset name")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output path (.txt, .yaml or .json)")
	cmd.Flags().BoolVar(&opts.Solve, "solve", false, "solve the generated dataset")
	cmd.Flags().BoolVar(&opts.Timing, "timing", false, "print the time taken by the solve")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "print input and pruning counts")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	ds, err := dataset.Generate(dataset.GenerateOptions{
		Count: opts.Count,
		Bound: opts.Bound,
		Dim:   opts.Dim,
		Seed:  opts.Seed,
		Name:  opts.Name,
	})
	if err != nil {
		return reportError(formatter, "generate failed", err)
	}
	formatter.VerboseLog("Generated %d event(s) with seed %d", ds.Len(), opts.Seed)

	if opts.Output == "" {
		if opts.Solve {
			return runSolve(opts.SolveOptions, dataset.StaticProvider{Dataset: ds}, cmd)
		}
		if err := dataset.WriteText(cmd.OutOrStdout(), ds); err != nil {
			return WrapExitError(ExitCommandError, "failed to write dataset", err)
		}
		return nil
	}

	if err := dataset.SaveFile(opts.Output, ds); err != nil {
		return reportError(formatter, "write failed", err)
	}

	result := GenerateResult{
		Path:       opts.Output,
		Dataset:    ds.Name,
		Events:     ds.Len(),
		Dimensions: ds.Dim,
		Seed:       opts.Seed,
	}

	if opts.Solve {
		if opts.Format != "json" {
			printGenerated(formatter, result)
		}
		return runSolve(opts.SolveOptions, dataset.FileProvider{Path: opts.Output}, cmd)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	printGenerated(formatter, result)
	return nil
}

func printGenerated(formatter *OutputFormatter, r GenerateResult) {
	// Seeds are not grouped.
	counts := newPrinter().Sprintf("%d events in %d dimensions", r.Events, r.Dimensions)
	fmt.Fprintf(formatter.Writer, "Wrote %s to %s (seed %d)\n", counts, r.Path, r.Seed)
}
