package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/telescope/internal/chain"
	"github.com/roach88/telescope/internal/dataset"
	"github.com/roach88/telescope/internal/event"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool   `json:"valid"`
	Dataset    string `json:"dataset"`
	Digest     string `json:"digest"`
	Events     int    `json:"events"`
	Dimensions int    `json:"dimensions"`
	Sorted     bool   `json:"sorted"`
	Pruned     int    `json:"pruned"`
	Reason     string `json:"reason,omitempty"` // why no chain exists
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Check a dataset without solving it",
		Long: `Parse a dataset and check that a chain can exist.

Reports the event count, dimensionality, whether events are already in time
order and how many events survive pruning. Faster than solve for large
inputs since the chain itself is not computed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ds, err := dataset.LoadFile(path)
	if err != nil {
		code, _ := classify(err)
		return outputValidateError(formatter, code, err.Error())
	}
	formatter.VerboseLog("Loaded %d event(s) from %s", ds.Len(), path)

	digest, err := dataset.Digest(ds)
	if err != nil {
		return outputValidateError(formatter, ErrCodeGeneric, err.Error())
	}

	result := ValidationResult{
		Valid:      true,
		Dataset:    ds.Name,
		Digest:     digest,
		Events:     ds.Len(),
		Dimensions: ds.Dim,
		Sorted:     ds.Sorted,
	}

	sorted := event.Clone(ds.Events)
	event.SortStable(sorted)
	pruned, err := chain.Prune(sorted)
	if err != nil {
		result.Valid = false
		result.Reason = err.Error()
	} else {
		result.Pruned = len(pruned.Events)
	}

	return outputValidateResult(formatter, result)
}

// newPrinter returns the printer used for grouped counts in text output.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.AmericanEnglish)
}

// outputValidateResult outputs the validation result. A dataset without a
// chain is a validation failure.
func outputValidateResult(formatter *OutputFormatter, r ValidationResult) error {
	if formatter.Format == "json" {
		if err := formatter.Success(r); err != nil {
			return err
		}
	} else {
		p := newPrinter()
		w := formatter.Writer
		if r.Valid {
			p.Fprintf(w, "✓ %s valid\n", r.Dataset)
		} else {
			p.Fprintf(w, "✗ %s has no chain\n", r.Dataset)
			p.Fprintf(w, "  %s\n", r.Reason)
		}
		p.Fprintf(w, "  events:     %d\n", r.Events)
		p.Fprintf(w, "  dimensions: %d\n", r.Dimensions)
		p.Fprintf(w, "  sorted:     %t\n", r.Sorted)
		if r.Valid {
			p.Fprintf(w, "  pruned:     %d\n", r.Pruned)
		}
		p.Fprintf(w, "  digest:     %s\n", r.Digest)
	}

	if !r.Valid {
		// No chain = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed: %s", r.Reason))
	}
	return nil
}

// outputValidateError outputs a dataset that could not be read.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Unreadable datasets are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
