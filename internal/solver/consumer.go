package solver

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TextConsumer prints a run's chain one event per line as
// "<time>: <c0> ... <cD-1>", followed by "Path size: N".
type TextConsumer struct {
	W io.Writer

	// Timing adds a "Time taken" line with the solve's elapsed time.
	Timing bool

	// Summary adds a line with grouped input and pruning counts.
	Summary bool
}

// Consume implements Consumer.
func (c TextConsumer) Consume(ctx context.Context, run *Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bw := bufio.NewWriter(c.W)
	for _, e := range run.Chain {
		bw.WriteString(e.String())
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "Path size: %d\n", run.Length)
	if c.Summary {
		bw.WriteString(Summarize(language.AmericanEnglish, run))
		bw.WriteByte('\n')
	}
	if c.Timing {
		fmt.Fprintf(bw, "Time taken: %s\n", run.Elapsed)
	}
	return bw.Flush()
}

// Summarize describes run's counts in one line, with digit grouping for tag.
func Summarize(tag language.Tag, run *Run) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%d events in %d dimensions, %d after pruning, %d levels, %d demotions",
		run.InputCount, run.Dimensions, run.PrunedCount, run.Levels, run.Stats.Demotions)
}
