package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/telescope/internal/chain"
	"github.com/roach88/telescope/internal/dataset"
	"github.com/roach88/telescope/internal/event"
	"github.com/roach88/telescope/internal/solver"
	"github.com/roach88/telescope/internal/store"
	"github.com/roach88/telescope/internal/testutil"
)

// clockBase is the instant every scenario run starts at.
var clockBase = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// clockStep is the elapsed time every scenario run reports.
const clockStep = time.Millisecond

// inlineProvider serves a scenario's inline dataset without validating it,
// so dimension mismatches reach the chain core and surface as chain errors.
type inlineProvider struct {
	ds *dataset.Dataset
}

func (p inlineProvider) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.ds, nil
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database for isolation, with
// a fixed run ID and a stepping clock so output is reproducible.
//
// Execution flow:
// 1. Build the input from inline events or the dataset file
// 2. Solve, render the run as text and record it
// 3. Check the expect clause
// 4. Evaluate assertions
//
// An error is returned only when the scenario cannot be executed at all
// (unreadable dataset, store failure). Chain errors become part of the
// result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	provider, ds, err := scenarioInput(scenario)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewStepClock(clockBase, clockStep)
	s := solver.New(
		solver.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
		solver.WithClock(clock.Now),
		solver.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.RunID)),
		solver.WithRecorder(st),
	)

	result := NewResult()
	result.Dataset = ds

	var out bytes.Buffer
	run, err := s.Solve(ctx, provider, solver.TextConsumer{W: &out})
	if err != nil {
		var ce *chain.ChainError
		if !errors.As(err, &ce) || ce.Code == chain.ErrCodeInvariant {
			return nil, fmt.Errorf("failed to solve: %w", err)
		}
		result.ErrorCode = string(ce.Code)
	} else {
		result.Run = run
		result.Chain = event.Strings(run.Chain)
		result.Length = run.Length
		result.Output = out.String()
	}

	if scenario.Expect != nil {
		for _, msg := range checkExpect(scenario.Expect, result) {
			result.AddError(msg)
		}
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// scenarioInput builds the provider for a scenario and the dataset it
// serves.
func scenarioInput(scenario *Scenario) (solver.Provider, *dataset.Dataset, error) {
	if scenario.Dataset != "" {
		ds, err := dataset.LoadFile(scenario.Dataset)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load dataset: %w", err)
		}
		return dataset.StaticProvider{Dataset: ds}, ds, nil
	}

	dim := 0
	switch {
	case scenario.Dimensions != nil:
		dim = *scenario.Dimensions
	case len(scenario.Events) > 0:
		dim = scenario.Events[0].Dim()
	}

	events := event.Clone(scenario.Events)
	ds := &dataset.Dataset{
		Name:   dataset.CleanName(scenario.Name),
		Dim:    dim,
		Events: events,
		Sorted: event.IsSorted(events),
	}
	return inlineProvider{ds: ds}, ds, nil
}

// checkExpect compares the outcome against an expect clause.
func checkExpect(expect *ExpectClause, result *Result) []string {
	var errs []string

	if expect.Error != "" {
		if result.ErrorCode != expect.Error {
			actual := "a chain of length " + fmt.Sprint(result.Length)
			if result.ErrorCode != "" {
				actual = result.ErrorCode
			}
			errs = append(errs, fmt.Sprintf("expected error %s, got %s", expect.Error, actual))
		}
		return errs
	}

	if result.ErrorCode != "" {
		return append(errs, fmt.Sprintf("expected a chain, got error %s", result.ErrorCode))
	}

	if expect.Length > 0 && result.Length != expect.Length {
		errs = append(errs, fmt.Sprintf("expected length %d, got %d", expect.Length, result.Length))
	}
	if len(expect.Chain) > 0 && !slices.Equal(expect.Chain, result.Chain) {
		errs = append(errs, fmt.Sprintf("expected chain %q, got %q", expect.Chain, result.Chain))
	}
	return errs
}
