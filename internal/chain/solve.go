package chain

import (
	"errors"
	"fmt"

	"github.com/roach88/telescope/internal/event"
)

// Result is a solved chain together with the figures describing how it was
// found.
type Result struct {
	// Chain is the longest observable chain, start first.
	Chain []event.Event

	// Length is the number of events in Chain.
	Length int

	// InputCount is the number of events supplied.
	InputCount int

	// PrunedCount is the number of events that survived pruning.
	PrunedCount int

	// Sorted reports whether the input was already in time order.
	Sorted bool

	// Levels is the number of levels open when the best anchor was found.
	Levels int

	// Stats counts oracle work.
	Stats Stats
}

// Solve finds the longest chain through events that starts at the mandatory
// first event and ends at the mandatory last event.
//
// events need not be sorted; Solve sorts a copy (stable by time) when the
// single-pass sortedness check fails. The caller's slice is never modified.
//
// Errors:
//   - EMPTY_INPUT for fewer than two events
//   - DIMENSION_MISMATCH when events disagree on coordinate count
//   - NO_CHAIN when the endpoints cannot both be observed
//   - INVARIANT_VIOLATION when the oracle's bookkeeping breaks
func Solve(events []event.Event) (*Result, error) {
	if len(events) < 2 {
		return nil, NewEmptyInputError(len(events))
	}
	if err := event.CheckDim(events, events[0].Dim()); err != nil {
		ce := &ChainError{
			Code:    ErrCodeDimensionMismatch,
			Message: err.Error(),
			Event:   -1,
		}
		var de *event.DimError
		if errors.As(err, &de) {
			ce.Event = de.Index
		}
		return nil, ce
	}

	sorted := event.Clone(events)
	already := event.SortStable(sorted)

	pruned, err := Prune(sorted)
	if err != nil {
		return nil, err
	}

	o := NewOracle(pruned.Events)
	best, err := o.FindMaxObservable()
	if err != nil {
		return nil, fmt.Errorf("find max observable: %w", err)
	}

	path, err := Resolve(o, best)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	last := len(pruned.Events) - 1
	if path[0] != 0 || path[len(path)-1] != last {
		return nil, newInvariantError(best, "chain runs %d..%d, endpoints are 0..%d",
			path[0], path[len(path)-1], last)
	}

	chain := make([]event.Event, len(path))
	for i, idx := range path {
		chain[i] = pruned.Events[idx]
	}

	return &Result{
		Chain:       chain,
		Length:      len(chain),
		InputCount:  len(events),
		PrunedCount: len(pruned.Events),
		Sorted:      already,
		Levels:      o.Levels(),
		Stats:       o.Stats(),
	}, nil
}
