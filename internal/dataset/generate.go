package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/roach88/telescope/internal/event"
)

// GenerateOptions configures a synthetic dataset.
type GenerateOptions struct {
	// Count is the number of events. Times are drawn from [0, Count).
	Count int

	// Bound limits coordinates to [-Bound, Bound).
	Bound int64

	// Dim is the number of coordinates per event.
	Dim int

	// Seed makes generation reproducible.
	Seed uint64

	// Name labels the dataset. Defaults to "random-<count>x<dim>".
	Name string
}

// Generate builds a random dataset. Events come out unsorted, the same way
// real observation logs often do.
func Generate(opts GenerateOptions) (*Dataset, error) {
	if opts.Count < 1 {
		return nil, &LoadError{Code: ErrCodeGenerate, Message: fmt.Sprintf("count must be positive, got %d", opts.Count)}
	}
	if opts.Bound < 1 {
		return nil, &LoadError{Code: ErrCodeGenerate, Message: fmt.Sprintf("bound must be positive, got %d", opts.Bound)}
	}
	if le := checkDim(int64(opts.Dim)); le != nil {
		le.Code = ErrCodeGenerate
		return nil, le
	}

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("random-%dx%d", opts.Count, opts.Dim)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5bd1e995))
	events := make([]event.Event, opts.Count)
	for i := range events {
		coords := make([]int64, opts.Dim)
		for j := range coords {
			coords[j] = rng.Int64N(2*opts.Bound) - opts.Bound
		}
		events[i] = event.Event{Time: rng.Int64N(int64(opts.Count)), Coordinates: coords}
	}

	return &Dataset{Name: CleanName(name), Dim: opts.Dim, Events: events, Sorted: event.IsSorted(events)}, nil
}
