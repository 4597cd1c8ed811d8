package testutil

import (
	"math/rand/v2"

	"github.com/roach88/telescope/internal/event"
)

// RandomEvents returns n events with times uniform in [0, span) and each of
// dim coordinates uniform in [-bound, bound]. The result is unsorted.
func RandomEvents(rng *rand.Rand, n, dim int, span, bound int64) []event.Event {
	events := make([]event.Event, n)
	for i := range events {
		coords := make([]int64, dim)
		for j := range coords {
			coords[j] = rng.Int64N(2*bound+1) - bound
		}
		events[i] = event.Event{Time: rng.Int64N(span), Coordinates: coords}
	}
	return events
}

// Anchored surrounds events produced by RandomEvents with a start at the
// origin early enough to reach all of them and an end at the origin late
// enough to be reached from all of them. The start is placed first and the
// end last.
func Anchored(events []event.Event, dim int, span, bound int64) []event.Event {
	reach := bound*int64(dim) + 1
	out := make([]event.Event, 0, len(events)+2)
	out = append(out, event.Event{Time: -reach, Coordinates: make([]int64, dim)})
	out = append(out, events...)
	out = append(out, event.Event{Time: span + reach, Coordinates: make([]int64, dim)})
	return out
}

// NewRand returns a deterministic PCG source seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
