package event

import (
	"cmp"
	"slices"
)

// IsSorted reports whether events are in non-decreasing time order.
// Single pass, stops at the first inversion.
func IsSorted(events []Event) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			return false
		}
	}
	return true
}

// SortStable orders events by time in place, keeping input order among
// equal timestamps. The sort only runs when IsSorted fails; the return
// value reports whether the input was already ordered.
func SortStable(events []Event) (alreadySorted bool) {
	if IsSorted(events) {
		return true
	}
	slices.SortStableFunc(events, func(a, b Event) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return false
}

// Clone returns a copy of events. Coordinates are shared since events are
// never mutated.
func Clone(events []Event) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	copy(out, events)
	return out
}
