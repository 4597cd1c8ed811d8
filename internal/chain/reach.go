package chain

import (
	"math/bits"

	"github.com/roach88/telescope/internal/event"
)

// CanObserveBoth reports whether an observer at first can move to second in
// time: the elapsed time must cover the Manhattan distance between them.
//
// The predicate does not order its arguments. A negative elapsed time never
// passes. Events of different dimensionality are never observable together.
// The comparison is exact over the full int64 range.
func CanObserveBoth(first, second event.Event) bool {
	if second.Time < first.Time {
		return false
	}
	d, ok := Distance(first, second)
	return ok && d <= Elapsed(first, second)
}

// Linkable reports whether second may directly follow first in a chain.
// Chains advance strictly in time, so events sharing a timestamp never link.
func Linkable(first, second event.Event) bool {
	return first.Time < second.Time && CanObserveBoth(first, second)
}

// Elapsed returns second.Time - first.Time. The caller guarantees second is
// not earlier than first; the difference then always fits in a uint64.
func Elapsed(first, second event.Event) uint64 {
	return uint64(second.Time) - uint64(first.Time)
}

// Distance returns the Manhattan distance between two events' positions.
// ok is false when the events differ in dimensionality or the distance
// does not fit in a uint64.
func Distance(a, b event.Event) (d uint64, ok bool) {
	if len(a.Coordinates) != len(b.Coordinates) {
		return 0, false
	}
	for i, x := range a.Coordinates {
		var carry uint64
		d, carry = bits.Add64(d, absDiff(x, b.Coordinates[i]), 0)
		if carry != 0 {
			return 0, false
		}
	}
	return d, true
}

func absDiff(x, y int64) uint64 {
	if x >= y {
		return uint64(x) - uint64(y)
	}
	return uint64(y) - uint64(x)
}
