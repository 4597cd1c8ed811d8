package testutil

import (
	"cmp"
	"math/big"
	"slices"

	"github.com/roach88/telescope/internal/event"
)

// The helpers below deliberately reimplement reachability instead of using
// package chain, so they can cross-check it.

func reachable(a, b event.Event) bool {
	if a.Time >= b.Time {
		return false
	}
	var d, x big.Int
	for i := range a.Coordinates {
		x.Sub(big.NewInt(a.Coordinates[i]), big.NewInt(b.Coordinates[i]))
		d.Add(&d, x.Abs(&x))
	}
	elapsed := new(big.Int).Sub(big.NewInt(b.Time), big.NewInt(a.Time))
	return elapsed.Cmp(&d) >= 0
}

func sortedCopy(events []event.Event) []event.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b event.Event) int { return cmp.Compare(a.Time, b.Time) })
	return out
}

func endpoints(sorted []event.Event) (int, int) {
	end := len(sorted) - 1
	for end > 0 && sorted[end-1].Time == sorted[end].Time {
		end--
	}
	return 0, end
}

// LongestChain returns the length of the longest strictly time-ordered chain
// from the mandatory start to the mandatory end, or 0 if none exists. It runs
// a quadratic dynamic program over the whole input with no pruning.
func LongestChain(events []event.Event) int {
	if len(events) < 2 {
		return 0
	}
	sorted := sortedCopy(events)
	s, e := endpoints(sorted)

	// best[i] is the longest chain from start ending at i, 0 if unreachable.
	best := make([]int, len(sorted))
	best[s] = 1
	for i := s + 1; i <= e; i++ {
		for j := s; j < i; j++ {
			if best[j] > 0 && best[j]+1 > best[i] && reachable(sorted[j], sorted[i]) {
				best[i] = best[j] + 1
			}
		}
	}
	if best[e] < 2 {
		return 0
	}
	return best[e]
}

// EnumerateLongest finds the same value as LongestChain by trying every
// subset of events that contains both endpoints. Only usable for tiny inputs.
func EnumerateLongest(events []event.Event) int {
	if len(events) < 2 {
		return 0
	}
	sorted := sortedCopy(events)
	s, e := endpoints(sorted)

	var middle []int
	for i := range sorted {
		if i != s && i != e {
			middle = append(middle, i)
		}
	}

	longest := 0
	for mask := 0; mask < 1<<len(middle); mask++ {
		picked := []int{s}
		for bit, idx := range middle {
			if mask&(1<<bit) != 0 {
				picked = append(picked, idx)
			}
		}
		picked = append(picked, e)
		slices.Sort(picked)

		ok := picked[0] == s && picked[len(picked)-1] == e
		for k := 1; ok && k < len(picked); k++ {
			ok = reachable(sorted[picked[k-1]], sorted[picked[k]])
		}
		if ok && len(picked) > longest {
			longest = len(picked)
		}
	}
	return longest
}
