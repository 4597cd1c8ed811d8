package chain

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/telescope/internal/event"
	"github.com/roach88/telescope/internal/testutil"
)

// assertConsistent verifies that every event sits in exactly the bucket its
// value names and that buckets are in descending index order.
func assertConsistent(t *testing.T, o *Oracle) {
	t.Helper()
	seen := make([]int, o.Len())
	for v := 1; v < len(o.buckets); v++ {
		b := o.buckets[v]
		assert.True(t, slices.IsSortedFunc(b, func(a, c int) int { return c - a }), "level %d out of order", v)
		for _, i := range b {
			seen[i]++
			assert.Equal(t, v, o.Value(i), "event %d listed at level %d", i, v)
		}
	}
	for i, n := range seen {
		assert.Equal(t, 1, n, "event %d listed %d times", i, n)
	}
}

// longestFrom computes, by dynamic programming, the length of the longest
// chain headed by each event of a sorted list.
func longestFrom(events []event.Event) []int {
	out := make([]int, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out[i] = 1
		for j := i + 1; j < len(events); j++ {
			if Linkable(events[i], events[j]) && out[j]+1 > out[i] {
				out[i] = out[j] + 1
			}
		}
	}
	return out
}

func TestFindMaxObservable_ConcreteScenario(t *testing.T) {
	events := []event.Event{
		event.New(0, 0),
		event.New(2, 1),
		event.New(5, 2),
	}

	o := NewOracle(events)
	best, err := o.FindMaxObservable()
	require.NoError(t, err)

	assert.Equal(t, 0, best)
	assert.Equal(t, 3, o.Value(0))
	assert.Equal(t, 1, o.Successor(0))
	assert.Equal(t, 2, o.Successor(1))
	assert.Equal(t, 2, o.Successor(2))
	assertConsistent(t, o)
}

func TestFindMaxObservable_Demotion(t *testing.T) {
	// C and D sit far from A and B, so the optimistic levels given to A and
	// B during the sweep cannot be realized.
	events := []event.Event{
		event.New(0, 0),  // A
		event.New(1, 0),  // B
		event.New(2, 10), // C
		event.New(3, 10), // D
	}

	o := NewOracle(events)
	best, err := o.FindMaxObservable()
	require.NoError(t, err)

	assert.Equal(t, 0, best, "A wins the tie with C by lower index")
	assert.Equal(t, 2, o.Value(0))
	assert.Equal(t, 1, o.Successor(0))
	assert.Equal(t, 1, o.Value(1))
	assert.Equal(t, 1, o.Successor(1))
	assert.Equal(t, 2, o.Value(2))
	assert.Equal(t, 3, o.Successor(2))
	assert.Equal(t, 2, o.Levels(), "empty top level is discarded")

	// B drops twice (3 -> 2 in the sweep, 2 -> 1 while A is checked), A once.
	assert.Equal(t, 3, o.Stats().Demotions)
	assert.Equal(t, []int{1, 3}, o.Bucket(1))
	assert.Equal(t, []int{0, 2}, o.Bucket(2))
	assertConsistent(t, o)
}

func TestFindMaxObservable_SingleEvent(t *testing.T) {
	o := NewOracle([]event.Event{event.New(7, 1, 1)})
	best, err := o.FindMaxObservable()
	require.NoError(t, err)
	assert.Equal(t, 0, best)
	assert.Equal(t, 1, o.Value(0))
	assert.Equal(t, 0, o.Successor(0))
}

func TestFindMaxObservable_Empty(t *testing.T) {
	o := NewOracle(nil)
	_, err := o.FindMaxObservable()
	require.Error(t, err)
	assert.True(t, IsInputError(err))
}

func TestFindMaxObservable_ResetsBetweenCalls(t *testing.T) {
	rng := testutil.NewRand(5)
	events := testutil.RandomEvents(rng, 60, 2, 40, 5)
	event.SortStable(events)

	o := NewOracle(events)
	best1, err := o.FindMaxObservable()
	require.NoError(t, err)
	value1 := o.Value(best1)
	stats1 := o.Stats()

	best2, err := o.FindMaxObservable()
	require.NoError(t, err)
	assert.Equal(t, best1, best2)
	assert.Equal(t, value1, o.Value(best2))
	assert.Equal(t, stats1, o.Stats())
}

func TestCheck_IdempotentOnConfirmed(t *testing.T) {
	rng := testutil.NewRand(9)
	events := testutil.RandomEvents(rng, 80, 2, 50, 6)
	event.SortStable(events)

	o := NewOracle(events)
	_, err := o.FindMaxObservable()
	require.NoError(t, err)

	buckets := make([][]int, len(o.buckets))
	for v, b := range o.buckets {
		buckets[v] = slices.Clone(b)
	}
	values := slices.Clone(o.value)

	confirmed := 0
	for i := 0; i < o.Len(); i++ {
		if o.Successor(i) < 0 {
			continue
		}
		confirmed++
		succ := o.Successor(i)
		ok, err := o.check(i)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, succ, o.Successor(i))
	}

	require.Greater(t, confirmed, 0)
	assert.Equal(t, buckets, o.buckets, "check on confirmed events must not touch buckets")
	assert.Equal(t, values, o.value)
}

func TestDemote_Invariants(t *testing.T) {
	o := NewOracle([]event.Event{event.New(0, 0), event.New(1, 0)})
	_, err := o.FindMaxObservable()
	require.NoError(t, err)

	// Both events are confirmed after a successful run.
	err = o.demote(0)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err))

	o.reset()
	o.value[0] = 1
	require.NoError(t, o.insert(1, 0))
	err = o.demote(0)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err), "level 1 is the floor")

	o.reset()
	o.buckets = append(o.buckets, []int{})
	o.value[1] = 2
	err = o.demote(1)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err), "event missing from its level")

	require.NoError(t, o.insert(1, 1))
	err = o.insert(1, 1)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err), "duplicate listing")
}

// For random inputs the values the oracle confirms must be exact, every
// other value must stay an upper bound, and the best anchor must head a
// longest chain. Reaching the assertions at all shows termination.
func TestFindMaxObservable_RandomizedAgainstDP(t *testing.T) {
	rng := testutil.NewRand(2026)
	for round := 0; round < 200; round++ {
		n := 1 + rng.IntN(60)
		dim := 1 + rng.IntN(3)
		events := testutil.RandomEvents(rng, n, dim, int64(5+rng.IntN(60)), int64(1+rng.IntN(8)))
		event.SortStable(events)
		want := longestFrom(events)

		o := NewOracle(events)
		best, err := o.FindMaxObservable()
		require.NoError(t, err, "round %d", round)

		assert.Equal(t, slices.Max(want), o.Value(best), "round %d", round)
		assert.Equal(t, want[best], o.Value(best), "round %d", round)
		for i := range events {
			if o.Successor(i) >= 0 {
				assert.Equal(t, want[i], o.Value(i), "round %d: confirmed event %d", round, i)
			} else {
				assert.GreaterOrEqual(t, o.Value(i), want[i], "round %d: event %d", round, i)
			}
		}
		assertConsistent(t, o)
	}
}
