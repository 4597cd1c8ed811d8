package chain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/telescope/internal/event"
	"github.com/roach88/telescope/internal/testutil"
)

func TestCanObserveBoth(t *testing.T) {
	tests := []struct {
		name   string
		first  event.Event
		second event.Event
		want   bool
	}{
		{"one dim slack", event.New(0, 0), event.New(2, 1), true},
		{"distance equals gap", event.New(0, 0, 0), event.New(4, 2, -2), true},
		{"too far", event.New(2, 1), event.New(5, 10), false},
		{"same instant same place", event.New(5, 3), event.New(5, 3), true},
		{"same instant elsewhere", event.New(5, 2), event.New(5, 10), false},
		{"backwards in time", event.New(5, 0), event.New(3, 0), false},
		{"negative times", event.New(-10, -3), event.New(-4, 3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanObserveBoth(tt.first, tt.second))
		})
	}
}

func TestLinkable_RequiresStrictTime(t *testing.T) {
	a := event.New(5, 3)
	b := event.New(5, 3)
	assert.True(t, CanObserveBoth(a, b))
	assert.False(t, Linkable(a, b))
	assert.True(t, Linkable(event.New(4, 3), b))
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name   string
		a, b   event.Event
		want   uint64
		wantOK bool
	}{
		{"zero dimensions", event.New(0), event.New(9), 0, true},
		{"one axis", event.New(0, 1), event.New(0, 10), 9, true},
		{"mixed signs", event.New(0, -2, 3, 0), event.New(0, 2, -3, 2), 12, true},
		{"full int64 span", event.New(0, math.MinInt64), event.New(0, math.MaxInt64), math.MaxUint64, true},
		{"sum overflows", event.New(0, math.MinInt64, 0), event.New(0, math.MaxInt64, 1), 0, false},
		{"dimension mismatch", event.New(0, 1), event.New(0, 1, 2), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Distance(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestCanObserveBoth_ExtremeValues(t *testing.T) {
	const huge = int64(1) << 62

	tests := []struct {
		name   string
		first  event.Event
		second event.Event
		want   bool
	}{
		{"elapsed beyond int64", event.New(-huge, 0), event.New(huge, 0), true},
		{"full time range", event.New(math.MinInt64, math.MinInt64), event.New(math.MaxInt64, math.MaxInt64), true},
		{"distance beyond int64", event.New(0, -huge, -huge), event.New(1, huge, huge), false},
		{"distance overflows uint64", event.New(math.MinInt64, math.MinInt64, 0), event.New(math.MaxInt64, math.MaxInt64, 1), false},
		{"elapsed just short", event.New(-huge, -huge), event.New(huge, huge+1), false},
		{"dimension mismatch", event.New(0, 0), event.New(5, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanObserveBoth(tt.first, tt.second))
		})
	}
}

// Reachability must be transitive over time-ordered triples; the chain
// algorithm only verifies consecutive links.
func TestCanObserveBoth_Transitive(t *testing.T) {
	rng := testutil.NewRand(42)
	checked := 0
	for round := 0; round < 20000; round++ {
		triple := testutil.RandomEvents(rng, 3, 3, 20, 6)
		event.SortStable(triple)
		a, b, c := triple[0], triple[1], triple[2]
		if CanObserveBoth(a, b) && CanObserveBoth(b, c) {
			checked++
			assert.True(t, CanObserveBoth(a, c), "%s -> %s -> %s", a, b, c)
		}
	}
	assert.Greater(t, checked, 0, "random triples should include reachable ones")
}
