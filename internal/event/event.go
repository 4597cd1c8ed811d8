package event

import (
	"fmt"
	"strconv"
	"strings"
)

// Event is a single observation opportunity: a point in D-dimensional space
// that is visible only at Time.
//
// Two events with identical fields are still distinct observations when they
// come from separate input records; callers identify events by index.
type Event struct {
	Time        int64   `json:"time" yaml:"time"`
	Coordinates []int64 `json:"coordinates" yaml:"coordinates"`
}

// New creates an Event, copying coords so later changes to the caller's
// slice cannot leak into the record.
func New(time int64, coords ...int64) Event {
	c := make([]int64, len(coords))
	copy(c, coords)
	return Event{Time: time, Coordinates: c}
}

// Dim returns the dimensionality of the event's position.
func (e Event) Dim() int {
	return len(e.Coordinates)
}

// String renders the event as "<time>: <c0> <c1> ... <cD-1>".
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(e.Time, 10))
	b.WriteByte(':')
	for _, c := range e.Coordinates {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(c, 10))
	}
	return b.String()
}

// Strings renders every event with String.
func Strings(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.String()
	}
	return out
}

// CheckDim verifies that every event has exactly dim coordinates.
// Returns the index of the first offending event in the error.
func CheckDim(events []Event, dim int) error {
	if dim < 0 {
		return fmt.Errorf("negative dimensionality %d", dim)
	}
	for i, e := range events {
		if e.Dim() != dim {
			return &DimError{Index: i, Want: dim, Got: e.Dim()}
		}
	}
	return nil
}

// DimError reports an event whose coordinate count differs from the
// dimensionality fixed for the run.
type DimError struct {
	Index int
	Want  int
	Got   int
}

func (e *DimError) Error() string {
	return fmt.Sprintf("event %d has %d coordinates, expected %d", e.Index, e.Got, e.Want)
}
