package chain

import (
	"fmt"
	"strconv"

	"github.com/roach88/telescope/internal/event"
)

// Pruned is the subset of a sorted event list that can lie on a chain from
// the mandatory start to the mandatory end.
type Pruned struct {
	// Events are the surviving events in time order. Events[0] is the start
	// and Events[len-1] is the end.
	Events []event.Event

	// Source maps each surviving event to its index in the input list.
	Source []int
}

// Endpoints returns the indices of the mandatory start and end in a
// time-sorted list.
//
// Among events sharing the earliest timestamp the start is the first in list
// order; among events sharing the latest timestamp the end is likewise the
// first in list order. With a stable sort this is input order.
func Endpoints(events []event.Event) (start, end int) {
	if len(events) == 0 {
		return -1, -1
	}
	end = len(events) - 1
	for end > 0 && events[end-1].Time == events[end].Time {
		end--
	}
	return 0, end
}

// Prune filters a time-sorted event list down to the events that are
// reachable from the mandatory start and can still reach the mandatory end.
//
// Events sharing a timestamp with an endpoint are dropped (except the
// endpoint itself), since a strictly time-ordered chain holds at most one
// event per timestamp.
//
// Returns an EMPTY_INPUT error for fewer than two events and a NO_CHAIN
// error when the end is not reachable from the start.
func Prune(events []event.Event) (Pruned, error) {
	if len(events) < 2 {
		return Pruned{}, NewEmptyInputError(len(events))
	}

	si, ei := Endpoints(events)
	start, end := events[si], events[ei]
	if start.Time == end.Time {
		return Pruned{}, NewNoChainError(fmt.Sprintf("all events share time %d", start.Time))
	}
	if !CanObserveBoth(start, end) {
		return Pruned{}, NewNoChainError(fmt.Sprintf(
			"end %q not reachable from start %q (distance %s > elapsed %d)",
			end.String(), start.String(), formatDistance(start, end), Elapsed(start, end)))
	}

	out := Pruned{
		Events: []event.Event{start},
		Source: []int{si},
	}
	for i := si + 1; i < ei; i++ {
		e := events[i]
		if e.Time == start.Time || e.Time == end.Time {
			continue
		}
		if CanObserveBoth(start, e) && CanObserveBoth(e, end) {
			out.Events = append(out.Events, e)
			out.Source = append(out.Source, i)
		}
	}
	out.Events = append(out.Events, end)
	out.Source = append(out.Source, ei)

	return out, nil
}

func formatDistance(a, b event.Event) string {
	d, ok := Distance(a, b)
	if !ok {
		return "out of range"
	}
	return strconv.FormatUint(d, 10)
}
