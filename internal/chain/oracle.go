package chain

import (
	"cmp"
	"slices"

	"github.com/roach88/telescope/internal/event"
)

// Stats counts the work done by one FindMaxObservable call.
type Stats struct {
	Checks    int `json:"checks"`    // root verifications requested
	Frames    int `json:"frames"`    // verification frames pushed, roots included
	Demotions int `json:"demotions"` // single-level push-downs
	Confirmed int `json:"confirmed"` // events whose value became exact
}

// Oracle computes, for every event of a time-sorted list, the length of the
// longest chain that event can head.
//
// Values start as optimistic upper bounds and are lowered one level at a
// time whenever verification fails. An event whose value has been verified
// gets a confirmed successor and keeps its value for good.
//
// Events are identified by their index in the list given to NewOracle.
//
// INVARIANTS:
//   - every event sits in exactly the bucket named by its value
//   - buckets are kept in descending index order
//   - for a later event c reachable from e, value(c) < value(e)
//   - a confirmed event is never demoted
type Oracle struct {
	events []event.Event

	value   []int
	next    []int   // confirmed successor, self for a terminal, -1 if unconfirmed
	buckets [][]int // buckets[v] holds indices with value v; buckets[0] unused
	stack   []frame
	stats   Stats
}

// frame is one pending verification: event is being checked against the
// level below its own value.
type frame struct {
	event  int
	seen   int   // candidates already taken from the lower bucket
	failed []int // candidates that failed; demoted when the frame ends
}

// NewOracle creates an Oracle over events, which must be sorted by time.
// The slice is not copied and must not be modified while the Oracle is in use.
func NewOracle(events []event.Event) *Oracle {
	return &Oracle{events: events}
}

// Len returns the number of events the Oracle works on.
func (o *Oracle) Len() int {
	return len(o.events)
}

// Value returns the current possible-value of event i.
func (o *Oracle) Value(i int) int {
	return o.value[i]
}

// Successor returns the confirmed successor of event i, i itself for a
// confirmed terminal, or -1 if i is unconfirmed.
func (o *Oracle) Successor(i int) int {
	return o.next[i]
}

// Levels returns the highest bucket key currently open.
func (o *Oracle) Levels() int {
	return len(o.buckets) - 1
}

// Bucket returns the members of level v in ascending index order.
func (o *Oracle) Bucket(v int) []int {
	if v < 1 || v >= len(o.buckets) {
		return nil
	}
	out := slices.Clone(o.buckets[v])
	slices.Reverse(out)
	return out
}

// Stats returns the work counters of the last FindMaxObservable call.
func (o *Oracle) Stats() Stats {
	return o.stats
}

// reset discards all state from a previous computation.
func (o *Oracle) reset() {
	n := len(o.events)
	o.value = make([]int, n)
	o.next = make([]int, n)
	for i := range o.next {
		o.next[i] = -1
	}
	o.buckets = [][]int{nil, {}}
	o.stack = o.stack[:0]
	o.stats = Stats{}
}

// FindMaxObservable computes exact values for enough events to identify the
// head of a longest chain and returns its index.
//
// The computation runs a single backward sweep that assigns and verifies
// optimistic values, then repeatedly verifies members of the highest level
// until one succeeds, discarding levels that empty out.
func (o *Oracle) FindMaxObservable() (int, error) {
	o.reset()
	if len(o.events) == 0 {
		return -1, NewEmptyInputError(0)
	}

	if err := o.sweep(); err != nil {
		return -1, err
	}
	return o.selectBest()
}

// sweep assigns every event, latest first, the highest level it could
// possibly reach and verifies it once.
func (o *Oracle) sweep() error {
	for i := len(o.events) - 1; i >= 0; i-- {
		top := len(o.buckets) - 1
		if len(o.buckets[top]) > 0 {
			o.buckets = append(o.buckets, nil)
			top++
		}

		o.value[i] = top
		if err := o.insert(top, i); err != nil {
			return err
		}

		ok, err := o.check(i)
		if err != nil {
			return err
		}
		if !ok {
			if err := o.demote(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// selectBest verifies members of the highest non-empty level in index order.
// The first one that verifies heads a longest chain. Members that fail are
// demoted, which eventually empties the level.
func (o *Oracle) selectBest() (int, error) {
	for {
		top := len(o.buckets) - 1
		if top < 1 {
			return -1, newInvariantError(-1, "no levels left during best selection")
		}

		members := o.buckets[top]
		if len(members) == 0 {
			o.buckets = o.buckets[:top]
			continue
		}

		snapshot := slices.Clone(members)
		for j := len(snapshot) - 1; j >= 0; j-- {
			i := snapshot[j]
			ok, err := o.check(i)
			if err != nil {
				return -1, err
			}
			if ok {
				return i, nil
			}
			if err := o.demote(i); err != nil {
				return -1, err
			}
		}
	}
}

// check verifies that event root can realize its current value.
//
// On success every event on the verified path is confirmed. On failure the
// caller is responsible for demoting root; candidates that failed below it
// have already been demoted.
//
// Verification is iterative. Each frame scans the level below its event for
// linkable candidates in ascending index order. A candidate that is already
// confirmed, or sits at level 1, settles the whole stack at once since every
// frame's event was reached through the frame below it.
func (o *Oracle) check(root int) (bool, error) {
	o.stats.Checks++
	if o.next[root] >= 0 {
		return true, nil
	}
	if o.value[root] == 1 {
		o.confirm(root, root)
		return true, nil
	}

	o.stack = o.stack[:0]
	o.push(root)

	for len(o.stack) > 0 {
		f := &o.stack[len(o.stack)-1]

		cand, err := o.nextCandidate(f)
		if err != nil {
			return false, err
		}

		if cand < 0 {
			failed := f.event
			if err := o.demoteAll(f.failed); err != nil {
				return false, err
			}
			o.stack = o.stack[:len(o.stack)-1]
			if len(o.stack) == 0 {
				return false, nil
			}
			parent := &o.stack[len(o.stack)-1]
			parent.failed = append(parent.failed, failed)
			continue
		}

		if o.next[cand] >= 0 || o.value[cand] == 1 {
			if o.next[cand] < 0 {
				o.confirm(cand, cand)
			}
			if err := o.unwind(cand); err != nil {
				return false, err
			}
			return true, nil
		}

		o.push(cand)
	}

	return false, nil
}

// nextCandidate returns the next unvisited event in the level below f's
// event that f's event can link to, or -1 when the level is exhausted.
func (o *Oracle) nextCandidate(f *frame) (int, error) {
	v := o.value[f.event]
	if v < 2 || v-1 >= len(o.buckets) {
		return -1, newInvariantError(f.event, "value %d has no level below it", v)
	}

	lower := o.buckets[v-1]
	from := o.events[f.event]
	for f.seen < len(lower) {
		c := lower[len(lower)-1-f.seen]
		f.seen++
		if o.value[c] != v-1 {
			return -1, newInvariantError(c, "listed at level %d but has value %d", v-1, o.value[c])
		}
		if Linkable(from, o.events[c]) {
			return c, nil
		}
	}
	return -1, nil
}

// unwind settles every frame on the stack after a successful verification.
// succ is the verified successor of the top frame's event.
func (o *Oracle) unwind(succ int) error {
	for len(o.stack) > 0 {
		f := &o.stack[len(o.stack)-1]
		o.confirm(f.event, succ)
		if err := o.demoteAll(f.failed); err != nil {
			return err
		}
		succ = f.event
		o.stack = o.stack[:len(o.stack)-1]
	}
	return nil
}

// push starts a frame for event i, reusing the failed slice of a previous
// frame in the same slot.
func (o *Oracle) push(i int) {
	o.stats.Frames++
	n := len(o.stack)
	if n < cap(o.stack) {
		o.stack = o.stack[:n+1]
		f := &o.stack[n]
		f.event, f.seen, f.failed = i, 0, f.failed[:0]
		return
	}
	o.stack = append(o.stack, frame{event: i})
}

func (o *Oracle) confirm(i, succ int) {
	o.next[i] = succ
	o.stats.Confirmed++
}

// demoteAll pushes every event in batch down one level.
func (o *Oracle) demoteAll(batch []int) error {
	for _, i := range batch {
		if err := o.demote(i); err != nil {
			return err
		}
	}
	return nil
}

// demote moves event i from its level to the one directly below.
func (o *Oracle) demote(i int) error {
	v := o.value[i]
	if o.next[i] >= 0 {
		return newInvariantError(i, "demoting confirmed event at level %d", v)
	}
	if v <= 1 {
		return newInvariantError(i, "demoting below level 1")
	}
	if err := o.remove(v, i); err != nil {
		return err
	}
	o.value[i] = v - 1
	o.stats.Demotions++
	return o.insert(v-1, i)
}

// descending orders bucket members by decreasing index.
func descending(member, target int) int {
	return cmp.Compare(target, member)
}

func (o *Oracle) insert(v, i int) error {
	b := o.buckets[v]
	pos, found := slices.BinarySearchFunc(b, i, descending)
	if found {
		return newInvariantError(i, "already listed at level %d", v)
	}
	o.buckets[v] = slices.Insert(b, pos, i)
	return nil
}

func (o *Oracle) remove(v, i int) error {
	if v >= len(o.buckets) {
		return newInvariantError(i, "level %d does not exist", v)
	}
	b := o.buckets[v]
	pos, found := slices.BinarySearchFunc(b, i, descending)
	if !found {
		return newInvariantError(i, "missing from level %d", v)
	}
	o.buckets[v] = slices.Delete(b, pos, pos+1)
	return nil
}
