package chain

// Resolve walks confirmed successors from best to the self-linked terminal
// and returns the visited indices in chain order.
//
// best must have been verified by the Oracle. The walk must advance strictly
// through the list and its length must equal best's value; anything else
// means the Oracle's bookkeeping is broken and an invariant error is
// returned.
func Resolve(o *Oracle, best int) ([]int, error) {
	if best < 0 || best >= o.Len() {
		return nil, newInvariantError(best, "best anchor out of range [0, %d)", o.Len())
	}
	if o.Successor(best) < 0 {
		return nil, newInvariantError(best, "best anchor is not confirmed")
	}

	want := o.Value(best)
	path := make([]int, 0, want)
	path = append(path, best)

	for cur := best; o.Successor(cur) != cur; {
		nxt := o.Successor(cur)
		if nxt < 0 {
			return nil, newInvariantError(cur, "confirmed chain links to unconfirmed event %d", nxt)
		}
		if nxt <= cur {
			return nil, newInvariantError(cur, "confirmed successor %d does not advance", nxt)
		}
		if len(path) == want {
			return nil, newInvariantError(best, "chain longer than value %d", want)
		}
		path = append(path, nxt)
		cur = nxt
	}

	if len(path) != want {
		return nil, newInvariantError(best, "chain has %d events, value is %d", len(path), want)
	}
	return path, nil
}
