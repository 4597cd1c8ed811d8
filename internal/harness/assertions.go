package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/telescope/internal/chain"
	"github.com/roach88/telescope/internal/event"
	"github.com/roach88/telescope/internal/store"
	"github.com/roach88/telescope/internal/testutil"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Chain    []string // Full chain for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	// Full chain for context
	if len(e.Chain) > 0 {
		fmt.Fprintf(&buf, "\nFull chain:\n")
		for i, ev := range e.Chain {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, ev)
		}
	}

	return buf.String()
}

// AssertionContext provides what assertions need beyond the result.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	if result.Run == nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: "a solved chain",
			Actual:   "error " + result.ErrorCode,
		}
	}

	switch a.Type {
	case AssertChainValid:
		return assertChainValid(result)
	case AssertEndpoints:
		return assertEndpoints(result)
	case AssertMaximal:
		return assertMaximal(result)
	case AssertContains:
		return assertContains(result, a.Event, true)
	case AssertExcludes:
		return assertContains(result, a.Event, false)
	case AssertRecorded:
		return assertRecorded(result, actx)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertChainValid checks that each chain event can be linked to the next.
func assertChainValid(result *Result) error {
	c := result.Run.Chain
	for i := 1; i < len(c); i++ {
		if !chain.Linkable(c[i-1], c[i]) {
			return &AssertionError{
				Type:     AssertChainValid,
				Expected: "every consecutive pair linkable",
				Actual:   fmt.Sprintf("%q cannot be followed by %q", c[i-1], c[i]),
				Chain:    result.Chain,
			}
		}
	}
	return nil
}

// assertEndpoints checks that the chain starts and ends at the mandatory
// endpoints of the input.
func assertEndpoints(result *Result) error {
	sorted := event.Clone(result.Dataset.Events)
	event.SortStable(sorted)
	s, e := chain.Endpoints(sorted)

	want := []string{sorted[s].String(), sorted[e].String()}
	got := []string{result.Chain[0], result.Chain[len(result.Chain)-1]}
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:     AssertEndpoints,
			Expected: fmt.Sprintf("chain from %q to %q", want[0], want[1]),
			Actual:   fmt.Sprintf("chain from %q to %q", got[0], got[1]),
			Chain:    result.Chain,
		}
	}
	return nil
}

// assertMaximal compares the chain length against an exhaustive dynamic
// program over the whole input.
func assertMaximal(result *Result) error {
	want := testutil.LongestChain(result.Dataset.Events)
	if result.Length != want {
		return &AssertionError{
			Type:     AssertMaximal,
			Expected: fmt.Sprintf("length %d", want),
			Actual:   fmt.Sprintf("length %d", result.Length),
			Chain:    result.Chain,
		}
	}
	return nil
}

func assertContains(result *Result, ev string, present bool) error {
	if slices.Contains(result.Chain, ev) == present {
		return nil
	}
	typ, expected, actual := AssertContains, "chain contains "+ev, "not found in chain"
	if !present {
		typ, expected, actual = AssertExcludes, "chain excludes "+ev, "found in chain"
	}
	return &AssertionError{Type: typ, Expected: expected, Actual: actual, Chain: result.Chain}
}

// assertRecorded reads the run back from the store and compares chains.
func assertRecorded(result *Result, actx *AssertionContext) error {
	rec, err := actx.Store.ReadRun(actx.Ctx, result.Run.ID)
	if err != nil {
		return &AssertionError{
			Type:     AssertRecorded,
			Expected: "run " + result.Run.ID + " in history",
			Actual:   err.Error(),
		}
	}
	if got := event.Strings(rec.Chain); !slices.Equal(got, result.Chain) || rec.Length != result.Length {
		return &AssertionError{
			Type:     AssertRecorded,
			Expected: fmt.Sprintf("stored chain %q", result.Chain),
			Actual:   fmt.Sprintf("stored chain %q (length %d)", got, rec.Length),
			Chain:    result.Chain,
		}
	}
	return nil
}
