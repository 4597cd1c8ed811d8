// Package chain implements the telescope chain solver.
//
// Given events sorted by time, the solver finds the longest chain an
// observer can visit in strictly increasing time order, moving at most one
// unit of Manhattan distance per unit of time, that starts at the earliest
// event and ends at the latest one.
//
// ARCHITECTURE:
//
// Pruner:
// Drops every event that is not reachable from the mandatory start or cannot
// reach the mandatory end. Such events can never be on a valid chain.
//
// Oracle:
// Keeps, for every surviving event, an optimistic upper bound on the length
// of the longest chain it can head. Events sharing a bound live in the same
// level bucket. A backward sweep assigns each event the highest plausible
// level and verifies it against the level below; events that fail are
// demoted one level at a time until a verification succeeds. Verified links
// are memoized as confirmed successors and never revisited.
//
// Resolver:
// Walks confirmed successors from the best anchor to the self-linked
// terminal.
//
// Reachability is transitive over time-ordered events, so a chain only needs
// to be checked link by link between consecutive members.
//
// Determinism:
// Candidates at a level are scanned in ascending index order, so when
// several successors are equally good the earliest one wins. No maps are
// iterated and no randomness is involved.
//
// The solver is single-threaded. All mutable state belongs to one Oracle;
// concurrent solves must use separate instances.
package chain
