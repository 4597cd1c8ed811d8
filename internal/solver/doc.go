// Package solver drives a solve end to end.
//
// A Solver pulls a dataset from a Provider, runs the chain core over it,
// hands the result to a Consumer and, when configured, records the run
// through a Recorder. The core itself is synchronous and knows nothing
// about I/O; everything that can block takes a context.Context.
//
// Elapsed time is measured around the core only, from just before sorting
// to just after path resolution, using the injected clock.
//
// Invariant violations from the core are logged at error level and
// returned. Nothing is consumed or recorded for a failed solve.
package solver
