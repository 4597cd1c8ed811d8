// Package event defines the timestamped observation records the chain solver
// works on.
//
// This package contains the record type and ordering helpers only. It imports
// nothing internal so that every other package can depend on it.
//
// Key design constraints:
//   - Events are immutable once constructed; constructors copy coordinates
//   - Identity is positional (index into an event slice), never by value
//   - Ordering is by time ascending, ties kept in input order (stable)
package event
