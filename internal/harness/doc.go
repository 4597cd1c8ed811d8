// Package harness runs chain scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: tie_break
//	description: "Events sharing the end time are dropped"
//	dimensions: 1
//	events:
//	  - {time: 0, coordinates: [0]}
//	  - {time: 2, coordinates: [1]}
//	  - {time: 5, coordinates: [2]}
//	  - {time: 5, coordinates: [10]}
//	expect:
//	  length: 3
//	  chain: ["0: 0", "2: 1", "5: 2"]
//	assertions:
//	  - type: chain_valid
//	  - type: maximal
//	  - type: excludes
//	    event: "5: 10"
//
// Instead of inline events a scenario may name a dataset file:
//
//	dataset: ../datasets/survey.cue
//
// Relative dataset paths are resolved against the scenario's directory.
// An expect clause may name a chain error code instead of a result:
//
//	expect:
//	  error: NO_CHAIN
//
// # Assertion Types
//
//   - chain_valid: every consecutive pair of chain events is linkable
//   - endpoints: the chain starts and ends at the mandatory endpoints
//   - maximal: no longer chain exists (checked by exhaustive dynamic program)
//   - contains: the given event is on the chain
//   - excludes: the given event is not on the chain
//   - recorded: the run was recorded and reads back unchanged
//
// # Deterministic Testing
//
// Every scenario runs with a fixed run ID, a stepping clock and a fresh
// in-memory SQLite store, so the rendered output is byte-for-byte
// reproducible and can be compared against golden files.
package harness
