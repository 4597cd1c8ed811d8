// Package store provides SQLite-backed run history for solved datasets.
//
// Every solve can be recorded as a run:
//   - Runs: one row per solve with dataset identity and solver figures
//   - Run events: the chain of the run, one row per event in chain order
//
// # Critical Patterns
//
// Logical Ordering
//   - Runs are ordered by seq INTEGER assigned at write time, never by
//     created_at
//   - Run events are ordered by position
//
// Content Addressing
//   - dataset_digest is the SHA-256 digest computed by dataset.Digest, so
//     identical inputs can be found across runs
//
// Idempotent Writes
//   - Writing a run whose ID already exists is a no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
