package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/telescope/internal/chain"
	"github.com/roach88/telescope/internal/event"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run whose chain has length events along the
// first axis of a two-dimensional space.
func createTestRun(id string, length int) RunRecord {
	events := make([]event.Event, length)
	for i := range events {
		events[i] = event.New(int64(2*i), int64(i), 0)
	}
	return RunRecord{
		ID:            id,
		DatasetName:   "test-dataset",
		DatasetDigest: "digest-" + id,
		Dimensions:    2,
		InputCount:    length + 3,
		PrunedCount:   length + 1,
		Length:        length,
		Levels:        length,
		Sorted:        true,
		Stats:         chain.Stats{Checks: 5, Frames: 7, Demotions: 2, Confirmed: length},
		Elapsed:       1500 * time.Microsecond,
		CreatedAt:     time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		SolverVersion: "0.1.0",
		Chain:         events,
	}
}

// verifyPragma checks that a pragma on the store's connection has the
// expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
