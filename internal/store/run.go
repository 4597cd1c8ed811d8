package store

import (
	"time"

	"github.com/roach88/telescope/internal/chain"
	"github.com/roach88/telescope/internal/event"
)

// RunRecord is one recorded solve.
type RunRecord struct {
	// ID is the run identifier, a UUIDv7 in production.
	ID string `json:"id"`

	// Seq is the logical position of the run in the history. Assigned by
	// WriteRun; ignored on input.
	Seq int64 `json:"seq"`

	DatasetName   string `json:"dataset_name"`
	DatasetDigest string `json:"dataset_digest"`
	Dimensions    int    `json:"dimensions"`

	InputCount  int  `json:"input_count"`
	PrunedCount int  `json:"pruned_count"`
	Length      int  `json:"length"`
	Levels      int  `json:"levels"`
	Sorted      bool `json:"sorted"`

	Stats   chain.Stats   `json:"stats"`
	Elapsed time.Duration `json:"elapsed_ns"`

	CreatedAt     time.Time `json:"created_at"`
	SolverVersion string    `json:"solver_version"`

	// Chain is the solved chain. Left nil by ListRuns.
	Chain []event.Event `json:"chain,omitempty"`
}
