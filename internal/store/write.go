package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// WriteRun inserts a run and its chain in a single transaction and returns
// the seq assigned to it.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing an existing run
// ID leaves the stored run untouched and returns its original seq.
func (s *Store) WriteRun(ctx context.Context, rec RunRecord) (int64, error) {
	statsJSON, err := marshalStats(rec.Stats)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, rec.ID).Scan(&existing)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("write run: lookup: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, dataset_name, dataset_digest, dimensions, input_count, pruned_count,
		 chain_length, levels, sorted, stats, elapsed_ns, created_at, solver_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		seq,
		rec.DatasetName,
		rec.DatasetDigest,
		rec.Dimensions,
		rec.InputCount,
		rec.PrunedCount,
		rec.Length,
		rec.Levels,
		boolToInt(rec.Sorted),
		statsJSON,
		rec.Elapsed.Nanoseconds(),
		formatTime(rec.CreatedAt),
		rec.SolverVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_events (run_id, position, time, coordinates)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("write run: prepare events: %w", err)
	}
	defer stmt.Close()

	for i, e := range rec.Chain {
		coords, err := marshalCoordinates(e.Coordinates)
		if err != nil {
			return 0, fmt.Errorf("write run: event %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, i, e.Time, coords); err != nil {
			return 0, fmt.Errorf("write run: event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}

// RecordRun writes rec and discards the assigned seq.
// Implements solver.Recorder.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) error {
	_, err := s.WriteRun(ctx, rec)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
