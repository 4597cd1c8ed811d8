package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/telescope/internal/event"
)

const runColumns = `id, seq, dataset_name, dataset_digest, dimensions, input_count, pruned_count,
	chain_length, levels, sorted, stats, elapsed_ns, created_at, solver_version`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ReadRun retrieves a run and its chain by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if err != nil {
		return RunRecord{}, err
	}

	chain, err := s.readChain(ctx, id)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Chain = chain
	return rec, nil
}

// ListRuns returns up to limit runs, newest first (ORDER BY seq DESC).
// A limit of zero or less returns every run. Chains are not loaded.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return collectRuns(rows)
}

// ListRunsByDigest returns every run over the dataset with the given
// digest, newest first.
func (s *Store) ListRunsByDigest(ctx context.Context, digest string) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE dataset_digest = ?
		ORDER BY seq DESC
	`, digest)
	if err != nil {
		return nil, fmt.Errorf("query runs by digest: %w", err)
	}
	return collectRuns(rows)
}

// GetLastSeq returns the highest seq assigned so far, 0 for an empty store.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

func collectRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// readChain returns the events of a run in position order.
func (s *Store) readChain(ctx context.Context, runID string) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT time, coordinates
		FROM run_events
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	defer rows.Close()

	chain := []event.Event{}
	for rows.Next() {
		var (
			t      int64
			coords string
		)
		if err := rows.Scan(&t, &coords); err != nil {
			return nil, fmt.Errorf("scan run event: %w", err)
		}
		c, err := unmarshalCoordinates(coords)
		if err != nil {
			return nil, err
		}
		chain = append(chain, event.Event{Time: t, Coordinates: c})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run events: %w", err)
	}
	return chain, nil
}

// scanRun scans one runs row. sql.ErrNoRows is returned unwrapped so
// callers can test for it directly.
func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec       RunRecord
		sorted    int
		statsJSON string
		elapsed   int64
		created   string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Seq,
		&rec.DatasetName,
		&rec.DatasetDigest,
		&rec.Dimensions,
		&rec.InputCount,
		&rec.PrunedCount,
		&rec.Length,
		&rec.Levels,
		&sorted,
		&statsJSON,
		&elapsed,
		&created,
		&rec.SolverVersion,
	)
	if err == sql.ErrNoRows {
		return RunRecord{}, err
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}

	rec.Sorted = sorted != 0
	rec.Elapsed = time.Duration(elapsed)
	if rec.Stats, err = unmarshalStats(statsJSON); err != nil {
		return RunRecord{}, err
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return RunRecord{}, err
	}
	return rec, nil
}
