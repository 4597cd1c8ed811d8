package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/telescope/internal/chain"
	"github.com/roach88/telescope/internal/event"
	"github.com/roach88/telescope/internal/store"
)

// seedHistory writes three runs: two over digest "aaa" and one over "bbb".
func seedHistory(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	runs := []store.RunRecord{
		{ID: "run-a", DatasetName: "alpha", DatasetDigest: "aaa", Dimensions: 1, InputCount: 1500, PrunedCount: 40, Length: 2, Levels: 2},
		{ID: "run-b", DatasetName: "beta", DatasetDigest: "bbb", Dimensions: 1, InputCount: 3, PrunedCount: 3, Length: 3, Levels: 3},
		{ID: "run-c", DatasetName: "alpha", DatasetDigest: "aaa", Dimensions: 1, InputCount: 1500, PrunedCount: 40, Length: 2, Levels: 2},
	}
	for i, rec := range runs {
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		rec.Elapsed = 2 * time.Millisecond
		rec.SolverVersion = "0.1.0"
		rec.Stats = chain.Stats{Checks: 3, Demotions: 1}
		rec.Chain = []event.Event{event.New(0, 0)}
		for j := 1; j < rec.Length; j++ {
			rec.Chain = append(rec.Chain, event.New(int64(2*j), int64(j)))
		}
		_, err := st.WriteRun(context.Background(), rec)
		require.NoError(t, err)
	}
	return db
}

func executeCommand(t *testing.T, build func(*RootOptions) *cobra.Command, rootOpts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := build(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryText(t *testing.T) {
	db := seedHistory(t)

	out, err := executeCommand(t, NewHistoryCommand, &RootOptions{Format: "text", Database: db})
	require.NoError(t, err)

	assert.Contains(t, out, "Runs (3):")
	assert.Contains(t, out, "[3] run-c 2026-05-01T12:02:00Z")
	assert.Contains(t, out, "alpha: path size 2, 1,500 events, 40 after pruning, 2ms")
	assert.NotContains(t, out, "digest aaa")
	assert.Less(t, bytes.Index([]byte(out), []byte("run-c")), bytes.Index([]byte(out), []byte("run-a")), "newest first")
}

func TestHistoryVerboseShowsDigest(t *testing.T) {
	db := seedHistory(t)

	out, err := executeCommand(t, NewHistoryCommand, &RootOptions{Format: "text", Database: db, Verbose: true})
	require.NoError(t, err)
	assert.Contains(t, out, "digest aaa")
}

func TestHistoryLimitAndDigest(t *testing.T) {
	db := seedHistory(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"all", nil, []string{"run-c", "run-b", "run-a"}},
		{"limit", []string{"--limit", "2"}, []string{"run-c", "run-b"}},
		{"no limit", []string{"--limit", "0"}, []string{"run-c", "run-b", "run-a"}},
		{"digest", []string{"--digest", "aaa"}, []string{"run-c", "run-a"}},
		{"digest and limit", []string{"--digest", "aaa", "--limit", "1"}, []string{"run-c"}},
		{"unknown digest", []string{"--digest", "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, NewHistoryCommand, &RootOptions{Format: "json", Database: db}, tt.args...)
			require.NoError(t, err)

			var resp struct {
				Status string        `json:"status"`
				Data   HistoryResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "ok", resp.Status)

			ids := []string{}
			for _, r := range resp.Data.Runs {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), resp.Data.Total)
		})
	}
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeCommand(t, NewHistoryCommand, &RootOptions{Format: "text", Database: db})
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryRequiresDatabase(t *testing.T) {
	out, err := executeCommand(t, NewHistoryCommand, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E303]")
}

func TestHistoryMissingDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nope.db")

	out, err := executeCommand(t, NewHistoryCommand, &RootOptions{Format: "text", Database: db})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "database not found")
	assert.NoFileExists(t, db, "a mistyped path must not be created")
}

func TestShowText(t *testing.T) {
	db := seedHistory(t)

	out, err := executeCommand(t, NewShowCommand, &RootOptions{Format: "text", Database: db}, "run-b")
	require.NoError(t, err)

	assert.Contains(t, out, "Run run-b (seq 2)")
	assert.Contains(t, out, "Dataset:  beta")
	assert.Contains(t, out, "Digest:   bbb")
	assert.Contains(t, out, "Levels:   3 (1 demotions)")
	assert.Contains(t, out, "\n0: 0\n2: 1\n4: 2\nPath size: 3\n")
}

func TestShowJSON(t *testing.T) {
	db := seedHistory(t)

	out, err := executeCommand(t, NewShowCommand, &RootOptions{Format: "json", Database: db}, "run-a")
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		RunID  string          `json:"run_id"`
		Data   store.RunRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-a", resp.RunID)
	assert.Equal(t, int64(1), resp.Data.Seq)
	assert.Equal(t, 1500, resp.Data.InputCount)
	require.Len(t, resp.Data.Chain, 2)
	assert.Equal(t, "2: 1", resp.Data.Chain[1].String())
}

func TestShowRunNotFound(t *testing.T) {
	db := seedHistory(t)

	out, err := executeCommand(t, NewShowCommand, &RootOptions{Format: "text", Database: db}, "run-z")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E302]: run not found: run-z")
}

func TestShowMissingArgs(t *testing.T) {
	_, err := executeCommand(t, NewShowCommand, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
