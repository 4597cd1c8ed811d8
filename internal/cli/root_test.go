package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "telescope", cmd.Use)
	assert.Contains(t, cmd.Long, "Manhattan distance")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"solve", "validate", "generate", "history", "show", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	unsetenv(t, "TELESCOPE_DB")
	unsetenv(t, "TELESCOPE_FORMAT")
	unsetenv(t, "TELESCOPE_VERBOSE")

	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestGlobalFlags_EnvironmentDefaults(t *testing.T) {
	t.Setenv("TELESCOPE_DB", "/tmp/runs.db")
	t.Setenv("TELESCOPE_FORMAT", "json")
	t.Setenv("TELESCOPE_VERBOSE", "true")

	cmd := NewRootCommand()
	assert.Equal(t, "/tmp/runs.db", cmd.PersistentFlags().Lookup("db").DefValue)
	assert.Equal(t, "json", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "true", cmd.PersistentFlags().Lookup("verbose").DefValue)
}

func TestRootCommand_InvalidEnvironment(t *testing.T) {
	t.Setenv("TELESCOPE_FORMAT", "xml")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", "whatever.txt"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestRootCommand_InvalidFormatFlag(t *testing.T) {
	unsetenv(t, "TELESCOPE_FORMAT")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "yaml", "validate", "whatever.txt"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestSolveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	solveCmd, _, err := cmd.Find([]string{"solve"})
	require.NoError(t, err)

	for _, name := range []string{"timing", "summary"} {
		flag := solveCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestGenerateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	genCmd, _, err := cmd.Find([]string{"generate"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"count", "n", "100000"},
		{"bound", "b", "100"},
		{"dim", "d", "3"},
		{"output", "o", ""},
		{"seed", "", "0"},
		{"solve", "", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := genCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

// TestRootCommand_EndToEnd runs generate, solve, history and show through
// the root command against one database.
func TestRootCommand_EndToEnd(t *testing.T) {
	unsetenv(t, "TELESCOPE_DB")
	unsetenv(t, "TELESCOPE_FORMAT")
	unsetenv(t, "TELESCOPE_VERBOSE")

	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	db := filepath.Join(dir, "runs.db")

	execute := func(args ...string) (string, error) {
		out := &bytes.Buffer{}
		cmd := NewRootCommand()
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	out, err := execute("generate", "-n", "200", "-b", "20", "-d", "2", "--seed", "7", "-o", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 200 events in 2 dimensions")
	assert.Contains(t, out, "(seed 7)")

	// Coordinates within [-20, 20) in two dimensions are at most 78 apart,
	// well inside the time span of 200 events.
	out, err = execute("--db", db, "--format", "json", "solve", input)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		RunID  string `json:"run_id"`
		Data   struct {
			Length int `json:"length"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotEmpty(t, resp.RunID)
	assert.GreaterOrEqual(t, resp.Data.Length, 2)

	out, err = execute("--db", db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, resp.RunID)

	out, err = execute("--db", db, "show", resp.RunID)
	require.NoError(t, err)
	assert.Contains(t, out, "Run "+resp.RunID)
}

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
