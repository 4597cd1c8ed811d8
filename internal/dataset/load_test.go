package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/telescope/internal/event"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"events", FormatText},
		{"events.txt", FormatText},
		{"events.in", FormatText},
		{"events.YAML", FormatYAML},
		{"events.yml", FormatYAML},
		{"events.json", FormatYAML},
		{"events.cue", FormatCUE},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatForPath("events.csv")
	code, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeFormat, code)
}

func TestLoadFile_DispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "plain.txt", "2 1\n0 0\n3 1\n"),
		writeFile(t, dir, "doc.yaml", "events:\n  - {time: 0, coordinates: [0]}\n  - {time: 3, coordinates: [1]}\n"),
		writeFile(t, dir, "doc.json", `{"events": [{"time": 0, "coordinates": [0]}, {"time": 3, "coordinates": [1]}]}`),
		writeFile(t, dir, "doc.cue", "events: [{time: 0, coordinates: [0]}, {time: 3, coordinates: [1]}]\n"),
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			ds, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, 1, ds.Dim)
			assert.Equal(t, []string{"0: 0", "3: 1"}, event.Strings(ds.Events))
		})
	}
}

func TestLoadFile_NamesAfterFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "survey-7.txt", "1 0\n4\n")
	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "survey-7", ds.Name)
	assert.Equal(t, 0, ds.Dim)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.txt"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)

	bad := writeFile(t, dir, "bad.txt", "2 1\n0 0\n")
	_, err = LoadFile(bad)
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeCount, le.Code)
	assert.Equal(t, bad, le.File, "errors are tagged with the file")
	assert.Contains(t, err.Error(), bad)
}

func TestSaveFile(t *testing.T) {
	ds, err := New("saved", 2, []event.Event{event.New(2, 1, 1), event.New(0, 0, 0)})
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"out.txt", "out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveFile(path, ds))

			back, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, ds.Events, back.Events)
			assert.Equal(t, ds.Dim, back.Dim)
		})
	}

	err = SaveFile(filepath.Join(dir, "out.cue"), ds)
	code, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeWriteFailed, code)
}
