package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/telescope/internal/event"
)

func TestReadYAML_Valid(t *testing.T) {
	doc := `
name: tie-break
dimensions: 1
events:
  - time: 0
    coordinates: [0]
  - time: 2
    coordinates: [1]
  - time: 5
    coordinates: [2]
  - time: 5
    coordinates: [10]
`
	ds, err := ReadYAML(strings.NewReader(doc), "file-name")
	require.NoError(t, err)
	assert.Equal(t, "tie-break", ds.Name)
	assert.Equal(t, 1, ds.Dim)
	assert.True(t, ds.Sorted)
	assert.Equal(t, []string{"0: 0", "2: 1", "5: 2", "5: 10"}, event.Strings(ds.Events))
}

func TestReadYAML_InfersDimensions(t *testing.T) {
	doc := `{"events": [{"time": 1, "coordinates": [1, 2]}, {"time": 0, "coordinates": [0, 0]}]}`
	ds, err := ReadYAML(strings.NewReader(doc), "json-doc")
	require.NoError(t, err)
	assert.Equal(t, "json-doc", ds.Name)
	assert.Equal(t, 2, ds.Dim)
	assert.False(t, ds.Sorted)
}

func TestReadYAML_DimensionMismatchReportsLine(t *testing.T) {
	doc := `dimensions: 2
events:
  - time: 0
    coordinates: [0, 0]
  - time: 1
    coordinates: [1]
`
	_, err := ReadYAML(strings.NewReader(doc), "x")
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeDimension, le.Code)
	assert.Equal(t, 5, le.Line)
	assert.Equal(t, 2, le.Record)
}

func TestReadYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown key", "dims: 2\nevents: []\n"},
		{"not an integer", "events:\n  - time: soon\n    coordinates: [1]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadYAML(strings.NewReader(tt.doc), "x")
			require.Error(t, err)
			code, ok := IsLoadError(err)
			require.True(t, ok)
			assert.Equal(t, ErrCodeSyntax, code)
		})
	}
}

func TestReadYAML_DimensionsBeyondLimit(t *testing.T) {
	_, err := ReadYAML(strings.NewReader("dimensions: 100000\nevents: []\n"), "x")
	code, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeDimension, code)
	assert.Contains(t, err.Error(), "exceeds the limit of 4096")
}

func TestWriteYAML_ReadableByReadYAML(t *testing.T) {
	ds, err := New("round", 2, []event.Event{event.New(0, 1, 2), event.New(4, -1, 0)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, ds))

	back, err := ReadYAML(&buf, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "round", back.Name)
	assert.Equal(t, ds.Dim, back.Dim)
	assert.Equal(t, ds.Events, back.Events)
}
