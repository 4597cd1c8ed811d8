package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/telescope/internal/chain"
)

// marshalCoordinates converts a coordinate vector to JSON TEXT for storage.
// A zero-dimensional event is stored as "[]", never "null".
func marshalCoordinates(coords []int64) (string, error) {
	if len(coords) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(coords)
	if err != nil {
		return "", fmt.Errorf("marshal coordinates: %w", err)
	}
	return string(data), nil
}

// unmarshalCoordinates parses JSON TEXT to a coordinate vector.
// Decoding straight into int64 keeps values beyond 2^53 exact.
func unmarshalCoordinates(data string) ([]int64, error) {
	coords := []int64{}
	if data == "" || data == "[]" {
		return coords, nil
	}
	if err := json.Unmarshal([]byte(data), &coords); err != nil {
		return nil, fmt.Errorf("unmarshal coordinates: %w", err)
	}
	return coords, nil
}

// marshalStats converts solver counters to JSON TEXT.
// Uses json.Encoder with HTML escaping disabled so stored text is stable.
func marshalStats(stats chain.Stats) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(stats); err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalStats parses JSON TEXT to solver counters.
func unmarshalStats(data string) (chain.Stats, error) {
	var stats chain.Stats
	if data == "" || data == "{}" {
		return stats, nil
	}
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return chain.Stats{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	return stats, nil
}

// formatTime renders t for the created_at column. UTC with nanoseconds so
// the text sorts the same way the instants do.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at: %w", err)
	}
	return t, nil
}
