package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/telescope/internal/event"
)

// yamlDataset is the document shape shared by the YAML, JSON and CUE
// formats.
type yamlDataset struct {
	Name       string      `yaml:"name" json:"name"`
	Dimensions *int        `yaml:"dimensions" json:"dimensions"`
	Events     []yamlEvent `yaml:"events" json:"events"`
}

type yamlEvent struct {
	Time        int64   `yaml:"time" json:"time"`
	Coordinates []int64 `yaml:"coordinates" json:"coordinates"`

	line int
}

// UnmarshalYAML records the line each event starts on for error reporting.
func (e *yamlEvent) UnmarshalYAML(n *yaml.Node) error {
	var plain struct {
		Time        int64   `yaml:"time"`
		Coordinates []int64 `yaml:"coordinates"`
	}
	if err := n.Decode(&plain); err != nil {
		return err
	}
	e.Time, e.Coordinates, e.line = plain.Time, plain.Coordinates, n.Line
	return nil
}

// ReadYAML reads a YAML (or JSON) dataset document.
//
// dimensions may be omitted, in which case it is taken from the first
// event. Unknown top-level keys are rejected.
func ReadYAML(r io.Reader, name string) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}

	var doc yamlDataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeSyntax, Message: "empty document"}
		}
		return nil, &LoadError{Code: ErrCodeSyntax, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}

	return doc.build(name)
}

// build converts the document into a Dataset, checking every event's
// coordinate count against the declared or inferred dimensionality.
func (doc *yamlDataset) build(name string) (*Dataset, error) {
	if doc.Name != "" {
		name = doc.Name
	}

	dim := 0
	switch {
	case doc.Dimensions != nil:
		dim = *doc.Dimensions
	case len(doc.Events) > 0:
		dim = len(doc.Events[0].Coordinates)
	}
	if le := checkDim(int64(dim)); le != nil {
		return nil, le
	}

	events := make([]event.Event, len(doc.Events))
	for i, e := range doc.Events {
		if len(e.Coordinates) != dim {
			return nil, &LoadError{
				Code:    ErrCodeDimension,
				Message: fmt.Sprintf("event %d has %d coordinates, expected %d", i, len(e.Coordinates), dim),
				Line:    e.line,
				Record:  i + 1,
			}
		}
		events[i] = event.New(e.Time, e.Coordinates...)
	}

	return &Dataset{Name: CleanName(name), Dim: dim, Events: events, Sorted: event.IsSorted(events)}, nil
}

// WriteYAML writes ds as a YAML document readable by ReadYAML.
func WriteYAML(w io.Writer, ds *Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return err
	}
	return enc.Close()
}
