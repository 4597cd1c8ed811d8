package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/telescope/internal/event"
)

// Dataset is a list of events sharing one dimensionality.
type Dataset struct {
	// Name labels the dataset in output and run history. Defaults to the
	// file name when loaded from disk.
	Name string `json:"name" yaml:"name"`

	// Dim is the number of coordinates every event carries.
	Dim int `json:"dimensions" yaml:"dimensions"`

	// Events in input order.
	Events []event.Event `json:"events" yaml:"events"`

	// Sorted reports whether Events were already in time order.
	Sorted bool `json:"-" yaml:"-"`
}

// New creates a Dataset and validates it. Sortedness is detected here.
func New(name string, dim int, events []event.Event) (*Dataset, error) {
	ds := &Dataset{Name: CleanName(name), Dim: dim, Events: events, Sorted: event.IsSorted(events)}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// MaxDimensions bounds the dimensionality a dataset may declare.
const MaxDimensions = 4096

// checkDim rejects a declared dimensionality outside [0, MaxDimensions].
func checkDim(dim int64) *LoadError {
	switch {
	case dim < 0:
		return &LoadError{Code: ErrCodeDimension, Message: fmt.Sprintf("negative dimensionality %d", dim)}
	case dim > MaxDimensions:
		return &LoadError{Code: ErrCodeDimension, Message: fmt.Sprintf("dimensionality %d exceeds the limit of %d", dim, MaxDimensions)}
	}
	return nil
}

// Validate checks dimensionality consistency.
func (d *Dataset) Validate() error {
	if le := checkDim(int64(d.Dim)); le != nil {
		return le
	}
	if err := event.CheckDim(d.Events, d.Dim); err != nil {
		le := &LoadError{Code: ErrCodeDimension, Message: err.Error()}
		var de *event.DimError
		if errors.As(err, &de) {
			le.Record = de.Index + 1
		}
		return le
	}
	return nil
}

// CleanName trims surrounding space from a dataset name and converts it to
// Unicode NFC, so names typed on different systems compare equal in run
// history.
func CleanName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Len returns the number of events.
func (d *Dataset) Len() int {
	return len(d.Events)
}

// LoadError represents an error that occurred while reading a dataset.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int       // 1-based line in File, 0 if unknown
	Record  int       // 1-based record number, 0 if not record-specific
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	case e.Record > 0:
		return fmt.Sprintf("record %d: %s: %s", e.Record, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Error code constants for dataset loading.
const (
	ErrCodeNotFound    = "E201" // File not found or unreadable
	ErrCodeFormat      = "E202" // Unsupported file extension
	ErrCodeSyntax      = "E203" // Malformed token or document
	ErrCodeCount       = "E204" // Record count differs from header
	ErrCodeDimension   = "E205" // Dimensionality mismatch
	ErrCodeSchema      = "E206" // CUE schema violation
	ErrCodeWriteFailed = "E207" // Writing a dataset failed
	ErrCodeGenerate    = "E208" // Invalid generator options
)

// IsLoadError reports whether err is a LoadError and returns its code.
func IsLoadError(err error) (string, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code, true
	}
	return "", false
}

// FileProvider loads a dataset from a path, choosing the format by
// extension.
type FileProvider struct {
	Path string
}

// Load implements solver.Provider.
func (p FileProvider) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(p.Path)
}

// StaticProvider serves an in-memory dataset.
type StaticProvider struct {
	Dataset *Dataset
}

// Load implements solver.Provider.
func (p StaticProvider) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Dataset == nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "no dataset"}
	}
	if err := p.Dataset.Validate(); err != nil {
		return nil, err
	}
	return p.Dataset, nil
}

// GeneratorProvider serves a freshly generated synthetic dataset.
type GeneratorProvider struct {
	Options GenerateOptions
}

// Load implements solver.Provider.
func (p GeneratorProvider) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Generate(p.Options)
}
