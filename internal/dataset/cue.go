package dataset

import (
	"fmt"
	"io"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// datasetSchema constrains CUE dataset documents before decoding.
const datasetSchema = `
#Event: {
	time:        int
	coordinates: [...int]
}

#Dataset: {
	name?:       string
	dimensions?: int & >=0
	events:      [...#Event]
}
`

// ReadCUE reads a CUE dataset document. The document is unified with the
// dataset schema, so type errors are reported with CUE source positions.
func ReadCUE(r io.Reader, filename, name string) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(datasetSchema, cue.Filename("dataset-schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling dataset schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err, ErrCodeSyntax)
	}

	unified := schema.LookupPath(cue.ParsePath("#Dataset")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, ErrCodeSchema)
	}

	var doc yamlDataset
	if err := unified.Decode(&doc); err != nil {
		return nil, formatCUEError(err, ErrCodeSchema)
	}

	ds, err := doc.build(name)
	if err != nil {
		// Point dimension errors at the offending event in the source.
		if le, ok := err.(*LoadError); ok && le.Record > 0 {
			ev := unified.LookupPath(cue.MakePath(cue.Str("events"), cue.Index(le.Record-1)))
			if pos := ev.Pos(); pos.IsValid() {
				le.Pos = pos
			}
		}
		return nil, err
	}
	return ds, nil
}

// formatCUEError converts a CUE error into a LoadError carrying the position
// of the first error.
func formatCUEError(err error, code string) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
