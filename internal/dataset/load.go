package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an on-disk dataset format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatForPath picks the format from a file extension. Files without an
// extension are read as text, like the generator's output.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".txt", ".in":
		return FormatText, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported dataset extension %q", filepath.Ext(path)), File: path}
	}
}

// LoadFile reads a dataset from path. The dataset is named after the file
// unless the document names itself.
func LoadFile(path string) (*Dataset, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "dataset file not found", File: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), File: path}
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var ds *Dataset
	switch format {
	case FormatText:
		ds, err = ReadText(f, name)
	case FormatYAML:
		ds, err = ReadYAML(f, name)
	case FormatCUE:
		ds, err = ReadCUE(f, path, name)
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.File == "" && !le.Pos.IsValid() {
			le.File = path
		}
		return nil, err
	}
	return ds, nil
}

// SaveFile writes ds to path in the format implied by its extension.
// CUE output is not supported; use .txt, .yaml or .json.
func SaveFile(path string, ds *Dataset) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Message: err.Error(), File: path}
	}

	switch format {
	case FormatText:
		err = WriteText(f, ds)
	case FormatYAML:
		if strings.EqualFold(filepath.Ext(path), ".json") {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			err = enc.Encode(ds)
		} else {
			err = WriteYAML(f, ds)
		}
	default:
		err = fmt.Errorf("writing %s datasets is not supported", format)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Message: err.Error(), File: path}
	}
	return nil
}
