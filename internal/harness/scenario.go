package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/telescope/internal/chain"
	"github.com/roach88/telescope/internal/event"
)

// Scenario defines a chain scenario: an input and what solving it must
// produce.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is a dataset file to solve. Mutually exclusive with Events.
	Dataset string `yaml:"dataset,omitempty"`

	// Dimensions declares the coordinate count of inline events. Defaults
	// to the first event's.
	Dimensions *int `yaml:"dimensions,omitempty"`

	// Events is the inline input, in input order.
	Events []event.Event `yaml:"events,omitempty"`

	// Expect specifies the expected outcome.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate properties of the outcome.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID is an optional fixed run ID.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// ExpectClause specifies the expected solve outcome.
type ExpectClause struct {
	// Length is the expected chain length. Zero skips the check.
	Length int `yaml:"length,omitempty"`

	// Chain is the exact expected chain, rendered "<time>: <c0> ...".
	Chain []string `yaml:"chain,omitempty"`

	// Error is the expected chain error code (e.g. "NO_CHAIN").
	Error string `yaml:"error,omitempty"`
}

// Assertion validates a property of the outcome.
type Assertion struct {
	// Type specifies the assertion type:
	// - "chain_valid": consecutive chain events are linkable
	// - "endpoints": chain runs between the mandatory endpoints
	// - "maximal": chain length matches an exhaustive search
	// - "contains": Event is on the chain
	// - "excludes": Event is not on the chain
	// - "recorded": stored run matches the result
	Type string `yaml:"type"`

	// Event is a rendered event (used by contains and excludes).
	Event string `yaml:"event,omitempty"`
}

// Assertion type constants.
const (
	AssertChainValid = "chain_valid"
	AssertEndpoints  = "endpoints"
	AssertMaximal    = "maximal"
	AssertContains   = "contains"
	AssertExcludes   = "excludes"
	AssertRecorded   = "recorded"
)

// errorCodes lists the chain error codes a scenario may expect.
var errorCodes = []chain.ErrorCode{
	chain.ErrCodeEmptyInput,
	chain.ErrCodeDimensionMismatch,
	chain.ErrCodeNoChain,
}

// LoadScenario reads and parses a scenario YAML file.
// Relative dataset paths are resolved against the scenario's directory.
//
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative dataset path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the dataset path BEFORE validation
	if scenario.Dataset != "" && !filepath.IsAbs(scenario.Dataset) && basePath != "" {
		scenario.Dataset = filepath.Join(basePath, scenario.Dataset)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml scenario under dir, in path
// order. filter, when non-empty, is a glob matched against the file name
// without extension.
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	paths, err := FindScenarioFiles(dir, filter)
	if err != nil {
		return nil, err
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// FindScenarioFiles finds all YAML scenario files under dir, sorted.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// Only process .yaml and .yml files
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Dataset != "" && len(s.Events) > 0:
		return fmt.Errorf("dataset and events are mutually exclusive")
	case s.Dataset != "":
		if _, err := os.Stat(s.Dataset); os.IsNotExist(err) {
			return fmt.Errorf("dataset file not found: %s", s.Dataset)
		}
		if s.Dimensions != nil {
			return fmt.Errorf("dimensions applies to inline events only")
		}
	}

	if s.Dimensions != nil && *s.Dimensions < 0 {
		return fmt.Errorf("dimensions must be non-negative")
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect != nil {
		if err := validateExpect(s.Expect); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(e *ExpectClause) error {
	if e.Error != "" {
		if e.Length != 0 || len(e.Chain) > 0 {
			return fmt.Errorf("expect: error excludes length and chain")
		}
		if !slices.Contains(errorCodes, chain.ErrorCode(e.Error)) {
			return fmt.Errorf("expect: unknown error code %q", e.Error)
		}
		return nil
	}

	if e.Length < 0 {
		return fmt.Errorf("expect: length must be non-negative")
	}
	if e.Length == 0 && len(e.Chain) == 0 {
		return fmt.Errorf("expect: one of length, chain or error is required")
	}
	if e.Length > 0 && len(e.Chain) > 0 && e.Length != len(e.Chain) {
		return fmt.Errorf("expect: length %d disagrees with %d chain entries", e.Length, len(e.Chain))
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertChainValid, AssertEndpoints, AssertMaximal, AssertRecorded:
		if a.Event != "" {
			return fmt.Errorf("assertions[%d]: event is not used by %s", index, a.Type)
		}
	case AssertContains, AssertExcludes:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
