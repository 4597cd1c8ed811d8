package harness

import (
	"github.com/roach88/telescope/internal/dataset"
	"github.com/roach88/telescope/internal/solver"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if the expect clause and every assertion hold.
	Pass bool `json:"pass"`

	// Chain is the solved chain rendered one event per entry.
	Chain []string `json:"chain"`

	// Length is the chain length, 0 when solving failed.
	Length int `json:"length"`

	// ErrorCode is the chain error code when solving failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Output is the text rendering of the run, as printed by the CLI.
	Output string `json:"output,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Run is the solver run, nil when solving failed.
	Run *solver.Run `json:"-"`

	// Dataset is the solved input.
	Dataset *dataset.Dataset `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Chain:  []string{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
