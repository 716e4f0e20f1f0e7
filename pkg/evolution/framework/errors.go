package framework

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ConfigurationError reports run parameters that make an optimization
// impossible. It is always returned before a run starts.
type ConfigurationError struct {
	Errs field.ErrorList
}

// NewConfigurationError wraps a non-empty list of field errors.
func NewConfigurationError(errs field.ErrorList) *ConfigurationError {
	return &ConfigurationError{Errs: errs}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Errs.ToAggregate())
}

// Unwrap exposes the individual field errors to errors.Is / errors.As.
func (e *ConfigurationError) Unwrap() []error {
	out := make([]error, len(e.Errs))
	for i, err := range e.Errs {
		out[i] = err
	}
	return out
}

// DegenerateGenome is raised when an operator produced a candidate that
// breaks the genome invariants.
type DegenerateGenome struct {
	Want int
	Got  int
	// Position and Gene are set when the length is right but a gene is out
	// of the catalog range.
	Position int
	Gene     int
}

func (e *DegenerateGenome) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("degenerate genome: want %d genes, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("degenerate genome: gene %d at position %d is not a catalog index", e.Gene, e.Position)
}
