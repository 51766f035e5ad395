package problemset

import "fmt"

// Validator checks a loaded problem for consistency.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages, e.g.
	// "structural" or "canonical-answer".
	Name() string

	// Validate returns nil if the problem passes.
	Validate(p *Problem) *ValidationError
}

// ValidationError describes why a problem failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	ProblemID string
	Message   string
}

func (e *ValidationError) Error() string {
	if e.ProblemID == "" {
		return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
	}
	return fmt.Sprintf("validator %q: problem %q: %s", e.Validator, e.ProblemID, e.Message)
}

// DefaultValidators is the chain Parse runs on every problem.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&CanonicalAnswerValidator{},
	}
}
