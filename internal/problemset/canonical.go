package problemset

import (
	"fmt"

	"github.com/abhisek/mathgrade/internal/grading"
)

// CanonicalAnswerValidator rejects problems no submission could ever
// solve. Multi-answer problems are compared numerically, so every
// canonical entry must evaluate to a number. Single-answer alternatives may
// be plain text but must not be unevaluable arithmetic such as 1/0.
type CanonicalAnswerValidator struct{}

func (v *CanonicalAnswerValidator) Name() string { return "canonical-answer" }

func (v *CanonicalAnswerValidator) Validate(p *Problem) *ValidationError {
	for i, a := range p.Answers {
		val := grading.Evaluate(grading.Normalize(a))
		switch {
		case val.Kind == grading.KindUnevaluable:
			return &ValidationError{
				Validator: v.Name(),
				ProblemID: p.ID,
				Message:   fmt.Sprintf("answer %d (%q) does not evaluate", i+1, a),
			}
		case p.RequiresMultipleAnswers && !val.IsNumber():
			return &ValidationError{
				Validator: v.Name(),
				ProblemID: p.ID,
				Message:   fmt.Sprintf("answer %d (%q) is not numeric; multi-answer problems need numeric answers", i+1, a),
			}
		}
	}
	return nil
}
