package problemset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/mathgrade/internal/grading"
)

const (
	maxTitleLen     = 200
	maxStatementLen = 10000
	maxAnswers      = 50
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// StructuralValidator checks ids, length limits and that no canonical
// answer is blank.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), ProblemID: p.ID, Message: fmt.Sprintf(format, args...)}
	}

	if !idPattern.MatchString(p.ID) {
		return fail("id must be alphanumeric with '-', '_' or '.'")
	}
	if len(p.Title) > maxTitleLen {
		return fail("title exceeds %d characters", maxTitleLen)
	}
	if len(p.Statement) > maxStatementLen {
		return fail("statement exceeds %d characters", maxStatementLen)
	}
	if len(p.Answers) == 0 {
		return fail("answers is empty")
	}
	if len(p.Answers) > maxAnswers {
		return fail("more than %d answers", maxAnswers)
	}
	for i, a := range p.Answers {
		if strings.TrimSpace(a) == "" {
			return fail("answer %d is blank", i+1)
		}
		if len(a) > grading.MaxInputLength {
			return fail("answer %d exceeds %d characters", i+1, grading.MaxInputLength)
		}
	}
	if p.Points < 0 {
		return fail("points must not be negative")
	}
	return nil
}
