package problemset

import "github.com/abhisek/mathgrade/internal/grading"

// FormatMajor is the problem-set file format this build understands.
const FormatMajor = "v1"

// Set is a named collection of problems loaded from a JSON file.
type Set struct {
	// Version is the file format version, e.g. "v1.0.0".
	Version string `json:"version" validate:"required"`

	// Name identifies the set in the store and the UI.
	Name string `json:"name" validate:"required"`

	Problems []Problem `json:"problems" validate:"required,min=1,dive"`
}

// Problem is a single question with its accepted answers.
type Problem struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title"`

	// Statement is shown to the contestant. It may contain LaTeX.
	Statement string `json:"statement"`

	// Answers holds the canonical answers. In single-answer mode each entry
	// is an accepted alternative; in multi-answer mode the entries are the
	// full multiset of required values.
	Answers []string `json:"answers" validate:"required,min=1"`

	RequiresMultipleAnswers bool `json:"requires_multiple_answers"`

	Points int `json:"points" validate:"gte=0"`
}

// Policy returns the matching policy for p.
func (p *Problem) Policy() grading.Policy {
	return grading.Policy{RequiresMultipleAnswers: p.RequiresMultipleAnswers}
}

// Problem returns the problem with the given id, or nil.
func (s *Set) Problem(id string) *Problem {
	for i := range s.Problems {
		if s.Problems[i].ID == id {
			return &s.Problems[i]
		}
	}
	return nil
}
