package ai

import "context"

// GradeInput carries one submission plus the rubric it is graded against.
// Text and Base64Content are both optional: a pure-image submission has no
// text and is graded visually from its encoded payload.
type GradeInput struct {
	FileName      string
	MimeType      string
	Text          string
	Base64Content string
	Rubric        string
}

// GradeResult is the structured outcome of one grading call. Scores are
// free-form strings because rubrics may be qualitative ("A", "Pass").
type GradeResult struct {
	Score       string        `json:"score"`
	MaxScore    string        `json:"max_score"`
	Summary     string        `json:"summary"`
	Strengths   []string      `json:"strengths"`
	Weaknesses  []string      `json:"weaknesses"`
	Suggestions string        `json:"suggestions"`
	Details     []DetailScore `json:"details,omitempty"`
}

// DetailScore is one rubric-defined breakdown entry.
type DetailScore struct {
	Name     string `json:"name"`
	Score    string `json:"score,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

// Grader describes a model backend capable of grading a submission. It is
// pure with respect to the caller's state: it only turns input into a
// result or an error, and may take arbitrarily long.
type Grader interface {
	Grade(ctx context.Context, input GradeInput) (GradeResult, error)
}
