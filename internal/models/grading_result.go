package models

// GradingResult is the structured feedback produced by the grading backend.
// Score and MaxScore stay free-form strings so qualitative rubrics ("A",
// "Pass") work end to end; consumers that need numbers parse a leading
// numeric token and fall back to treating the score as qualitative.
type GradingResult struct {
	Score       string         `json:"score"`
	MaxScore    string         `json:"max_score"`
	Summary     string         `json:"summary"`
	Strengths   []string       `json:"strengths,omitempty"`
	Weaknesses  []string       `json:"weaknesses,omitempty"`
	Suggestions string         `json:"suggestions,omitempty"`
	Details     []DetailResult `json:"details,omitempty"`
}

// DetailResult is one rubric-driven breakdown row. Name values are decided
// by the rubric at grading time, so the set of names is not known in advance
// and may differ between items in the same batch.
type DetailResult struct {
	Name     string `json:"name"`
	Score    string `json:"score,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

// Clone returns a deep copy, or nil for a nil receiver.
func (r *GradingResult) Clone() *GradingResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Strengths = append([]string(nil), r.Strengths...)
	out.Weaknesses = append([]string(nil), r.Weaknesses...)
	out.Details = append([]DetailResult(nil), r.Details...)
	return &out
}
