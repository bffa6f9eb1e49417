package models

// ItemStatus tracks a submitted file through its grading lifecycle.
type ItemStatus string

const (
	// StatusPending indicates the file has been added but not yet graded.
	StatusPending ItemStatus = "pending"
	// StatusProcessing indicates a grading call for the file is in flight.
	StatusProcessing ItemStatus = "processing"
	// StatusCompleted indicates grading finished and a result is attached.
	StatusCompleted ItemStatus = "completed"
	// StatusError indicates the last grading attempt failed.
	StatusError ItemStatus = "error"
)

// Valid reports whether the status is one of the four lifecycle states.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status only changes through explicit user
// action (a regrade or a new batch run).
func (s ItemStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// GradedItem is one submitted homework file and its grading state.
//
// ID, Name, MimeType, SizeBytes and both content fields are fixed at
// creation. Status, Result and ErrorMessage change together through the
// document store: Result is set only while Completed, ErrorMessage only
// while Error, and never both.
type GradedItem struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	MimeType      string         `json:"mime_type"`
	SizeBytes     int64          `json:"size_bytes"`
	RawContent    string         `json:"raw_content,omitempty"`
	ExtractedText string         `json:"extracted_text,omitempty"`
	Status        ItemStatus     `json:"status"`
	Result        *GradingResult `json:"result,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
}

// Eligible reports whether a batch run should pick the item up.
func (i GradedItem) Eligible() bool {
	return i.Status == StatusPending || i.Status == StatusError
}

// Clone returns a deep copy safe to hand to readers.
func (i GradedItem) Clone() GradedItem {
	out := i
	out.Result = i.Result.Clone()
	return out
}
