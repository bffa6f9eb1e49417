package dto

// BatchStartResponse reports how many items a freshly started batch covers.
type BatchStartResponse struct {
	Started int `json:"started"`
}

// GradingStatusResponse reports batch progress for polling clients.
type GradingStatusResponse struct {
	IsGrading bool           `json:"is_grading"`
	Counts    map[string]int `json:"counts"`
}
