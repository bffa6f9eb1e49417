package dto

import "github.com/centuryrain1980/Autograding/internal/models"

// DocumentResponse is the item shape returned to the presentation layer.
// Raw base64 content is withheld from listings to keep payloads small; the
// boolean flags tell the client which representations exist.
type DocumentResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	MimeType     string                `json:"mime_type"`
	SizeBytes    int64                 `json:"size_bytes"`
	HasText      bool                  `json:"has_text"`
	HasContent   bool                  `json:"has_content"`
	Status       models.ItemStatus     `json:"status"`
	Result       *models.GradingResult `json:"result,omitempty"`
	ErrorMessage string                `json:"error_message,omitempty"`
}

// NewDocumentResponse maps a graded item to its response shape.
func NewDocumentResponse(item models.GradedItem) DocumentResponse {
	return DocumentResponse{
		ID:           item.ID,
		Name:         item.Name,
		MimeType:     item.MimeType,
		SizeBytes:    item.SizeBytes,
		HasText:      item.ExtractedText != "",
		HasContent:   item.RawContent != "",
		Status:       item.Status,
		Result:       item.Result,
		ErrorMessage: item.ErrorMessage,
	}
}

// NewDocumentListResponse maps a snapshot to response shapes in order.
func NewDocumentListResponse(items []models.GradedItem) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewDocumentResponse(item))
	}
	return out
}
