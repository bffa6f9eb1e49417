package dto

import "github.com/centuryrain1980/Autograding/internal/models"

// SettingsResponse mirrors the current settings. The API key itself is never
// echoed back; the flag only reports whether one is set.
type SettingsResponse struct {
	Provider  models.Provider `json:"provider"`
	BaseURL   string          `json:"base_url"`
	ModelName string          `json:"model_name"`
	HasAPIKey bool            `json:"has_api_key"`
}

// NewSettingsResponse maps settings to their response shape.
func NewSettingsResponse(s models.Settings) SettingsResponse {
	return SettingsResponse{
		Provider:  s.Provider,
		BaseURL:   s.BaseURL,
		ModelName: s.ModelName,
		HasAPIKey: s.APIKey != "",
	}
}

// UpdateSettingsRequest is a partial settings patch; absent fields stay as
// they are.
type UpdateSettingsRequest struct {
	Provider  *string `json:"provider" validate:"omitempty,oneof=gemini custom"`
	APIKey    *string `json:"api_key"`
	BaseURL   *string `json:"base_url"`
	ModelName *string `json:"model_name"`
}

// RubricResponse carries the rubric text.
type RubricResponse struct {
	Rubric string `json:"rubric"`
}

// UpdateRubricRequest replaces the rubric verbatim.
type UpdateRubricRequest struct {
	Rubric string `json:"rubric"`
}
