package models

// Provider identifies which grading backend family the settings target.
type Provider string

const (
	// ProviderGemini grades through Google's Gemini OpenAI-compatibility endpoint.
	ProviderGemini Provider = "gemini"
	// ProviderCustom grades through a user-supplied OpenAI-compatible server.
	ProviderCustom Provider = "custom"
)

// Valid reports whether the provider is a known backend family.
func (p Provider) Valid() bool {
	return p == ProviderGemini || p == ProviderCustom
}

// DefaultModel returns the model a provider falls back to when none is
// configured. Switching providers resets the model to this value.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderCustom:
		return "gpt-4o-mini"
	default:
		return ""
	}
}

// Settings configures the external grading call. No field is validated here;
// a missing API key or base URL surfaces as a grading failure at call time.
type Settings struct {
	Provider  Provider `json:"provider"`
	APIKey    string   `json:"api_key"`
	BaseURL   string   `json:"base_url"`
	ModelName string   `json:"model_name"`
}
