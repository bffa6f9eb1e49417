package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/models"
)

// SettingsService holds the mutable grading configuration and rubric shared
// by all grading calls. It performs no validation; a missing API key is the
// invoker's problem at call time.
type SettingsService struct {
	mu       sync.RWMutex
	settings models.Settings
	rubric   string
	logger   zerolog.Logger
}

// SettingsPatch is a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	Provider  *models.Provider
	APIKey    *string
	BaseURL   *string
	ModelName *string
}

// NewSettingsService seeds the holder with the startup configuration.
func NewSettingsService(initial models.Settings, rubric string, logger zerolog.Logger) *SettingsService {
	if initial.ModelName == "" {
		initial.ModelName = initial.Provider.DefaultModel()
	}
	return &SettingsService{
		settings: initial,
		rubric:   rubric,
		logger:   logger.With().Str("component", "settings_service").Logger(),
	}
}

// Settings returns a copy of the current settings.
func (s *SettingsService) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings shallow-merges the patch and returns the result. Switching
// providers resets the model name to the new provider's default, unless the
// same patch also names a model explicitly.
func (s *SettingsService) UpdateSettings(patch SettingsPatch) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Provider != nil && *patch.Provider != s.settings.Provider {
		s.settings.Provider = *patch.Provider
		s.settings.ModelName = patch.Provider.DefaultModel()
		s.logger.Info().Str("provider", string(*patch.Provider)).Str("model", s.settings.ModelName).Msg("provider switched")
	}
	if patch.APIKey != nil {
		s.settings.APIKey = *patch.APIKey
	}
	if patch.BaseURL != nil {
		s.settings.BaseURL = *patch.BaseURL
	}
	if patch.ModelName != nil && *patch.ModelName != "" {
		s.settings.ModelName = *patch.ModelName
	}

	return s.settings
}

// Rubric returns the current rubric text.
func (s *SettingsService) Rubric() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rubric
}

// SetRubric replaces the rubric verbatim. No structure is imposed on it; the
// text goes to the grading backend as written.
func (s *SettingsService) SetRubric(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rubric = text
}
