package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/centuryrain1980/Autograding/internal/dto"
	"github.com/centuryrain1980/Autograding/internal/handler"
	"github.com/centuryrain1980/Autograding/internal/service"
)

func newSettingsApp(settings *service.SettingsService) *fiber.App {
	app := fiber.New()
	validate := validator.New(validator.WithRequiredStructEnabled())
	handler.NewSettingsHandler(settings, validate, testLogger()).Register(app.Group("/api/v1"))
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetSettingsRedactsAPIKey(t *testing.T) {
	_, settings, _ := newFixtures(nil)
	app := newSettingsApp(settings)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload dto.SettingsResponse
	decodeEnvelope(t, resp, &payload)
	require.Equal(t, "gemini", string(payload.Provider))
	require.True(t, payload.HasAPIKey)
}

func TestPatchSettingsSwitchesProvider(t *testing.T) {
	_, settings, _ := newFixtures(nil)
	app := newSettingsApp(settings)

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/api/v1/settings", `{"provider":"custom","base_url":"http://localhost:11434/v1"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload dto.SettingsResponse
	decodeEnvelope(t, resp, &payload)
	require.Equal(t, "custom", string(payload.Provider))
	require.Equal(t, "gpt-4o-mini", payload.ModelName)
	require.Equal(t, "http://localhost:11434/v1", payload.BaseURL)
}

func TestPatchSettingsRejectsUnknownProvider(t *testing.T) {
	_, settings, _ := newFixtures(nil)
	app := newSettingsApp(settings)

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/api/v1/settings", `{"provider":"bedrock"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "gemini", string(settings.Settings().Provider))
}

func TestRubricRoundTripOverHTTP(t *testing.T) {
	_, settings, _ := newFixtures(nil)
	app := newSettingsApp(settings)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v1/rubric", `{"rubric":"Grade out of 20."}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Grade out of 20.", settings.Rubric())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/rubric", nil))
	require.NoError(t, err)

	var payload dto.RubricResponse
	decodeEnvelope(t, resp, &payload)
	require.Equal(t, "Grade out of 20.", payload.Rubric)
}
