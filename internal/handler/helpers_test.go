package handler_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/centuryrain1980/Autograding/internal/extract"
	"github.com/centuryrain1980/Autograding/internal/models"
	"github.com/centuryrain1980/Autograding/internal/service"
	"github.com/centuryrain1980/Autograding/internal/store"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type plainExtractor struct{}

func (plainExtractor) Extract(_ context.Context, _, _ string, data []byte) extract.Content {
	return extract.Content{
		MimeType: "text/plain",
		Base64:   base64.StdEncoding.EncodeToString(data),
		Text:     string(data),
	}
}

type stubInvoker struct {
	result *models.GradingResult
	err    error
}

func (s *stubInvoker) Invoke(context.Context, models.GradedItem, string, models.Settings) (*models.GradingResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result.Clone(), nil
	}
	return &models.GradingResult{Score: "90", MaxScore: "100"}, nil
}

func newFixtures(invoker service.Invoker) (*store.DocumentStore, *service.SettingsService, *service.GradingOrchestrator) {
	if invoker == nil {
		invoker = &stubInvoker{}
	}
	docs := store.NewDocumentStore(plainExtractor{}, testLogger())
	settings := service.NewSettingsService(models.Settings{Provider: models.ProviderGemini, APIKey: "key"}, "rubric", testLogger())
	orchestrator := service.NewGradingOrchestrator(docs, invoker, settings, testLogger())
	return docs, settings, orchestrator
}

func decodeEnvelope(t *testing.T, resp *http.Response, data interface{}) (bool, string) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return envelope.Success, envelope.Message
}
