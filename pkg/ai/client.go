package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GeminiBaseURL is Google's OpenAI-compatibility endpoint for Gemini models.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

var (
	gradeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "autograde",
		Subsystem: "ai",
		Name:      "grade_duration_seconds",
		Help:      "Duration of grading requests to the model backend",
	}, []string{"provider", "model"})

	gradeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autograde",
		Subsystem: "ai",
		Name:      "grade_failures_total",
		Help:      "Number of failed grading requests",
	}, []string{"provider", "model"})
)

// Config defines the backend a Client talks to. Provider is "gemini" or
// "custom"; custom targets any OpenAI-compatible chat-completions server.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// Client implements Grader over the OpenAI chat-completions protocol, which
// both supported providers speak.
type Client struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewClient builds a grading client for the given configuration. The
// validation here is the call-time validation the settings layer defers:
// Gemini needs an API key, a custom backend needs a base URL.
func NewClient(cfg Config) (*Client, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini api key is required")
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = GeminiBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = "gemini-2.0-flash"
		}
	case "custom":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("base url is required for a custom backend")
		}
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/centuryrain1980/Autograding/pkg/ai"),
		logger: cfg.Logger.With().Str("component", "ai_client").Str("provider", cfg.Provider).Logger(),
	}, nil
}

// Grade sends the submission and rubric to the model and parses the
// structured response.
func (c *Client) Grade(parent context.Context, input GradeInput) (GradeResult, error) {
	ctx, span := c.tracer.Start(parent, "ai.grade", trace.WithAttributes(
		attribute.String("ai.provider", c.cfg.Provider),
		attribute.String("ai.model", c.cfg.Model),
		attribute.String("ai.file", input.FileName),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: graderSystemPrompt(),
			},
			buildUserMessage(input),
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	gradeDuration.WithLabelValues(c.cfg.Provider, c.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		gradeFailures.WithLabelValues(c.cfg.Provider, c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradeResult{}, fmt.Errorf("%s grade: %w", c.cfg.Provider, err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from %s backend", c.cfg.Provider)
		gradeFailures.WithLabelValues(c.cfg.Provider, c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradeResult{}, err
	}

	result, err := parseGradeResponse(strings.TrimSpace(resp.Choices[0].Message.Content))
	if err != nil {
		gradeFailures.WithLabelValues(c.cfg.Provider, c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradeResult{}, err
	}

	c.logger.Debug().Str("file", input.FileName).Str("score", result.Score).Msg("submission graded")
	return result, nil
}

func graderSystemPrompt() string {
	return "You are a strict but fair homework grader. Grade the submission against the rubric the user provides. " +
		"Respond with a single JSON object with the keys: score, max_score, summary, strengths (array of strings), " +
		"weaknesses (array of strings), suggestions, and details (array of {name, score, feedback} objects following " +
		"the rubric's own criteria). Use the scale the rubric asks for; scores may be qualitative labels."
}

func buildUserMessage(input GradeInput) openai.ChatCompletionMessage {
	builder := strings.Builder{}
	builder.WriteString("# Rubric\n")
	builder.WriteString(input.Rubric)
	builder.WriteString("\n\n# Submission: ")
	builder.WriteString(input.FileName)
	if input.Text != "" {
		builder.WriteString("\n\n")
		builder.WriteString(input.Text)
	}
	builder.WriteString("\n\nReturn JSON.")

	// Image submissions ride along as inline data so visual models can
	// grade scans and screenshots that have no extractable text.
	if input.Base64Content != "" && strings.HasPrefix(input.MimeType, "image/") {
		return openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: builder.String()},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: fmt.Sprintf("data:%s;base64,%s", input.MimeType, input.Base64Content),
					},
				},
			},
		}
	}

	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: builder.String(),
	}
}

// flexString accepts either a JSON string or a JSON number, since models
// frequently return numeric scores unquoted.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func parseGradeResponse(content string) (GradeResult, error) {
	type detailPayload struct {
		Name     string     `json:"name"`
		Score    flexString `json:"score"`
		Feedback string     `json:"feedback"`
	}
	type payload struct {
		Score       flexString      `json:"score"`
		MaxScore    flexString      `json:"max_score"`
		Summary     string          `json:"summary"`
		Strengths   []string        `json:"strengths"`
		Weaknesses  []string        `json:"weaknesses"`
		Suggestions string          `json:"suggestions"`
		Details     []detailPayload `json:"details"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return GradeResult{}, fmt.Errorf("parse grade json: %w", err)
	}

	result := GradeResult{
		Score:       string(data.Score),
		MaxScore:    string(data.MaxScore),
		Summary:     data.Summary,
		Strengths:   data.Strengths,
		Weaknesses:  data.Weaknesses,
		Suggestions: data.Suggestions,
	}
	for _, d := range data.Details {
		result.Details = append(result.Details, DetailScore{
			Name:     d.Name,
			Score:    string(d.Score),
			Feedback: d.Feedback,
		})
	}
	return result, nil
}
