package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/models"
	"github.com/centuryrain1980/Autograding/pkg/ai"
)

// Invoker produces a grading result for one item. It never touches the
// document store; the orchestrator records whatever it returns.
type Invoker interface {
	Invoke(ctx context.Context, item models.GradedItem, rubric string, settings models.Settings) (*models.GradingResult, error)
}

// aiInvoker bridges the orchestrator to pkg/ai. It builds a client from the
// settings passed to each call, so settings changes apply to every
// subsequent grading call without a restart.
type aiInvoker struct {
	logger zerolog.Logger
}

// NewAIInvoker constructs the model-backed invoker.
func NewAIInvoker(logger zerolog.Logger) Invoker {
	return &aiInvoker{logger: logger}
}

func (inv *aiInvoker) Invoke(ctx context.Context, item models.GradedItem, rubric string, settings models.Settings) (*models.GradingResult, error) {
	client, err := ai.NewClient(ai.Config{
		Provider: string(settings.Provider),
		APIKey:   settings.APIKey,
		BaseURL:  settings.BaseURL,
		Model:    settings.ModelName,
		Logger:   inv.logger,
	})
	if err != nil {
		return nil, err
	}

	result, err := client.Grade(ctx, ai.GradeInput{
		FileName:      item.Name,
		MimeType:      item.MimeType,
		Text:          item.ExtractedText,
		Base64Content: item.RawContent,
		Rubric:        rubric,
	})
	if err != nil {
		return nil, err
	}

	out := &models.GradingResult{
		Score:       result.Score,
		MaxScore:    result.MaxScore,
		Summary:     result.Summary,
		Strengths:   result.Strengths,
		Weaknesses:  result.Weaknesses,
		Suggestions: result.Suggestions,
	}
	for _, d := range result.Details {
		out.Details = append(out.Details, models.DetailResult{
			Name:     d.Name,
			Score:    d.Score,
			Feedback: d.Feedback,
		})
	}
	return out, nil
}
