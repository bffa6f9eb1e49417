package service

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/models"
	"github.com/centuryrain1980/Autograding/internal/store"
)

// ExportService renders the current collection to CSV. Detail columns are
// rubric-defined, so the header is derived per export by scanning the
// collection for distinct detail names in first-seen order rather than from
// a fixed schema.
type ExportService struct {
	store  *store.DocumentStore
	logger zerolog.Logger
}

// NewExportService constructs the export service.
func NewExportService(docs *store.DocumentStore, logger zerolog.Logger) *ExportService {
	return &ExportService{
		store:  docs,
		logger: logger.With().Str("component", "export_service").Logger(),
	}
}

// CSV renders every tracked item, graded or not, as one row.
func (s *ExportService) CSV() ([]byte, error) {
	items := s.store.Snapshot()
	detailNames := collectDetailNames(items)

	header := []string{"File Name", "Status", "Score", "Max Score"}
	for _, name := range detailNames {
		header = append(header, name+" Score", name+" Feedback")
	}
	header = append(header, "Summary", "Strengths", "Weaknesses", "Suggestions", "Error")

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, item := range items {
		row := make([]string, 0, len(header))
		row = append(row, item.Name, string(item.Status))

		result := item.Result
		if result == nil {
			result = &models.GradingResult{}
		}
		row = append(row, result.Score, result.MaxScore)

		for _, name := range detailNames {
			score, feedback := detailFor(result, name)
			row = append(row, score, feedback)
		}

		row = append(row,
			result.Summary,
			strings.Join(result.Strengths, "; "),
			strings.Join(result.Weaknesses, "; "),
			result.Suggestions,
			item.ErrorMessage,
		)

		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	s.logger.Info().Int("rows", len(items)).Int("detail_columns", len(detailNames)).Msg("csv export rendered")
	return buf.Bytes(), nil
}

// collectDetailNames gathers the distinct detail names across the
// collection, preserving the order they first appear in.
func collectDetailNames(items []models.GradedItem) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, item := range items {
		if item.Result == nil {
			continue
		}
		for _, d := range item.Result.Details {
			if _, ok := seen[d.Name]; ok {
				continue
			}
			seen[d.Name] = struct{}{}
			names = append(names, d.Name)
		}
	}
	return names
}

func detailFor(result *models.GradingResult, name string) (string, string) {
	for _, d := range result.Details {
		if d.Name == name {
			return d.Score, d.Feedback
		}
	}
	return "", ""
}
