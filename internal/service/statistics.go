package service

import (
	"strconv"
	"strings"

	"github.com/centuryrain1980/Autograding/internal/models"
	"github.com/centuryrain1980/Autograding/internal/store"
)

// ScoreStatistics aggregates the scores of completed items. Scores are
// free-form strings, so only those with a leading numeric token enter the
// numeric aggregates; qualitative grades ("A", "Pass") are counted apart.
type ScoreStatistics struct {
	TotalItems  int      `json:"total_items"`
	Completed   int      `json:"completed"`
	Failed      int      `json:"failed"`
	Numeric     int      `json:"numeric"`
	Qualitative int      `json:"qualitative"`
	Average     *float64 `json:"average,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
}

// Statistics computes score aggregates over the current snapshot.
func Statistics(docs *store.DocumentStore) ScoreStatistics {
	stats := ScoreStatistics{}
	var sum float64

	for _, item := range docs.Snapshot() {
		stats.TotalItems++
		switch item.Status {
		case models.StatusError:
			stats.Failed++
			continue
		case models.StatusCompleted:
			stats.Completed++
		default:
			continue
		}

		if item.Result == nil {
			continue
		}
		value, ok := ParseLeadingNumber(item.Result.Score)
		if !ok {
			stats.Qualitative++
			continue
		}

		stats.Numeric++
		sum += value
		if stats.Min == nil || value < *stats.Min {
			v := value
			stats.Min = &v
		}
		if stats.Max == nil || value > *stats.Max {
			v := value
			stats.Max = &v
		}
	}

	if stats.Numeric > 0 {
		avg := sum / float64(stats.Numeric)
		stats.Average = &avg
	}
	return stats
}

// ParseLeadingNumber extracts a leading numeric token from a free-form score
// string: "95", "87.5 / 100" and "92 points" all parse, "A" and "Pass" do
// not.
func ParseLeadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	end := 0
	dotSeen := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !dotSeen && end > 0 {
			dotSeen = true
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
