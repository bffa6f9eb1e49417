package extract

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// Content holds the transportable representations of an uploaded payload.
// Any field may be empty: an image has no extracted text, an unreadable
// payload may have neither text nor base64. Empty fields are valid values,
// not failures.
type Content struct {
	MimeType string
	Base64   string
	Text     string
}

// Extractor derives Content from a raw upload. Implementations never fail;
// a payload the extractor cannot decode still yields a usable (possibly
// empty) Content so the item can be tracked and graded visually.
type Extractor interface {
	Extract(ctx context.Context, name, declaredMime string, data []byte) Content
}

type extractor struct {
	logger zerolog.Logger
}

// New constructs the default extractor.
func New(logger zerolog.Logger) Extractor {
	return &extractor{logger: logger.With().Str("component", "extractor").Logger()}
}

func (e *extractor) Extract(_ context.Context, name, declaredMime string, data []byte) Content {
	mime := strings.ToLower(strings.TrimSpace(declaredMime))
	if mime == "" || mime == "application/octet-stream" {
		mime = mimetype.Detect(data).String()
		if idx := strings.IndexByte(mime, ';'); idx >= 0 {
			mime = mime[:idx]
		}
	}

	content := Content{MimeType: mime}
	if len(data) == 0 {
		return content
	}

	content.Base64 = base64.StdEncoding.EncodeToString(data)
	if textual(mime, name) && utf8.Valid(data) {
		content.Text = string(data)
	} else if textual(mime, name) {
		e.logger.Debug().Str("file", name).Msg("skipping text extraction for non-utf8 payload")
	}

	return content
}

// textual decides whether a payload should be carried as plain text in
// addition to its base64 form.
func textual(mime, name string) bool {
	if strings.HasPrefix(mime, "text/") {
		return true
	}
	switch mime {
	case "application/json", "application/xml", "application/javascript",
		"application/x-sh", "application/csv":
		return true
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".csv", ".json", ".xml", ".html", ".css",
		".go", ".py", ".js", ".ts", ".java", ".c", ".cpp", ".h", ".rs",
		".sql", ".sh", ".yaml", ".yml", ".tex":
		return true
	}
	return false
}
