package service

import (
	"context"
	"encoding/base64"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/centuryrain1980/Autograding/internal/extract"
	"github.com/centuryrain1980/Autograding/internal/models"
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

func newTestStore() *store.DocumentStore {
	return store.NewDocumentStore(plainExtractor{}, testLogger())
}

func addFiles(t *testing.T, docs *store.DocumentStore, names ...string) []models.GradedItem {
	t.Helper()
	inputs := make([]store.FileInput, 0, len(names))
	for _, name := range names {
		inputs = append(inputs, store.FileInput{Name: name, Data: []byte("content of " + name)})
	}
	created := docs.AddItems(context.Background(), inputs)
	require.Len(t, created, len(names))
	return created
}

// fakeInvoker is a controllable stand-in for the model backend. When started
// and release are set, Invoke announces each call and then blocks, letting
// tests observe mid-batch state deterministically.
type fakeInvoker struct {
	mu      sync.Mutex
	grade   func(item models.GradedItem) (*models.GradingResult, error)
	started chan string
	release chan struct{}
	calls   []string
	rubrics []string
}

func (f *fakeInvoker) Invoke(_ context.Context, item models.GradedItem, rubric string, _ models.Settings) (*models.GradingResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, item.Name)
	f.rubrics = append(f.rubrics, rubric)
	fn := f.grade
	f.mu.Unlock()

	if f.started != nil {
		f.started <- item.Name
	}
	if f.release != nil {
		<-f.release
	}

	if fn != nil {
		return fn(item)
	}
	return &models.GradingResult{Score: "90", MaxScore: "100", Summary: "good work"}, nil
}

func (f *fakeInvoker) setGrade(fn func(item models.GradedItem) (*models.GradingResult, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grade = fn
}

func (f *fakeInvoker) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
