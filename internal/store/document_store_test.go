package store

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/centuryrain1980/Autograding/internal/extract"
	"github.com/centuryrain1980/Autograding/internal/models"
)

type stubExtractor struct {
	content extract.Content
	empty   bool
}

func (s *stubExtractor) Extract(_ context.Context, name, declaredMime string, data []byte) extract.Content {
	if s.empty {
		return extract.Content{MimeType: declaredMime}
	}
	if s.content.MimeType != "" || s.content.Base64 != "" || s.content.Text != "" {
		return s.content
	}
	return extract.Content{MimeType: "text/plain", Base64: "ZGF0YQ==", Text: string(data)}
}

func testStore(extractor extract.Extractor) *DocumentStore {
	if extractor == nil {
		extractor = &stubExtractor{}
	}
	return NewDocumentStore(extractor, zerolog.New(io.Discard))
}

func TestAddItemsFiltersHiddenAndPreservesOrder(t *testing.T) {
	s := testStore(nil)

	created := s.AddItems(context.Background(), []FileInput{
		{Name: "a.txt", Data: []byte("alpha")},
		{Name: ".DS_Store", Data: []byte("junk")},
		{Name: "b.txt", Data: []byte("beta")},
		{Name: "__MACOSX/._b.txt", Data: []byte("junk")},
		{Name: "Thumbs.db", Data: []byte("junk")},
	})

	require.Len(t, created, 2)
	require.Equal(t, 2, s.Len())

	snapshot := s.Snapshot()
	require.Equal(t, "a.txt", snapshot[0].Name)
	require.Equal(t, "b.txt", snapshot[1].Name)
	for _, item := range snapshot {
		require.Equal(t, models.StatusPending, item.Status)
		require.Nil(t, item.Result)
		require.Empty(t, item.ErrorMessage)
		require.NotEmpty(t, item.ID)
	}
	require.NotEqual(t, snapshot[0].ID, snapshot[1].ID)
}

func TestAddItemsAppendsAcrossCalls(t *testing.T) {
	s := testStore(nil)

	s.AddItems(context.Background(), []FileInput{{Name: "first.txt", Data: []byte("1")}})
	s.AddItems(context.Background(), []FileInput{{Name: "second.txt", Data: []byte("2")}})

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 2)
	require.Equal(t, "first.txt", snapshot[0].Name)
	require.Equal(t, "second.txt", snapshot[1].Name)
}

func TestAddItemsToleratesEmptyExtraction(t *testing.T) {
	s := testStore(&stubExtractor{empty: true})

	created := s.AddItems(context.Background(), []FileInput{
		{Name: "photo.heic", MimeType: "image/heic", Data: []byte{0x00, 0x01}},
	})

	require.Len(t, created, 1)
	require.Empty(t, created[0].ExtractedText)
	require.Empty(t, created[0].RawContent)
	require.Equal(t, models.StatusPending, created[0].Status)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := testStore(nil)
	created := s.AddItems(context.Background(), []FileInput{
		{Name: "a.txt", Data: []byte("a")},
		{Name: "b.txt", Data: []byte("b")},
	})

	s.Remove(created[0].ID)
	require.Equal(t, 1, s.Len())

	s.Remove(created[0].ID)
	require.Equal(t, 1, s.Len())

	s.Remove("no-such-id")
	require.Equal(t, 1, s.Len())
	require.Equal(t, "b.txt", s.Snapshot()[0].Name)
}

func TestSetStatusKeepsResultAndErrorExclusive(t *testing.T) {
	s := testStore(nil)
	created := s.AddItems(context.Background(), []FileInput{{Name: "a.txt", Data: []byte("a")}})
	id := created[0].ID

	result := &models.GradingResult{Score: "90", MaxScore: "100", Summary: "solid"}
	s.SetStatus(id, models.StatusCompleted, result, "")
	item, ok := s.Get(id)
	require.True(t, ok)
	require.Equal(t, models.StatusCompleted, item.Status)
	require.NotNil(t, item.Result)
	require.Empty(t, item.ErrorMessage)

	s.SetStatus(id, models.StatusError, nil, "rate limited")
	item, _ = s.Get(id)
	require.Equal(t, models.StatusError, item.Status)
	require.Nil(t, item.Result)
	require.Equal(t, "rate limited", item.ErrorMessage)

	// Re-entering Processing clears both terminal fields.
	s.SetStatus(id, models.StatusProcessing, result, "stale")
	item, _ = s.Get(id)
	require.Equal(t, models.StatusProcessing, item.Status)
	require.Nil(t, item.Result)
	require.Empty(t, item.ErrorMessage)
}

func TestSetStatusUnknownIDIsNoOp(t *testing.T) {
	s := testStore(nil)
	s.AddItems(context.Background(), []FileInput{{Name: "a.txt", Data: []byte("a")}})

	s.SetStatus("no-such-id", models.StatusCompleted, &models.GradingResult{Score: "1"}, "")

	item := s.Snapshot()[0]
	require.Equal(t, models.StatusPending, item.Status)
}

func TestSnapshotReturnsCopies(t *testing.T) {
	s := testStore(nil)
	created := s.AddItems(context.Background(), []FileInput{{Name: "a.txt", Data: []byte("a")}})
	s.SetStatus(created[0].ID, models.StatusCompleted, &models.GradingResult{Score: "90", Strengths: []string{"clear"}}, "")

	snapshot := s.Snapshot()
	snapshot[0].Status = models.StatusError
	snapshot[0].Result.Score = "0"
	snapshot[0].Result.Strengths[0] = "mutated"

	fresh, _ := s.Get(created[0].ID)
	require.Equal(t, models.StatusCompleted, fresh.Status)
	require.Equal(t, "90", fresh.Result.Score)
	require.Equal(t, "clear", fresh.Result.Strengths[0])
}

func TestCounts(t *testing.T) {
	s := testStore(nil)
	created := s.AddItems(context.Background(), []FileInput{
		{Name: "a.txt", Data: []byte("a")},
		{Name: "b.txt", Data: []byte("b")},
		{Name: "c.txt", Data: []byte("c")},
	})
	s.SetStatus(created[0].ID, models.StatusCompleted, &models.GradingResult{Score: "80"}, "")
	s.SetStatus(created[1].ID, models.StatusError, nil, "boom")

	counts := s.Counts()
	require.Equal(t, 1, counts[models.StatusCompleted])
	require.Equal(t, 1, counts[models.StatusError])
	require.Equal(t, 1, counts[models.StatusPending])
}

func TestHiddenFile(t *testing.T) {
	require.True(t, HiddenFile(".gitignore"))
	require.True(t, HiddenFile("folder/.hidden.txt"))
	require.True(t, HiddenFile("__MACOSX/resource"))
	require.True(t, HiddenFile("Thumbs.db"))
	require.True(t, HiddenFile("desktop.ini"))
	require.False(t, HiddenFile("homework.pdf"))
	require.False(t, HiddenFile("notes/essay.txt"))
}
