package store

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/extract"
	"github.com/centuryrain1980/Autograding/internal/models"
)

// FileInput is one uploaded file before it becomes a tracked item.
type FileInput struct {
	Name     string
	MimeType string
	Data     []byte
}

// DocumentStore is the single source of truth for submitted items. It holds
// them in memory for the lifetime of the session; all mutation goes through
// AddItems, Remove and SetStatus, and readers only ever see copies.
type DocumentStore struct {
	mu        sync.RWMutex
	items     []*models.GradedItem
	index     map[string]*models.GradedItem
	extractor extract.Extractor
	logger    zerolog.Logger
	newID     func() string
}

// NewDocumentStore constructs an empty store.
func NewDocumentStore(extractor extract.Extractor, logger zerolog.Logger) *DocumentStore {
	return &DocumentStore{
		index:     make(map[string]*models.GradedItem),
		extractor: extractor,
		logger:    logger.With().Str("component", "document_store").Logger(),
		newID:     uuid.NewString,
	}
}

// AddItems creates one pending item per input, skipping hidden and system
// files. Content extraction runs per item before insertion; an input the
// extractor cannot decode still becomes an item, just without text or
// base64 content. Items are appended in input order and the created items
// are returned as copies.
func (s *DocumentStore) AddItems(ctx context.Context, inputs []FileInput) []models.GradedItem {
	created := make([]models.GradedItem, 0, len(inputs))

	for _, input := range inputs {
		if HiddenFile(input.Name) {
			s.logger.Debug().Str("file", input.Name).Msg("skipping hidden file")
			continue
		}

		content := s.extractor.Extract(ctx, input.Name, input.MimeType, input.Data)
		item := &models.GradedItem{
			ID:            s.newID(),
			Name:          input.Name,
			MimeType:      content.MimeType,
			SizeBytes:     int64(len(input.Data)),
			RawContent:    content.Base64,
			ExtractedText: content.Text,
			Status:        models.StatusPending,
		}

		s.mu.Lock()
		s.items = append(s.items, item)
		s.index[item.ID] = item
		s.mu.Unlock()

		created = append(created, item.Clone())
	}

	if len(created) > 0 {
		s.logger.Info().Int("added", len(created)).Int("skipped", len(inputs)-len(created)).Msg("documents added")
	}

	return created
}

// Remove deletes the item with the given id. Removing an unknown id is a
// no-op, so a delete raced against a regrade or a second delete never faults.
func (s *DocumentStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

// SetStatus replaces an item's status together with its result and error
// message as one atomic update. Fields that do not belong to the new status
// are cleared: only Completed keeps a result, only Error keeps a message.
// Unknown ids are ignored.
func (s *DocumentStore) SetStatus(id string, status models.ItemStatus, result *models.GradingResult, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.index[id]
	if !ok {
		return
	}

	item.Status = status
	switch status {
	case models.StatusCompleted:
		item.Result = result.Clone()
		item.ErrorMessage = ""
	case models.StatusError:
		item.Result = nil
		item.ErrorMessage = errMsg
	default:
		item.Result = nil
		item.ErrorMessage = ""
	}
}

// Snapshot returns the current collection in insertion order. The returned
// items are copies; callers re-fetch rather than mutate in place.
func (s *DocumentStore) Snapshot() []models.GradedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.GradedItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.Clone())
	}
	return out
}

// Get returns a copy of one item.
func (s *DocumentStore) Get(id string) (models.GradedItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.index[id]
	if !ok {
		return models.GradedItem{}, false
	}
	return item.Clone(), true
}

// Len returns the number of tracked items.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Counts returns the number of items per status.
func (s *DocumentStore) Counts() map[models.ItemStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.ItemStatus]int, 4)
	for _, item := range s.items {
		counts[item.Status]++
	}
	return counts
}

// HiddenFile reports whether an upload should be excluded from tracking:
// dotfiles and the archive/system artefacts desktop tools sneak into
// homework folders.
func HiddenFile(name string) bool {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if strings.HasPrefix(base, ".") {
		return true
	}
	switch base {
	case "Thumbs.db", "desktop.ini", "__MACOSX":
		return true
	}
	return strings.Contains(name, "__MACOSX/")
}
