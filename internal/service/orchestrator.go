package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/centuryrain1980/Autograding/internal/models"
	"github.com/centuryrain1980/Autograding/internal/observability"
	"github.com/centuryrain1980/Autograding/internal/store"
)

// ErrBatchInProgress indicates a grading batch is already running.
var ErrBatchInProgress = errors.New("a grading batch is already running")

// ErrItemInFlight indicates the item is already being graded.
var ErrItemInFlight = errors.New("item is already being graded")

// ErrItemNotFound indicates the item does not exist in the store.
var ErrItemNotFound = errors.New("document not found")

// GradingOrchestrator drives items through the grading lifecycle. A batch
// fixes its eligible set once, grades strictly sequentially, and isolates
// per-item failure: a grader error becomes that item's Error status and the
// batch moves on. An in-flight set keyed by item id keeps at most one
// grading call per item at any time, across batch and regrade paths.
type GradingOrchestrator struct {
	store    *store.DocumentStore
	invoker  Invoker
	settings *SettingsService
	logger   zerolog.Logger
	tracer   trace.Tracer

	mu        sync.Mutex
	isGrading bool
	inFlight  map[string]struct{}
	wg        sync.WaitGroup
}

// NewGradingOrchestrator constructs the orchestrator.
func NewGradingOrchestrator(docs *store.DocumentStore, invoker Invoker, settings *SettingsService, logger zerolog.Logger) *GradingOrchestrator {
	return &GradingOrchestrator{
		store:    docs,
		invoker:  invoker,
		settings: settings,
		logger:   logger.With().Str("component", "grading_orchestrator").Logger(),
		tracer:   otel.Tracer("github.com/centuryrain1980/Autograding/internal/service/orchestrator"),
		inFlight: make(map[string]struct{}),
	}
}

// StartBatch snapshots the items that are Pending or Error right now and
// grades them in order on a background goroutine. Items added while the
// batch runs are not picked up; a second StartBatch while one is running is
// rejected. Returns how many items the batch will process.
func (o *GradingOrchestrator) StartBatch(ctx context.Context) (int, error) {
	o.mu.Lock()
	if o.isGrading {
		o.mu.Unlock()
		return 0, ErrBatchInProgress
	}

	var eligible []string
	for _, item := range o.store.Snapshot() {
		if !item.Eligible() {
			continue
		}
		if _, busy := o.inFlight[item.ID]; busy {
			continue
		}
		eligible = append(eligible, item.ID)
	}

	if len(eligible) == 0 {
		o.mu.Unlock()
		return 0, nil
	}

	for _, id := range eligible {
		o.inFlight[id] = struct{}{}
	}
	o.isGrading = true
	o.mu.Unlock()

	o.wg.Add(1)
	// The batch outlives the request that triggered it; only cancellation
	// is dropped, request-scoped values stay for log correlation.
	batchCtx := context.WithoutCancel(ctx)

	go o.runBatch(batchCtx, eligible)

	return len(eligible), nil
}

func (o *GradingOrchestrator) runBatch(ctx context.Context, ids []string) {
	defer o.wg.Done()

	ctx, span := o.tracer.Start(ctx, "grading.batch", trace.WithAttributes(
		attribute.Int("grading.batch_size", len(ids)),
	))
	defer span.End()

	start := time.Now()
	o.logger.Info().Int("items", len(ids)).Msg("batch started")

	for _, id := range ids {
		o.gradeOne(ctx, id)
	}

	o.mu.Lock()
	o.isGrading = false
	o.mu.Unlock()

	observability.GradingBatches().Inc()
	observability.BatchDuration().Observe(time.Since(start).Seconds())
	o.logger.Info().Int("items", len(ids)).Dur("elapsed", time.Since(start)).Msg("batch finished")
}

// RegradeOne grades a single item outside the batch busy flag, so it can run
// while a batch is working on other items. A regrade for an id that is
// already in flight is rejected rather than queued.
func (o *GradingOrchestrator) RegradeOne(ctx context.Context, id string) error {
	if _, ok := o.store.Get(id); !ok {
		return ErrItemNotFound
	}

	o.mu.Lock()
	if _, busy := o.inFlight[id]; busy {
		o.mu.Unlock()
		return ErrItemInFlight
	}
	o.inFlight[id] = struct{}{}
	o.mu.Unlock()

	o.wg.Add(1)
	regradeCtx := context.WithoutCancel(ctx)

	go func() {
		defer o.wg.Done()

		ctx, span := o.tracer.Start(regradeCtx, "grading.regrade", trace.WithAttributes(
			attribute.String("grading.item_id", id),
		))
		defer span.End()

		o.gradeOne(ctx, id)
	}()

	return nil
}

// gradeOne runs the full transition sequence for one item: Processing, then
// Completed or Error. The caller must have marked the id in flight; this
// releases the mark when done. An item deleted since selection is skipped.
func (o *GradingOrchestrator) gradeOne(ctx context.Context, id string) {
	defer func() {
		o.mu.Lock()
		delete(o.inFlight, id)
		o.mu.Unlock()
	}()

	item, ok := o.store.Get(id)
	if !ok {
		o.logger.Debug().Str("item_id", id).Msg("item removed before grading, skipping")
		return
	}

	o.store.SetStatus(id, models.StatusProcessing, nil, "")

	rubric := o.settings.Rubric()
	settings := o.settings.Settings()

	result, err := o.invoker.Invoke(ctx, item, rubric, settings)
	if err != nil {
		o.store.SetStatus(id, models.StatusError, nil, err.Error())
		observability.GradingItems().WithLabelValues("error").Inc()
		o.logger.Warn().Err(err).Str("item_id", id).Str("file", item.Name).Msg("grading failed")
		return
	}

	o.store.SetStatus(id, models.StatusCompleted, result, "")
	observability.GradingItems().WithLabelValues("completed").Inc()
	o.logger.Info().Str("item_id", id).Str("file", item.Name).Str("score", result.Score).Msg("grading completed")
}

// IsGrading reports whether a batch is currently running. It stays true from
// StartBatch until the last item of that batch reached a terminal status.
func (o *GradingOrchestrator) IsGrading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.isGrading
}

// Wait blocks until all outstanding grading goroutines have finished. Used
// by shutdown and by tests to drive deterministic assertions.
func (o *GradingOrchestrator) Wait() {
	o.wg.Wait()
}
