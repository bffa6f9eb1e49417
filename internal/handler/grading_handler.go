package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/dto"
	"github.com/centuryrain1980/Autograding/internal/service"
	"github.com/centuryrain1980/Autograding/internal/store"
	"github.com/centuryrain1980/Autograding/internal/utils"
)

// GradingHandler triggers batch grading and reports progress.
type GradingHandler struct {
	orchestrator *service.GradingOrchestrator
	store        *store.DocumentStore
	logger       zerolog.Logger
}

// NewGradingHandler constructs a grading handler.
func NewGradingHandler(orchestrator *service.GradingOrchestrator, docs *store.DocumentStore, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		orchestrator: orchestrator,
		store:        docs,
		logger:       logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register wires grading routes.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Post("/batch", h.startBatch)
	router.Get("/status", h.status)
}

func (h *GradingHandler) startBatch(c *fiber.Ctx) error {
	started, err := h.orchestrator.StartBatch(c.UserContext())
	if errors.Is(err, service.ErrBatchInProgress) {
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("batch failed to start")
		return utils.SendError(c, fiber.StatusInternalServerError, "batch failed to start")
	}

	if started == 0 {
		return utils.SendSuccess(c, "nothing to grade", dto.BatchStartResponse{})
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "batch started", dto.BatchStartResponse{Started: started})
}

func (h *GradingHandler) status(c *fiber.Ctx) error {
	counts := make(map[string]int)
	for status, n := range h.store.Counts() {
		counts[string(status)] = n
	}

	return utils.SendSuccess(c, "grading status", dto.GradingStatusResponse{
		IsGrading: h.orchestrator.IsGrading(),
		Counts:    counts,
	})
}
