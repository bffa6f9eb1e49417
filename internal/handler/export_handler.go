package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/service"
	"github.com/centuryrain1980/Autograding/internal/store"
	"github.com/centuryrain1980/Autograding/internal/utils"
)

// ExportHandler serves CSV downloads and score statistics.
type ExportHandler struct {
	export *service.ExportService
	store  *store.DocumentStore
	logger zerolog.Logger
}

// NewExportHandler constructs an export handler.
func NewExportHandler(export *service.ExportService, docs *store.DocumentStore, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		export: export,
		store:  docs,
		logger: logger.With().Str("component", "export_handler").Logger(),
	}
}

// Register wires export routes.
func (h *ExportHandler) Register(router fiber.Router) {
	router.Get("/export/csv", h.csv)
	router.Get("/statistics", h.statistics)
}

func (h *ExportHandler) csv(c *fiber.Ctx) error {
	data, err := h.export.CSV()
	if err != nil {
		h.logger.Error().Err(err).Msg("csv export failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "export failed")
	}

	filename := fmt.Sprintf("grades-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

func (h *ExportHandler) statistics(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "score statistics", service.Statistics(h.store))
}
