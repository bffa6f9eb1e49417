package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/dto"
	"github.com/centuryrain1980/Autograding/internal/service"
	"github.com/centuryrain1980/Autograding/internal/store"
	"github.com/centuryrain1980/Autograding/internal/utils"
)

// DocumentHandler exposes the submitted-file collection over HTTP.
type DocumentHandler struct {
	store        *store.DocumentStore
	orchestrator *service.GradingOrchestrator
	logger       zerolog.Logger
}

// NewDocumentHandler constructs a document handler.
func NewDocumentHandler(docs *store.DocumentStore, orchestrator *service.GradingOrchestrator, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		store:        docs,
		orchestrator: orchestrator,
		logger:       logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register wires document routes.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.remove)
	router.Post("/:id/regrade", h.regrade)
}

func (h *DocumentHandler) upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "multipart form is required")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "at least one file is required")
	}

	inputs := make([]store.FileInput, 0, len(files))
	for _, file := range files {
		handle, err := file.Open()
		if err != nil {
			h.logger.Warn().Err(err).Str("file", file.Filename).Msg("skipping unreadable upload")
			continue
		}
		data, err := io.ReadAll(handle)
		handle.Close()
		if err != nil {
			h.logger.Warn().Err(err).Str("file", file.Filename).Msg("skipping unreadable upload")
			continue
		}

		inputs = append(inputs, store.FileInput{
			Name:     file.Filename,
			MimeType: file.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	created := h.store.AddItems(c.UserContext(), inputs)
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "documents added", dto.NewDocumentListResponse(created))
}

func (h *DocumentHandler) list(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "documents", dto.NewDocumentListResponse(h.store.Snapshot()))
}

func (h *DocumentHandler) get(c *fiber.Ctx) error {
	item, ok := h.store.Get(c.Params("id"))
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "document not found")
	}
	return utils.SendSuccess(c, "document", dto.NewDocumentResponse(item))
}

func (h *DocumentHandler) remove(c *fiber.Ctx) error {
	// Removal is idempotent: deleting an unknown id is still a success.
	h.store.Remove(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DocumentHandler) regrade(c *fiber.Ctx) error {
	err := h.orchestrator.RegradeOne(c.UserContext(), c.Params("id"))
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "document not found")
	case errors.Is(err, service.ErrItemInFlight):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		h.logger.Error().Err(err).Msg("regrade failed to start")
		return utils.SendError(c, fiber.StatusInternalServerError, "regrade failed to start")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "regrade started", nil)
}
