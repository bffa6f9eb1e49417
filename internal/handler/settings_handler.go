package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/dto"
	"github.com/centuryrain1980/Autograding/internal/models"
	"github.com/centuryrain1980/Autograding/internal/service"
	"github.com/centuryrain1980/Autograding/internal/utils"
)

// SettingsHandler exposes the grading settings and rubric.
type SettingsHandler struct {
	settings  *service.SettingsService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(settings *service.SettingsService, validate *validator.Validate, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings:  settings,
		validator: validate,
		logger:    logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register wires settings and rubric routes.
func (h *SettingsHandler) Register(router fiber.Router) {
	router.Get("/settings", h.getSettings)
	router.Patch("/settings", h.updateSettings)
	router.Get("/rubric", h.getRubric)
	router.Put("/rubric", h.updateRubric)
}

func (h *SettingsHandler) getSettings(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "settings", dto.NewSettingsResponse(h.settings.Settings()))
}

func (h *SettingsHandler) updateSettings(c *fiber.Ctx) error {
	var payload dto.UpdateSettingsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	patch := service.SettingsPatch{
		APIKey:    payload.APIKey,
		BaseURL:   payload.BaseURL,
		ModelName: payload.ModelName,
	}
	if payload.Provider != nil {
		provider := models.Provider(*payload.Provider)
		patch.Provider = &provider
	}

	updated := h.settings.UpdateSettings(patch)
	return utils.SendSuccess(c, "settings updated", dto.NewSettingsResponse(updated))
}

func (h *SettingsHandler) getRubric(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "rubric", dto.RubricResponse{Rubric: h.settings.Rubric()})
}

func (h *SettingsHandler) updateRubric(c *fiber.Ctx) error {
	var payload dto.UpdateRubricRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	h.settings.SetRubric(payload.Rubric)
	return utils.SendSuccess(c, "rubric updated", dto.RubricResponse{Rubric: payload.Rubric})
}
