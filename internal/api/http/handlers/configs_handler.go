package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/helpdesk-service/internal/service"
	apperrors "github.com/hackdesk/helpdesk-service/pkg/errorutil"
)

// ConfigsHandler serves the admin settings endpoints.
type ConfigsHandler struct {
	configs *service.ConfigService
}

// NewConfigsHandler constructs handler.
func NewConfigsHandler(configs *service.ConfigService) *ConfigsHandler {
	return &ConfigsHandler{configs: configs}
}

type setConfigRequest struct {
	Value string `json:"value"`
}

// Get GET /admin/configs/:key.
func (h *ConfigsHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	value, err := h.configs.Get(c.UserContext(), key)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"key": key, "value": value}})
}

// Set PUT /admin/configs/:key.
func (h *ConfigsHandler) Set(c *fiber.Ctx) error {
	key := c.Params("key")
	if strings.TrimSpace(key) == "" {
		return apperrors.NewValidationError("key is required", nil)
	}
	var req setConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.configs.Set(c.UserContext(), key, req.Value); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"key": key, "value": req.Value}})
}
