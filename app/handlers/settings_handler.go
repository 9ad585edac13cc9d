package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/leadline/leadline/app/dto"
	businessflow "github.com/leadline/leadline/business_flow"
)

// SettingsHandlerInterface defines the contract for settings handlers
type SettingsHandlerInterface interface {
	GetConfig(c fiber.Ctx) error
	UpdateConfig(c fiber.Ctx) error
	GetNotepad(c fiber.Ctx) error
	UpdateNotepad(c fiber.Ctx) error
	GetDashboard(c fiber.Ctx) error
}

// SettingsHandler handles settings, notepad, and dashboard HTTP requests
type SettingsHandler struct {
	settingsFlow  businessflow.SettingsFlow
	dashboardFlow businessflow.DashboardFlow
	validator     *validator.Validate
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsFlow businessflow.SettingsFlow, dashboardFlow businessflow.DashboardFlow) *SettingsHandler {
	return &SettingsHandler{
		settingsFlow:  settingsFlow,
		dashboardFlow: dashboardFlow,
		validator:     validator.New(),
	}
}

func (h *SettingsHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SettingsHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetConfig returns the application settings
func (h *SettingsHandler) GetConfig(c fiber.Ctx) error {
	result, err := h.settingsFlow.GetConfig(h.requestContext(c, "/api/v1/config"))
	if err != nil {
		log.Println("Settings lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Settings lookup failed", "CONFIG_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Config)
}

// UpdateConfig applies a partial settings update
func (h *SettingsHandler) UpdateConfig(c fiber.Ctx) error {
	var req dto.UpdateConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.settingsFlow.UpdateConfig(h.requestContext(c, "/api/v1/config"), &req, metadata)
	if err != nil {
		log.Println("Settings update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Settings update failed", "CONFIG_SAVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Config)
}

// GetNotepad returns the shared notepad
func (h *SettingsHandler) GetNotepad(c fiber.Ctx) error {
	result, err := h.settingsFlow.GetNotepad(h.requestContext(c, "/api/v1/notepad"))
	if err != nil {
		log.Println("Notepad lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Notepad lookup failed", "NOTEPAD_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Notepad)
}

// UpdateNotepad replaces the shared notepad content
func (h *SettingsHandler) UpdateNotepad(c fiber.Ctx) error {
	var req dto.UpdateNotepadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.settingsFlow.UpdateNotepad(h.requestContext(c, "/api/v1/notepad"), &req, metadata)
	if err != nil {
		log.Println("Notepad update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Notepad update failed", "NOTEPAD_SAVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Notepad)
}

// GetDashboard returns aggregated activity totals
func (h *SettingsHandler) GetDashboard(c fiber.Ctx) error {
	result, err := h.dashboardFlow.GetDashboard(h.requestContext(c, "/api/v1/dashboard"))
	if err != nil {
		log.Println("Dashboard generation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Dashboard generation failed", "DASHBOARD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

func (h *SettingsHandler) requestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
