package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/app/middleware"
	businessflow "github.com/leadline/leadline/business_flow"
	"github.com/leadline/leadline/utils"
)

// LeadHandlerInterface defines the contract for lead handlers
type LeadHandlerInterface interface {
	CreateLead(c fiber.Ctx) error
	GetLead(c fiber.Ctx) error
	ListLeads(c fiber.Ctx) error
	UpdateLead(c fiber.Ctx) error
	DeleteLead(c fiber.Ctx) error
	RecordCall(c fiber.Ctx) error
	ListCalls(c fiber.Ctx) error
}

// LeadHandler handles lead-related HTTP requests
type LeadHandler struct {
	leadFlow  businessflow.LeadFlow
	validator *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadFlow businessflow.LeadFlow) *LeadHandler {
	return &LeadHandler{
		leadFlow:  leadFlow,
		validator: validator.New(),
	}
}

func (h *LeadHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LeadHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateLead handles lead creation
func (h *LeadHandler) CreateLead(c fiber.Ctx) error {
	var req dto.CreateLeadRequest
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

	result, err := h.leadFlow.CreateLead(h.createRequestContext(c, "/api/v1/leads"), &req, metadata)
	if err != nil {
		log.Println("Lead creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lead creation failed", "LEAD_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result.Lead)
}

// GetLead returns a single lead by id
func (h *LeadHandler) GetLead(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
	}

	result, err := h.leadFlow.GetLead(h.createRequestContext(c, "/api/v1/leads/:id"), id)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		log.Println("Lead lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lead lookup failed", "LEAD_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Lead retrieved", result)
}

// ListLeads returns leads matching the query filters
func (h *LeadHandler) ListLeads(c fiber.Ctx) error {
	var req dto.ListLeadsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.leadFlow.ListLeads(h.createRequestContext(c, "/api/v1/leads"), &req)
	if err != nil {
		log.Println("Lead listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lead listing failed", "LEAD_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"total": result.Total,
		"leads": result.Leads,
	})
}

// UpdateLead applies a partial update to a lead
func (h *LeadHandler) UpdateLead(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
	}

	var req dto.UpdateLeadRequest
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

	result, err := h.leadFlow.UpdateLead(h.createRequestContext(c, "/api/v1/leads/:id"), id, &req, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		log.Println("Lead update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lead update failed", "LEAD_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Lead)
}

// DeleteLead removes a lead
func (h *LeadHandler) DeleteLead(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.leadFlow.DeleteLead(h.createRequestContext(c, "/api/v1/leads/:id"), id, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		log.Println("Lead deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lead deletion failed", "LEAD_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{"id": result.ID})
}

// RecordCall records a finished call against a lead
func (h *LeadHandler) RecordCall(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
	}

	var req dto.RecordCallRequest
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

	result, err := h.leadFlow.RecordCall(h.createRequestContext(c, "/api/v1/leads/:id/calls"), id, &req, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidCallOutcome(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid call outcome", "INVALID_CALL_OUTCOME", nil)
		}
		log.Println("Call recording failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call recording failed", "CALL_RECORD_FAILED", nil)
	}

	middleware.RecordCall(req.Outcome)

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"lead":        result.Lead,
		"call_log_id": result.CallLogID,
	})
}

// ListCalls returns call history, optionally scoped to one lead
func (h *LeadHandler) ListCalls(c fiber.Ctx) error {
	var leadID *uint
	if raw := c.Query("lead_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
		}
		id := uint(parsed)
		leadID = &id
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	result, err := h.leadFlow.ListCalls(h.createRequestContext(c, "/api/v1/calls"), leadID, limit, offset)
	if err != nil {
		log.Println("Call listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call listing failed", "CALL_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"total": result.Total,
		"calls": result.Calls,
	})
}

// createRequestContext creates a context with timeout and request-scoped values for business logic
func (h *LeadHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}

func parseIDParam(c fiber.Ctx) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || parsed == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(parsed), nil
}
