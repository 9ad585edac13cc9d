package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/leadline/leadline/app/dto"
	businessflow "github.com/leadline/leadline/business_flow"
	"github.com/leadline/leadline/models"
)

// ProspectHandlerInterface defines the contract for prospect handlers
type ProspectHandlerInterface interface {
	ImportProspects(c fiber.Ctx) error
	ListProspects(c fiber.Ctx) error
	ReviewProspect(c fiber.Ctx) error
	BulkApprove(c fiber.Ctx) error
	BulkReject(c fiber.Ctx) error
	BulkDelete(c fiber.Ctx) error
	FinalizeAll(c fiber.Ctx) error
	PipelineCounts(c fiber.Ctx) error
}

// ProspectHandler handles prospect pipeline HTTP requests
type ProspectHandler struct {
	prospectFlow businessflow.ProspectFlow
	validator    *validator.Validate
}

// NewProspectHandler creates a new prospect handler
func NewProspectHandler(prospectFlow businessflow.ProspectFlow) *ProspectHandler {
	return &ProspectHandler{
		prospectFlow: prospectFlow,
		validator:    validator.New(),
	}
}

func (h *ProspectHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProspectHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ImportProspects ingests prospect CSV text
func (h *ProspectHandler) ImportProspects(c fiber.Ctx) error {
	var req dto.ImportProspectsRequest
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

	result, err := h.prospectFlow.ImportProspects(h.requestContext(c, "/api/v1/prospects/import"), &req, metadata)
	if err != nil {
		if businessflow.IsEmptyImport(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Import text is empty", "EMPTY_IMPORT", nil)
		}
		log.Println("Prospect import failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Prospect import failed", "PROSPECT_IMPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
}

// ListProspects returns prospects matching the query filters
func (h *ProspectHandler) ListProspects(c fiber.Ctx) error {
	var req dto.ListProspectsRequest
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

	result, err := h.prospectFlow.ListProspects(h.requestContext(c, "/api/v1/prospects"), &req)
	if err != nil {
		log.Println("Prospect listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Prospect listing failed", "PROSPECT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"total":     result.Total,
		"prospects": result.Prospects,
	})
}

// ReviewProspect records an approve or reject decision
func (h *ProspectHandler) ReviewProspect(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid prospect id", "INVALID_PROSPECT_ID", nil)
	}

	var req dto.ReviewProspectRequest
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

	result, err := h.prospectFlow.ReviewProspect(h.requestContext(c, "/api/v1/prospects/:id/review"), id, &req, metadata)
	if err != nil {
		if businessflow.IsProspectNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Prospect not found", "PROSPECT_NOT_FOUND", nil)
		}
		log.Println("Prospect review failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Prospect review failed", "PROSPECT_REVIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Prospect)
}

// BulkApprove approves many prospects at once
func (h *ProspectHandler) BulkApprove(c fiber.Ctx) error {
	return h.bulkReview(c, models.ProspectDecisionApprove, "/api/v1/prospects/bulk-approve")
}

// BulkReject rejects many prospects at once
func (h *ProspectHandler) BulkReject(c fiber.Ctx) error {
	return h.bulkReview(c, models.ProspectDecisionReject, "/api/v1/prospects/bulk-reject")
}

func (h *ProspectHandler) bulkReview(c fiber.Ctx, decision models.ProspectDecision, endpoint string) error {
	var req dto.BulkProspectRequest
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

	result, err := h.prospectFlow.BulkReview(h.requestContext(c, endpoint), &req, decision, metadata)
	if err != nil {
		log.Println("Bulk review failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bulk review failed", "BULK_REVIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{"affected": result.Affected})
}

// BulkDelete removes many prospects at once
func (h *ProspectHandler) BulkDelete(c fiber.Ctx) error {
	var req dto.BulkProspectRequest
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

	result, err := h.prospectFlow.BulkDelete(h.requestContext(c, "/api/v1/prospects/bulk-delete"), &req, metadata)
	if err != nil {
		log.Println("Bulk delete failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bulk delete failed", "BULK_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{"affected": result.Affected})
}

// FinalizeAll converts approved prospects into leads
func (h *ProspectHandler) FinalizeAll(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.prospectFlow.FinalizeAll(h.requestContext(c, "/api/v1/prospects/finalize"), metadata)
	if err != nil {
		if errors.Is(err, businessflow.ErrNoFinalizedProspects) {
			return h.ErrorResponse(c, fiber.StatusConflict, "No approved prospects to finalize", "NO_FINALIZED_PROSPECTS", nil)
		}
		log.Println("Finalize failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Finalize failed", "FINALIZE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"converted": result.Converted,
		"failed":    result.Failed,
	})
}

// PipelineCounts returns prospect counts per review stage
func (h *ProspectHandler) PipelineCounts(c fiber.Ctx) error {
	result, err := h.prospectFlow.PipelineCounts(h.requestContext(c, "/api/v1/prospects/counts"))
	if err != nil {
		log.Println("Pipeline count failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Pipeline count failed", "PIPELINE_COUNT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"unreviewed":  result.Unreviewed,
		"finalized":   result.Finalized,
		"unqualified": result.Unqualified,
	})
}

func (h *ProspectHandler) requestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
