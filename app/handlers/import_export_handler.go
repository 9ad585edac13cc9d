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
)

// ImportExportHandlerInterface defines the contract for bulk data exchange handlers
type ImportExportHandlerInterface interface {
	ImportLeads(c fiber.Ctx) error
	ExportLeads(c fiber.Ctx) error
	ExportWorkbook(c fiber.Ctx) error
	BulkExport(c fiber.Ctx) error
}

// ImportExportHandler handles bulk import and export HTTP requests
type ImportExportHandler struct {
	importExportFlow businessflow.ImportExportFlow
	validator        *validator.Validate
}

// NewImportExportHandler creates a new import/export handler
func NewImportExportHandler(importExportFlow businessflow.ImportExportFlow) *ImportExportHandler {
	return &ImportExportHandler{
		importExportFlow: importExportFlow,
		validator:        validator.New(),
	}
}

func (h *ImportExportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ImportExportHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ImportLeads ingests lead CSV text
func (h *ImportExportHandler) ImportLeads(c fiber.Ctx) error {
	var req dto.ImportLeadsRequest
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

	result, err := h.importExportFlow.ImportLeads(h.requestContext(c, "/api/v1/leads/import"), &req, metadata)
	if err != nil {
		if businessflow.IsEmptyImport(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Import text is empty", "EMPTY_IMPORT", nil)
		}
		log.Println("Lead import failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lead import failed", "LEAD_IMPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
}

// ExportLeads streams the lead book as a CSV download
func (h *ImportExportHandler) ExportLeads(c fiber.Ctx) error {
	result, err := h.importExportFlow.ExportLeads(h.requestContext(c, "/api/v1/leads/export"))
	if err != nil {
		if errors.Is(err, businessflow.ErrNothingToExport) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No leads to export", "NOTHING_TO_EXPORT", nil)
		}
		log.Println("Lead export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lead export failed", "LEAD_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+result.Filename+`"`)
	return c.SendString(result.CSV)
}

// ExportWorkbook writes the xlsx export and reports its location
func (h *ImportExportHandler) ExportWorkbook(c fiber.Ctx) error {
	result, err := h.importExportFlow.ExportWorkbook(h.requestContext(c, "/api/v1/leads/export/workbook"))
	if err != nil {
		if errors.Is(err, businessflow.ErrNothingToExport) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No leads to export", "NOTHING_TO_EXPORT", nil)
		}
		log.Println("Workbook export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Workbook export failed", "WORKBOOK_EXPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"filename": result.Filename,
		"sheets":   result.Sheets,
		"leads":    result.Leads,
	})
}

// BulkExport returns the full-database JSON snapshot
func (h *ImportExportHandler) BulkExport(c fiber.Ctx) error {
	result, err := h.importExportFlow.BulkExport(h.requestContext(c, "/api/v1/export"))
	if err != nil {
		log.Println("Bulk export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bulk export failed", "BULK_EXPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Export generated", result)
}

func (h *ImportExportHandler) requestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 60*time.Second)
}
