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

// ScraperHandlerInterface defines the contract for scraper handlers
type ScraperHandlerInterface interface {
	StartScrape(c fiber.Ctx) error
	GetScrape(c fiber.Ctx) error
	StopScrape(c fiber.Ctx) error
	ImportResults(c fiber.Ctx) error
}

// ScraperHandler handles directory scrape HTTP requests
type ScraperHandler struct {
	scrapeFlow businessflow.ScrapeFlow
	validator  *validator.Validate
}

// NewScraperHandler creates a new scraper handler
func NewScraperHandler(scrapeFlow businessflow.ScrapeFlow) *ScraperHandler {
	return &ScraperHandler{
		scrapeFlow: scrapeFlow,
		validator:  validator.New(),
	}
}

func (h *ScraperHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ScraperHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// StartScrape begins a scrape session against a directory URL
func (h *ScraperHandler) StartScrape(c fiber.Ctx) error {
	var req dto.StartScrapeRequest
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

	result, err := h.scrapeFlow.StartScrape(h.requestContext(c, "/api/v1/scrapes"), &req, metadata)
	if err != nil {
		log.Println("Scrape start failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Scrape start failed", "SCRAPE_START_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusAccepted, result.Message, result.Scrape)
}

// GetScrape returns a scrape session's live status and collected records
func (h *ScraperHandler) GetScrape(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Scrape session id is required", "INVALID_SCRAPE_ID", nil)
	}

	result, err := h.scrapeFlow.GetScrape(h.requestContext(c, "/api/v1/scrapes/:id"), sessionID)
	if err != nil {
		if businessflow.IsScrapeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Scrape session not found", "SCRAPE_NOT_FOUND", nil)
		}
		log.Println("Scrape lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Scrape lookup failed", "SCRAPE_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Scrape)
}

// StopScrape requests a running scrape to stop, keeping partial results
func (h *ScraperHandler) StopScrape(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Scrape session id is required", "INVALID_SCRAPE_ID", nil)
	}

	result, err := h.scrapeFlow.StopScrape(h.requestContext(c, "/api/v1/scrapes/:id/stop"), sessionID)
	if err != nil {
		if businessflow.IsScrapeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Scrape session not found", "SCRAPE_NOT_FOUND", nil)
		}
		if errors.Is(err, businessflow.ErrScrapeAlreadyStopped) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Scrape session already stopped", "SCRAPE_ALREADY_STOPPED", nil)
		}
		log.Println("Scrape stop failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Scrape stop failed", "SCRAPE_STOP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Scrape)
}

// ImportResults converts a finished scrape's records into prospects
func (h *ScraperHandler) ImportResults(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Scrape session id is required", "INVALID_SCRAPE_ID", nil)
	}

	var req dto.ImportScrapeResultsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.scrapeFlow.ImportResults(h.requestContext(c, "/api/v1/scrapes/:id/import"), sessionID, &req, metadata)
	if err != nil {
		if businessflow.IsScrapeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Scrape session not found", "SCRAPE_NOT_FOUND", nil)
		}
		if errors.Is(err, businessflow.ErrScrapeStillRunning) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Scrape session is still running", "SCRAPE_STILL_RUNNING", nil)
		}
		if errors.Is(err, businessflow.ErrScrapeNoResults) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Scrape session has no results", "SCRAPE_NO_RESULTS", nil)
		}
		log.Println("Scrape import failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Scrape import failed", "SCRAPE_IMPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
}

func (h *ScraperHandler) requestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
