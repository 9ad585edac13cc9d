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

// QueueHandlerInterface defines the contract for queue handlers
type QueueHandlerInterface interface {
	CreateQueue(c fiber.Ctx) error
	ListQueues(c fiber.Ctx) error
	UpdateQueue(c fiber.Ctx) error
	DeleteQueue(c fiber.Ctx) error
	ResolveQueue(c fiber.Ctx) error
}

// QueueHandler handles custom queue HTTP requests
type QueueHandler struct {
	queueFlow businessflow.QueueFlow
	validator *validator.Validate
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queueFlow businessflow.QueueFlow) *QueueHandler {
	return &QueueHandler{
		queueFlow: queueFlow,
		validator: validator.New(),
	}
}

func (h *QueueHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *QueueHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateQueue handles custom queue creation
func (h *QueueHandler) CreateQueue(c fiber.Ctx) error {
	var req dto.CreateQueueRequest
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

	result, err := h.queueFlow.CreateQueue(h.requestContext(c, "/api/v1/queues"), &req, metadata)
	if err != nil {
		log.Println("Queue creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Queue creation failed", "QUEUE_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result.Queue)
}

// ListQueues returns every saved custom queue
func (h *QueueHandler) ListQueues(c fiber.Ctx) error {
	result, err := h.queueFlow.ListQueues(h.requestContext(c, "/api/v1/queues"))
	if err != nil {
		log.Println("Queue listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Queue listing failed", "QUEUE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{"queues": result.Queues})
}

// UpdateQueue applies a partial update to a queue
func (h *QueueHandler) UpdateQueue(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid queue id", "INVALID_QUEUE_ID", nil)
	}

	var req dto.UpdateQueueRequest
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

	result, err := h.queueFlow.UpdateQueue(h.requestContext(c, "/api/v1/queues/:id"), id, &req, metadata)
	if err != nil {
		if businessflow.IsQueueNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Queue not found", "QUEUE_NOT_FOUND", nil)
		}
		log.Println("Queue update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Queue update failed", "QUEUE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Queue)
}

// DeleteQueue removes a custom queue
func (h *QueueHandler) DeleteQueue(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid queue id", "INVALID_QUEUE_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.queueFlow.DeleteQueue(h.requestContext(c, "/api/v1/queues/:id"), id, metadata)
	if err != nil {
		if businessflow.IsQueueNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Queue not found", "QUEUE_NOT_FOUND", nil)
		}
		log.Println("Queue deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Queue deletion failed", "QUEUE_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{"id": result.ID})
}

// ResolveQueue returns the leads currently due in a queue. The :id path
// segment is either "default" or a custom queue id.
func (h *QueueHandler) ResolveQueue(c fiber.Ctx) error {
	queueID := c.Params("id")
	if queueID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Queue id is required", "INVALID_QUEUE_ID", nil)
	}

	result, err := h.queueFlow.ResolveQueue(h.requestContext(c, "/api/v1/queues/:id/leads"), queueID)
	if err != nil {
		log.Println("Queue resolution failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Queue resolution failed", "QUEUE_RESOLVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"queue_id": result.QueueID,
		"leads":    result.Leads,
	})
}

func (h *QueueHandler) requestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
