package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/app/middleware"
	businessflow "github.com/leadline/leadline/business_flow"
)

// CallSessionHandlerInterface defines the contract for call session handlers
type CallSessionHandlerInterface interface {
	StartSession(c fiber.Ctx) error
	GetSession(c fiber.Ctx) error
	Advance(c fiber.Ctx) error
	AdvanceOrCycle(c fiber.Ctx) error
	Retreat(c fiber.Ctx) error
	JumpRandom(c fiber.Ctx) error
	SetNotes(c fiber.Ctx) error
	CompleteCall(c fiber.Ctx) error
	EndSession(c fiber.Ctx) error
}

// CallSessionHandler handles call session HTTP requests
type CallSessionHandler struct {
	sessionFlow businessflow.CallSessionFlow
	validator   *validator.Validate
}

// NewCallSessionHandler creates a new call session handler
func NewCallSessionHandler(sessionFlow businessflow.CallSessionFlow) *CallSessionHandler {
	return &CallSessionHandler{
		sessionFlow: sessionFlow,
		validator:   validator.New(),
	}
}

func (h *CallSessionHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CallSessionHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// StartSession begins a call session over a queue
func (h *CallSessionHandler) StartSession(c fiber.Ctx) error {
	var req dto.StartSessionRequest
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

	result, err := h.sessionFlow.StartSession(h.requestContext(c, "/api/v1/sessions"), &req, metadata)
	if err != nil {
		if errors.Is(err, businessflow.ErrQueueEmpty) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Queue has no due leads", "QUEUE_EMPTY", nil)
		}
		log.Println("Session start failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session start failed", "SESSION_START_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result.Session)
}

// GetSession returns the current state of a session
func (h *CallSessionHandler) GetSession(c fiber.Ctx) error {
	return h.cursorOp(c, "/api/v1/sessions/:id", h.sessionFlow.GetSession)
}

// Advance moves the session cursor forward
func (h *CallSessionHandler) Advance(c fiber.Ctx) error {
	return h.cursorOp(c, "/api/v1/sessions/:id/advance", h.sessionFlow.Advance)
}

// AdvanceOrCycle moves forward, wrapping to the first lead at the end
func (h *CallSessionHandler) AdvanceOrCycle(c fiber.Ctx) error {
	return h.cursorOp(c, "/api/v1/sessions/:id/cycle", h.sessionFlow.AdvanceOrCycle)
}

// Retreat steps the cursor back one lead
func (h *CallSessionHandler) Retreat(c fiber.Ctx) error {
	return h.cursorOp(c, "/api/v1/sessions/:id/retreat", h.sessionFlow.Retreat)
}

// JumpRandom moves the cursor to a random lead
func (h *CallSessionHandler) JumpRandom(c fiber.Ctx) error {
	return h.cursorOp(c, "/api/v1/sessions/:id/random", h.sessionFlow.JumpRandom)
}

func (h *CallSessionHandler) cursorOp(c fiber.Ctx, endpoint string, op func(context.Context, string) (*dto.SessionResponse, error)) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Session id is required", "INVALID_SESSION_ID", nil)
	}

	result, err := op(h.requestContext(c, endpoint), sessionID)
	if err != nil {
		if businessflow.IsSessionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Session not found", "SESSION_NOT_FOUND", nil)
		}
		log.Println("Session operation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session operation failed", "SESSION_OP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Session)
}

// SetNotes updates the scratch notes for the current call
func (h *CallSessionHandler) SetNotes(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Session id is required", "INVALID_SESSION_ID", nil)
	}

	var req dto.SessionNotesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	result, err := h.sessionFlow.SetNotes(h.requestContext(c, "/api/v1/sessions/:id/notes"), sessionID, &req)
	if err != nil {
		if businessflow.IsSessionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Session not found", "SESSION_NOT_FOUND", nil)
		}
		log.Println("Session notes update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session notes update failed", "SESSION_NOTES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Session)
}

// CompleteCall records the outcome for the current lead
func (h *CallSessionHandler) CompleteCall(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Session id is required", "INVALID_SESSION_ID", nil)
	}

	var req dto.CompleteCallRequest
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

	result, err := h.sessionFlow.CompleteCall(h.requestContext(c, "/api/v1/sessions/:id/complete"), sessionID, &req, metadata)
	if err != nil {
		if businessflow.IsSessionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Session not found", "SESSION_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidCallOutcome(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid call outcome", "INVALID_CALL_OUTCOME", nil)
		}
		log.Println("Call completion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call completion failed", "CALL_COMPLETE_FAILED", nil)
	}

	middleware.RecordCall(req.Outcome)

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"call_log_id": result.CallLogID,
		"session":     result.Session,
	})
}

// EndSession discards a session
func (h *CallSessionHandler) EndSession(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Session id is required", "INVALID_SESSION_ID", nil)
	}

	if err := h.sessionFlow.EndSession(h.requestContext(c, "/api/v1/sessions/:id"), sessionID); err != nil {
		if businessflow.IsSessionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Session not found", "SESSION_NOT_FOUND", nil)
		}
		log.Println("Session end failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session end failed", "SESSION_END_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Session ended", fiber.Map{"session_id": sessionID})
}

func (h *CallSessionHandler) requestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
