// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/leadline/leadline/app/dto"
)

// AccessMiddleware guards the API with a single shared access key. The CRM
// is a single-operator tool; when no key is configured every request is
// allowed through, which is the expected local-deployment mode.
type AccessMiddleware struct {
	accessKey string
}

// NewAccessMiddleware creates a new access middleware
func NewAccessMiddleware(accessKey string) *AccessMiddleware {
	return &AccessMiddleware{
		accessKey: accessKey,
	}
}

// Authenticate validates the shared access key on protected endpoints
func (m *AccessMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m.accessKey == "" {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authorization header is required",
				Error: dto.ErrorDetail{
					Code: "MISSING_AUTHORIZATION_HEADER",
				},
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid authorization header format. Expected 'Bearer <token>'",
				Error: dto.ErrorDetail{
					Code: "INVALID_AUTHORIZATION_FORMAT",
				},
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.accessKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid access key",
				Error: dto.ErrorDetail{
					Code: "INVALID_ACCESS_KEY",
				},
			})
		}

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}
