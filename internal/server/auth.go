package server

import (
	"github.com/joanri79/cine-log/internal/middleware"
	"github.com/joanri79/cine-log/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired returns the bearer token middleware. The identity provider issues
// the tokens; this service only verifies them.
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired
}

// WebSocketAuthRequired also accepts the token as a query parameter.
func (s *Server) WebSocketAuthRequired() fiber.Handler {
	return middleware.WebSocketAuthRequired
}

// currentUserID returns the authenticated user id. Handlers behind AuthRequired
// always have one; a missing id answers 401 so services are never called without it.
func currentUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
		return "", errResponseWritten
	}
	return userID, nil
}
