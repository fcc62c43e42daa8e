package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/agenda/internal/auth"
	"github.com/example/agenda/internal/middleware"
	"github.com/example/agenda/internal/setup"
)

// SetupHandler exposes the one-time profile/role setup endpoint.
type SetupHandler struct {
	setupService setup.Service
}

// NewSetupHandler constructs a SetupHandler.
func NewSetupHandler(setupService setup.Service) *SetupHandler {
	return &SetupHandler{setupService: setupService}
}

// CompleteSetup finalizes the authenticated user's profile and role.
func (h *SetupHandler) CompleteSetup(c *fiber.Ctx) error {
	session, ok := middleware.GetCurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req setup.Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.setupService.CompleteSetup(c.Context(), session.ID, &req)
	if err != nil {
		var validationErr *auth.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return fiber.NewError(fiber.StatusBadRequest, validationErr.Message)
		case errors.Is(err, auth.ErrUnauthenticated):
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		case errors.Is(err, auth.ErrSetupComplete):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrInvalidRolePassword):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case errors.Is(err, auth.ErrEmailInUse):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "could not complete setup")
		}
	}

	resp := fiber.Map{
		"success": true,
		"role":    result.Role,
	}
	if result.EventName != "" {
		resp["event_name"] = result.EventName
	}

	// Role claims in the current token are stale from here on; the client
	// must re-authenticate to pick up the new role.
	return c.JSON(resp)
}
