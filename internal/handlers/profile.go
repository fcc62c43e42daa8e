package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/agenda/internal/middleware"
	"github.com/example/agenda/internal/repository"
)

// ProfileHandler serves the authenticated user's own record.
type ProfileHandler struct {
	userRepo repository.UserRepository
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(userRepo repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo}
}

// GetProfile returns the authenticated user profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	session, ok := middleware.GetCurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.userRepo.GetByID(c.Context(), session.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             user.ID,
			"phone_number":   user.PhoneNumber,
			"name":           user.Name,
			"email":          user.Email,
			"role":           user.Role,
			"setup_complete": user.SetupComplete,
			"event_id":       user.EventID,
			"created_at":     user.CreatedAt,
			"updated_at":     user.UpdatedAt,
		},
	})
}
