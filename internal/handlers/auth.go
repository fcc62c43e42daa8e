package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/agenda/internal/auth"
	"github.com/example/agenda/internal/logger"
	"github.com/example/agenda/internal/verify"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	authService auth.Service
	issuer      *auth.SessionIssuer
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService auth.Service, issuer *auth.SessionIssuer) *AuthHandler {
	return &AuthHandler{authService: authService, issuer: issuer}
}

type sendCodeRequest struct {
	Phone string `json:"phone"`
}

// SendCode dispatches a one-time code to the submitted phone number.
func (h *AuthHandler) SendCode(c *fiber.Ctx) error {
	var req sendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone is required")
	}

	result, err := h.authService.RequestCode(c.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, auth.ErrPhoneRequired) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		var gwErr *verify.GatewayError
		if errors.As(err, &gwErr) {
			logger.Error("[SendCode] gateway send failed", zap.String("error", gwErr.Error()))
			return fiber.NewError(fiber.StatusBadGateway, "could not send verification code")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"to":      result.To,
		"status":  result.Status,
	})
}

type verifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// Verify checks the submitted code and issues a session on success.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.authService.VerifyCode(c.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPhoneRequired), errors.Is(err, auth.ErrCodeRequired):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrInvalidCredential):
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "verification failed")
		}
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		logger.Error("[Verify] token issue failed", zap.String("error", err.Error()))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":             user.ID,
			"phone_number":   user.PhoneNumber,
			"name":           user.Name,
			"role":           user.Role,
			"setup_complete": user.SetupComplete,
		},
	})
}
