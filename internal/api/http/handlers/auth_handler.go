package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/maintenance-service/internal/api/dto"
	"github.com/propdesk/maintenance-service/internal/service"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

// AuthHandler issues access tokens.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	}})
}
