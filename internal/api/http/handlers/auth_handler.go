package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crowdfund-service/internal/api/dto"
	"github.com/spec-kit/crowdfund-service/internal/auth"
	"github.com/spec-kit/crowdfund-service/internal/service"
	apperrors "github.com/spec-kit/crowdfund-service/pkg/util"
)

// AuthHandler exposes registration, login and logout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validateRegistration(req); len(details) > 0 {
		return apperrors.NewValidationError("invalid registration data", details)
	}

	user, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserView(user)},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return apperrors.NewUnauthorizedCode("INVALID_CREDENTIALS", "invalid credentials")
		}
		return err
	}

	return c.JSON(dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User: dto.LoginUserView{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.Context(), claims.Subject); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func validateRegistration(req dto.RegisterRequest) map[string]any {
	details := map[string]any{}
	if !strings.Contains(req.Email, "@") {
		details["email"] = "invalid email format"
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		details["name"] = "name must be at least 2 characters long"
	}
	if len(req.Password) < 6 {
		details["password"] = "password must be at least 6 characters long"
	}
	return details
}
