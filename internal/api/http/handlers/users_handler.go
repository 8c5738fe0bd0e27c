package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crowdfund-service/internal/api/dto"
	"github.com/spec-kit/crowdfund-service/internal/service"
)

// UsersHandler exposes admin-only account endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Get handles GET /admin/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserView(user)}})
}
