package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crowdfund-service/internal/api/dto"
	"github.com/spec-kit/crowdfund-service/internal/auth"
	"github.com/spec-kit/crowdfund-service/internal/domain"
	"github.com/spec-kit/crowdfund-service/internal/service"
	apperrors "github.com/spec-kit/crowdfund-service/pkg/util"
)

// CampaignsHandler exposes campaign endpoints.
type CampaignsHandler struct {
	campaigns *service.CampaignService
}

// NewCampaignsHandler constructs handler.
func NewCampaignsHandler(campaignService *service.CampaignService) *CampaignsHandler {
	return &CampaignsHandler{campaigns: campaignService}
}

// List handles GET /campaigns.
func (h *CampaignsHandler) List(c *fiber.Ctx) error {
	campaigns, err := h.campaigns.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignViews(campaigns)})
}

// Get handles GET /campaigns/:id.
func (h *CampaignsHandler) Get(c *fiber.Ctx) error {
	campaign, err := h.campaigns.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignView(campaign)})
}

// Create handles POST /campaigns.
func (h *CampaignsHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	campaign, err := h.campaigns.Create(c.Context(), service.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		OwnerID:     claims.Subject,
		Type:        domain.CampaignType(req.Type),
		Category:    domain.CampaignCategory(req.Category),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCampaignView(campaign)})
}

// Contribute handles POST /campaigns/:id/contributions.
func (h *CampaignsHandler) Contribute(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ContributionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	campaign, err := h.campaigns.Contribute(c.Context(), c.Params("id"), claims.Subject, req.Amount)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCampaignView(campaign)})
}

// Close handles POST /campaigns/:id/close.
func (h *CampaignsHandler) Close(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	campaign, err := h.campaigns.Close(c.Context(), c.Params("id"), claims.Subject, claims.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewCampaignView(campaign)})
}
