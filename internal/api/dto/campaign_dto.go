package dto

import (
	"time"

	"github.com/spec-kit/crowdfund-service/internal/domain"
)

// CreateCampaignRequest payload for new campaigns.
type CreateCampaignRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalAmount  int64  `json:"goalAmount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// ContributionRequest payload for contributions.
type ContributionRequest struct {
	Amount int64 `json:"amount"`
}

// CampaignView is the public shape of a campaign.
type CampaignView struct {
	ID            string                  `json:"id"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	GoalAmount    int64                   `json:"goalAmount"`
	CurrentAmount int64                   `json:"currentAmount"`
	OwnerID       string                  `json:"ownerId"`
	Type          domain.CampaignType     `json:"type"`
	Category      domain.CampaignCategory `json:"category"`
	Status        domain.CampaignStatus   `json:"status"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// NewCampaignView maps a domain campaign to its public view.
func NewCampaignView(campaign *domain.Campaign) CampaignView {
	return CampaignView{
		ID:            campaign.ID,
		Title:         campaign.Title,
		Description:   campaign.Description,
		GoalAmount:    campaign.GoalAmount,
		CurrentAmount: campaign.CurrentAmount,
		OwnerID:       campaign.OwnerID,
		Type:          campaign.Type,
		Category:      campaign.Category,
		Status:        campaign.Status,
		CreatedAt:     campaign.CreatedAt,
		UpdatedAt:     campaign.UpdatedAt,
	}
}

// NewCampaignViews maps a list of campaigns.
func NewCampaignViews(campaigns []*domain.Campaign) []CampaignView {
	views := make([]CampaignView, 0, len(campaigns))
	for _, campaign := range campaigns {
		views = append(views, NewCampaignView(campaign))
	}
	return views
}
