package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crowdfund-service/internal/domain"
	"github.com/spec-kit/crowdfund-service/internal/events"
	"github.com/spec-kit/crowdfund-service/internal/repository"
	apperrors "github.com/spec-kit/crowdfund-service/pkg/util"
)

// CreateCampaignInput carries validated fields for campaign creation.
type CreateCampaignInput struct {
	Title       string
	Description string
	GoalAmount  int64
	OwnerID     string
	Type        domain.CampaignType
	Category    domain.CampaignCategory
}

// CampaignService coordinates campaign lifecycle and contributions.
type CampaignService struct {
	campaigns  repository.CampaignRepository
	dispatcher events.Dispatcher
}

// NewCampaignService builds the service.
func NewCampaignService(campaigns repository.CampaignRepository, dispatcher events.Dispatcher) *CampaignService {
	return &CampaignService{campaigns: campaigns, dispatcher: dispatcher}
}

// Create persists a new active campaign owned by the caller.
func (s *CampaignService) Create(ctx context.Context, input CreateCampaignInput) (*domain.Campaign, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.GoalAmount <= 0 {
		return nil, apperrors.NewValidationError("goal amount must be greater than zero", nil)
	}
	if input.Type != domain.CampaignTypeDonation && input.Type != domain.CampaignTypeCrowdfunding {
		return nil, apperrors.NewValidationError("unknown campaign type", map[string]any{"type": input.Type})
	}
	if input.Category == "" {
		input.Category = domain.CategoryOther
	}

	campaign := &domain.Campaign{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		GoalAmount:  input.GoalAmount,
		OwnerID:     input.OwnerID,
		Type:        input.Type,
		Category:    input.Category,
		Status:      domain.CampaignStatusActive,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCampaignCreated, events.CampaignCreatedPayload{
		CampaignID: campaign.ID,
		OwnerID:    campaign.OwnerID,
		Title:      campaign.Title,
		Type:       campaign.Type,
		GoalAmount: campaign.GoalAmount,
	})
	return campaign, nil
}

// List returns all campaigns, newest first.
func (s *CampaignService) List(ctx context.Context) ([]*domain.Campaign, error) {
	return s.campaigns.List(ctx)
}

// Get loads a campaign by id.
func (s *CampaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, err
	}
	return campaign, nil
}

// Contribute records a contribution and accumulates it into the campaign.
// A donation campaign that reaches its goal closes and emits a funded event.
func (s *CampaignService) Contribute(ctx context.Context, campaignID, contributorID string, amount int64) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	funded, err := campaign.AddContribution(amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrContributionAmount):
			return nil, apperrors.NewValidationError(err.Error(), nil)
		case errors.Is(err, domain.ErrCampaignClosed):
			return nil, apperrors.NewConflict("campaign is closed", nil)
		default:
			return nil, err
		}
	}

	contribution := &domain.Contribution{
		ID:            uuid.NewString(),
		CampaignID:    campaign.ID,
		ContributorID: contributorID,
		Amount:        amount,
	}
	if err := s.campaigns.AddContribution(ctx, contribution); err != nil {
		return nil, err
	}
	if err := s.campaigns.Update(ctx, campaign); err != nil {
		return nil, err
	}

	if funded {
		s.publish(ctx, events.EventCampaignFunded, events.CampaignFundedPayload{
			CampaignID:  campaign.ID,
			Title:       campaign.Title,
			GoalAmount:  campaign.GoalAmount,
			FinalAmount: campaign.CurrentAmount,
		})
	}
	return campaign, nil
}

// Close transitions a campaign to CLOSED. Only the owner or an admin may
// close it.
func (s *CampaignService) Close(ctx context.Context, campaignID, actorID string, actorRole domain.Role) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.OwnerID != actorID && actorRole != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("only the owner or an admin can close a campaign")
	}
	if err := campaign.Close(); err != nil {
		return nil, apperrors.NewConflict("campaign is already closed", nil)
	}
	if err := s.campaigns.Update(ctx, campaign); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCampaignClosed, events.CampaignClosedPayload{
		CampaignID: campaign.ID,
		Title:      campaign.Title,
		ClosedByID: actorID,
	})
	return campaign, nil
}

func (s *CampaignService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
