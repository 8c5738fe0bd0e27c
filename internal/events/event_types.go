package events

import (
	"time"

	"github.com/spec-kit/crowdfund-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventCampaignCreated EventType = "campaign_created"
	EventCampaignFunded  EventType = "campaign_funded"
	EventCampaignClosed  EventType = "campaign_closed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// CampaignCreatedPayload payload.
type CampaignCreatedPayload struct {
	CampaignID string              `json:"campaign_id"`
	OwnerID    string              `json:"owner_id"`
	Title      string              `json:"title"`
	Type       domain.CampaignType `json:"type"`
	GoalAmount int64               `json:"goal_amount"`
}

// CampaignFundedPayload payload.
type CampaignFundedPayload struct {
	CampaignID  string `json:"campaign_id"`
	Title       string `json:"title"`
	GoalAmount  int64  `json:"goal_amount"`
	FinalAmount int64  `json:"final_amount"`
}

// CampaignClosedPayload payload.
type CampaignClosedPayload struct {
	CampaignID string `json:"campaign_id"`
	Title      string `json:"title"`
	ClosedByID string `json:"closed_by_id"`
}
