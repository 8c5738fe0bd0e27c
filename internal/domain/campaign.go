package domain

import (
	"errors"
	"time"
)

// CampaignType distinguishes goal-bound donation drives from open-ended crowdfunding.
type CampaignType string

const (
	CampaignTypeDonation     CampaignType = "DONATION"
	CampaignTypeCrowdfunding CampaignType = "CROWDFUNDING"
)

// CampaignCategory classifies what a campaign raises funds for.
type CampaignCategory string

const (
	CategoryEducation   CampaignCategory = "EDUCATION"
	CategoryHealth      CampaignCategory = "HEALTH"
	CategoryEnvironment CampaignCategory = "ENVIRONMENT"
	CategoryAnimals     CampaignCategory = "ANIMALS"
	CategoryEmergency   CampaignCategory = "EMERGENCY"
	CategoryOther       CampaignCategory = "OTHER"
)

// CampaignStatus represents lifecycle states for a campaign.
type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "ACTIVE"
	CampaignStatusClosed CampaignStatus = "CLOSED"
)

var (
	// ErrCampaignClosed is returned when mutating a campaign that already reached CLOSED.
	ErrCampaignClosed = errors.New("campaign is closed")
	// ErrCampaignActive is returned when reopening a campaign that is not closed.
	ErrCampaignActive = errors.New("campaign is already active")
	// ErrContributionAmount is returned for zero or negative contribution amounts.
	ErrContributionAmount = errors.New("contribution amount must be greater than zero")
)

// Campaign is the domain model for a fundraising campaign.
type Campaign struct {
	ID            string
	Title         string
	Description   string
	GoalAmount    int64
	CurrentAmount int64
	OwnerID       string
	Type          CampaignType
	Category      CampaignCategory
	Status        CampaignStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Contribution records a single payment toward a campaign.
type Contribution struct {
	ID            string
	CampaignID    string
	ContributorID string
	Amount        int64
	CreatedAt     time.Time
}

// AddContribution accumulates amount into the campaign. Donation campaigns
// close automatically once the goal is reached; the returned flag reports
// whether this contribution closed the campaign.
func (c *Campaign) AddContribution(amount int64) (funded bool, err error) {
	if amount <= 0 {
		return false, ErrContributionAmount
	}
	if c.Status == CampaignStatusClosed {
		return false, ErrCampaignClosed
	}

	c.CurrentAmount += amount
	c.UpdatedAt = time.Now()

	if c.Type == CampaignTypeDonation && c.CurrentAmount >= c.GoalAmount {
		c.Status = CampaignStatusClosed
		return true, nil
	}
	return false, nil
}

// Close transitions the campaign to CLOSED.
func (c *Campaign) Close() error {
	if c.Status == CampaignStatusClosed {
		return ErrCampaignClosed
	}
	c.Status = CampaignStatusClosed
	c.UpdatedAt = time.Now()
	return nil
}

// Reopen transitions a closed campaign back to ACTIVE.
func (c *Campaign) Reopen() error {
	if c.Status == CampaignStatusActive {
		return ErrCampaignActive
	}
	c.Status = CampaignStatusActive
	c.UpdatedAt = time.Now()
	return nil
}
