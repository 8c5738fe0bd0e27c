package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crowdfund-service/internal/domain"
)

// CampaignRepository defines persistence access for campaigns and their
// contributions. Absent rows are reported as pgx.ErrNoRows.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	Update(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context) ([]*domain.Campaign, error)
	AddContribution(ctx context.Context, contribution *domain.Contribution) error
}

type campaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a Postgres-backed implementation.
func NewCampaignRepository(pool *pgxpool.Pool) CampaignRepository {
	return &campaignRepository{pool: pool}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	const query = `
        INSERT INTO campaigns (id, title, description, goal_amount, current_amount, owner_id, type, category, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		campaign.ID,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount,
		campaign.CurrentAmount,
		campaign.OwnerID,
		campaign.Type,
		campaign.Category,
		campaign.Status,
	).Scan(&campaign.CreatedAt, &campaign.UpdatedAt)
}

func (r *campaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	const query = `
        UPDATE campaigns
        SET title=$1, description=$2, goal_amount=$3, current_amount=$4, category=$5, status=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount,
		campaign.CurrentAmount,
		campaign.Category,
		campaign.Status,
		campaign.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	const query = `
        SELECT id, title, description, goal_amount, current_amount, owner_id, type, category, status, created_at, updated_at
        FROM campaigns WHERE id=$1`

	return scanCampaign(r.pool.QueryRow(ctx, query, id))
}

func (r *campaignRepository) List(ctx context.Context) ([]*domain.Campaign, error) {
	const query = `
        SELECT id, title, description, goal_amount, current_amount, owner_id, type, category, status, created_at, updated_at
        FROM campaigns ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *campaignRepository) AddContribution(ctx context.Context, contribution *domain.Contribution) error {
	const query = `
        INSERT INTO contributions (id, campaign_id, contributor_id, amount)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		contribution.ID,
		contribution.CampaignID,
		contribution.ContributorID,
		contribution.Amount,
	).Scan(&contribution.CreatedAt)
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var campaign domain.Campaign
	if err := row.Scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.Description,
		&campaign.GoalAmount,
		&campaign.CurrentAmount,
		&campaign.OwnerID,
		&campaign.Type,
		&campaign.Category,
		&campaign.Status,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &campaign, nil
}
