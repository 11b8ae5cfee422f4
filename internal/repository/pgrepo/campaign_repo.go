package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const campaignColumns = `id, created_at, updated_at, user_id, platform, goal,
	budget, spend, impressions, clicks, results, status, started_at`

type CampaignRepository struct {
	conn uow.DBTX
}

func NewCampaignRepository(conn uow.DBTX) *CampaignRepository {
	return &CampaignRepository{conn: conn}
}

func (c *CampaignRepository) Create(ctx context.Context, args repoargs.CampaignCreate) (*domain.Campaign, error) {
	row := c.conn.QueryRow(ctx, `
		INSERT INTO campaigns (user_id, platform, goal, budget, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+campaignColumns,
		args.UserID, args.Platform, args.Goal, args.Budget, domain.CampaignStatusPendingReview,
	)
	campaign, err := scanCampaign(row)
	if err != nil {
		return nil, convertErr(err, "creating campaign for user %d", args.UserID)
	}
	return campaign, nil
}

func (c *CampaignRepository) FindByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	row := c.conn.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	campaign, err := scanCampaign(row)
	if err != nil {
		return nil, convertErr(err, "finding campaign by id %d", id)
	}
	return campaign, nil
}

func (c *CampaignRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Campaign, error) {
	rows, err := c.conn.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting campaigns by userID `%d`", userID)
	}
	defer rows.Close()
	return collectCampaigns(rows, userID)
}

// GetByStatus возвращает кампании в указанном статусе (очередь модерации, выборка
// активных для открутки).
func (c *CampaignRepository) GetByStatus(
	ctx context.Context,
	status domain.CampaignStatusType,
	limit uint,
) ([]domain.Campaign, error) {
	safeLimit, limitErr := safeConvertUintToInt32(limit)
	if limitErr != nil {
		return nil, convertErr(limitErr, "converting limit to int32")
	}
	rows, err := c.conn.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE status = $1 ORDER BY created_at ASC LIMIT $2`,
		status, safeLimit)
	if err != nil {
		return nil, convertErr(err, "getting campaigns by status %s", status)
	}
	defer rows.Close()
	return collectCampaigns(rows, 0)
}

func (c *CampaignRepository) UpdateState(ctx context.Context, args repoargs.CampaignStateUpdate) error {
	_, err := c.conn.Exec(ctx, `
		UPDATE campaigns
		SET status = $2, started_at = COALESCE($3, started_at), updated_at = now()
		WHERE id = $1`,
		args.CampaignID, args.Status, args.StartedAt,
	)
	return convertErr(err, "updating state for campaign %d", args.CampaignID)
}

func (c *CampaignRepository) UpdateMetrics(ctx context.Context, args repoargs.CampaignMetricsUpdate) error {
	_, err := c.conn.Exec(ctx, `
		UPDATE campaigns
		SET spend = $2, impressions = $3, clicks = $4, results = $5, status = $6, updated_at = now()
		WHERE id = $1`,
		args.CampaignID, args.Spend, args.Impressions, args.Clicks, args.Results, args.Status,
	)
	return convertErr(err, "updating metrics for campaign %d", args.CampaignID)
}

// Delete удаляет кампанию. Используется только при отклонении pending_review.
func (c *CampaignRepository) Delete(ctx context.Context, id int64) error {
	_, err := c.conn.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return convertErr(err, "deleting campaign %d", id)
}

func collectCampaigns(rows pgx.Rows, userID int64) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	for rows.Next() {
		campaign, scanErr := scanCampaign(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning campaign row")
		}
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, convertErr(rows.Err(), "collecting campaigns for user %d", userID)
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := row.Scan(
		&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt, &campaign.UserID,
		&campaign.Platform, &campaign.Goal, &campaign.Budget, &campaign.Spend,
		&campaign.Impressions, &campaign.Clicks, &campaign.Results,
		&campaign.Status, &campaign.StartedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &campaign, nil
}
