package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"contextads/internal/core/domain"
	"contextads/internal/core/port"
)

// CampaignStore implements port.CampaignStore using pgxpool. Money
// columns are NUMERIC, scanned through their text representation into
// decimals.
type CampaignStore struct {
	pool *pgxpool.Pool
}

// NewCampaignStore returns a new store instance.
func NewCampaignStore(pool *pgxpool.Pool) *CampaignStore {
	return &CampaignStore{pool: pool}
}

const campaignColumns = `id, advertiser_id, title, message, image_url, target_url, keywords,
	cpc_bid::text, budget_total::text, budget_remaining::text, status, created_at, updated_at`

// GetCampaign returns the campaign or (nil, nil) when absent.
func (s *CampaignStore) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra("get campaign", err)
	}
	return c, nil
}

// ListCampaigns returns campaigns passing the status filter ordered
// most recent first. When requireBudget is set, exhausted campaigns are
// excluded.
func (s *CampaignStore) ListCampaigns(ctx context.Context, filter port.StatusFilter, requireBudget bool) ([]domain.Campaign, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE ($1 = 'all' OR status = $1)
		  AND (NOT $2 OR budget_remaining > 0)
		ORDER BY created_at DESC`,
		string(filter.Normalize()), requireBudget)
	if err != nil {
		return nil, infra("list campaigns", err)
	}
	campaigns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, infra("list campaigns", err)
	}
	return campaigns, nil
}

// ConditionalDebit decrements budget_remaining in a single conditional
// UPDATE. The WHERE clause is the atomicity guarantee: the decrement
// applies only if the stored value still covers the amount at the
// moment of the write. A rejected update reports ok=false, not an error.
func (s *CampaignStore) ConditionalDebit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	var remainingStr string
	err := s.pool.QueryRow(ctx, `
		UPDATE campaigns
		SET budget_remaining = budget_remaining - $2, updated_at = now()
		WHERE id = $1 AND budget_remaining >= $2 AND status <> 'completed'
		RETURNING budget_remaining::text`,
		id, amount.String()).Scan(&remainingStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, infra("conditional debit", err)
	}
	remaining, err := decimal.NewFromString(remainingStr)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse remaining budget: %w", err)
	}
	return remaining, true, nil
}

// SetStatus transitions the campaign status. Idempotent.
func (s *CampaignStore) SetStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	_, err := s.pool.Exec(ctx, `UPDATE campaigns SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return infra("set status", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCampaign(row scannable) (*domain.Campaign, error) {
	var (
		c                            domain.Campaign
		bidStr, totalStr, remainStr string
		status                      string
	)
	err := row.Scan(
		&c.ID,
		&c.AdvertiserID,
		&c.Title,
		&c.Message,
		&c.ImageURL,
		&c.TargetURL,
		&c.Keywords,
		&bidStr,
		&totalStr,
		&remainStr,
		&status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = domain.CampaignStatus(status)
	if c.CPCBid, err = decimal.NewFromString(bidStr); err != nil {
		return nil, fmt.Errorf("parse cpc bid: %w", err)
	}
	if c.BudgetTotal, err = decimal.NewFromString(totalStr); err != nil {
		return nil, fmt.Errorf("parse budget total: %w", err)
	}
	if c.BudgetRemaining, err = decimal.NewFromString(remainStr); err != nil {
		return nil, fmt.Errorf("parse budget remaining: %w", err)
	}
	return &c, nil
}

// infra wraps transient store faults so callers can match them with
// errors.Is(err, port.ErrStoreUnavailable) while keeping the cause.
func infra(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, port.ErrStoreUnavailable, err)
}
