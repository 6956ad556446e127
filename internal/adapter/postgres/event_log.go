package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"contextads/internal/core/domain"
	"contextads/internal/core/port"
)

// EventLog implements port.EventLog over append-only impression and
// click tables.
type EventLog struct {
	pool *pgxpool.Pool
}

// NewEventLog returns a new event log instance.
func NewEventLog(pool *pgxpool.Pool) *EventLog {
	return &EventLog{pool: pool}
}

func (l *EventLog) AppendImpression(ctx context.Context, imp *domain.Impression) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO impressions (id, campaign_id, publisher_id, keyword, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		imp.ID, imp.CampaignID, imp.PublisherID, imp.Keyword, imp.CreatedAt)
	if err != nil {
		return infra("append impression", err)
	}
	return nil
}

func (l *EventLog) AppendClick(ctx context.Context, click *domain.Click) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO clicks (id, campaign_id, publisher_id, credited_amount, attempt_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		click.ID, click.CampaignID, click.PublisherID, click.CreditedAmount.String(),
		click.AttemptToken, click.CreatedAt)
	if err != nil {
		return infra("append click", err)
	}
	return nil
}

// Stats aggregates impression and click counts plus the credited sum
// for the period, optionally narrowed to one campaign.
func (l *EventLog) Stats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	args := []any{req.From, req.To}
	whereCampaign := ""
	if req.CampaignID != nil {
		whereCampaign = "AND campaign_id = $3"
		args = append(args, *req.CampaignID)
	}

	var resp port.StatsResp
	impQuery := fmt.Sprintf(`SELECT count(*) FROM impressions
		WHERE created_at >= $1 AND created_at <= $2 %s`, whereCampaign)
	if err := l.pool.QueryRow(ctx, impQuery, args...).Scan(&resp.Impressions); err != nil {
		return nil, infra("impression stats", err)
	}

	var creditedStr string
	clickQuery := fmt.Sprintf(`SELECT count(*), COALESCE(sum(credited_amount), 0)::text FROM clicks
		WHERE created_at >= $1 AND created_at <= $2 %s`, whereCampaign)
	if err := l.pool.QueryRow(ctx, clickQuery, args...).Scan(&resp.Clicks, &creditedStr); err != nil {
		return nil, infra("click stats", err)
	}
	credited, err := decimal.NewFromString(creditedStr)
	if err != nil {
		return nil, fmt.Errorf("parse credited sum: %w", err)
	}
	resp.Credited = credited
	return &resp, nil
}
