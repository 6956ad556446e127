package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contextads/internal/core/domain"
	"contextads/internal/core/port"
)

// revenueShare is the fixed fraction of the CPC bid credited to the
// referring publisher per click.
var revenueShare = decimal.NewFromFloat(0.7)

// RecordImpression appends an impression event when the campaign is
// active with remaining budget; otherwise the event is silently dropped.
// Impressions carry no monetary effect, so nothing here may fail the
// caller: store faults are logged and swallowed.
func (s *AdService) RecordImpression(ctx context.Context, campaignID string, publisherID, keyword *string) {
	campaign, err := s.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		s.logger.Warn("impression: campaign lookup failed",
			slog.String("campaign_id", campaignID), slog.Any("error", err))
		return
	}
	if campaign == nil || !campaign.Servable() {
		return
	}

	imp := &domain.Impression{
		ID:          uuid.NewString(),
		CampaignID:  campaignID,
		PublisherID: publisherID,
		Keyword:     keyword,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.events.AppendImpression(ctx, imp); err != nil {
		s.logger.Warn("impression: event append failed",
			slog.String("campaign_id", campaignID), slog.Any("error", err))
	}
}

// RecordClick performs the monetary click transaction. The conditional
// debit at the store is the commit point: cancellation before it aborts
// cleanly with no charge, and once it succeeds the charge stands even if
// the event append or publisher credit later fail. Two concurrent
// clicks can never both win the last charge's worth of budget.
func (s *AdService) RecordClick(ctx context.Context, campaignID string, publisherID *string) (*port.ClickResult, error) {
	campaign, err := s.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, port.ErrCampaignNotFound
	}

	result := &port.ClickResult{
		TargetURL:    campaign.TargetURL,
		AttemptToken: uuid.NewString(),
	}

	if campaign.BudgetRemaining.LessThan(campaign.CPCBid) {
		return result, port.ErrInsufficientBudget
	}
	if campaign.Status == domain.StatusCompleted {
		// Completed is terminal for the ledger even when budget is left
		// (explicit pause via completion). The campaign is known, so the
		// result still carries its target URL for redirection.
		return result, port.ErrCampaignNotFound
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	newRemaining, ok, err := s.campaigns.ConditionalDebit(ctx, campaignID, campaign.CPCBid)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race against a concurrent click; nothing was charged.
		return result, port.ErrInsufficientBudget
	}
	result.BudgetRemaining = newRemaining

	// The debit committed. Post-commit steps run detached from the
	// caller's cancellation so a dropped request cannot lose the click
	// record or the publisher's credit.
	postCtx := context.WithoutCancel(ctx)

	credited := decimal.Zero
	if publisherID != nil {
		credited = campaign.CPCBid.Mul(revenueShare)
		balance, err := s.publishers.AtomicIncrementBalance(postCtx, *publisherID, credited)
		if err != nil {
			if errors.Is(err, port.ErrPublisherNotFound) {
				credited = decimal.Zero
			}
			s.logger.Error("click: publisher credit failed",
				slog.String("campaign_id", campaignID),
				slog.String("publisher_id", *publisherID),
				slog.Any("error", err))
		} else {
			result.PublisherBalance = balance
		}
	}
	result.CreditedAmount = credited

	click := &domain.Click{
		ID:             uuid.NewString(),
		CampaignID:     campaignID,
		PublisherID:    publisherID,
		CreditedAmount: credited,
		AttemptToken:   result.AttemptToken,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.events.AppendClick(postCtx, click); err != nil {
		s.logger.Error("click: event append failed",
			slog.String("campaign_id", campaignID), slog.Any("error", err))
	}

	if !newRemaining.IsPositive() {
		// Exhausted. The transition is idempotent so a second click
		// reaching this branch concurrently is harmless.
		if err := s.campaigns.SetStatus(postCtx, campaignID, domain.StatusCompleted); err != nil {
			s.logger.Error("click: completing exhausted campaign failed",
				slog.String("campaign_id", campaignID), slog.Any("error", err))
		}
	}

	return result, nil
}
