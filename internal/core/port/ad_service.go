package port

import (
	"context"

	"github.com/shopspring/decimal"

	"contextads/internal/core/domain"
)

// AdService defines the business operations exposed by the serving core.
// This is the only surface the HTTP layer calls.
type AdService interface {
	// FindAds returns ranked ads matching the keywords. The result may
	// be served from the query cache; staleness is bounded by the cache
	// TTL. ErrMissingKeywords is returned when no keyword survives
	// normalization.
	FindAds(ctx context.Context, keywords []string, filter StatusFilter) ([]AdResult, error)

	// ListAds returns every campaign passing the status filter, ranked
	// the same way, without keyword matching. Used by bulk feed
	// consumers.
	ListAds(ctx context.Context, filter StatusFilter) ([]AdResult, error)

	// RecordImpression appends an impression event if the campaign is
	// active with remaining budget, and silently drops it otherwise.
	// It never fails the caller: event-log faults are logged and
	// swallowed.
	RecordImpression(ctx context.Context, campaignID string, publisherID, keyword *string)

	// RecordClick performs the click transaction: conditional budget
	// debit, best-effort click event, atomic publisher credit, and the
	// completed transition on exhaustion. On ErrInsufficientBudget the
	// returned result still carries the campaign's TargetURL so the
	// caller can redirect somewhere sensible.
	RecordClick(ctx context.Context, campaignID string, publisherID *string) (*ClickResult, error)

	// LookupPublisher resolves an API key to a publisher. Returns
	// ErrPublisherNotFound for unknown keys.
	LookupPublisher(ctx context.Context, apiKey string) (*domain.Publisher, error)

	// Stats aggregates impressions, clicks and credited amounts for the
	// given period and optional campaign.
	Stats(ctx context.Context, req StatsReq) (*StatsResp, error)
}

// AdResult is the DTO returned to the caller for each served ad. The
// tracking keys are opaque identifiers the HTTP layer turns into
// callback URLs.
type AdResult struct {
	ID              string
	Title           string
	Message         string
	ImageURL        *string
	TargetURL       string
	CPCBid          decimal.Decimal
	BudgetTotal     decimal.Decimal
	BudgetRemaining decimal.Decimal
	Status          domain.CampaignStatus
	Keywords        []string
	ImpressionKey   string
	ClickKey        string
}

// ClickResult is the outcome of a click transaction. AttemptToken
// identifies this attempt on the click event so an ambiguous retry can
// be detected in the log.
type ClickResult struct {
	TargetURL        string
	CreditedAmount   decimal.Decimal
	BudgetRemaining  decimal.Decimal
	PublisherBalance decimal.Decimal
	AttemptToken     string
}
