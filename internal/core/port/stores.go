package port

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"contextads/internal/core/domain"
)

var (
	// ErrCampaignNotFound is returned when a campaign is absent or no
	// longer eligible for ledger operations (completed campaigns are
	// treated as gone from the serving path).
	ErrCampaignNotFound = errors.New("campaign not found")
	// ErrPublisherNotFound is returned when a publisher id or API key
	// does not resolve to a publisher.
	ErrPublisherNotFound = errors.New("publisher not found")
	// ErrInsufficientBudget is a business condition, not a system fault:
	// the campaign cannot cover one more charge.
	ErrInsufficientBudget = errors.New("insufficient budget")
	// ErrStoreUnavailable marks transient infrastructure faults. Callers
	// may retry once if they can prove the debit did not commit.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrMissingKeywords is returned by FindAds when no usable keyword
	// survives normalization.
	ErrMissingKeywords = errors.New("at least one keyword is required")
)

// StatusFilter narrows campaign listings by status. The zero value
// behaves like FilterActive.
type StatusFilter string

const (
	FilterActive    StatusFilter = "active"
	FilterPaused    StatusFilter = "paused"
	FilterCompleted StatusFilter = "completed"
	FilterAll       StatusFilter = "all"
)

// Normalize maps the zero value to FilterActive and rejects nothing
// else; unknown filters simply match no campaigns.
func (f StatusFilter) Normalize() StatusFilter {
	if f == "" {
		return FilterActive
	}
	return f
}

// RequiresBudget reports whether listings under this filter must also
// have budget remaining. Only the active view hides exhausted campaigns.
func (f StatusFilter) RequiresBudget() bool {
	return f.Normalize() == FilterActive
}

// CampaignStore is the outbound port for campaign persistence.
// Implementations must be concurrency-safe; ConditionalDebit must be a
// single atomic conditional update, never a read-modify-write.
type CampaignStore interface {
	// GetCampaign returns the campaign or (nil, nil) when absent.
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	// ListCampaigns returns campaigns passing the status filter, most
	// recent first. When requireBudget is set, campaigns without
	// remaining budget are excluded.
	ListCampaigns(ctx context.Context, filter StatusFilter, requireBudget bool) ([]domain.Campaign, error)
	// ConditionalDebit decrements budget_remaining by amount iff the
	// stored value still covers it at the moment of the write and the
	// campaign is not completed. It returns the post-debit remaining
	// and whether the debit applied.
	ConditionalDebit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, bool, error)
	// SetStatus transitions the campaign status. Idempotent.
	SetStatus(ctx context.Context, id string, status domain.CampaignStatus) error
}

// PublisherStore is the outbound port for publisher persistence.
type PublisherStore interface {
	// GetByAPIKey resolves an opaque API key, returning (nil, nil) when
	// no publisher holds it.
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Publisher, error)
	// AtomicIncrementBalance adds amount to the publisher balance as a
	// single atomic update and returns the resulting balance. Returns
	// ErrPublisherNotFound for unknown ids.
	AtomicIncrementBalance(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error)
}

// EventLog is the append-only store for impressions and clicks. Append
// failures are surfaced so callers can decide whether they are fatal;
// for the serving path they never are.
type EventLog interface {
	AppendImpression(ctx context.Context, imp *domain.Impression) error
	AppendClick(ctx context.Context, click *domain.Click) error
	// Stats aggregates events for reporting.
	Stats(ctx context.Context, req StatsReq) (*StatsResp, error)
}

// StatsReq selects the reporting period and optionally one campaign.
type StatsReq struct {
	From       time.Time
	To         time.Time
	CampaignID *string
}

// StatsResp contains aggregated event counts and the total amount
// credited to publishers over the period.
type StatsResp struct {
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Credited    decimal.Decimal `json:"credited"`
}
