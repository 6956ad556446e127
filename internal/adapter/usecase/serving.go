package usecase

import (
	"context"
	"log/slog"
	"time"

	"contextads/internal/core/domain"
	"contextads/internal/core/port"
)

// AdService implements port.AdService. It composes the query cache and
// the matcher on the read path and the ledger on the write path. Stores
// are injected; there is no process-wide state beyond the cache.
type AdService struct {
	campaigns  port.CampaignStore
	publishers port.PublisherStore
	events     port.EventLog
	cache      *queryCache
	logger     *slog.Logger
}

// Option configures an AdService.
type Option func(*AdService)

// WithCache overrides the default query cache bounds.
func WithCache(size int, ttl time.Duration) Option {
	return func(s *AdService) {
		s.cache = newQueryCache(size, ttl)
	}
}

// NewAdService creates the serving facade. A nil logger falls back to
// slog.Default.
func NewAdService(campaigns port.CampaignStore, publishers port.PublisherStore, events port.EventLog, logger *slog.Logger, opts ...Option) *AdService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AdService{
		campaigns:  campaigns,
		publishers: publishers,
		events:     events,
		cache:      newQueryCache(DefaultCacheSize, DefaultCacheTTL),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindAds returns ranked ads matching the keywords, serving repeated
// identical queries from the cache for up to its TTL.
func (s *AdService) FindAds(ctx context.Context, keywords []string, filter port.StatusFilter) ([]port.AdResult, error) {
	norm := normalizeKeywords(keywords)
	if len(norm) == 0 {
		return nil, port.ErrMissingKeywords
	}

	key := cacheKey(norm, filter)
	if ads, ok := s.cache.get(key); ok {
		return ads, nil
	}

	campaigns, err := s.campaigns.ListCampaigns(ctx, filter, filter.RequiresBudget())
	if err != nil {
		return nil, err
	}

	matched := campaigns[:0]
	for i := range campaigns {
		if matchesKeywords(&campaigns[i], norm) {
			matched = append(matched, campaigns[i])
		}
	}
	rankByBid(matched)

	ads := toAdResults(matched)
	s.cache.set(key, ads)
	return ads, nil
}

// ListAds returns every campaign passing the status filter without
// keyword matching, ranked the same way. Results are cached under the
// filter alone.
func (s *AdService) ListAds(ctx context.Context, filter port.StatusFilter) ([]port.AdResult, error) {
	key := cacheKey(nil, filter)
	if ads, ok := s.cache.get(key); ok {
		return ads, nil
	}

	campaigns, err := s.campaigns.ListCampaigns(ctx, filter, filter.RequiresBudget())
	if err != nil {
		return nil, err
	}
	rankByBid(campaigns)

	ads := toAdResults(campaigns)
	s.cache.set(key, ads)
	return ads, nil
}

// InvalidateCache drops all cached query results. Callers use it when
// budget state changes must become visible before the TTL elapses.
func (s *AdService) InvalidateCache() {
	s.cache.clear()
}

// LookupPublisher resolves an opaque API key to a publisher.
func (s *AdService) LookupPublisher(ctx context.Context, apiKey string) (*domain.Publisher, error) {
	pub, err := s.publishers.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, port.ErrPublisherNotFound
	}
	return pub, nil
}

// Stats aggregates events for the reporting period.
func (s *AdService) Stats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	return s.events.Stats(ctx, req)
}

func toAdResults(campaigns []domain.Campaign) []port.AdResult {
	ads := make([]port.AdResult, 0, len(campaigns))
	for i := range campaigns {
		c := &campaigns[i]
		ads = append(ads, port.AdResult{
			ID:              c.ID,
			Title:           c.Title,
			Message:         c.Message,
			ImageURL:        c.ImageURL,
			TargetURL:       c.TargetURL,
			CPCBid:          c.CPCBid,
			BudgetTotal:     c.BudgetTotal,
			BudgetRemaining: c.BudgetRemaining,
			Status:          c.Status,
			Keywords:        c.Keywords,
			ImpressionKey:   c.ID,
			ClickKey:        c.ID,
		})
	}
	return ads
}
