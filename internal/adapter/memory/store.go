// Package memory provides in-memory implementations of the store ports.
// They honor the same atomicity contracts as the SQL adapters, so
// concurrency tests against them exercise the real ledger semantics.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contextads/internal/core/domain"
	"contextads/internal/core/port"
)

// Store holds campaigns, publishers and events behind one mutex. The
// mutex is what makes ConditionalDebit and AtomicIncrementBalance
// atomic: check and write happen under the same critical section.
type Store struct {
	mu         sync.RWMutex
	campaigns  map[string]*domain.Campaign
	orderedIDs []string // campaign insertion order, oldest first
	publishers map[string]*domain.Publisher
	impression []domain.Impression
	clicks     []domain.Click

	// failAppends makes event appends fail, for exercising the
	// best-effort paths.
	failAppends bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		campaigns:  make(map[string]*domain.Campaign),
		publishers: make(map[string]*domain.Publisher),
	}
}

// PutCampaign inserts or replaces a campaign. A missing ID is assigned.
func (s *Store) PutCampaign(c domain.Campaign) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if _, exists := s.campaigns[c.ID]; !exists {
		s.orderedIDs = append(s.orderedIDs, c.ID)
	}
	s.campaigns[c.ID] = &c
	return c.ID
}

// PutPublisher inserts or replaces a publisher. A missing ID is assigned.
func (s *Store) PutPublisher(p domain.Publisher) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.publishers[p.ID] = &p
	return p.ID
}

// FailAppends toggles event-append failures.
func (s *Store) FailAppends(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAppends = fail
}

// GetCampaign returns a copy of the campaign or (nil, nil) when absent.
func (s *Store) GetCampaign(_ context.Context, id string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// ListCampaigns returns campaigns passing the filter, most recent first.
func (s *Store) ListCampaigns(_ context.Context, filter port.StatusFilter, requireBudget bool) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter = filter.Normalize()
	out := make([]domain.Campaign, 0, len(s.orderedIDs))
	for i := len(s.orderedIDs) - 1; i >= 0; i-- {
		c := s.campaigns[s.orderedIDs[i]]
		if filter != port.FilterAll && c.Status != domain.CampaignStatus(filter) {
			continue
		}
		if requireBudget && !c.BudgetRemaining.IsPositive() {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

// ConditionalDebit decrements budget_remaining iff it still covers the
// amount. The returned bool reports whether the debit applied.
func (s *Store) ConditionalDebit(_ context.Context, id string, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return decimal.Zero, false, port.ErrCampaignNotFound
	}
	if c.Status == domain.StatusCompleted || c.BudgetRemaining.LessThan(amount) {
		return c.BudgetRemaining, false, nil
	}
	c.BudgetRemaining = c.BudgetRemaining.Sub(amount)
	c.UpdatedAt = time.Now().UTC()
	return c.BudgetRemaining, true, nil
}

// SetStatus transitions the campaign status. Idempotent; unknown ids
// are an error.
func (s *Store) SetStatus(_ context.Context, id string, status domain.CampaignStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return port.ErrCampaignNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// GetByAPIKey resolves an API key, returning (nil, nil) when unknown.
func (s *Store) GetByAPIKey(_ context.Context, apiKey string) (*domain.Publisher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.publishers {
		if p.APIKey == apiKey {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// AtomicIncrementBalance adds amount to the publisher balance under the
// store lock and returns the result.
func (s *Store) AtomicIncrementBalance(_ context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.publishers[id]
	if !ok {
		return decimal.Zero, port.ErrPublisherNotFound
	}
	p.Balance = p.Balance.Add(amount)
	return p.Balance, nil
}

// GetPublisher returns a copy of the publisher, for assertions.
func (s *Store) GetPublisher(id string) (*domain.Publisher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.publishers[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func (s *Store) AppendImpression(_ context.Context, imp *domain.Impression) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppends {
		return errors.Join(port.ErrStoreUnavailable, errors.New("append disabled"))
	}
	s.impression = append(s.impression, *imp)
	return nil
}

func (s *Store) AppendClick(_ context.Context, click *domain.Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppends {
		return errors.Join(port.ErrStoreUnavailable, errors.New("append disabled"))
	}
	s.clicks = append(s.clicks, *click)
	return nil
}

// Stats aggregates events within the period.
func (s *Store) Stats(_ context.Context, req port.StatsReq) (*port.StatsResp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := &port.StatsResp{Credited: decimal.Zero}
	for i := range s.impression {
		if inPeriod(s.impression[i].CreatedAt, req) && matchesCampaign(s.impression[i].CampaignID, req) {
			resp.Impressions++
		}
	}
	for i := range s.clicks {
		if inPeriod(s.clicks[i].CreatedAt, req) && matchesCampaign(s.clicks[i].CampaignID, req) {
			resp.Clicks++
			resp.Credited = resp.Credited.Add(s.clicks[i].CreditedAmount)
		}
	}
	return resp, nil
}

// Impressions returns a snapshot of recorded impressions, for assertions.
func (s *Store) Impressions() []domain.Impression {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Impression, len(s.impression))
	copy(out, s.impression)
	return out
}

// Clicks returns a snapshot of recorded clicks, for assertions.
func (s *Store) Clicks() []domain.Click {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Click, len(s.clicks))
	copy(out, s.clicks)
	return out
}

func inPeriod(t time.Time, req port.StatsReq) bool {
	return !t.Before(req.From) && !t.After(req.To)
}

func matchesCampaign(id string, req port.StatsReq) bool {
	return req.CampaignID == nil || *req.CampaignID == id
}
