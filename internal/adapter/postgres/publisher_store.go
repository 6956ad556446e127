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

// PublisherStore implements port.PublisherStore using pgxpool.
type PublisherStore struct {
	pool *pgxpool.Pool
}

// NewPublisherStore returns a new store instance.
func NewPublisherStore(pool *pgxpool.Pool) *PublisherStore {
	return &PublisherStore{pool: pool}
}

// GetByAPIKey resolves an opaque API key, returning (nil, nil) when no
// publisher holds it.
func (s *PublisherStore) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Publisher, error) {
	var (
		p          domain.Publisher
		balanceStr string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, api_key, balance::text, created_at
		FROM publishers WHERE api_key = $1`, apiKey).
		Scan(&p.ID, &p.Name, &p.APIKey, &balanceStr, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra("get publisher by api key", err)
	}
	if p.Balance, err = decimal.NewFromString(balanceStr); err != nil {
		return nil, fmt.Errorf("parse publisher balance: %w", err)
	}
	return &p, nil
}

// AtomicIncrementBalance credits the publisher in a single increment
// UPDATE so concurrent credits to the same publisher are never lost.
func (s *PublisherStore) AtomicIncrementBalance(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	var balanceStr string
	err := s.pool.QueryRow(ctx, `
		UPDATE publishers SET balance = balance + $2 WHERE id = $1
		RETURNING balance::text`,
		id, amount.String()).Scan(&balanceStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, port.ErrPublisherNotFound
	}
	if err != nil {
		return decimal.Zero, infra("increment balance", err)
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse publisher balance: %w", err)
	}
	return balance, nil
}
