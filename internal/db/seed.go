package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo campaigns and publishers for local development.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	advertiserID := uuid.NewString()

	campaigns := []struct {
		title    string
		message  string
		target   string
		keywords []string
		bid      string
		budget   string
	}{
		{
			title:    "Best Car Marketplace",
			message:  "Find your next car from thousands of verified listings.",
			target:   "https://cars.example.com",
			keywords: []string{"cars", "auto", "vehicle"},
			bid:      "0.50", budget: "100.00",
		},
		{
			title:    "Tissot Watches Sale",
			message:  "Swiss watches up to 40% off this week only.",
			target:   "https://watches.example.com",
			keywords: []string{"tissot", "swiss watch"},
			bid:      "2.00", budget: "500.00",
		},
		{
			title:    "Cloud Hosting Deals",
			message:  "Deploy your app in seconds on managed infrastructure.",
			target:   "https://hosting.example.com",
			keywords: []string{"hosting", "cloud", "vps"},
			bid:      "1.00", budget: "250.00",
		},
	}

	for _, c := range campaigns {
		_, err := pool.Exec(ctx, `
			INSERT INTO campaigns
			    (advertiser_id, title, message, target_url, keywords,
			     cpc_bid, budget_total, budget_remaining, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7, 'active')
			ON CONFLICT DO NOTHING`,
			advertiserID, c.title, c.message, c.target, c.keywords, c.bid, c.budget)
		if err != nil {
			return fmt.Errorf("seed campaign %q: %w", c.title, err)
		}
	}

	for i := 1; i <= 2; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO publishers (name, api_key, balance)
			VALUES ($1, $2, 0)
			ON CONFLICT DO NOTHING`,
			fmt.Sprintf("Demo Publisher %d", i), fmt.Sprintf("pub-demo-key-%d", i))
		if err != nil {
			return fmt.Errorf("seed publisher %d: %w", i, err)
		}
	}
	return nil
}
