package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	StatusActive    CampaignStatus = "active"
	StatusPaused    CampaignStatus = "paused"
	StatusCompleted CampaignStatus = "completed"
)

// Campaign represents an advertiser's bid, creative text and budget.
// Monetary fields are decimals to avoid float drift in the ledger.
type Campaign struct {
	ID              string
	AdvertiserID    string
	Title           string
	Message         string
	ImageURL        *string
	TargetURL       string
	Keywords        []string
	CPCBid          decimal.Decimal
	BudgetTotal     decimal.Decimal
	BudgetRemaining decimal.Decimal
	Status          CampaignStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Servable reports whether the campaign may currently be shown: it must
// be active and still have spendable budget.
func (c *Campaign) Servable() bool {
	return c.Status == StatusActive && c.BudgetRemaining.IsPositive()
}
