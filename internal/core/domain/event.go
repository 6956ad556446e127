package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Impression is a record of an ad being shown. It carries no monetary
// effect. PublisherID and Keyword are nil for integrations without a
// publisher account or keyword context.
type Impression struct {
	ID          string
	CampaignID  string
	PublisherID *string
	Keyword     *string
	CreatedAt   time.Time
}

// Click is a record of a click event. CreditedAmount is the publisher's
// revenue share captured at transaction time, so the ledger stays
// auditable independent of later bid changes. AttemptToken identifies
// the click attempt for retry detection.
type Click struct {
	ID             string
	CampaignID     string
	PublisherID    *string
	CreditedAmount decimal.Decimal
	AttemptToken   string
	CreatedAt      time.Time
}
