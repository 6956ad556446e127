package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Publisher is an inventory holder credited a revenue share per click it
// refers. The APIKey is an opaque bearer credential used by integrations.
type Publisher struct {
	ID        string
	Name      string
	APIKey    string
	Balance   decimal.Decimal
	CreatedAt time.Time
}
