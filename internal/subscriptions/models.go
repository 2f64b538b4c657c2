package subscriptions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is one user's watch on one apartment listing.
//
// LastPrice zero means "never successfully observed"; the first fetched
// price is adopted silently. A genuinely zero price is indistinguishable
// from the sentinel under this model. Same for an empty LastStatus.
type Subscription struct {
	ID            int             `json:"id"`
	URL           string          `json:"url"`
	ApartmentID   int             `json:"apartment_id"`
	Email         string          `json:"email"`
	LastPrice     decimal.Decimal `json:"last_price"`
	LastStatus    string          `json:"last_status"`
	CreatedAt     time.Time       `json:"created_at"`
	LastCheckedAt time.Time       `json:"last_checked_at"`
}
