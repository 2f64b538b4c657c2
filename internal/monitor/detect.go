package monitor

import (
	"github.com/shopspring/decimal"

	"github.com/valeevte/FlatWatch/internal/prinzip"
)

// Verdict is the outcome of comparing a stored baseline against freshly
// fetched state. Changed fields carry a notification; bootstrapped fields
// are adopted silently as the first real observation.
type Verdict struct {
	PriceChanged       bool
	PriceBootstrapped  bool
	StatusChanged      bool
	StatusBootstrapped bool
}

// Dirty reports whether any baseline field should be adopted.
func (v Verdict) Dirty() bool {
	return v.PriceChanged || v.PriceBootstrapped || v.StatusChanged || v.StatusBootstrapped
}

// Compare decides what changed between a stored baseline and a fetch.
//
// A zero previous price is the "never observed" sentinel: the fetched price
// is adopted without an event. An empty previous status gets the same
// treatment. An empty fetched status means the source did not report one
// and is ignored entirely. Price comparison is exact decimal equality.
func Compare(prevPrice decimal.Decimal, prevStatus string, fetched prinzip.Listing) Verdict {
	var v Verdict

	switch {
	case prevPrice.IsZero():
		v.PriceBootstrapped = true
	case !fetched.Price.Equal(prevPrice):
		v.PriceChanged = true
	}

	if fetched.Status != "" && fetched.Status != prevStatus {
		if prevStatus == "" {
			v.StatusBootstrapped = true
		} else {
			v.StatusChanged = true
		}
	}

	return v
}
