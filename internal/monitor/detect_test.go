package monitor

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/valeevte/FlatWatch/internal/prinzip"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name       string
		prevPrice  string
		prevStatus string
		price      string
		status     string
		want       Verdict
	}{
		{
			name:      "identical state produces nothing",
			prevPrice: "1000", prevStatus: "Available",
			price: "1000", status: "Available",
			want: Verdict{},
		},
		{
			name:      "price drop fires a change",
			prevPrice: "1000", prevStatus: "Available",
			price: "950", status: "Available",
			want: Verdict{PriceChanged: true},
		},
		{
			name:      "price rise fires a change",
			prevPrice: "1000", prevStatus: "Available",
			price: "1200.50", status: "Available",
			want: Verdict{PriceChanged: true},
		},
		{
			name:      "equality is exact, trailing zeros do not matter",
			prevPrice: "1000", prevStatus: "Available",
			price: "1000.00", status: "Available",
			want: Verdict{},
		},
		{
			name:      "never-observed price bootstraps silently",
			prevPrice: "0", prevStatus: "Available",
			price: "2500000", status: "Available",
			want: Verdict{PriceBootstrapped: true},
		},
		{
			name:      "sentinel bootstraps even when the fetched price is zero",
			prevPrice: "0", prevStatus: "Available",
			price: "0", status: "Available",
			want: Verdict{PriceBootstrapped: true},
		},
		{
			name:      "empty fetched status is ignored",
			prevPrice: "1000", prevStatus: "Available",
			price: "1000", status: "",
			want: Verdict{},
		},
		{
			name:      "status change fires",
			prevPrice: "1000", prevStatus: "Available",
			price: "1000", status: "Reserved",
			want: Verdict{StatusChanged: true},
		},
		{
			name:      "first status observation bootstraps silently",
			prevPrice: "1000", prevStatus: "",
			price: "1000", status: "Reserved",
			want: Verdict{StatusBootstrapped: true},
		},
		{
			name:      "fully unobserved item bootstraps both fields",
			prevPrice: "0", prevStatus: "",
			price: "2500000", status: "Reserved",
			want: Verdict{PriceBootstrapped: true, StatusBootstrapped: true},
		},
		{
			name:      "price and status change together",
			prevPrice: "1000", prevStatus: "Available",
			price: "950", status: "Reserved",
			want: Verdict{PriceChanged: true, StatusChanged: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetched := prinzip.Listing{Price: dec(t, tt.price), Status: tt.status}
			got := Compare(dec(t, tt.prevPrice), tt.prevStatus, fetched)
			if got != tt.want {
				t.Fatalf("Compare() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestVerdictDirty(t *testing.T) {
	if (Verdict{}).Dirty() {
		t.Fatal("zero verdict must not be dirty")
	}
	for _, v := range []Verdict{
		{PriceChanged: true},
		{PriceBootstrapped: true},
		{StatusChanged: true},
		{StatusBootstrapped: true},
	} {
		if !v.Dirty() {
			t.Fatalf("%+v must be dirty", v)
		}
	}
}
