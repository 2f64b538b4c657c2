// Package prinzip talks to the public Prinzip listings API.
package prinzip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://prinzip.su"

// Pretend to be a browser in case of bot protection.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ErrNoFullPrice means the listing payload carried no full-payment pricing
// variant, so there is no canonical price to report.
var ErrNoFullPrice = errors.New("no full-payment pricing variant")

// Listing is the normalized state of one apartment as fetched from the
// source. Price is the full-payment (non-financed) price.
type Listing struct {
	ID     int
	Price  decimal.Decimal
	Status string
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client against baseURL, or the public Prinzip API if
// baseURL is empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// The full payload is much larger; only these fields are used.
type apartmentResponse struct {
	ID       int            `json:"id"`
	Status   string         `json:"status"`
	Pricings []pricingEntry `json:"pricings"`
}

type pricingEntry struct {
	PaymentMethod string `json:"payment_method"`
	Price         string `json:"price"`
}

// Fetch returns the current price and status for one apartment. The price is
// taken from the pricing variant with payment_method "full"; if the source
// offers no such variant the fetch fails rather than guessing.
func (c *Client) Fetch(ctx context.Context, id int) (Listing, error) {
	apiURL := fmt.Sprintf("%s/api/v1/public/apartments/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return Listing{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Listing{}, fmt.Errorf("fetch apartment %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Listing{}, fmt.Errorf("fetch apartment %d: unexpected status %d", id, resp.StatusCode)
	}

	var dto apartmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return Listing{}, fmt.Errorf("decode apartment %d: %w", id, err)
	}

	for _, p := range dto.Pricings {
		if p.PaymentMethod != "full" {
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return Listing{}, fmt.Errorf("apartment %d: parse price %q: %w", id, p.Price, err)
		}
		return Listing{ID: dto.ID, Price: price, Status: dto.Status}, nil
	}

	return Listing{}, fmt.Errorf("apartment %d: %w", id, ErrNoFullPrice)
}

// Matches a trailing numeric path segment, e.g.
// https://prinzip.su/apartments/park_kultury/67959/
// https://prinzip.su/apartments/67959
// /apartments/67959/
var idPattern = regexp.MustCompile(`/(\d+)/?$`)

// ExtractID pulls the numeric apartment id out of a user-supplied listing
// URL. Used at subscription time only, never during sweeps.
func (c *Client) ExtractID(rawURL string) (int, bool) {
	m := idPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
