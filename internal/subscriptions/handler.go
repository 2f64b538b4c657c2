package subscriptions

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/valeevte/FlatWatch/internal/prinzip"
)

// Store is what the HTTP handlers need from the repository.
type Store interface {
	Insert(ctx context.Context, s *Subscription) (int, error)
	List(ctx context.Context) ([]Subscription, error)
	FindByApartmentAndEmail(ctx context.Context, apartmentID int, email string) (*Subscription, error)
	Delete(ctx context.Context, id int) error
}

// Prober resolves and probe-fetches a listing at subscription time.
type Prober interface {
	ExtractID(rawURL string) (int, bool)
	Fetch(ctx context.Context, id int) (prinzip.Listing, error)
}

type Handler struct {
	store    Store
	provider Prober
}

func NewHandler(store Store, provider Prober) *Handler {
	return &Handler{store: store, provider: provider}
}

// Subscribe creates a watch on a listing URL. The listing is fetched once
// up front so the subscription starts with a real baseline.
func (h *Handler) Subscribe(c *gin.Context) {
	rawURL := c.Query("url")
	email := c.Query("email")
	if strings.TrimSpace(rawURL) == "" || strings.TrimSpace(email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url and email are required"})
		return
	}

	apartmentID, ok := h.provider.ExtractID(rawURL)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not extract apartment id from url"})
		return
	}

	ctx := c.Request.Context()

	listing, err := h.provider.Fetch(ctx, apartmentID)
	if err != nil {
		log.Printf("Subscribe: probe fetch for apartment %d: %v", apartmentID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "apartment not found or source unavailable"})
		return
	}

	existing, err := h.store.FindByApartmentAndEmail(ctx, apartmentID, email)
	if err != nil && !IsNotFound(err) {
		log.Printf("Subscribe: store.FindByApartmentAndEmail error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check existing subscriptions"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":           "subscription already exists",
			"subscription_id": existing.ID,
		})
		return
	}

	sub := &Subscription{
		URL:           rawURL,
		ApartmentID:   apartmentID,
		Email:         email,
		LastPrice:     listing.Price,
		LastStatus:    listing.Status,
		LastCheckedAt: time.Now().UTC(),
	}
	id, err := h.store.Insert(ctx, sub)
	if err != nil {
		log.Printf("Subscribe: store.Insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscription"})
		return
	}

	log.Printf("Subscribe: created subscription %d for apartment %d (%s)", id, apartmentID, email)

	c.JSON(http.StatusOK, gin.H{
		"message":         "subscription created",
		"subscription_id": id,
		"apartment_id":    apartmentID,
		"current_price":   listing.Price,
		"current_status":  listing.Status,
	})
}

// ListPrices returns every subscription with its last-known price and status.
func (h *Handler) ListPrices(c *gin.Context) {
	ctx := c.Request.Context()
	subs, err := h.store.List(ctx)
	if err != nil {
		log.Printf("ListPrices: store.List error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscriptions"})
		return
	}

	type entry struct {
		ID            int       `json:"id"`
		ApartmentID   int       `json:"apartment_id"`
		URL           string    `json:"url"`
		Email         string    `json:"email"`
		CurrentPrice  string    `json:"current_price"`
		CurrentStatus string    `json:"current_status"`
		LastChecked   time.Time `json:"last_checked"`
	}
	res := make([]entry, 0, len(subs))
	for _, s := range subs {
		res = append(res, entry{
			ID:            s.ID,
			ApartmentID:   s.ApartmentID,
			URL:           s.URL,
			Email:         s.Email,
			CurrentPrice:  s.LastPrice.String(),
			CurrentStatus: s.LastStatus,
			LastChecked:   s.LastCheckedAt,
		})
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx := c.Request.Context()
	if err := h.store.Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		log.Printf("Delete: store.Delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subscription"})
		return
	}
	log.Printf("Delete: removed subscription %d", id)
	c.JSON(http.StatusOK, gin.H{"message": "subscription deleted"})
}
