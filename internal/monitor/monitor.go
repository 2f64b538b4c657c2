// Package monitor implements the periodic sweep over the watch-list:
// fetch fresh state per subscription, detect changes against the stored
// baseline, dispatch notifications and persist the new baseline.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/valeevte/FlatWatch/internal/notify"
	"github.com/valeevte/FlatWatch/internal/prinzip"
	"github.com/valeevte/FlatWatch/internal/stats"
	"github.com/valeevte/FlatWatch/internal/subscriptions"
)

// Store is the watch-list access the monitor needs. The monitor only updates
// baseline fields; it never creates or deletes subscriptions.
type Store interface {
	LoadAll(ctx context.Context) ([]subscriptions.Subscription, error)
	SaveBaselines(ctx context.Context, subs []subscriptions.Subscription) error
}

// Provider fetches current listing state from the external source.
type Provider interface {
	Fetch(ctx context.Context, apartmentID int) (prinzip.Listing, error)
}

type Monitor struct {
	cfg      Config
	newStore func() Store
	provider Provider
	notifier notify.Notifier
	sweeps   *stats.Counter
	checks   *stats.Counter
	now      func() time.Time
}

// New builds a monitor. newStore is invoked once per sweep so the store
// handle is always freshly acquired rather than held open for the process
// lifetime.
func New(cfg Config, newStore func() Store, provider Provider, notifier notify.Notifier, sweeps, checks *stats.Counter) *Monitor {
	return &Monitor{
		cfg:      cfg,
		newStore: newStore,
		provider: provider,
		notifier: notifier,
		sweeps:   sweeps,
		checks:   checks,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled. After the startup delay it alternates
// sweeps with the check interval sleep. A failed sweep is logged and the
// loop continues; only cancellation ends it.
func (m *Monitor) Run(ctx context.Context) {
	log.Printf("monitor: started, check interval %v", m.cfg.CheckInterval)

	if !sleepCtx(ctx, m.cfg.StartupDelay) {
		log.Println("monitor: stopping due to context cancelled")
		return
	}

	for {
		if err := m.sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("monitor: sweep failed: %v", err)
		}
		if !sleepCtx(ctx, m.cfg.CheckInterval) {
			log.Println("monitor: stopping due to context cancelled")
			return
		}
	}
}

// checkResult is the explicit per-item outcome consumed by the sweep loop.
type checkResult struct {
	updated bool
	err     error
}

// sweep runs one full pass over the watch-list. Items are processed
// sequentially in store order; one item's failure never aborts the pass.
// Adopted baselines are persisted in a single batch at the end.
func (m *Monitor) sweep(ctx context.Context) error {
	store := m.newStore()

	subs, err := store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load watch-list: %w", err)
	}
	if len(subs) == 0 {
		log.Println("monitor: no subscriptions to check")
		return nil
	}
	log.Printf("monitor: checking %d subscriptions", len(subs))

	var dirty []subscriptions.Subscription
	for i := range subs {
		if ctx.Err() != nil {
			break
		}
		res := m.checkOne(ctx, &subs[i])
		if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
			break
		}
		m.checks.Add(1)
		if res.err != nil {
			log.Printf("monitor: subscription %d: %v", subs[i].ID, res.err)
			continue
		}
		if res.updated {
			dirty = append(dirty, subs[i])
		}
	}

	if len(dirty) > 0 {
		if err := store.SaveBaselines(ctx, dirty); err != nil {
			return fmt.Errorf("save baselines: %w", err)
		}
	}

	m.sweeps.Add(1)
	log.Println("monitor: sweep complete")
	return nil
}

// checkOne paces, fetches and compares a single subscription, dispatching
// events and adopting the new baseline in memory. The subscription is left
// untouched on failure.
func (m *Monitor) checkOne(ctx context.Context, sub *subscriptions.Subscription) checkResult {
	if !sleepCtx(ctx, m.cfg.PacingDelay) {
		return checkResult{err: ctx.Err()}
	}

	fetched, err := m.provider.Fetch(ctx, sub.ApartmentID)
	if err != nil {
		return checkResult{err: fmt.Errorf("fetch apartment %d: %w", sub.ApartmentID, err)}
	}

	v := Compare(sub.LastPrice, sub.LastStatus, fetched)

	if v.PriceChanged {
		log.Printf("monitor: subscription %d price changed: %s -> %s",
			sub.ID, sub.LastPrice, fetched.Price)
		m.dispatch(ctx, notify.Event{
			ID:             uuid.New(),
			SubscriptionID: sub.ID,
			Email:          sub.Email,
			URL:            sub.URL,
			Kind:           notify.KindPriceChanged,
			OldPrice:       sub.LastPrice,
			NewPrice:       fetched.Price,
			At:             m.now(),
		})
	}
	if v.StatusChanged {
		log.Printf("monitor: subscription %d status changed: %q -> %q",
			sub.ID, sub.LastStatus, fetched.Status)
		m.dispatch(ctx, notify.Event{
			ID:             uuid.New(),
			SubscriptionID: sub.ID,
			Email:          sub.Email,
			URL:            sub.URL,
			Kind:           notify.KindStatusChanged,
			OldStatus:      sub.LastStatus,
			NewStatus:      fetched.Status,
			At:             m.now(),
		})
	}

	if v.PriceChanged || v.PriceBootstrapped {
		sub.LastPrice = fetched.Price
	}
	if v.StatusChanged || v.StatusBootstrapped {
		sub.LastStatus = fetched.Status
	}
	if !v.Dirty() {
		return checkResult{}
	}
	sub.LastCheckedAt = m.now().UTC()
	return checkResult{updated: true}
}

// dispatch delivers one event. Delivery failure is logged and never blocks
// baseline adoption.
func (m *Monitor) dispatch(ctx context.Context, ev notify.Event) {
	if err := m.notifier.Notify(ctx, ev); err != nil {
		log.Printf("monitor: notify subscription %d: %v", ev.SubscriptionID, err)
	}
}

// sleepCtx waits for d or until ctx is cancelled. It reports whether the
// full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
