package pricing

import (
	"context"
	"donwatch/internal/assets"
	"donwatch/internal/models"
	"donwatch/internal/providers"
	"donwatch/internal/storage"
	"donwatch/internal/structures"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/atomic"
)

// Oracle caches one PriceSnapshot. Refresh is the only writer and swaps the
// whole snapshot; readers never lock and never touch the network.
type Oracle struct {
	source   Source
	store    storage.Store
	path     string
	snapshot atomic.Pointer[models.PriceSnapshot]
	writeMu  sync.Mutex
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewOracle(conf *structures.Config, source Source, store storage.Store, logger providers.Logger, metrics providers.MetricsProviderInterface) *Oracle {
	return &Oracle{
		source:  source,
		store:   store,
		path:    conf.Persistence.PricesPath,
		logger:  logger,
		metrics: metrics,
	}
}

// Refresh fetches all supported prices in one batch. Failures keep the
// previous snapshot and are only logged.
func (o *Oracle) Refresh(ctx context.Context) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	prices, err := o.source.Fetch(ctx, assets.PriceIDs)
	if err != nil {
		o.logger.Debugf(providers.TypePrice, "Price refresh failed: %v", err)
		o.metrics.IncPriceRefresh("failure")
		return
	}
	if len(prices) == 0 {
		o.logger.Debugf(providers.TypePrice, "Price refresh returned no prices, keeping previous snapshot")
		o.metrics.IncPriceRefresh("empty")
		return
	}

	snap := &models.PriceSnapshot{FetchedAt: time.Now().UTC(), Prices: prices}
	o.snapshot.Store(snap)
	o.metrics.IncPriceRefresh("success")
	o.logger.Debugf(providers.TypePrice, "Prices refreshed: %d symbols", len(prices))

	if err := o.store.Save(o.path, snap); err != nil {
		o.logger.Errorf(providers.TypePrice, "Error while persisting prices: %s", err)
	}
}

// Load restores the last persisted snapshot unless a fresher one is already held.
func (o *Oracle) Load() error {
	var snap models.PriceSnapshot
	ok, err := o.store.Load(o.path, &snap)
	if err != nil || !ok || snap.Prices == nil {
		return err
	}
	o.snapshot.CompareAndSwap(nil, &snap)
	o.logger.Infof(providers.TypePrice, "Restored %d prices fetched at %s", len(snap.Prices), snap.FetchedAt.Format(time.RFC3339))
	return nil
}

// Persist writes the current snapshot, if any. It waits for an in-flight
// refresh so the two never write the prices file at once.
func (o *Oracle) Persist() error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	snap := o.snapshot.Load()
	if snap == nil {
		return nil
	}
	return o.store.Save(o.path, snap)
}

// Snapshot returns the current snapshot or nil. Callers must not mutate it.
func (o *Oracle) Snapshot() *models.PriceSnapshot {
	return o.snapshot.Load()
}

func (o *Oracle) PriceOf(symbol string) (decimal.Decimal, bool) {
	return o.snapshot.Load().Price(strings.ToUpper(strings.TrimSpace(symbol)))
}

// PriceOfLabel normalizes a free-text asset label before the lookup.
func (o *Oracle) PriceOfLabel(label string) (decimal.Decimal, bool) {
	sym, ok := assets.Normalize(label)
	if !ok {
		return decimal.Zero, false
	}
	return o.PriceOf(sym)
}

// Estimate values amount of the labelled asset in USD, rounded to cents.
func (o *Oracle) Estimate(label string, amount decimal.Decimal) (decimal.Decimal, bool) {
	price, ok := o.PriceOfLabel(label)
	if !ok {
		return decimal.Zero, false
	}
	return amount.Mul(price).Round(2), true
}
