package ledger

import (
	"donwatch/internal/models"
	"donwatch/internal/providers"
	"donwatch/internal/storage"
	"donwatch/internal/structures"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource values an asset label at the current snapshot.
type PriceSource interface {
	PriceOfLabel(label string) (decimal.Decimal, bool)
}

// Ledger is the append-only list of confirmed donations. Every append is
// written through to disk; a failed write is logged and the record is kept.
type Ledger struct {
	mu      sync.RWMutex
	records []models.DonationRecord
	latest  *models.DonationRecord

	prices  PriceSource
	store   storage.Store
	path    string
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewLedger(conf *structures.Config, prices PriceSource, store storage.Store, logger providers.Logger, metrics providers.MetricsProviderInterface) *Ledger {
	return &Ledger{
		prices:  prices,
		store:   store,
		path:    conf.Persistence.LedgerPath,
		logger:  logger,
		metrics: metrics,
	}
}

// Append stamps the record with its USD value at the current price and stores
// it. The usd field is absent when no price is known.
func (l *Ledger) Append(rec models.DonationRecord) models.DonationRecord {
	rec.DonorName = models.DonorOrAnonymous(rec.DonorName)
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	rec.USDValue = nil
	if price, ok := l.prices.PriceOfLabel(rec.AssetSymbol); ok {
		usd := rec.Amount.Mul(price).Round(2)
		rec.USDValue = &usd
	}

	l.mu.Lock()
	l.records = append(l.records, rec)
	latest := rec
	l.latest = &latest
	size := len(l.records)
	err := l.saveLocked()
	l.mu.Unlock()

	if err != nil {
		l.logger.Errorf(providers.TypeApp, "Error while persisting ledger: %s", err)
	}
	l.metrics.IncDonations(string(rec.Method))
	l.metrics.SetLedgerSize(size)
	l.logger.Infof(providers.TypeApp, "Recorded %s %s donation from %s on %s", rec.Amount, rec.AssetSymbol, rec.DonorName, rec.ChainName)

	return rec
}

func (l *Ledger) saveLocked() error {
	return l.store.Save(l.path, models.LedgerFile{
		Version:   models.LedgerVersion,
		Donations: l.records,
		Latest:    l.latest,
	})
}

// All returns a copy of every record in insertion order.
func (l *Ledger) All() []models.DonationRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.DonationRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) Latest() (models.DonationRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.latest == nil {
		return models.DonationRecord{}, false
	}
	return *l.latest, true
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Restore loads the persisted ledger. A missing file leaves the ledger empty.
func (l *Ledger) Restore() error {
	var file models.LedgerFile
	ok, err := l.store.Load(l.path, &file)
	if err != nil || !ok {
		return err
	}

	l.mu.Lock()
	l.records = file.Donations
	l.latest = file.Latest
	if l.latest == nil && len(l.records) > 0 {
		last := l.records[len(l.records)-1]
		l.latest = &last
	}
	size := len(l.records)
	l.mu.Unlock()

	l.metrics.SetLedgerSize(size)
	l.logger.Infof(providers.TypeApp, "Restored %d donations from %s", size, l.path)
	return nil
}

func (l *Ledger) Persist() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveLocked()
}
