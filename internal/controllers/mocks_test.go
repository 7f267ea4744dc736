package controllers

import (
	"context"
	"donwatch/internal/assets"
	"donwatch/internal/ledger"
	"donwatch/internal/models"
	"donwatch/internal/wallet"
	"donwatch/internal/watch"

	"github.com/shopspring/decimal"
)

// --- local mocks (scoped to controller tests) ---

type mockLedger struct {
	records []models.DonationRecord
}

func (m *mockLedger) All() []models.DonationRecord {
	return append([]models.DonationRecord{}, m.records...)
}
func (m *mockLedger) Len() int { return len(m.records) }
func (m *mockLedger) Latest() (models.DonationRecord, bool) {
	if len(m.records) == 0 {
		return models.DonationRecord{}, false
	}
	return m.records[len(m.records)-1], true
}
func (m *mockLedger) Rank(mode models.RankMode, token string, limit int) ([]models.LeaderboardRow, error) {
	return ledger.Rank(m.records, mode, token, limit)
}

type mockPrices struct {
	snap *models.PriceSnapshot
}

func (m *mockPrices) Snapshot() *models.PriceSnapshot { return m.snap }
func (m *mockPrices) PriceOfLabel(label string) (decimal.Decimal, bool) {
	sym, ok := assets.Normalize(label)
	if !ok {
		return decimal.Zero, false
	}
	return m.snap.Price(sym)
}
func (m *mockPrices) Estimate(label string, amount decimal.Decimal) (decimal.Decimal, bool) {
	p, ok := m.PriceOfLabel(label)
	if !ok {
		return decimal.Zero, false
	}
	return amount.Mul(p).Round(2), true
}

type mockRegistry struct {
	chains []assets.Chain
	calls  int
}

func (m *mockRegistry) All() []assets.Chain {
	m.calls++
	return m.chains
}

type mockWatcher struct {
	started  []watch.StartRequest
	startSt  models.SessionStatus
	startErr error
	status   models.SessionStatus
	err      error
}

func (m *mockWatcher) Start(_ context.Context, req watch.StartRequest) (models.SessionStatus, error) {
	m.started = append(m.started, req)
	return m.startSt, m.startErr
}
func (m *mockWatcher) Status(_, _ string) (models.SessionStatus, error) { return m.status, m.err }
func (m *mockWatcher) Cancel(_, _ string) (models.SessionStatus, error) {
	m.status.Active = false
	return m.status, m.err
}
func (m *mockWatcher) Active() int {
	if m.status.Active {
		return 1
	}
	return 0
}

type mockDonor struct {
	reqs []wallet.DonateRequest
	res  *wallet.Result
	err  error
}

func (m *mockDonor) Donate(_ context.Context, req wallet.DonateRequest) (*wallet.Result, error) {
	m.reqs = append(m.reqs, req)
	return m.res, m.err
}
