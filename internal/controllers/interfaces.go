package controllers

import (
	"context"
	"donwatch/internal/assets"
	"donwatch/internal/models"
	"donwatch/internal/wallet"
	"donwatch/internal/watch"

	"github.com/shopspring/decimal"
)

type LedgerReader interface {
	All() []models.DonationRecord
	Latest() (models.DonationRecord, bool)
	Len() int
	Rank(mode models.RankMode, token string, limit int) ([]models.LeaderboardRow, error)
}

type PriceReader interface {
	Snapshot() *models.PriceSnapshot
	PriceOfLabel(label string) (decimal.Decimal, bool)
	Estimate(label string, amount decimal.Decimal) (decimal.Decimal, bool)
}

type ChainLister interface {
	All() []assets.Chain
}

type Watcher interface {
	Start(ctx context.Context, req watch.StartRequest) (models.SessionStatus, error)
	Status(chain, asset string) (models.SessionStatus, error)
	Cancel(chain, asset string) (models.SessionStatus, error)
	Active() int
}

type Donor interface {
	Donate(ctx context.Context, req wallet.DonateRequest) (*wallet.Result, error)
}
