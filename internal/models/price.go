package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot holds USD prices fetched together in one provider call.
type PriceSnapshot struct {
	FetchedAt time.Time                  `json:"fetchedAt"`
	Prices    map[string]decimal.Decimal `json:"prices"`
}

func (p *PriceSnapshot) Price(symbol string) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	v, ok := p.Prices[symbol]
	return v, ok
}
