package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const AnonymousDonor = "Anonymous"

type Method string

const (
	MethodWallet      Method = "wallet"
	MethodManualWatch Method = "manual"
)

// DonationRecord is immutable once appended. USDValue is the amount priced at
// record time and is never recomputed.
type DonationRecord struct {
	DonorName   string           `json:"name"`
	AssetSymbol string           `json:"token"`
	ChainName   string           `json:"chain"`
	Amount      decimal.Decimal  `json:"amount"`
	USDValue    *decimal.Decimal `json:"usd,omitempty"`
	TxReference string           `json:"txHash,omitempty"`
	Method      Method           `json:"method"`
	RecordedAt  time.Time        `json:"ts"`
}

func DonorOrAnonymous(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return AnonymousDonor
	}
	return name
}
