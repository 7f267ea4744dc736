package ledger

import (
	"donwatch/internal/models"
	"fmt"
	"time"
)

// Receipt is the human-readable summary of the most recent donation.
type Receipt struct {
	Record models.DonationRecord `json:"record"`
	Lines  []string              `json:"lines"`
}

// BuildReceipt prefers the usd value stamped at record time and falls back to
// the current price, then to N/A.
func BuildReceipt(rec models.DonationRecord, prices PriceSource) Receipt {
	usdLine := "USD Approx: N/A"
	if rec.USDValue != nil {
		usdLine = "USD Approx: $" + rec.USDValue.StringFixed(2)
	} else if price, ok := prices.PriceOfLabel(rec.AssetSymbol); ok {
		usdLine = "USD Approx: $" + rec.Amount.Mul(price).StringFixed(2)
	}

	txLine := "Tx: (manual send)"
	if rec.TxReference != "" {
		txLine = "Tx: " + rec.TxReference
	}

	return Receipt{
		Record: rec,
		Lines: []string{
			"Date: " + rec.RecordedAt.Format(time.RFC1123),
			"Donor: " + models.DonorOrAnonymous(rec.DonorName),
			"Network: " + rec.ChainName,
			"Token: " + rec.AssetSymbol,
			fmt.Sprintf("Amount: %s", rec.Amount),
			usdLine,
			txLine,
		},
	}
}
