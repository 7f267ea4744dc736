package ledger

import (
	"donwatch/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildReceipt_StampedUSD(t *testing.T) {
	usd := dec("12.5")
	r := BuildReceipt(models.DonationRecord{DonorName: "A", AssetSymbol: "ETH", Amount: dec("0.005"), USDValue: &usd, TxReference: "0xabc"}, staticPrices{"ETH": dec("9999")})

	assert.Contains(t, r.Lines, "USD Approx: $12.50")
	assert.Contains(t, r.Lines, "Tx: 0xabc")
}

func TestBuildReceipt_FallsBackToCurrentPrice(t *testing.T) {
	r := BuildReceipt(models.DonationRecord{AssetSymbol: "TRX/USDT", Amount: dec("3")}, staticPrices{"USDT": dec("1")})

	assert.Contains(t, r.Lines, "USD Approx: $3.00")
	assert.Contains(t, r.Lines, "Tx: (manual send)")
	assert.Contains(t, r.Lines, "Donor: Anonymous")
}

func TestBuildReceipt_NoPrice(t *testing.T) {
	r := BuildReceipt(models.DonationRecord{AssetSymbol: "DOGE", Amount: dec("3")}, staticPrices{})
	assert.Contains(t, r.Lines, "USD Approx: N/A")
}
