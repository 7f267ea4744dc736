package ledger

import (
	"donwatch/internal/models"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usdRecord(name, usd string) models.DonationRecord {
	v := dec(usd)
	return models.DonationRecord{DonorName: name, AssetSymbol: "ETH", Amount: dec("1"), USDValue: &v}
}

func tokenRecord(name, token, amount string) models.DonationRecord {
	return models.DonationRecord{DonorName: name, AssetSymbol: token, Amount: dec(amount)}
}

func names(rows []models.LeaderboardRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestRank_USDModeGroupsAndSorts(t *testing.T) {
	records := []models.DonationRecord{usdRecord("A", "10"), usdRecord("B", "30"), usdRecord("A", "5")}

	rows, err := Rank(records, models.RankByUSD, "", 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].Name)
	assert.Equal(t, "30.00", rows[0].Total.StringFixed(2))
	assert.Equal(t, "A", rows[1].Name)
	assert.Equal(t, "15.00", rows[1].Total.StringFixed(2))
}

func TestRank_AbsentUSDCountsAsZero(t *testing.T) {
	records := []models.DonationRecord{tokenRecord("A", "LTC", "3"), usdRecord("B", "1")}

	rows, err := Rank(records, models.RankByUSD, "", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names(rows))
	assert.True(t, rows[1].Total.IsZero())
}

func TestRank_TiesKeepFirstSeenOrder(t *testing.T) {
	records := []models.DonationRecord{usdRecord("C", "5"), usdRecord("A", "5"), usdRecord("B", "5"), usdRecord("D", "7")}

	rows, err := Rank(records, models.RankByUSD, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "C", "A", "B"}, names(rows))
}

func TestRank_TruncatesToLimit(t *testing.T) {
	var records []models.DonationRecord
	for i, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		records = append(records, usdRecord(n, decimal.NewFromInt(int64(i+1)).String()))
	}

	rows, err := Rank(records, models.RankByUSD, "", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, names(rows))
}

func TestRank_TopTwoByUSD(t *testing.T) {
	records := []models.DonationRecord{usdRecord("A", "10"), usdRecord("B", "30"), usdRecord("A", "5")}

	rows, err := Rank(records, models.RankByUSD, "", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].Name)
	assert.Equal(t, "30.00", rows[0].Total.StringFixed(2))
	assert.Equal(t, "A", rows[1].Name)
	assert.Equal(t, "15.00", rows[1].Total.StringFixed(2))

	rows, err = Rank(records, models.RankByUSD, "", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names(rows))
}

func TestRank_UnsupportedLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		_, err := Rank(nil, models.RankByUSD, "", limit)
		assert.ErrorIs(t, err, ErrUnsupportedLimit)
	}
}

func TestRank_TokenModeExactMatchIgnoringCase(t *testing.T) {
	records := []models.DonationRecord{
		tokenRecord("A", "USDT", "10"),
		tokenRecord("B", "TRX/USDT", "50"),
		tokenRecord("A", "usdt", "5"),
		tokenRecord("C", "USDC", "100"),
	}

	rows, err := Rank(records, models.RankByToken, "Usdt", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Name)
	assert.True(t, rows[0].Total.Equal(dec("15")))

	rows, err = Rank(records, models.RankByToken, "TRX/USDT", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names(rows))
}

func TestRank_TokenModeRequiresToken(t *testing.T) {
	_, err := Rank(nil, models.RankByToken, " ", 5)
	assert.ErrorIs(t, err, ErrTokenRequired)
}

func TestRank_UnknownMode(t *testing.T) {
	_, err := Rank(nil, models.RankMode("eur"), "", 5)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestRank_EmptyLedger(t *testing.T) {
	rows, err := Rank(nil, models.RankByUSD, "", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLedger_RankReadsCurrentState(t *testing.T) {
	l, _, _ := newTestLedger(t, staticPrices{"ETH": dec("2000")})
	l.Append(models.DonationRecord{DonorName: "A", AssetSymbol: "ETH", Amount: dec("0.01")})

	rows, err := l.Rank(models.RankByUSD, "", 5)
	require.NoError(t, err)
	assert.Equal(t, "20.00", rows[0].Total.StringFixed(2))

	l.Append(models.DonationRecord{DonorName: "B", AssetSymbol: "ETH", Amount: dec("1")})
	rows, err = l.Rank(models.RankByUSD, "", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names(rows))
}
