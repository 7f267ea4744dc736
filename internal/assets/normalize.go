package assets

import "strings"

// PriceIDs maps each supported symbol to its price provider id.
var PriceIDs = map[string]string{
	"ETH":   "ethereum",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"BTC":   "bitcoin",
	"LTC":   "litecoin",
	"SOL":   "solana",
	"TRX":   "tron",
	"BNB":   "binancecoin",
	"MATIC": "polygon-pos",
	"ARB":   "arbitrum",
}

// Normalize maps a free-text asset label to a supported price symbol.
// Combined Tron labels such as "TRX/USDT" resolve to USDT.
func Normalize(label string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	switch {
	case strings.Contains(s, "TRX/USDT"):
		return "USDT", true
	case strings.Contains(s, "USDT"):
		return "USDT", true
	case strings.Contains(s, "TRX"):
		return "TRX", true
	}
	if _, ok := PriceIDs[s]; ok {
		return s, true
	}
	return "", false
}
