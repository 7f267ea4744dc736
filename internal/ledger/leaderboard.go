package ledger

import (
	"donwatch/internal/models"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedLimit = errors.New("unsupported leaderboard limit")
	ErrUnsupportedMode  = errors.New("unsupported leaderboard mode")
	ErrTokenRequired    = errors.New("token is required in token mode")
)

// Rank totals donations per donor. USD mode sums usd values across all assets
// with absent values counting as zero. Token mode keeps only records whose
// asset equals token ignoring case and sums raw amounts. Ties keep first-seen
// order. At most limit rows are returned; limit must be positive.
func Rank(records []models.DonationRecord, mode models.RankMode, token string, limit int) ([]models.LeaderboardRow, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLimit, limit)
	}

	var value func(models.DonationRecord) (decimal.Decimal, bool)
	switch mode {
	case models.RankByUSD:
		value = func(r models.DonationRecord) (decimal.Decimal, bool) {
			if r.USDValue == nil {
				return decimal.Zero, true
			}
			return *r.USDValue, true
		}
	case models.RankByToken:
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, ErrTokenRequired
		}
		value = func(r models.DonationRecord) (decimal.Decimal, bool) {
			return r.Amount, strings.EqualFold(r.AssetSymbol, token)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}

	index := make(map[string]int)
	rows := make([]models.LeaderboardRow, 0)
	for _, r := range records {
		v, ok := value(r)
		if !ok {
			continue
		}
		name := models.DonorOrAnonymous(r.DonorName)
		i, seen := index[name]
		if !seen {
			i = len(rows)
			index[name] = i
			rows = append(rows, models.LeaderboardRow{Name: name, Total: decimal.Zero})
		}
		rows[i].Total = rows[i].Total.Add(v)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.GreaterThan(rows[j].Total)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Rank computes the leaderboard fresh from the current ledger contents.
func (l *Ledger) Rank(mode models.RankMode, token string, limit int) ([]models.LeaderboardRow, error) {
	return Rank(l.All(), mode, token, limit)
}
