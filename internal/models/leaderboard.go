package models

import "github.com/shopspring/decimal"

type RankMode string

const (
	RankByUSD   RankMode = "usd"
	RankByToken RankMode = "token"
)

type LeaderboardRow struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}
