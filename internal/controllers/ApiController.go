package controllers

import (
	"donwatch/internal/assets"
	"donwatch/internal/ledger"
	"donwatch/internal/models"
	"donwatch/internal/providers"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const defaultLeaderboardLimit = 5

// leaderboardLimits are the page sizes offered to clients.
var leaderboardLimits = map[int]struct{}{5: {}, 10: {}}

type ApiController struct {
	logger   providers.Logger
	ledger   LedgerReader
	prices   PriceReader
	registry ChainLister
	cache    providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, ledger LedgerReader, prices PriceReader, registry ChainLister, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		ledger:   ledger,
		prices:   prices,
		registry: registry,
		cache:    cache,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

type leaderboardResponse struct {
	Mode  models.RankMode         `json:"mode"`
	Token string                  `json:"token,omitempty"`
	Limit int                     `json:"limit"`
	Rows  []models.LeaderboardRow `json:"rows"`
}

func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := models.RankMode(strings.ToLower(q.Get("mode")))
	if mode == "" {
		mode = models.RankByUSD
	}
	limit := defaultLeaderboardLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if _, ok := leaderboardLimits[n]; err != nil || !ok {
			writeError(w, fmt.Errorf("%w: limit %q", errBadRequest, raw), nil)
			return
		}
		limit = n
	}
	token := strings.TrimSpace(q.Get("token"))

	rows, err := ac.ledger.Rank(mode, token, limit)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if rows == nil {
		rows = []models.LeaderboardRow{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Mode: mode, Token: token, Limit: limit, Rows: rows})
}

func (ac *ApiController) GetDonations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.ledger.All())
}

func (ac *ApiController) GetLatestDonation(w http.ResponseWriter, r *http.Request) {
	rec, ok := ac.ledger.Latest()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No donations yet"})
		return
	}
	writeJSON(w, http.StatusOK, ledger.BuildReceipt(rec, ac.prices))
}

func (ac *ApiController) GetPrices(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "prices", func() (any, error) {
		if snap := ac.prices.Snapshot(); snap != nil {
			return snap, nil
		}
		return models.PriceSnapshot{Prices: map[string]decimal.Decimal{}}, nil
	})
}

type estimateResponse struct {
	Asset  string           `json:"asset"`
	Amount decimal.Decimal  `json:"amount"`
	USD    *decimal.Decimal `json:"usd"`
}

func (ac *ApiController) GetEstimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	asset := strings.TrimSpace(q.Get("asset"))
	amount, err := decimal.NewFromString(strings.TrimSpace(q.Get("amount")))
	if asset == "" || err != nil || amount.IsNegative() {
		writeError(w, fmt.Errorf("%w: asset and a non-negative amount are required", errBadRequest), nil)
		return
	}

	resp := estimateResponse{Asset: asset, Amount: amount}
	if usd, ok := ac.prices.Estimate(asset, amount); ok {
		resp.USD = &usd
	}
	writeJSON(w, http.StatusOK, resp)
}

func (ac *ApiController) GetChains(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "chains", func() (any, error) {
		chains := ac.registry.All()
		if chains == nil {
			chains = []assets.Chain{}
		}
		return chains, nil
	})
}
