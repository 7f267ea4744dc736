package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	ledger    LedgerReader
	prices    PriceReader
	watcher   Watcher
	startTime time.Time
}

type healthResponse struct {
	Status          string     `json:"status"`
	Uptime          string     `json:"uptime"`
	UptimeSeconds   float64    `json:"uptime_seconds"`
	Donations       int        `json:"donations"`
	ActiveSessions  int        `json:"active_sessions"`
	PricesFetchedAt *time.Time `json:"prices_fetched_at"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:         "ok",
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
		Donations:      hc.ledger.Len(),
		ActiveSessions: hc.watcher.Active(),
	}
	if snap := hc.prices.Snapshot(); snap != nil {
		fetched := snap.FetchedAt
		resp.PricesFetchedAt = &fetched
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(ledger LedgerReader, prices PriceReader, watcher Watcher) *HealthController {
	return &HealthController{
		ledger:    ledger,
		prices:    prices,
		watcher:   watcher,
		startTime: time.Now(),
	}
}
