package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var (
	chainKeys   = []string{"1", "137", "42161", "56", "btc", "ltc", "sol", "tron"}
	assetLabels = []string{"ETH", "USDC", "USDT", "BTC", "LTC", "SOL", "TRX/USDT", "MATIC", "BNB"}
	tokenModes  = []string{"USDC", "USDT", "ETH", "BTC"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

// Watch sessions are never started here: starting one polls public explorers.
func main() {
	fmt.Println("=== donwatch Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/chains")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Cached reads (/prices, /chains) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return doGet("GET /prices", "/prices", http.StatusOK)
		}
		return doGet("GET /chains", "/chains", http.StatusOK)
	})

	fmt.Println("\n--- Phase 2: Ledger reads ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doLeaderboard(rng)
		case r < 0.70:
			return doGet("GET /donations", "/donations", http.StatusOK)
		case r < 0.85:
			return doEstimate(rng)
		default:
			return doGet("GET /donations/latest", "/donations/latest", http.StatusOK, http.StatusNotFound)
		}
	})

	fmt.Println("\n--- Phase 3: Session lookups ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		chain := chainKeys[rng.Intn(len(chainKeys))]
		if rng.Float64() < 0.8 {
			return doGet("GET /watch", "/watch?chain="+chain+"&asset=NATIVE", http.StatusOK, http.StatusNotFound, http.StatusUnprocessableEntity)
		}
		return doCancel(chain)
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 90))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 90))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGet(label, path string, okStatuses ...int) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, !accepted(resp.StatusCode, okStatuses)}
}

func doLeaderboard(rng *rand.Rand) result {
	limit := 5
	if rng.Intn(2) == 0 {
		limit = 10
	}
	if rng.Float64() < 0.5 {
		return doGet("GET /leaderboard usd", fmt.Sprintf("/leaderboard?mode=usd&limit=%d", limit), http.StatusOK)
	}
	token := tokenModes[rng.Intn(len(tokenModes))]
	return doGet("GET /leaderboard token", fmt.Sprintf("/leaderboard?mode=token&token=%s&limit=%d", token, limit), http.StatusOK)
}

func doEstimate(rng *rand.Rand) result {
	asset := assetLabels[rng.Intn(len(assetLabels))]
	amount := fmt.Sprintf("%.4f", rng.Float64()*10)
	return doGet("GET /prices/estimate", "/prices/estimate?asset="+asset+"&amount="+amount, http.StatusOK)
}

func doCancel(chain string) result {
	data, _ := json.Marshal(map[string]string{"chain": chain, "asset": "NATIVE"})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/watch/cancel", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /watch/cancel", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /watch/cancel", resp.StatusCode, lat, !accepted(resp.StatusCode, []int{http.StatusOK, http.StatusNotFound, http.StatusUnprocessableEntity})}
}

func accepted(status int, ok []int) bool {
	for _, s := range ok {
		if status == s {
			return true
		}
	}
	return false
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
