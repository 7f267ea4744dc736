package adapters

import (
	"bytes"
	"context"
	"donwatch/internal/providers"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	defaultSourceTimeout = 10 * time.Second
	sourceRatePerSecond  = 5
)

// MarkerSource returns the latest transaction id seen at an address, or ""
// when the address has no history yet.
type MarkerSource interface {
	Name() string
	LatestTx(ctx context.Context, address string) (string, error)
}

// httpSource carries the transport shared by every explorer: one breaker and
// one limiter per upstream base URL.
type httpSource struct {
	name    string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func newHTTPSource(name, baseURL string, timeout time.Duration, logger providers.Logger) *httpSource {
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf(providers.TypeWatch, "Provider %s circuit breaker %s -> %s", name, from, to)
		},
	}
	return &httpSource{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: rate.NewLimiter(rate.Limit(sourceRatePerSecond), 1),
	}
}

func (s *httpSource) Name() string { return s.name }

func (s *httpSource) getJSON(ctx context.Context, path string, out interface{}) error {
	return s.do(ctx, http.MethodGet, path, nil, out)
}

func (s *httpSource) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return s.do(ctx, http.MethodPost, path, payload, out)
}

func (s *httpSource) do(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Cache-Control", "no-store")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("%s: unexpected status %d", s.name, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", s.name, err)
		}
		return nil, nil
	})
	return err
}

type blockstreamSource struct{ *httpSource }

func (s blockstreamSource) LatestTx(ctx context.Context, address string) (string, error) {
	var txs []struct {
		TxID string `json:"txid"`
	}
	if err := s.getJSON(ctx, "/api/address/"+url.PathEscape(address)+"/txs", &txs); err != nil {
		return "", err
	}
	if len(txs) == 0 {
		return "", nil
	}
	return txs[0].TxID, nil
}

type blockchairSource struct {
	*httpSource
	coin string
}

func (s blockchairSource) LatestTx(ctx context.Context, address string) (string, error) {
	var resp struct {
		Data map[string]struct {
			Transactions []string `json:"transactions"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/%s/dashboards/address/%s?limit=1", s.coin, url.PathEscape(address))
	if err := s.getJSON(ctx, path, &resp); err != nil {
		return "", err
	}
	entry, ok := resp.Data[address]
	if !ok || len(entry.Transactions) == 0 {
		return "", nil
	}
	return entry.Transactions[0], nil
}

type blockcypherSource struct {
	*httpSource
	coin string
}

func (s blockcypherSource) LatestTx(ctx context.Context, address string) (string, error) {
	var resp struct {
		Txs []struct {
			Hash string `json:"hash"`
		} `json:"txs"`
	}
	path := fmt.Sprintf("/v1/%s/main/addrs/%s/full?limit=1", s.coin, url.PathEscape(address))
	if err := s.getJSON(ctx, path, &resp); err != nil {
		return "", err
	}
	if len(resp.Txs) == 0 {
		return "", nil
	}
	return resp.Txs[0].Hash, nil
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

type solanaRPCSource struct{ *httpSource }

func (s solanaRPCSource) LatestTx(ctx context.Context, address string) (string, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getSignaturesForAddress",
		Params:  []interface{}{address, map[string]interface{}{"limit": 1}},
	}
	var resp struct {
		Result []struct {
			Signature string `json:"signature"`
		} `json:"result"`
		Error *rpcError `json:"error,omitempty"`
	}
	if err := s.postJSON(ctx, "", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", resp.Error
	}
	if len(resp.Result) == 0 {
		return "", nil
	}
	return resp.Result[0].Signature, nil
}

type tronscanSource struct{ *httpSource }

func (s tronscanSource) LatestTx(ctx context.Context, address string) (string, error) {
	var resp struct {
		Data []struct {
			Hash string `json:"hash"`
			TxID string `json:"txID"`
		} `json:"data"`
	}
	path := "/api/transaction?address=" + url.QueryEscape(address) + "&sort=-timestamp&limit=1"
	if err := s.getJSON(ctx, path, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	if resp.Data[0].Hash != "" {
		return resp.Data[0].Hash, nil
	}
	return resp.Data[0].TxID, nil
}

// NewSource builds a marker source for a provider kind. coin is the chain
// kind ("btc", "ltc") for explorers that serve several chains.
func NewSource(kind, baseURL, coin string, timeout time.Duration, logger providers.Logger) (MarkerSource, error) {
	name := kind + "@" + baseURL
	switch kind {
	case "blockstream":
		return blockstreamSource{newHTTPSource(name, baseURL, timeout, logger)}, nil
	case "blockchair":
		full := map[string]string{"btc": "bitcoin", "ltc": "litecoin"}[coin]
		if full == "" {
			return nil, fmt.Errorf("blockchair does not serve %q", coin)
		}
		return blockchairSource{newHTTPSource(name, baseURL, timeout, logger), full}, nil
	case "blockcypher":
		return blockcypherSource{newHTTPSource(name, baseURL, timeout, logger), coin}, nil
	case "solana-rpc":
		return solanaRPCSource{newHTTPSource(name, baseURL, timeout, logger)}, nil
	case "tronscan":
		return tronscanSource{newHTTPSource(name, baseURL, timeout, logger)}, nil
	}
	return nil, fmt.Errorf("unknown provider kind %q", kind)
}
