package testutil

import (
	"context"
	"donwatch/internal/providers"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any entry at level has a format containing substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Logs {
		if l.Level == level && strings.Contains(l.Format, substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu             sync.Mutex
	Requests       int
	CacheHits      int
	CacheMisses    int
	Persisted      int
	LedgerSize     int
	ActiveSessions int
	Donations      map[string]int
	WatchOutcomes  map[string]int
	FetchErrors    map[string]int
	PriceRefreshes map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Donations:      make(map[string]int),
		WatchOutcomes:  make(map[string]int),
		FetchErrors:    make(map[string]int),
		PriceRefreshes: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
func (m *MockMetrics) SetLedgerSize(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LedgerSize = count
}
func (m *MockMetrics) IncDonations(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Donations[method]++
}
func (m *MockMetrics) IncWatchOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WatchOutcomes[outcome]++
}
func (m *MockMetrics) SetActiveSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveSessions = count
}
func (m *MockMetrics) IncFetchErrors(chain string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchErrors[chain]++
}
func (m *MockMetrics) IncPriceRefresh(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PriceRefreshes[result]++
}

// Active returns the last active-sessions gauge value.
func (m *MockMetrics) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ActiveSessions
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements storage.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// FakeEVMBackend serves balances and contract calls from memory.
// CallFn handles CallContract; without it contract calls fail.
type FakeEVMBackend struct {
	mu       sync.Mutex
	Balances map[common.Address]*big.Int
	Err      error
	CallFn   func(msg ethereum.CallMsg) ([]byte, error)
	Calls    int
}

func NewFakeEVMBackend() *FakeEVMBackend {
	return &FakeEVMBackend{Balances: make(map[common.Address]*big.Int)}
}

func (f *FakeEVMBackend) SetBalance(addr common.Address, v int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Balances[addr] = big.NewInt(v)
}

func (f *FakeEVMBackend) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	if b, ok := f.Balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (f *FakeEVMBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	f.Calls++
	fn, err := f.CallFn, f.Err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, errors.New("no contract handler")
	}
	return fn(msg)
}

// CallCount returns the number of backend calls so far.
func (f *FakeEVMBackend) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls
}
