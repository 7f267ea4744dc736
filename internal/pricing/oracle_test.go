package pricing

import (
	"context"
	"donwatch/internal/models"
	"donwatch/internal/storage"
	"donwatch/internal/structures"
	"donwatch/internal/testutil"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeSource) Fetch(_ context.Context, _ map[string]string) (map[string]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]decimal.Decimal, len(f.prices))
	for k, v := range f.prices {
		out[k] = v
	}
	return out, nil
}

func newTestOracle(t *testing.T, src Source) (*Oracle, *storage.FileManager, string, *testutil.MockMetrics) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.dat")
	conf := &structures.Config{Persistence: structures.Persistence{PricesPath: path}}
	metrics := testutil.NewMockMetrics()
	fm := storage.NewFileManager(&testutil.MockCompressor{}, &testutil.MockLogger{}, metrics)
	return NewOracle(conf, src, fm, &testutil.MockLogger{}, metrics), fm, path, metrics
}

func TestOracle_UnknownBeforeFirstRefresh(t *testing.T) {
	o, _, _, _ := newTestOracle(t, &fakeSource{})
	_, ok := o.PriceOf("ETH")
	assert.False(t, ok)
	assert.Nil(t, o.Snapshot())
}

func TestOracle_RefreshReplacesSnapshotAndPersists(t *testing.T) {
	src := &fakeSource{prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(3000)}}
	o, fm, path, metrics := newTestOracle(t, src)

	o.Refresh(context.Background())
	p, ok := o.PriceOf("eth")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 1, metrics.PriceRefreshes["success"])

	var persisted models.PriceSnapshot
	found, err := fm.Load(path, &persisted)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, persisted.Prices["ETH"].Equal(decimal.NewFromInt(3000)))

	src.prices = map[string]decimal.Decimal{"BTC": decimal.NewFromInt(60000)}
	o.Refresh(context.Background())
	_, ok = o.PriceOf("ETH")
	assert.False(t, ok, "snapshots are replaced wholesale, never merged")
}

func TestOracle_FailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(3000)}}
	o, _, _, metrics := newTestOracle(t, src)
	o.Refresh(context.Background())
	before := o.Snapshot()

	src.err = errors.New("provider down")
	o.Refresh(context.Background())

	assert.Same(t, before, o.Snapshot())
	p, ok := o.PriceOf("ETH")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 1, metrics.PriceRefreshes["failure"])
}

func TestOracle_EmptyRefreshKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(3000)}}
	o, _, _, _ := newTestOracle(t, src)
	o.Refresh(context.Background())

	src.prices = nil
	o.Refresh(context.Background())
	_, ok := o.PriceOf("ETH")
	assert.True(t, ok)
}

func TestOracle_LoadRestoresPersistedSnapshot(t *testing.T) {
	o, fm, path, _ := newTestOracle(t, &fakeSource{err: errors.New("offline")})
	snap := models.PriceSnapshot{
		FetchedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Prices:    map[string]decimal.Decimal{"USDT": decimal.NewFromInt(1)},
	}
	require.NoError(t, fm.Save(path, snap))

	require.NoError(t, o.Load())
	o.Refresh(context.Background())

	p, ok := o.PriceOfLabel("TRX/USDT")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(1)))
	assert.True(t, snap.FetchedAt.Equal(o.Snapshot().FetchedAt))
}

func TestOracle_LoadDoesNotOverrideFresherSnapshot(t *testing.T) {
	src := &fakeSource{prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(3500)}}
	o, fm, path, _ := newTestOracle(t, src)
	require.NoError(t, fm.Save(path, models.PriceSnapshot{Prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(1)}}))

	o.Refresh(context.Background())
	require.NoError(t, o.Load())

	p, _ := o.PriceOf("ETH")
	assert.True(t, p.Equal(decimal.NewFromInt(3500)))
}

func TestOracle_LoadMissingFile(t *testing.T) {
	o, _, _, _ := newTestOracle(t, &fakeSource{})
	assert.NoError(t, o.Load())
	assert.Nil(t, o.Snapshot())
}

func TestOracle_Estimate(t *testing.T) {
	src := &fakeSource{prices: map[string]decimal.Decimal{"SOL": decimal.RequireFromString("142.337")}}
	o, _, _, _ := newTestOracle(t, src)
	o.Refresh(context.Background())

	usd, ok := o.Estimate("sol", decimal.RequireFromString("1.5"))
	require.True(t, ok)
	assert.Equal(t, "213.51", usd.StringFixed(2))

	_, ok = o.Estimate("DOGE", decimal.NewFromInt(1))
	assert.False(t, ok)
}

// overlapStore records whether two saves were ever in progress together.
type overlapStore struct {
	mu       sync.Mutex
	active   int
	overlaps int
	saves    int
}

func (s *overlapStore) Save(_ string, _ interface{}) error {
	s.mu.Lock()
	s.active++
	s.saves++
	if s.active > 1 {
		s.overlaps++
	}
	s.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return nil
}

func (s *overlapStore) Load(_ string, _ interface{}) (bool, error) { return false, nil }

func TestOracle_PersistWaitsForRefreshSave(t *testing.T) {
	store := &overlapStore{}
	src := &fakeSource{prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(2500)}}
	conf := &structures.Config{Persistence: structures.Persistence{PricesPath: "prices.dat"}}
	o := NewOracle(conf, src, store, &testutil.MockLogger{}, testutil.NewMockMetrics())
	o.Refresh(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			o.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, o.Persist())
		}()
	}
	wg.Wait()

	assert.Equal(t, 11, store.saves)
	assert.Zero(t, store.overlaps)
}
