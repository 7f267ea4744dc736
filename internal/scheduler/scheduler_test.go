package scheduler

import (
	"context"
	"donwatch/internal/ledger"
	"donwatch/internal/models"
	"donwatch/internal/pricing"
	"donwatch/internal/storage"
	"donwatch/internal/structures"
	"donwatch/internal/testutil"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingSource) Fetch(_ context.Context, _ map[string]string) (map[string]decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return map[string]decimal.Decimal{"ETH": decimal.NewFromInt(2000)}, nil
}

func (c *countingSource) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fixture struct {
	conf   *structures.Config
	oracle *pricing.Oracle
	ledger *ledger.Ledger
	sched  SchedulerInterface
}

func newFixture(t *testing.T, dir string, src pricing.Source, comp storage.CompressorInterface) *fixture {
	t.Helper()
	conf := &structures.Config{
		Persistence: structures.Persistence{
			PricesPath: filepath.Join(dir, "prices.dat"),
			LedgerPath: filepath.Join(dir, "ledger.dat"),
		},
		Prices: structures.PriceConfig{Interval: time.Hour, Timeout: time.Second},
	}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	fm := storage.NewFileManager(comp, logger, metrics)
	oracle := pricing.NewOracle(conf, src, fm, logger, metrics)
	l := ledger.NewLedger(conf, oracle, fm, logger, metrics)
	return &fixture{conf: conf, oracle: oracle, ledger: l, sched: NewScheduler(conf, logger, oracle, l)}
}

func TestScheduler_InitRefreshesImmediately(t *testing.T) {
	src := &countingSource{}
	f := newFixture(t, t.TempDir(), src, &testutil.MockCompressor{})

	f.sched.Init()
	defer f.sched.Stop()

	assert.Eventually(t, func() bool { return f.oracle.Snapshot() != nil }, time.Second, 5*time.Millisecond)
	price, ok := f.oracle.PriceOf("ETH")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 1, src.Calls())
}

func TestScheduler_StopNilCron(t *testing.T) {
	f := newFixture(t, t.TempDir(), &countingSource{}, &testutil.MockCompressor{})
	// Should not panic before Init
	f.sched.Stop()
}

func TestScheduler_StopPreventsFurtherRefresh(t *testing.T) {
	src := &countingSource{}
	f := newFixture(t, t.TempDir(), src, &testutil.MockCompressor{})

	f.sched.Init()
	f.sched.Stop()
	calls := src.Calls()

	f.sched.(*Scheduler).refresh()
	assert.Equal(t, calls, src.Calls())
}

func TestScheduler_PersistAndRestore(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir, &countingSource{}, &testutil.MockCompressor{})
	f.oracle.Refresh(context.Background())
	f.ledger.Append(models.DonationRecord{DonorName: "dora", AssetSymbol: "ETH", ChainName: "Ethereum", Amount: decimal.NewFromInt(1), Method: models.MethodManualWatch})
	require.NoError(t, f.sched.Persist())

	_, err := os.Stat(f.conf.Persistence.LedgerPath)
	require.NoError(t, err)
	_, err = os.Stat(f.conf.Persistence.PricesPath)
	require.NoError(t, err)

	restored := newFixture(t, dir, &countingSource{err: errors.New("offline")}, &testutil.MockCompressor{})
	require.NoError(t, restored.sched.Restore())

	assert.Equal(t, 1, restored.ledger.Len())
	latest, ok := restored.ledger.Latest()
	require.True(t, ok)
	assert.Equal(t, "dora", latest.DonorName)
	_, ok = restored.oracle.PriceOf("ETH")
	assert.True(t, ok)
}

func TestScheduler_RestoreMissingFiles(t *testing.T) {
	f := newFixture(t, filepath.Join(t.TempDir(), "nothing"), &countingSource{}, &testutil.MockCompressor{})
	assert.NoError(t, f.sched.Restore())
	assert.Zero(t, f.ledger.Len())
}

func TestScheduler_RestoreCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir, &countingSource{}, &testutil.MockCompressor{})
	require.NoError(t, os.WriteFile(f.conf.Persistence.LedgerPath, []byte("not json"), 0644))

	assert.Error(t, f.sched.Restore())
}

func TestScheduler_PersistWriteError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress error")
		},
	}
	f := newFixture(t, t.TempDir(), &countingSource{}, comp)
	assert.Error(t, f.sched.Persist())
}
