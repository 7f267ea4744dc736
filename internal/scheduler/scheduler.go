package scheduler

import (
	"context"
	"donwatch/internal/providers"
	"donwatch/internal/structures"
	"errors"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	prices PriceRefresher
	ledger LedgerStore
	cron   *gron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	opsMu  sync.Mutex
}

// Init refreshes prices once right away and then on every prices.interval.
func (s *Scheduler) Init() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.cron = gron.New()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.refresh()
	}()

	s.cron.AddFunc(gron.Every(s.config.Prices.Interval), s.refresh)
	s.cron.Start()
}

func (s *Scheduler) refresh() {
	if s.ctx.Err() != nil {
		return
	}
	ctx := s.ctx
	if timeout := s.config.Prices.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	s.prices.Refresh(ctx)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) Restore() error {
	var errs []error
	if err := s.prices.Load(); err != nil {
		s.logger.Warnf(providers.TypePrice, "Unable to restore prices: %s", err)
		errs = append(errs, err)
	}
	if err := s.ledger.Restore(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting ledger and prices...")
	start := time.Now()
	var errs []error
	if err := s.ledger.Persist(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting ledger: %s", err)
		errs = append(errs, err)
	}
	if err := s.prices.Persist(); err != nil {
		s.logger.Errorf(providers.TypePrice, "Error while persisting prices: %s", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		s.logger.Infof(providers.TypeApp, "Persisted state in %s", time.Since(start))
	}
	return errors.Join(errs...)
}

func NewScheduler(config *structures.Config, logger providers.Logger, prices PriceRefresher, ledger LedgerStore) SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		prices: prices,
		ledger: ledger,
	}
}
