package scheduler

import "context"

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

type PriceRefresher interface {
	Refresh(ctx context.Context)
	Load() error
	Persist() error
}

type LedgerStore interface {
	Restore() error
	Persist() error
}
