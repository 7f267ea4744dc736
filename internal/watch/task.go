package watch

import (
	"context"
	"time"
)

// Task runs a tick function on a fixed interval from a single goroutine, so a
// tick never starts before the previous one returned. Cancel is idempotent.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Schedule starts tick every interval until tick returns false, the task is
// cancelled, or parent is done. The first tick fires one interval after start.
func Schedule(parent context.Context, interval time.Duration, tick func(ctx context.Context) bool) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				if !tick(ctx) {
					return
				}
			}
		}
	}()

	return t
}

func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task exits or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
