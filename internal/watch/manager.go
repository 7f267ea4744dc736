package watch

import (
	"context"
	"donwatch/internal/adapters"
	"donwatch/internal/models"
	"donwatch/internal/providers"
	"donwatch/internal/structures"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type StartRequest struct {
	Chain  string          `json:"chain"`
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
	Donor  string          `json:"donor"`
}

// Manager owns every watch session, one per (chain, asset) key. Starting a new
// session for a key cancels the previous one first.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	factory  *adapters.Factory
	recorder Recorder
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface

	interval    time.Duration
	maxAttempts int
	timeout     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(conf *structures.Config, factory *adapters.Factory, recorder Recorder, logger providers.Logger, metrics providers.MetricsProviderInterface) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sessions:    make(map[string]*Session),
		factory:     factory,
		recorder:    recorder,
		logger:      logger,
		metrics:     metrics,
		interval:    conf.Watch.Interval,
		maxAttempts: conf.Watch.MaxAttempts,
		timeout:     conf.Watch.FetchTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start resolves the target, captures a baseline and begins polling. A
// configuration error is returned and also kept as the key's errored session.
func (m *Manager) Start(ctx context.Context, req StartRequest) (models.SessionStatus, error) {
	if req.Amount.IsNegative() {
		return models.SessionStatus{}, ErrNegativeAmount
	}

	target, err := m.factory.Resolve(req.Chain, req.Asset)
	if err != nil {
		return m.fail(target, err)
	}
	adapter, err := m.factory.New(ctx, target)
	if err != nil {
		return m.fail(target, err)
	}

	s := newSession(target, adapter, req.Donor, req.Amount, sessionDeps{
		recorder:    m.recorder,
		logger:      m.logger,
		metrics:     m.metrics,
		maxAttempts: m.maxAttempts,
		timeout:     m.timeout,
		onFinish:    m.finished,
	})
	s.Begin(ctx)

	m.replace(target.Key(), s)
	s.setTask(Schedule(m.ctx, m.interval, s.Tick))
	m.metrics.SetActiveSessions(m.Active())

	return s.Status(), nil
}

func (m *Manager) fail(target adapters.Target, err error) (models.SessionStatus, error) {
	if !errors.Is(err, adapters.ErrNotConfigured) || target.Chain.ID == "" {
		return models.SessionStatus{}, err
	}
	m.logger.Warnf(providers.TypeWatch, "Watch %s on %s not started: %v", target.Asset, target.Chain.Name, err)

	s := failedSession(target, err)
	m.replace(target.Key(), s)
	m.metrics.IncWatchOutcome(string(models.ErrorKindConfiguration))
	m.metrics.SetActiveSessions(m.Active())
	return s.Status(), err
}

func (m *Manager) replace(key string, s *Session) {
	m.mu.Lock()
	prev := m.sessions[key]
	m.sessions[key] = s
	m.mu.Unlock()

	if prev != nil {
		prev.Cancel()
		m.logger.Debugf(providers.TypeWatch, "Session %s replaced by %s", prev.ID(), s.ID())
	}
}

func (m *Manager) finished(_ *Session, outcome string) {
	m.metrics.IncWatchOutcome(outcome)
	m.metrics.SetActiveSessions(m.Active())
}

func (m *Manager) lookup(chain, asset string) (*Session, error) {
	target, err := m.factory.Resolve(chain, asset)
	if err != nil && target.Chain.ID == "" {
		return nil, err
	}
	m.mu.Lock()
	s, ok := m.sessions[target.Key()]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, target.Key())
	}
	return s, nil
}

func (m *Manager) Status(chain, asset string) (models.SessionStatus, error) {
	s, err := m.lookup(chain, asset)
	if err != nil {
		return models.SessionStatus{}, err
	}
	return s.Status(), nil
}

// Cancel stops the session for the key. Cancelling twice is a no-op.
func (m *Manager) Cancel(chain, asset string) (models.SessionStatus, error) {
	s, err := m.lookup(chain, asset)
	if err != nil {
		return models.SessionStatus{}, err
	}
	s.Cancel()
	m.metrics.SetActiveSessions(m.Active())
	return s.Status(), nil
}

// Active counts sessions that are still polling.
func (m *Manager) Active() int {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	n := 0
	for _, s := range sessions {
		if s.Active() {
			n++
		}
	}
	return n
}

func (m *Manager) List() []models.SessionStatus {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	out := make([]models.SessionStatus, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Status())
	}
	return out
}

// Shutdown cancels every session and waits for their tasks to exit.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Cancel()
	}
	m.cancel()

	for _, s := range sessions {
		s.mu.Lock()
		task := s.task
		s.mu.Unlock()
		if task == nil {
			continue
		}
		if err := task.Wait(ctx); err != nil {
			return err
		}
	}
	m.metrics.SetActiveSessions(0)
	m.logger.Infof(providers.TypeWatch, "Watch sessions stopped: %d", len(sessions))
	return nil
}
