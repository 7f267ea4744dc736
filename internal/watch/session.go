package watch

import (
	"context"
	"donwatch/internal/adapters"
	"donwatch/internal/models"
	"donwatch/internal/providers"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TimeoutMessage = "We couldn't auto-detect yet. Thank you!"

var (
	ErrDetectionTimeout = errors.New("detection timeout")
	ErrSessionNotFound  = errors.New("watch session not found")
	ErrNegativeAmount   = errors.New("amount must not be negative")
)

// Recorder receives the single record a confirmed session produces.
type Recorder interface {
	Append(rec models.DonationRecord) models.DonationRecord
}

// Session is one detection attempt for one (chain, asset) pair. All state is
// guarded by mu; Tick is the only method that talks to the network.
type Session struct {
	mu sync.Mutex

	id          string
	target      adapters.Target
	adapter     adapters.ChainAdapter
	donor       string
	amount      decimal.Decimal
	maxAttempts int
	timeout     time.Duration

	state     models.SessionState
	baseline  *models.Marker
	attempts  int
	errKind   models.ErrorKind
	message   string
	record    *models.DonationRecord
	startedAt time.Time
	cancelled bool
	task      *Task

	recorder Recorder
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	onFinish func(s *Session, outcome string)
}

type sessionDeps struct {
	recorder    Recorder
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	maxAttempts int
	timeout     time.Duration
	onFinish    func(s *Session, outcome string)
}

func newSession(target adapters.Target, adapter adapters.ChainAdapter, donor string, amount decimal.Decimal, deps sessionDeps) *Session {
	return &Session{
		id:          uuid.NewString(),
		target:      target,
		adapter:     adapter,
		donor:       models.DonorOrAnonymous(donor),
		amount:      amount,
		maxAttempts: deps.maxAttempts,
		timeout:     deps.timeout,
		state:       models.StateIdle,
		startedAt:   time.Now(),
		recorder:    deps.recorder,
		logger:      deps.logger,
		metrics:     deps.metrics,
		onFinish:    deps.onFinish,
	}
}

// failedSession is a session that never left idle because its target is misconfigured.
func failedSession(target adapters.Target, err error) *Session {
	return &Session{
		id:        uuid.NewString(),
		target:    target,
		state:     models.StateError,
		errKind:   models.ErrorKindConfiguration,
		message:   err.Error(),
		startedAt: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// Begin moves idle to watching and captures the baseline. A failed capture
// leaves the baseline unknown.
func (s *Session) Begin(ctx context.Context) {
	s.mu.Lock()
	if s.state != models.StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = models.StateWatching
	s.mu.Unlock()

	fctx, cancel := s.fetchContext(ctx)
	defer cancel()
	baseline, err := s.adapter.CaptureBaseline(fctx, s.target.Address)
	if err != nil {
		s.logger.Debugf(providers.TypeWatch, "Session %s baseline capture failed on %s: %v", s.id, s.target.Chain.Name, err)
		s.metrics.IncFetchErrors(s.target.Chain.Name)
	}

	s.mu.Lock()
	s.baseline = baseline
	s.mu.Unlock()

	s.logger.Infof(providers.TypeWatch, "Session %s watching %s on %s, baseline %s", s.id, s.target.Asset, s.target.Chain.Name, baseline)
}

func (s *Session) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// Tick runs one polling attempt and reports whether polling should continue.
// Terminal and cancelled sessions are left untouched.
func (s *Session) Tick(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != models.StateWatching || s.cancelled {
		s.mu.Unlock()
		return false
	}
	s.attempts++
	s.mu.Unlock()

	fctx, cancel := s.fetchContext(ctx)
	marker, err := s.adapter.FetchMarker(fctx, s.target.Address)
	cancel()

	s.mu.Lock()
	if s.state != models.StateWatching || s.cancelled {
		s.mu.Unlock()
		return false
	}
	if err != nil {
		s.logger.Debugf(providers.TypeWatch, "Session %s tick %d fetch failed: %v", s.id, s.attempts, err)
		s.metrics.IncFetchErrors(s.target.Chain.Name)
		marker = nil
	}

	outcome := ""
	switch {
	case marker != nil && s.baseline == nil && marker.IsBalance():
		s.baseline = marker
		s.logger.Debugf(providers.TypeWatch, "Session %s adopted baseline %s", s.id, marker)
	case marker != nil && s.adapter.HasChanged(s.baseline, marker):
		s.confirm(marker)
		outcome = string(models.StateConfirmed)
	}
	if outcome == "" && s.attempts > s.maxAttempts {
		s.state = models.StateError
		s.errKind = models.ErrorKindTimeout
		s.message = TimeoutMessage
		outcome = string(models.ErrorKindTimeout)
		s.logger.Infof(providers.TypeWatch, "Session %s timed out after %d attempts", s.id, s.attempts)
	}
	s.mu.Unlock()

	if outcome == "" {
		return true
	}
	if s.onFinish != nil {
		s.onFinish(s, outcome)
	}
	return false
}

// confirm must be called with mu held.
func (s *Session) confirm(marker *models.Marker) {
	s.state = models.StateConfirmed
	rec := models.DonationRecord{
		DonorName:   s.donor,
		AssetSymbol: s.target.Asset,
		ChainName:   s.target.Chain.Name,
		Amount:      s.amount,
		Method:      models.MethodManualWatch,
		RecordedAt:  time.Now(),
	}
	if !marker.IsBalance() {
		rec.TxReference = marker.TxID
	}
	stored := s.recorder.Append(rec)
	s.record = &stored
	s.logger.Infof(providers.TypeWatch, "Session %s confirmed %s on %s after %d attempts", s.id, s.target.Asset, s.target.Chain.Name, s.attempts)
}

// Cancel stops polling. The state is kept as is; only the active flag drops.
func (s *Session) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	task := s.task
	s.mu.Unlock()
	if task != nil {
		task.Cancel()
	}
}

func (s *Session) setTask(t *Task) {
	s.mu.Lock()
	s.task = t
	cancelled := s.cancelled
	s.mu.Unlock()
	if cancelled {
		t.Cancel()
	}
}

func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == models.StateWatching && !s.cancelled
}

// Err returns the terminal error of the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.errKind {
	case models.ErrorKindTimeout:
		return ErrDetectionTimeout
	case models.ErrorKindConfiguration:
		return adapters.ErrNotConfigured
	}
	return nil
}

func (s *Session) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := models.SessionStatus{
		ID:        s.id,
		Chain:     s.target.Chain.Name,
		Asset:     s.target.Asset,
		State:     s.state,
		Attempts:  s.attempts,
		ErrorKind: s.errKind,
		Message:   s.message,
		Active:    s.state == models.StateWatching && !s.cancelled,
		Baseline:  s.baseline.String(),
		StartedAt: s.startedAt,
	}
	if s.record != nil {
		rec := *s.record
		st.Record = &rec
	}
	return st
}
