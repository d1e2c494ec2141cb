package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/bakesync/internal/client/notify"
	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

// State is the state of the sync scheduler.
type State int

// Scheduler states
const (
	StateDisabled State = iota
	StateIdle
	StateScheduled
	StateSyncing
	StateBackoff
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateSyncing:
		return "syncing"
	case StateBackoff:
		return "backoff"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

type event int

const (
	evChange event = iota
	evTick
	evDue // истек debounce или max-wait
	evForeground
	evSyncSucceeded
	evSyncFailed // временная ошибка
	evSyncFatal  // нужна реакция пользователя или исчерпан бюджет повторов
	evBackoffElapsed
	evResume
	evEnable
	evDisable
)

type action int

const (
	actNone     action = iota
	actSchedule        // взвести debounce (и max-wait, если не взведен)
	actSync            // запустить цикл
	actBackoff         // взвести таймер backoff
	actMarkDirty       // изменение во время цикла
	actReset           // сбросить таймеры и бюджет повторов
)

// transition is the pure state machine of the scheduler. dirty reports that
// local changes arrived while the last cycle was running.
func transition(s State, dirty bool, ev event) (State, action) {
	if ev == evDisable {
		return StateDisabled, actReset
	}

	switch s {
	case StateDisabled:
		if ev == evEnable {
			return StateIdle, actReset
		}

	case StateIdle:
		switch ev {
		case evChange, evTick:
			return StateScheduled, actSchedule
		case evForeground:
			return StateSyncing, actSync
		}

	case StateScheduled:
		switch ev {
		case evChange:
			return StateScheduled, actSchedule
		case evDue, evForeground:
			return StateSyncing, actSync
		}

	case StateSyncing:
		switch ev {
		case evChange, evForeground:
			return StateSyncing, actMarkDirty
		case evSyncSucceeded:
			if dirty {
				return StateScheduled, actSchedule
			}
			return StateIdle, actNone
		case evSyncFailed:
			return StateBackoff, actBackoff
		case evSyncFatal:
			return StatePaused, actNone
		}

	case StateBackoff:
		if ev == evBackoffElapsed {
			return StateScheduled, actSchedule
		}

	case StatePaused:
		switch ev {
		case evChange, evForeground, evResume:
			return StateScheduled, actSchedule
		}
	}

	return s, actNone
}

//go:generate moq -out syncer_mock.go . Syncer

// Syncer runs sync cycles for the scheduler.
type Syncer interface {
	SyncOnce(ctx context.Context) (*SyncResult, error)
	Status(ctx context.Context) (*models.SyncState, error)
}

// SchedulerConfig настраивает планировщик
type SchedulerConfig struct {
	Debounce     time.Duration // пауза после последнего изменения
	MaxWait      time.Duration // максимальная задержка при непрерывных изменениях
	Interval     time.Duration // периодический pull, 0 отключает
	BackoffBase  time.Duration
	BackoffMax   time.Duration
	MaxRetries   uint64        // после исчерпания планировщик переходит в Paused
	CycleTimeout time.Duration // ограничение одного цикла
}

// DefaultSchedulerConfig возвращает конфигурацию планировщика по умолчанию
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Debounce:     2 * time.Second,
		MaxWait:      30 * time.Second,
		Interval:     5 * time.Minute,
		BackoffBase:  time.Second,
		BackoffMax:   5 * time.Minute,
		MaxRetries:   10,
		CycleTimeout: 2 * time.Minute,
	}
}

// Status is a point-in-time view of the scheduler for the UI.
type Status struct {
	LastSyncAt    time.Time
	NextAttemptAt time.Time // момент следующей попытки в Backoff
	LastError     error     // "last sync failed" для UI
	LastResult    *SyncResult
	State         State
}

type cycleResult struct {
	result *SyncResult
	err    error
}

// Scheduler decides when the engine runs. It reacts to change signals,
// periodic ticks and focus regain, debounces bursts and backs off after
// failures. At most one cycle is in flight.
type Scheduler struct {
	syncer    Syncer
	changes   *notify.Notifier
	statusN   *notify.Notifier
	logger    *slog.Logger
	events    chan event
	done      chan struct{}
	backoff   retry.Backoff
	status    Status
	cfg       SchedulerConfig
	nextDelay time.Duration
	dirty     bool
	inFlight  bool
	mu        sync.RWMutex
}

// NewScheduler creates a scheduler in the Idle state. changes is the
// session's change notifier.
func NewScheduler(syncer Syncer, changes *notify.Notifier, logger *slog.Logger, cfg SchedulerConfig) *Scheduler {
	def := DefaultSchedulerConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.MaxWait < cfg.Debounce {
		cfg.MaxWait = cfg.Debounce
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = cfg.BackoffBase
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = def.CycleTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = def.MaxRetries
	}

	s := &Scheduler{
		syncer:  syncer,
		changes: changes,
		statusN: notify.New(),
		logger:  logger,
		events:  make(chan event, 16),
		done:    make(chan struct{}),
		cfg:     cfg,
		status:  Status{State: StateIdle},
	}
	s.backoff = s.newBackoff()
	return s
}

func (s *Scheduler) newBackoff() retry.Backoff {
	b := retry.NewExponential(s.cfg.BackoffBase)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithCappedDuration(s.cfg.BackoffMax, b)
	return retry.WithMaxRetries(s.cfg.MaxRetries, b)
}

// Status returns the current scheduler status.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// StatusChanges subscribes to status updates.
func (s *Scheduler) StatusChanges() *notify.Subscription {
	return s.statusN.Subscribe()
}

// Foreground triggers an immediate sync (application regained focus).
func (s *Scheduler) Foreground() { s.send(evForeground) }

// Resume leaves the Paused state.
func (s *Scheduler) Resume() { s.send(evResume) }

// Enable turns syncing on (entitlement granted, user signed in).
func (s *Scheduler) Enable() { s.send(evEnable) }

// Disable turns syncing off. The outbox is retained.
func (s *Scheduler) Disable() { s.send(evDisable) }

func (s *Scheduler) send(ev event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Run drives the scheduler until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.statusN.Close()

	sub := s.changes.Subscribe()
	defer sub.Unsubscribe()
	changesC := sub.C()

	cycleCtx, cancelCycles := context.WithCancel(ctx)
	defer cancelCycles()

	var (
		debounce, maxWait, backoffT   *time.Timer
		debounceC, maxWaitC, backoffC <-chan time.Time
		tickC                         <-chan time.Time
	)
	stop := func(t **time.Timer, c *<-chan time.Time) {
		if *t != nil {
			(*t).Stop()
			*t = nil
		}
		*c = nil
	}
	if s.cfg.Interval > 0 {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	results := make(chan cycleResult, 1)

	handle := func(ev event) {
		s.mu.Lock()
		from := s.status.State
		next, act := transition(from, s.dirty, ev)
		s.status.State = next
		s.mu.Unlock()

		switch act {
		case actReset:
			stop(&debounce, &debounceC)
			stop(&maxWait, &maxWaitC)
			stop(&backoffT, &backoffC)
			s.mu.Lock()
			s.dirty = false
			s.backoff = s.newBackoff()
			s.status.NextAttemptAt = time.Time{}
			s.mu.Unlock()

		case actSchedule:
			stop(&debounce, &debounceC)
			debounce = time.NewTimer(s.cfg.Debounce)
			debounceC = debounce.C
			if maxWait == nil {
				maxWait = time.NewTimer(s.cfg.MaxWait)
				maxWaitC = maxWait.C
			}

		case actSync:
			stop(&debounce, &debounceC)
			stop(&maxWait, &maxWaitC)
			s.mu.Lock()
			s.dirty = false
			busy := s.inFlight
			s.inFlight = true
			s.mu.Unlock()
			if !busy {
				go func() {
					cctx, cancel := context.WithTimeout(cycleCtx, s.cfg.CycleTimeout)
					defer cancel()
					res, err := s.syncer.SyncOnce(cctx)
					results <- cycleResult{result: res, err: err}
				}()
			}

		case actBackoff:
			s.mu.Lock()
			delay := s.nextDelay
			s.status.NextAttemptAt = time.Now().Add(delay)
			s.mu.Unlock()
			stop(&backoffT, &backoffC)
			backoffT = time.NewTimer(delay)
			backoffC = backoffT.C

		case actMarkDirty:
			s.mu.Lock()
			s.dirty = true
			s.mu.Unlock()
		}

		if from != next {
			s.logger.Debug("Sync scheduler transition", "from", from, "to", next)
		}
		s.statusN.Notify()
	}

	// Enable: если outbox не пуст, сразу планируем цикл
	checkPending := func() {
		if s.pending(ctx) > 0 {
			handle(evChange)
		}
	}
	checkPending()

	for {
		select {
		case <-ctx.Done():
			cancelCycles()
			s.mu.RLock()
			busy := s.inFlight
			s.mu.RUnlock()
			if busy {
				<-results
			}
			return nil

		case _, ok := <-changesC:
			if !ok {
				changesC = nil
				continue
			}
			// сигнал после собственного commit без новых операций не планирует цикл
			if s.pending(ctx) > 0 {
				handle(evChange)
			}

		case ev := <-s.events:
			handle(ev)
			if ev == evEnable {
				checkPending()
			}

		case <-debounceC:
			debounce, debounceC = nil, nil
			stop(&maxWait, &maxWaitC)
			handle(evDue)

		case <-maxWaitC:
			maxWait, maxWaitC = nil, nil
			stop(&debounce, &debounceC)
			handle(evDue)

		case <-backoffC:
			backoffT, backoffC = nil, nil
			handle(evBackoffElapsed)

		case <-tickC:
			handle(evTick)

		case r := <-results:
			s.mu.Lock()
			s.inFlight = false
			s.mu.Unlock()
			handle(s.classify(r))
		}
	}
}

// classify переводит результат цикла в событие и обновляет статус
func (s *Scheduler) classify(r cycleResult) event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.err == nil {
		s.status.LastResult = r.result
		s.status.LastError = nil
		s.status.LastSyncAt = time.Now()
		s.status.NextAttemptAt = time.Time{}
		s.backoff = s.newBackoff()
		if r.result != nil && r.result.Remaining > 0 {
			s.dirty = true
		}
		return evSyncSucceeded
	}

	s.status.LastError = r.err

	switch {
	case errors.Is(r.err, ErrAuthRequired):
		s.logger.Warn("Sync paused: sign in required", "error", r.err)
		return evSyncFatal
	case errors.Is(r.err, storage.ErrQuotaExceeded):
		s.logger.Error("Sync paused: local storage quota exceeded", "error", r.err)
		return evSyncFatal
	}

	delay, stop := s.backoff.Next()
	if stop {
		s.logger.Warn("Sync paused: retry budget exhausted", "error", r.err)
		s.backoff = s.newBackoff()
		return evSyncFatal
	}
	s.nextDelay = delay
	return evSyncFailed
}

func (s *Scheduler) pending(ctx context.Context) int {
	state, err := s.syncer.Status(ctx)
	if err != nil {
		s.logger.Warn("Failed to read sync state", "error", err)
		// при ошибке чтения считаем, что изменения есть
		return 1
	}
	return state.PendingOpCount
}
