package sync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bakesync/internal/client/notify"
	"github.com/iudanet/bakesync/internal/client/remote"
	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name       string
		from       State
		ev         event
		dirty      bool
		wantState  State
		wantAction action
	}{
		{name: "idle change schedules", from: StateIdle, ev: evChange, wantState: StateScheduled, wantAction: actSchedule},
		{name: "idle tick schedules", from: StateIdle, ev: evTick, wantState: StateScheduled, wantAction: actSchedule},
		{name: "idle foreground syncs now", from: StateIdle, ev: evForeground, wantState: StateSyncing, wantAction: actSync},
		{name: "scheduled change re-arms debounce", from: StateScheduled, ev: evChange, wantState: StateScheduled, wantAction: actSchedule},
		{name: "scheduled due", from: StateScheduled, ev: evDue, wantState: StateSyncing, wantAction: actSync},
		{name: "scheduled foreground", from: StateScheduled, ev: evForeground, wantState: StateSyncing, wantAction: actSync},
		{name: "scheduled tick ignored", from: StateScheduled, ev: evTick, wantState: StateScheduled, wantAction: actNone},
		{name: "change during sync marks dirty", from: StateSyncing, ev: evChange, wantState: StateSyncing, wantAction: actMarkDirty},
		{name: "tick during sync ignored", from: StateSyncing, ev: evTick, wantState: StateSyncing, wantAction: actNone},
		{name: "success goes idle", from: StateSyncing, ev: evSyncSucceeded, wantState: StateIdle, wantAction: actNone},
		{name: "success when dirty reschedules", from: StateSyncing, ev: evSyncSucceeded, dirty: true, wantState: StateScheduled, wantAction: actSchedule},
		{name: "transient failure backs off", from: StateSyncing, ev: evSyncFailed, wantState: StateBackoff, wantAction: actBackoff},
		{name: "fatal failure pauses", from: StateSyncing, ev: evSyncFatal, wantState: StatePaused, wantAction: actNone},
		{name: "backoff elapsed reschedules", from: StateBackoff, ev: evBackoffElapsed, wantState: StateScheduled, wantAction: actSchedule},
		{name: "backoff ignores changes", from: StateBackoff, ev: evChange, wantState: StateBackoff, wantAction: actNone},
		{name: "paused resumes on change", from: StatePaused, ev: evChange, wantState: StateScheduled, wantAction: actSchedule},
		{name: "paused resumes on foreground", from: StatePaused, ev: evForeground, wantState: StateScheduled, wantAction: actSchedule},
		{name: "paused resume", from: StatePaused, ev: evResume, wantState: StateScheduled, wantAction: actSchedule},
		{name: "paused ignores tick", from: StatePaused, ev: evTick, wantState: StatePaused, wantAction: actNone},
		{name: "disable from syncing", from: StateSyncing, ev: evDisable, wantState: StateDisabled, wantAction: actReset},
		{name: "disable from backoff", from: StateBackoff, ev: evDisable, wantState: StateDisabled, wantAction: actReset},
		{name: "disabled ignores change", from: StateDisabled, ev: evChange, wantState: StateDisabled, wantAction: actNone},
		{name: "disabled ignores foreground", from: StateDisabled, ev: evForeground, wantState: StateDisabled, wantAction: actNone},
		{name: "late result while disabled", from: StateDisabled, ev: evSyncSucceeded, wantState: StateDisabled, wantAction: actNone},
		{name: "enable", from: StateDisabled, ev: evEnable, wantState: StateIdle, wantAction: actReset},
		{name: "enable when enabled is a no-op", from: StateIdle, ev: evEnable, wantState: StateIdle, wantAction: actNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, act := transition(tt.from, tt.dirty, tt.ev)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantAction, act)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "backoff", StateBackoff.String())
	assert.Equal(t, "unknown", State(42).String())
}

// fakeSyncer считает циклы и возвращает заданные ошибки по очереди
type fakeSyncer struct {
	errs    chan error
	pending atomic.Int64
	cycles  atomic.Int64
}

func newFakeSyncer() *fakeSyncer {
	return &fakeSyncer{errs: make(chan error, 16)}
}

func (f *fakeSyncer) mock() *SyncerMock {
	return &SyncerMock{
		SyncOnceFunc: func(ctx context.Context) (*SyncResult, error) {
			f.cycles.Add(1)
			select {
			case err := <-f.errs:
				if err != nil {
					return nil, err
				}
			default:
			}
			f.pending.Store(0)
			return &SyncResult{}, nil
		},
		StatusFunc: func(ctx context.Context) (*models.SyncState, error) {
			return &models.SyncState{PendingOpCount: int(f.pending.Load())}, nil
		},
	}
}

func testSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Debounce:     20 * time.Millisecond,
		MaxWait:      200 * time.Millisecond,
		BackoffBase:  10 * time.Millisecond,
		BackoffMax:   40 * time.Millisecond,
		MaxRetries:   3,
		CycleTimeout: time.Second,
	}
}

func startScheduler(t *testing.T, syncer Syncer, changes *notify.Notifier, cfg SchedulerConfig) *Scheduler {
	t.Helper()
	s := NewScheduler(syncer, changes, testLogger(), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s
}

func waitState(t *testing.T, s *Scheduler, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.Status().State == want
	}, 2*time.Second, 5*time.Millisecond, "scheduler did not reach %s (now %s)", want, s.Status().State)
}

func TestScheduler_DebouncesBurst(t *testing.T) {
	f := newFakeSyncer()
	changes := notify.New()
	s := startScheduler(t, f.mock(), changes, testSchedulerConfig())

	f.pending.Store(3)
	for i := 0; i < 3; i++ {
		changes.Notify()
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return f.cycles.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	waitState(t, s, StateIdle)

	// Сигнал без ожидающих операций (эхо после commit) не запускает цикл
	changes.Notify()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(1), f.cycles.Load())
	assert.NotNil(t, s.Status().LastResult)
}

func TestScheduler_MaxWaitCapsDebounce(t *testing.T) {
	f := newFakeSyncer()
	changes := notify.New()
	cfg := testSchedulerConfig()
	cfg.MaxWait = 60 * time.Millisecond
	startScheduler(t, f.mock(), changes, cfg)

	f.pending.Store(1)
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) && f.cycles.Load() == 0 {
		changes.Notify()
		time.Sleep(5 * time.Millisecond)
	}

	assert.GreaterOrEqual(t, f.cycles.Load(), int64(1), "continuous edits still sync at the max-wait cap")
}

func TestScheduler_ForegroundSyncsImmediately(t *testing.T) {
	f := newFakeSyncer()
	cfg := testSchedulerConfig()
	cfg.Debounce = time.Hour
	cfg.MaxWait = time.Hour
	s := startScheduler(t, f.mock(), notify.New(), cfg)

	s.Foreground()
	require.Eventually(t, func() bool { return f.cycles.Load() == 1 }, time.Second, 5*time.Millisecond)
	waitState(t, s, StateIdle)
}

func TestScheduler_SchedulesPendingOnStart(t *testing.T) {
	f := newFakeSyncer()
	f.pending.Store(2)
	startScheduler(t, f.mock(), notify.New(), testSchedulerConfig())

	require.Eventually(t, func() bool { return f.cycles.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_BackoffThenRecover(t *testing.T) {
	f := newFakeSyncer()
	f.errs <- remote.ErrNetwork
	f.errs <- remote.ErrNetwork

	s := startScheduler(t, f.mock(), notify.New(), testSchedulerConfig())
	s.Foreground()

	require.Eventually(t, func() bool { return f.cycles.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	waitState(t, s, StateIdle)

	st := s.Status()
	assert.NoError(t, st.LastError)
	assert.False(t, st.LastSyncAt.IsZero())
}

func TestScheduler_PausesWhenRetriesExhausted(t *testing.T) {
	f := newFakeSyncer()
	for i := 0; i < 4; i++ {
		f.errs <- remote.ErrNetwork
	}

	cfg := testSchedulerConfig()
	cfg.MaxRetries = 2
	s := startScheduler(t, f.mock(), notify.New(), cfg)
	s.Foreground()

	waitState(t, s, StatePaused)
	assert.Equal(t, int64(3), f.cycles.Load())
	assert.ErrorIs(t, s.Status().LastError, remote.ErrNetwork)

	// Resume запускает новый цикл с новым бюджетом повторов
	s.Resume()
	require.Eventually(t, func() bool { return f.cycles.Load() >= 4 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_PausesOnFatalErrors(t *testing.T) {
	tests := []struct {
		err  error
		name string
	}{
		{name: "auth required", err: ErrAuthRequired},
		{name: "local quota", err: storage.ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeSyncer()
			f.errs <- tt.err

			s := startScheduler(t, f.mock(), notify.New(), testSchedulerConfig())
			s.Foreground()

			waitState(t, s, StatePaused)
			assert.Equal(t, int64(1), f.cycles.Load(), "no automatic retry")
			assert.ErrorIs(t, s.Status().LastError, tt.err)

			s.Foreground()
			require.Eventually(t, func() bool { return f.cycles.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
			waitState(t, s, StateIdle)
		})
	}
}

func TestScheduler_DisableEnable(t *testing.T) {
	f := newFakeSyncer()
	changes := notify.New()
	s := startScheduler(t, f.mock(), changes, testSchedulerConfig())

	s.Disable()
	waitState(t, s, StateDisabled)

	f.pending.Store(1)
	changes.Notify()
	s.Foreground()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(0), f.cycles.Load(), "no sync while disabled")
	assert.Equal(t, int64(1), f.pending.Load(), "outbox retained")

	s.Enable()
	require.Eventually(t, func() bool { return f.cycles.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	waitState(t, s, StateIdle)
}

func TestScheduler_StatusChanges(t *testing.T) {
	f := newFakeSyncer()
	s := startScheduler(t, f.mock(), notify.New(), testSchedulerConfig())
	sub := s.StatusChanges()

	s.Foreground()
	select {
	case <-sub.C():
	case <-time.After(time.Second):
		t.Fatal("no status update")
	}
}

func TestScheduler_ChangeDuringSyncRunsFollowUp(t *testing.T) {
	var (
		cycles, inflight, maxInflight atomic.Int64
		pending                       atomic.Int64
	)
	release := make(chan struct{})
	started := make(chan struct{}, 4)

	syncer := &SyncerMock{
		SyncOnceFunc: func(ctx context.Context) (*SyncResult, error) {
			n := inflight.Add(1)
			defer inflight.Add(-1)
			for {
				m := maxInflight.Load()
				if n <= m || maxInflight.CompareAndSwap(m, n) {
					break
				}
			}
			if cycles.Add(1) == 1 {
				started <- struct{}{}
				<-release
			}
			pending.Store(0)
			return &SyncResult{}, nil
		},
		StatusFunc: func(ctx context.Context) (*models.SyncState, error) {
			return &models.SyncState{PendingOpCount: int(pending.Load())}, nil
		},
	}

	changes := notify.New()
	s := startScheduler(t, syncer, changes, testSchedulerConfig())

	s.Foreground()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle did not start")
	}
	waitState(t, s, StateSyncing)

	// Правка и возврат на передний план во время цикла
	pending.Store(1)
	changes.Notify()
	s.Foreground()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), cycles.Load(), "no second cycle while the first is running")
	close(release)

	require.Eventually(t, func() bool { return cycles.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	waitState(t, s, StateIdle)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(2), cycles.Load())
	assert.Equal(t, int64(1), maxInflight.Load())
	assert.Equal(t, StateIdle, s.Status().State)
}

func TestScheduler_IntervalTickSyncs(t *testing.T) {
	f := newFakeSyncer()
	cfg := testSchedulerConfig()
	cfg.Interval = 30 * time.Millisecond
	cfg.Debounce = 5 * time.Millisecond
	startScheduler(t, f.mock(), notify.New(), cfg)

	// Без локальных правок цикл запускает только периодический pull
	require.Eventually(t, func() bool { return f.cycles.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}
