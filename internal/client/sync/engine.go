// Package sync runs the pull-merge-push cycle against the remote document
// and schedules it in response to local changes.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/bakesync/internal/client/merge"
	"github.com/iudanet/bakesync/internal/client/notify"
	"github.com/iudanet/bakesync/internal/client/recorder"
	"github.com/iudanet/bakesync/internal/client/remote"
	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

// ErrAuthRequired is returned when the backend keeps rejecting credentials
// after one silent refresh. The user has to sign in again.
var ErrAuthRequired = errors.New("authentication required")

// Config настраивает цикл синхронизации
type Config struct {
	MaxConflictAttempts int           // попыток push при конфликте версий
	ConflictBackoff     time.Duration // пауза перед повторным pull после конфликта
	TombstoneTTL        time.Duration // время жизни tombstone после полного цикла
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		MaxConflictAttempts: 5,
		ConflictBackoff:     100 * time.Millisecond,
		TombstoneTTL:        merge.DefaultTombstoneTTL,
	}
}

// SyncResult contains the outcome of one sync cycle.
type SyncResult struct {
	Version   int64 // версия снапшота после цикла
	Pulled    int   // живых записей в удаленном снапшоте
	Applied   int   // операций outbox, вошедших в слияние
	Conflicts int   // записей, измененных обеими сторонами
	LocalWins int   // записей outbox, чья локальная версия победила
	Pruned    int   // удалено операций из outbox
	Remaining int   // операций, записанных во время цикла
	Collected int   // удалено tombstone
	Attempts  int   // попыток pull-merge-push
	Pushed    bool
	Reseeded  bool // удаленный документ был поврежден и перезаписан
	Duration  time.Duration
}

// Engine synchronizes one account session. It is constructed per
// authenticated session with all collaborators injected.
type Engine struct {
	local    storage.LocalStore
	remote   remote.Store
	tokens   remote.TokenSource
	recorder *recorder.Recorder
	notifier *notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
	cfg      Config
	cycleMu  sync.Mutex // не более одного цикла одновременно
	writeMu  sync.Mutex // локальные мутации против снимка outbox и commit
}

// NewEngine creates a sync engine. tokens may be nil when the remote store
// needs no credentials.
func NewEngine(
	local storage.LocalStore,
	store remote.Store,
	tokens remote.TokenSource,
	rec *recorder.Recorder,
	notifier *notify.Notifier,
	logger *slog.Logger,
	cfg Config,
) *Engine {
	def := DefaultConfig()
	if cfg.MaxConflictAttempts <= 0 {
		cfg.MaxConflictAttempts = def.MaxConflictAttempts
	}
	if cfg.ConflictBackoff <= 0 {
		cfg.ConflictBackoff = def.ConflictBackoff
	}

	return &Engine{
		local:    local,
		remote:   store,
		tokens:   tokens,
		recorder: rec,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Locker returns the lock local mutations must hold while they write the
// Local Store and record their operation.
func (e *Engine) Locker() sync.Locker {
	return &e.writeMu
}

// Notifier returns the change notifier of the session.
func (e *Engine) Notifier() *notify.Notifier {
	return e.notifier
}

// Status returns the persisted sync state with a fresh pending count.
func (e *Engine) Status(ctx context.Context) (*models.SyncState, error) {
	state, err := e.local.GetSyncState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}
	n, err := e.local.CountOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count outbox: %w", err)
	}
	state.PendingOpCount = n + e.recorder.Unflushed()
	return state, nil
}

// SyncOnce runs one pull-merge-push cycle.
//
// Nothing local changes before the push is confirmed: on any error the
// outbox and the entity collections are left as they were.
func (e *Engine) SyncOnce(ctx context.Context) (*SyncResult, error) {
	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()

	start := e.now()
	e.logger.Info("Starting synchronization")

	result, err := e.syncOnce(ctx)
	if err != nil {
		e.saveFailure(ctx, err)
		e.logger.Warn("Synchronization failed",
			"duration", e.now().Sub(start),
			"error", err)
		return nil, err
	}

	result.Duration = e.now().Sub(start)
	e.logger.Info("Synchronization completed",
		"version", result.Version,
		"pulled", result.Pulled,
		"applied", result.Applied,
		"pushed", result.Pushed,
		"conflicts", result.Conflicts,
		"local_wins", result.LocalWins,
		"pruned", result.Pruned,
		"remaining", result.Remaining,
		"attempts", result.Attempts,
		"duration", result.Duration)

	e.notifier.Notify()
	return result, nil
}

func (e *Engine) syncOnce(ctx context.Context) (*SyncResult, error) {
	base, outbox, err := e.snapshotLocal(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	var final *merge.Result

	// Конфликт версий: повторный pull -> merge -> push
	backoff := retry.WithMaxRetries(uint64(e.cfg.MaxConflictAttempts-1), retry.NewConstant(e.cfg.ConflictBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		result.Attempts++

		remoteSnap, reseeded, err := e.pull(ctx, base)
		if err != nil {
			return err
		}

		res := merge.Resolve(base, outbox, remoteSnap, merge.Options{
			Now:          e.now(),
			TombstoneTTL: e.cfg.TombstoneTTL,
		})
		result.Pulled = remoteSnap.Live()
		result.Reseeded = reseeded

		// поврежденный документ перезаписываем даже без локальных изменений
		if reseeded && !res.NeedsPush {
			res.NeedsPush = true
			res.Merged.SnapshotVersion = remoteSnap.SnapshotVersion + 1
		}

		if !res.NeedsPush {
			final = res
			return nil
		}

		var token string
		err = e.withAuth(ctx, func() error {
			var perr error
			token, perr = e.remote.Push(ctx, res.Merged, remoteSnap.VersionToken)
			return perr
		})
		if errors.Is(err, remote.ErrConflict) {
			e.logger.Info("Remote snapshot changed during sync, retrying",
				"attempt", result.Attempts,
				"expected_token", remoteSnap.VersionToken)
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}

		res.Merged.VersionToken = token
		result.Pushed = true
		final = res
		return nil
	})
	if err != nil {
		if errors.Is(err, remote.ErrConflict) {
			return nil, fmt.Errorf("push rejected after %d attempts: %w", result.Attempts, err)
		}
		return nil, err
	}

	commit, err := e.commit(ctx, final.Merged, final.AppliedOpIDs)
	if err != nil {
		return nil, err
	}

	for _, d := range final.Decisions {
		if d.Conflict {
			e.logger.Debug("Resolved conflicting edit",
				"entity_type", d.Type,
				"entity_id", d.ID,
				"winner", d.Winner)
		}
	}

	result.Version = final.Merged.SnapshotVersion
	result.Applied = len(final.AppliedOpIDs)
	result.Conflicts = final.Conflicts
	result.LocalWins = final.LocalWins()
	result.Collected = final.Collected
	result.Pruned = commit.Pruned
	result.Remaining = commit.Remaining
	return result, nil
}

// snapshotLocal фиксирует базу и outbox под блокировкой записи
func (e *Engine) snapshotLocal(ctx context.Context) (*models.Snapshot, []models.Operation, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if err := e.recorder.Flush(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to flush outbox: %w", err)
	}

	base, err := e.local.GetLastMerged(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get last merged snapshot: %w", err)
	}

	outbox, err := e.local.ListOperations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list outbox: %w", err)
	}

	return base, outbox, nil
}

// pull получает удаленный снапшот. Поврежденный документ заменяется последним
// слитым снапшотом с токеном документа, чтобы перезаписать его локальным состоянием.
func (e *Engine) pull(ctx context.Context, base *models.Snapshot) (*models.Snapshot, bool, error) {
	var snap *models.Snapshot
	err := e.withAuth(ctx, func() error {
		var perr error
		snap, perr = e.remote.Pull(ctx)
		return perr
	})

	var corrupt *remote.CorruptSnapshotError
	if errors.As(err, &corrupt) {
		e.logger.Error("Remote snapshot is corrupt, re-seeding it from local state",
			"version_token", corrupt.VersionToken,
			"error", corrupt.Err)

		seed := base.Clone()
		seed.VersionToken = corrupt.VersionToken
		return seed, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	return snap, false, nil
}

// withAuth выполняет fn и при ErrAuthExpired один раз обновляет токен
func (e *Engine) withAuth(ctx context.Context, fn func() error) error {
	err := fn()
	if !errors.Is(err, remote.ErrAuthExpired) {
		return err
	}
	if e.tokens == nil {
		return fmt.Errorf("%w: %v", ErrAuthRequired, err)
	}

	e.logger.Info("Credentials rejected, refreshing token")
	if _, rerr := e.tokens.Refresh(ctx); rerr != nil {
		return fmt.Errorf("%w: token refresh failed: %v", ErrAuthRequired, rerr)
	}

	err = fn()
	if errors.Is(err, remote.ErrAuthExpired) {
		return fmt.Errorf("%w: %v", ErrAuthRequired, err)
	}
	return err
}

func (e *Engine) commit(ctx context.Context, merged *models.Snapshot, applied []string) (*storage.CommitResult, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	state, err := e.local.GetSyncState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	now := e.now().UTC()
	state.LastMergedVersion = merged.SnapshotVersion
	state.LastSyncedAt = now
	state.LastAttemptAt = now
	state.LastError = ""
	state.ConsecutiveFailures = 0

	// Операции, не попавшие в outbox из-за сбоя записи, тоже входят в локальное состояние
	if err := e.recorder.Flush(ctx); err != nil {
		e.logger.Warn("Failed to flush outbox before commit", "error", err)
	}

	res, err := e.local.CommitMerge(ctx, merged, applied, e.recorder.Unpersisted(), state)
	if err != nil {
		return nil, fmt.Errorf("failed to commit merge: %w", err)
	}
	return res, nil
}

// saveFailure сохраняет ошибку последней попытки для отображения статуса
func (e *Engine) saveFailure(ctx context.Context, cause error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	state, err := e.local.GetSyncState(ctx)
	if err != nil {
		e.logger.Warn("Failed to get sync state", "error", err)
		return
	}

	state.LastAttemptAt = e.now().UTC()
	state.LastError = cause.Error()
	state.ConsecutiveFailures++
	if n, err := e.local.CountOperations(ctx); err == nil {
		state.PendingOpCount = n + e.recorder.Unflushed()
	}

	if err := e.local.SaveSyncState(ctx, state); err != nil {
		e.logger.Warn("Failed to save sync state", "error", err)
	}
}
