// Package app assembles a client session: the local store, the recorder,
// the sync engine, the data service and the scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/bakesync/internal/client/auth"
	"github.com/iudanet/bakesync/internal/client/data"
	"github.com/iudanet/bakesync/internal/client/notify"
	"github.com/iudanet/bakesync/internal/client/recorder"
	"github.com/iudanet/bakesync/internal/client/remote"
	"github.com/iudanet/bakesync/internal/client/remote/httpstore"
	"github.com/iudanet/bakesync/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/bakesync/internal/client/sync"
	"github.com/iudanet/bakesync/internal/config"
	"github.com/iudanet/bakesync/internal/crypto"
	"github.com/iudanet/bakesync/internal/models"
)

// App holds the wired client components. Close releases the local store.
type App struct {
	Store     *boltdb.Storage
	Recorder  *recorder.Recorder
	Notifier  *notify.Notifier
	Session   *auth.Session
	Engine    *clientsync.Engine
	Data      *data.Service
	Scheduler *clientsync.Scheduler
	logger    *slog.Logger
	DeviceID  string
}

// Option overrides parts of the wiring (tests use a different remote)
type Option func(*options)

type options struct {
	remote remote.Store
	prompt auth.Prompter
}

// WithRemote replaces the HTTP remote store
func WithRemote(store remote.Store) Option {
	return func(o *options) { o.remote = store }
}

// WithPrompter lets the session ask for a new token when the backend
// rejects the current one
func WithPrompter(p auth.Prompter) Option {
	return func(o *options) { o.prompt = p }
}

// Open wires a client from cfg
func Open(ctx context.Context, cfg *config.Client, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	a, err := wire(ctx, cfg, store, logger, o)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func wire(ctx context.Context, cfg *config.Client, store *boltdb.Storage, logger *slog.Logger, o options) (*App, error) {
	deviceID, err := store.DeviceID(ctx)
	if err != nil {
		return nil, err
	}
	logger = logger.With("device_id", deviceID)

	rec, err := recorder.New(ctx, store, deviceID, logger)
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(store, cfg.Token, o.prompt, logger)

	rs := o.remote
	if rs == nil {
		rs = newRemote(cfg, session)
	}

	notifier := notify.New()
	engine := clientsync.NewEngine(store, rs, session, rec, notifier, logger, cfg.Sync.Engine())

	return &App{
		Store:     store,
		Recorder:  rec,
		Notifier:  notifier,
		Session:   session,
		Engine:    engine,
		Data:      data.NewService(store, rec, notifier, engine.Locker(), logger),
		Scheduler: clientsync.NewScheduler(engine, notifier, logger, cfg.Sync.Scheduler()),
		logger:    logger,
		DeviceID:  deviceID,
	}, nil
}

// Close flushes buffered operations and closes the local store
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Recorder.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush outbox: %w", err))
	}
	a.Notifier.Close()
	if err := a.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func newRemote(cfg *config.Client, session *auth.Session) remote.Store {
	if cfg.Passphrase == "" {
		return httpstore.New(cfg.ServerURL, session, httpstore.WithTimeout(cfg.Timeout))
	}

	// ключ шифрования выводится из аккаунта, он известен только после входа
	return &lazyStore{
		account: session.AccountID,
		build: func(accountID string) (remote.Store, error) {
			sealer, err := crypto.NewSnapshotSealer(cfg.Passphrase, accountID)
			if err != nil {
				return nil, err
			}
			return httpstore.New(cfg.ServerURL, session,
				httpstore.WithTimeout(cfg.Timeout),
				httpstore.WithSealer(sealer)), nil
		},
	}
}

// lazyStore builds the underlying store for the signed-in account and
// rebuilds it when another account signs in.
type lazyStore struct {
	store     remote.Store
	account   func(ctx context.Context) (string, error)
	build     func(accountID string) (remote.Store, error)
	accountID string // аккаунт, для которого построен store
	mu        sync.Mutex
}

func (l *lazyStore) get(ctx context.Context) (remote.Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	accountID, err := l.account(ctx)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return nil, fmt.Errorf("%w: %v", remote.ErrAuthExpired, err)
	}
	if err != nil {
		return nil, err
	}

	if l.store != nil && l.accountID == accountID {
		return l.store, nil
	}
	s, err := l.build(accountID)
	if err != nil {
		return nil, err
	}
	l.store = s
	l.accountID = accountID
	return s, nil
}

func (l *lazyStore) Pull(ctx context.Context) (*models.Snapshot, error) {
	s, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Pull(ctx)
}

func (l *lazyStore) Push(ctx context.Context, snap *models.Snapshot, expectedToken string) (string, error) {
	s, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	return s.Push(ctx, snap, expectedToken)
}
