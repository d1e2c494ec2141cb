// Package cli implements the bakesync client commands.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/iudanet/bakesync/internal/client/app"
	"github.com/iudanet/bakesync/internal/client/iocli"
	"github.com/iudanet/bakesync/internal/client/notify"
	"github.com/iudanet/bakesync/internal/client/storage"
	clientsync "github.com/iudanet/bakesync/internal/client/sync"
	"github.com/iudanet/bakesync/internal/models"
)

//go:generate moq -out cli_mock.go . Syncer Entities Sessions Outbox Runner

// Syncer runs a single sync cycle
type Syncer interface {
	SyncOnce(ctx context.Context) (*clientsync.SyncResult, error)
	Status(ctx context.Context) (*models.SyncState, error)
}

// Entities is the data service used by put, delete and list
type Entities interface {
	Put(ctx context.Context, kind models.EntityType, raw json.RawMessage) (models.Entity, error)
	Delete(ctx context.Context, kind models.EntityType, id string) error
	List(ctx context.Context, kind models.EntityType) ([]models.Entity, error)
}

// Sessions manages the stored access token
type Sessions interface {
	Login(ctx context.Context, token string) (*storage.AuthData, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*storage.AuthData, error)
}

// Outbox lists operations waiting to be pushed, including those the
// recorder still holds in memory
type Outbox interface {
	Pending(ctx context.Context) ([]models.Operation, error)
}

// Runner is the background sync scheduler
type Runner interface {
	Run(ctx context.Context) error
	Foreground()
	Status() clientsync.Status
	StatusChanges() *notify.Subscription
}

type Cli struct {
	io        iocli.IO
	in        io.Reader
	syncer    Syncer
	data      Entities
	session   Sessions
	outbox    Outbox
	scheduler Runner
	now       func() time.Time
	deviceID  string
}

// New creates the command set over an opened client
func New(out iocli.IO, a *app.App) *Cli {
	return &Cli{
		io:        out,
		in:        os.Stdin,
		syncer:    a.Engine,
		data:      a.Data,
		session:   a.Session,
		outbox:    a.Recorder,
		scheduler: a.Scheduler,
		now:       time.Now,
		deviceID:  a.DeviceID,
	}
}
