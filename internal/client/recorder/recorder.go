// Package recorder turns local mutations into immutable outbox operations.
package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/crdt"
	"github.com/iudanet/bakesync/internal/models"
)

// Recorder appends one Operation per local mutation to the outbox.
//
// The outbox write never fails a mutation: the mutation has already been
// written to the Local Store. When the outbox write fails the operation is
// kept in memory and retried by the next Flush.
type Recorder struct {
	store   storage.OutboxStorage
	clock   *crdt.SeqClock
	now     func() time.Time
	logger  *slog.Logger
	pending []models.Operation // операции, которые не удалось сохранить
	mu      sync.Mutex
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// New creates a recorder for deviceID and restores the seq counter from store.
func New(ctx context.Context, store storage.OutboxStorage, deviceID string, logger *slog.Logger, opts ...Option) (*Recorder, error) {
	last, err := store.LastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore seq counter: %w", err)
	}
	clock := crdt.NewSeqClockWithDeviceID(deviceID, last)

	// Счетчик в meta мог отстать от outbox (старый файл), берем максимум
	ops, err := store.ListOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read outbox: %w", err)
	}
	for _, op := range ops {
		if op.DeviceID == deviceID {
			clock.Restore(op.Seq)
		}
	}

	r := &Recorder{
		store:  store,
		clock:  clock,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// DeviceID returns the id stamped on every operation.
func (r *Recorder) DeviceID() string {
	return r.clock.DeviceID()
}

// Now returns the recorder's wall clock reading in UTC.
func (r *Recorder) Now() time.Time {
	return r.now().UTC()
}

// Prepare builds the next operation without persisting it.
func (r *Recorder) Prepare(kind models.EntityType, id string, verb models.Verb, payload json.RawMessage) models.Operation {
	op := models.Operation{
		OpID:       uuid.New().String(),
		DeviceID:   r.clock.DeviceID(),
		EntityType: kind,
		EntityID:   id,
		Verb:       verb,
		Seq:        r.clock.Next(),
		WallClock:  r.Now(),
	}
	if verb != models.VerbDelete && len(payload) > 0 {
		op.Payload = make(json.RawMessage, len(payload))
		copy(op.Payload, payload)
	}
	return op
}

// Record stamps the next operation for a mutation, lets apply write the
// mutation to the Local Store and appends the operation to the outbox once
// apply succeeded. When apply fails nothing is recorded and its error is
// returned. A failed outbox write never fails the mutation: the operation is
// kept in memory until the next Flush.
func (r *Recorder) Record(ctx context.Context, kind models.EntityType, id string, verb models.Verb, payload json.RawMessage, apply func(op models.Operation) error) (models.Operation, error) {
	op := r.Prepare(kind, id, verb, payload)
	if apply != nil {
		if err := apply(op); err != nil {
			return op, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, op)
	if err := r.flushLocked(ctx); err != nil {
		r.logger.Warn("Failed to persist operation, keeping it in memory",
			"op_id", op.OpID,
			"entity_type", op.EntityType,
			"entity_id", op.EntityID,
			"pending", len(r.pending),
			"error", err)
	}
	return op, nil
}

// Flush retries persisting operations kept in memory.
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.flushLocked(ctx)
}

func (r *Recorder) flushLocked(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}
	if err := r.store.AppendOperations(ctx, r.pending); err != nil {
		return err
	}
	r.pending = nil
	return nil
}

// Unflushed returns the number of operations held only in memory.
func (r *Recorder) Unflushed() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

// Unpersisted returns a copy of the operations held only in memory.
func (r *Recorder) Unpersisted() []models.Operation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		return nil
	}
	return append([]models.Operation(nil), r.pending...)
}

// Pending returns the full unmerged delta: persisted outbox plus operations
// still held in memory, in seq order.
func (r *Recorder) Pending(ctx context.Context) ([]models.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops, err := r.store.ListOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outbox: %w", err)
	}
	ops = append(ops, r.pending...)
	models.SortOperations(ops)
	return ops, nil
}
