// Package data is the application-facing API over the Local Store. Every
// mutation writes the Local Store, records one outbox operation and fires
// the change notifier in a single synchronous step.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/bakesync/internal/client/notify"
	"github.com/iudanet/bakesync/internal/client/recorder"
	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

// Data service errors
var (
	// ErrNotFound is returned for entities that were never written or are deleted
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when adding an entity whose id is live
	ErrAlreadyExists = errors.New("entity already exists")
)

// Service handles local CRUD for all entity types.
type Service struct {
	store    storage.EntityStorage
	recorder *recorder.Recorder
	notifier *notify.Notifier
	mu       sync.Locker
	logger   *slog.Logger
}

// NewService creates a data service. mu is shared with the sync engine so a
// mutation is never split by a merge commit; pass nil when nothing else
// writes the store.
func NewService(store storage.EntityStorage, rec *recorder.Recorder, notifier *notify.Notifier, mu sync.Locker, logger *slog.Logger) *Service {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Service{
		store:    store,
		recorder: rec,
		notifier: notifier,
		mu:       mu,
		logger:   logger,
	}
}

// Batch runs fn with change signals coalesced into one (bulk edits).
func (s *Service) Batch(fn func() error) error {
	var err error
	s.notifier.Batch(func() {
		err = fn()
	})
	return err
}

// Put decodes raw as an entity of kind and creates or updates it.
func (s *Service) Put(ctx context.Context, kind models.EntityType, raw json.RawMessage) (models.Entity, error) {
	e, err := models.DecodeEntity(kind, raw)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, e, nil); err != nil {
		return nil, err
	}
	return e, nil
}

// Add creates a new entity. The id must not be live.
func (s *Service) Add(ctx context.Context, e models.Entity) error {
	verb := models.VerbCreate
	return s.save(ctx, e, &verb)
}

// Update replaces a live entity as a whole.
func (s *Service) Update(ctx context.Context, e models.Entity) error {
	verb := models.VerbUpdate
	return s.save(ctx, e, &verb)
}

// Delete removes an entity, leaving a tombstone.
func (s *Service) Delete(ctx context.Context, kind models.EntityType, id string) error {
	s.mu.Lock()
	prev, err := s.live(ctx, kind, id)
	if err == nil && prev == nil {
		err = fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err == nil {
		err = s.write(ctx, kind, id, models.VerbDelete, nil, prev)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notifier.Notify()
	return nil
}

// Get returns a live entity.
func (s *Service) Get(ctx context.Context, kind models.EntityType, id string) (models.Entity, error) {
	rec, err := s.live(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return models.DecodeEntity(kind, rec.Data)
}

// List returns all live entities of kind ordered by id.
func (s *Service) List(ctx context.Context, kind models.EntityType) ([]models.Entity, error) {
	recs, err := s.store.ListRecords(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	ids := make([]string, 0, len(recs))
	for id, rec := range recs {
		if !rec.Deleted {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	result := make([]models.Entity, 0, len(ids))
	for _, id := range ids {
		e, err := models.DecodeEntity(kind, recs[id].Data)
		if err != nil {
			// битая запись не должна скрывать остальные
			s.logger.Warn("Skipping unreadable record",
				"entity_type", kind,
				"entity_id", id,
				"error", err)
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// save validates e and writes it. verb nil means create-or-update.
func (s *Service) save(ctx context.Context, e models.Entity, verb *models.Verb) error {
	payload, err := models.EncodeEntity(e)
	if err != nil {
		return err
	}
	kind, id := e.Kind(), e.EntityID()

	s.mu.Lock()
	prev, err := s.live(ctx, kind, id)
	if err == nil {
		var v models.Verb
		v, err = resolveVerb(kind, id, prev, verb)
		if err == nil {
			err = s.write(ctx, kind, id, v, payload, prev)
		}
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notifier.Notify()
	return nil
}

func resolveVerb(kind models.EntityType, id string, prev *models.Record, verb *models.Verb) (models.Verb, error) {
	switch {
	case verb == nil && prev == nil:
		return models.VerbCreate, nil
	case verb == nil:
		return models.VerbUpdate, nil
	case *verb == models.VerbCreate && prev != nil:
		return "", fmt.Errorf("%s %s: %w", kind, id, ErrAlreadyExists)
	case *verb == models.VerbUpdate && prev == nil:
		return "", fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return *verb, nil
}

// live возвращает живую запись или nil (нет записи или tombstone)
func (s *Service) live(ctx context.Context, kind models.EntityType, id string) (*models.Record, error) {
	rec, err := s.store.GetRecord(ctx, kind, id)
	if errors.Is(err, storage.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	if rec.Deleted {
		return nil, nil
	}
	return rec, nil
}

// write stores the new record first and records the operation only after
// the Local Store accepted it. The caller holds s.mu.
func (s *Service) write(ctx context.Context, kind models.EntityType, id string, verb models.Verb, payload json.RawMessage, prev *models.Record) error {
	op, err := s.recorder.Record(ctx, kind, id, verb, payload, func(op models.Operation) error {
		return s.store.PutRecord(ctx, kind, id, op.Apply(prev))
	})
	if err != nil {
		return fmt.Errorf("failed to save %s %s: %w", kind, id, err)
	}

	s.logger.Debug("Local mutation recorded",
		"entity_type", kind,
		"entity_id", id,
		"verb", verb,
		"seq", op.Seq)
	return nil
}

// newID генерирует id для новой сущности
func newID() string {
	return uuid.New().String()
}
