package boltdb

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

var (
	// BoltDB bucket names
	bucketOutbox   = []byte("outbox")
	bucketMetadata = []byte("meta")
	bucketAuth     = []byte("auth")
)

// entityBucket returns the bucket name of collection t.
func entityBucket(t models.EntityType) []byte {
	return []byte("entities/" + string(t))
}

// Options tune the local store.
type Options struct {
	// MaxBytes ограничивает размер файла БД (0 - без ограничения).
	// Проверка приблизительная: текущий размер плюс размер записываемых данных.
	MaxBytes int64
	// Timeout ожидания блокировки файла другим процессом
	Timeout time.Duration
}

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db       *bbolt.DB
	maxBytes int64
}

var (
	_ storage.LocalStore  = (*Storage)(nil)
	_ storage.AuthStorage = (*Storage)(nil)
)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Options) (*Storage, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Timeout == 0 {
		o.Timeout = time.Second
	}

	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: o.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db, maxBytes: o.MaxBytes}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path.
func (s *Storage) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		names := [][]byte{bucketOutbox, bucketMetadata, bucketAuth}
		for _, t := range models.AllEntityTypes {
			names = append(names, entityBucket(t))
		}
		for _, name := range names {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// update runs fn in a write transaction and maps out-of-space errors
// to storage.ErrQuotaExceeded.
func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	err := s.db.Update(fn)
	if err != nil && errors.Is(err, syscall.ENOSPC) && !errors.Is(err, storage.ErrQuotaExceeded) {
		return fmt.Errorf("%w: %v", storage.ErrQuotaExceeded, err)
	}
	return err
}

// checkQuota проверяет, что запись n байт не превысит лимит.
func (s *Storage) checkQuota(tx *bbolt.Tx, n int) error {
	if s.maxBytes <= 0 {
		return nil
	}
	if tx.Size()+int64(n) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes used, limit %d", storage.ErrQuotaExceeded, tx.Size(), s.maxBytes)
	}
	return nil
}
