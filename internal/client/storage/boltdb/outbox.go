package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

const (
	keySeq = "seq"
)

// seqKey кодирует seq в big-endian, чтобы курсор обходил outbox по порядку.
func seqKey(seq int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(seq))
	return b
}

// AppendOperations persists ops and raises the stored seq counter
func (s *Storage) AppendOperations(ctx context.Context, ops []models.Operation) error {
	if len(ops) == 0 {
		return nil
	}

	encoded := make([][]byte, len(ops))
	size := 0
	for i := range ops {
		data, err := json.Marshal(&ops[i])
		if err != nil {
			return fmt.Errorf("failed to marshal operation %s: %w", ops[i].OpID, err)
		}
		encoded[i] = data
		size += len(data)
	}

	err := s.update(func(tx *bbolt.Tx) error {
		if err := s.checkQuota(tx, size); err != nil {
			return err
		}

		outbox := tx.Bucket(bucketOutbox)
		meta := tx.Bucket(bucketMetadata)
		if outbox == nil || meta == nil {
			return fmt.Errorf("outbox bucket not found")
		}

		last := readSeq(meta)
		for i, op := range ops {
			if err := outbox.Put(seqKey(op.Seq), encoded[i]); err != nil {
				return fmt.Errorf("failed to save operation: %w", err)
			}
			if op.Seq > last {
				last = op.Seq
			}
		}

		return meta.Put([]byte(keySeq), seqKey(last))
	})

	if err != nil {
		return fmt.Errorf("append operations: %w", err)
	}

	return nil
}

// ListOperations returns the outbox in seq order
func (s *Storage) ListOperations(ctx context.Context) ([]models.Operation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var ops []models.Operation

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		ops, err = readOutbox(tx)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list outbox: %w", err)
	}

	return ops, nil
}

// CountOperations returns the outbox length
func (s *Storage) CountOperations(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOutbox)
		if bucket == nil {
			return fmt.Errorf("outbox bucket not found")
		}
		n = bucket.Stats().KeyN
		return nil
	})

	return n, err
}

// LastSeq returns the highest seq ever persisted
func (s *Storage) LastSeq(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var last int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMetadata)
		if meta == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		last = readSeq(meta)
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to get last seq: %w", err)
	}

	return last, nil
}

func readSeq(meta *bbolt.Bucket) int64 {
	v := meta.Get([]byte(keySeq))
	if len(v) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(v))
}

func readOutbox(tx *bbolt.Tx) ([]models.Operation, error) {
	bucket := tx.Bucket(bucketOutbox)
	if bucket == nil {
		return nil, fmt.Errorf("outbox bucket not found")
	}

	var ops []models.Operation
	err := bucket.ForEach(func(k, v []byte) error {
		var op models.Operation
		if err := json.Unmarshal(v, &op); err != nil {
			return fmt.Errorf("failed to unmarshal operation: %w", err)
		}
		ops = append(ops, op)
		return nil
	})

	return ops, err
}

// pruneOutbox удаляет операции с указанными opId и возвращает оставшиеся.
func pruneOutbox(tx *bbolt.Tx, opIDs []string) (pruned int, remaining []models.Operation, err error) {
	drop := make(map[string]struct{}, len(opIDs))
	for _, id := range opIDs {
		drop[id] = struct{}{}
	}

	ops, err := readOutbox(tx)
	if err != nil {
		return 0, nil, err
	}

	bucket := tx.Bucket(bucketOutbox)
	for _, op := range ops {
		if _, ok := drop[op.OpID]; !ok {
			remaining = append(remaining, op)
			continue
		}
		if err := bucket.Delete(seqKey(op.Seq)); err != nil {
			return 0, nil, fmt.Errorf("failed to delete operation %s: %w", op.OpID, err)
		}
		pruned++
	}

	return pruned, remaining, nil
}
