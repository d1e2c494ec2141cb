package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bakesync/internal/client/storage"
	"github.com/iudanet/bakesync/internal/models"
)

// CommitMerge saves the merged snapshot, prunes the outbox and rebuilds the
// entity collections in a single transaction. Operations that were recorded
// while the sync cycle was on the network stay in the outbox and are replayed
// on top of merged, so a local edit made mid-cycle is never lost. Operations
// whose outbox write failed are passed in unpersisted and replayed the same way.
func (s *Storage) CommitMerge(ctx context.Context, merged *models.Snapshot, pruneOpIDs []string, unpersisted []models.Operation, state *models.SyncState) (*storage.CommitResult, error) {
	res := &storage.CommitResult{}

	err := s.update(func(tx *bbolt.Tx) error {
		data, err := putLastMerged(tx, merged)
		if err != nil {
			return err
		}
		if err := s.checkQuota(tx, len(data)); err != nil {
			return err
		}

		pruned, remaining, err := pruneOutbox(tx, pruneOpIDs)
		if err != nil {
			return err
		}
		res.Pruned = pruned
		remaining = append(remaining, unpersisted...)
		res.Remaining = len(remaining)

		// Local Store = merged + replay оставшихся операций
		working := merged.Clone()
		models.SortOperations(remaining)
		for i := range remaining {
			op := &remaining[i]
			working.Put(op.EntityType, op.EntityID, op.Apply(working.Get(op.EntityType, op.EntityID)))
		}

		for _, t := range models.AllEntityTypes {
			if err := writeCollection(tx, t, working.Entities[t]); err != nil {
				return fmt.Errorf("rebuild %s: %w", t, err)
			}
		}

		if state != nil {
			state.PendingOpCount = len(remaining)
			if err := putSyncState(tx, state); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("commit merge: %w", err)
	}

	return res, nil
}
