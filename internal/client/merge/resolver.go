// Package merge reconciles a freshly pulled remote snapshot with the local
// outbox and produces the next merged snapshot.
package merge

import (
	"time"

	"github.com/iudanet/bakesync/internal/crdt"
	"github.com/iudanet/bakesync/internal/models"
)

// DefaultTombstoneTTL is how long a tombstone is kept after it survived a full sync cycle.
const DefaultTombstoneTTL = 30 * 24 * time.Hour

// Options tune a merge.
type Options struct {
	Now          time.Time     // Now reference time for tombstone GC, zero disables GC
	TombstoneTTL time.Duration // TombstoneTTL <= 0 disables GC
}

// Decision describes how one entity touched by the local outbox was resolved.
type Decision struct {
	Type     models.EntityType
	ID       string
	Winner   crdt.Side
	Conflict bool // обе стороны изменили запись и значения различаются
}

// Result is the outcome of Resolve.
type Result struct {
	Merged       *models.Snapshot
	AppliedOpIDs []string // все уникальные операции outbox, вошедшие в слияние
	Decisions    []Decision
	Conflicts    int
	Collected    int  // число удаленных сборщиком tombstone
	NeedsPush    bool // merged отличается от remote
}

// LocalWins returns the number of decisions won by the local side.
func (r *Result) LocalWins() int {
	n := 0
	for _, d := range r.Decisions {
		if d.Winner == crdt.SideLocal {
			n++
		}
	}
	return n
}

type entityKey struct {
	t  models.EntityType
	id string
}

// Resolve merges outbox operations recorded on top of base with remote.
//
// For every entity touched by the outbox the local value is the replay of its
// operations in seq order over the base record, stamped with the latest
// wall clock of the group. If remote did not change that entity since base the
// local value wins outright. Otherwise whole-record last-writer-wins decides.
// Entities touched only by remote are adopted as is.
//
// base and remote may be nil (first ever sync). Neither input is modified.
func Resolve(base *models.Snapshot, outbox []models.Operation, remote *models.Snapshot, opts Options) *Result {
	if base == nil {
		base = models.NewSnapshot()
	}
	if remote == nil {
		remote = models.NewSnapshot()
	}

	ops := dedupe(outbox)
	models.SortOperations(ops)

	res := &Result{AppliedOpIDs: make([]string, 0, len(ops))}

	// Группируем операции по сущности, сохраняя порядок первого появления
	groups := make(map[entityKey][]models.Operation)
	order := make([]entityKey, 0)
	for _, op := range ops {
		k := entityKey{t: op.EntityType, id: op.EntityID}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], op)
		res.AppliedOpIDs = append(res.AppliedOpIDs, op.OpID)
	}

	collections := make(map[models.EntityType]*crdt.LWWMap, len(models.AllEntityTypes))
	collection := func(t models.EntityType) *crdt.LWWMap {
		c, ok := collections[t]
		if !ok {
			c = crdt.LWWMapFrom(remote.Entities[t])
			collections[t] = c
		}
		return c
	}
	for _, t := range models.AllEntityTypes {
		collection(t)
	}

	for _, k := range order {
		local := replay(base.Get(k.t, k.id), groups[k])
		baseRec := base.Get(k.t, k.id)
		remoteRec := remote.Get(k.t, k.id)
		c := collection(k.t)

		d := Decision{Type: k.t, ID: k.id}
		switch {
		case remoteRec == nil || remoteRec.Equal(baseRec):
			// Изменение только локальное (или запись пропала на удаленной стороне)
			c.Set(k.id, local)
			d.Winner = crdt.SideLocal
		default:
			d.Winner = crdt.SideRemote
			if c.Add(k.id, local) {
				d.Winner = crdt.SideLocal
			}
			if !local.Equal(remoteRec) {
				d.Conflict = true
				res.Conflicts++
			}
		}
		res.Decisions = append(res.Decisions, d)
	}

	merged := models.NewSnapshot()
	merged.VersionToken = remote.VersionToken
	for t, c := range collections {
		if opts.TombstoneTTL > 0 && !opts.Now.IsZero() {
			res.Collected += collectTombstones(t, c, base, opts)
		}
		merged.Entities[t] = c.Records()
	}

	res.NeedsPush = !merged.SameEntities(remote)
	merged.SnapshotVersion = remote.SnapshotVersion
	if res.NeedsPush {
		merged.SnapshotVersion++
	}
	res.Merged = merged
	return res
}

// replay применяет операции группы по порядку seq поверх базовой записи.
// Итоговая метка времени равна максимальному wallClock группы.
func replay(baseRec *models.Record, ops []models.Operation) *models.Record {
	rec := baseRec
	var latest time.Time
	for i := range ops {
		rec = ops[i].Apply(rec)
		if ops[i].WallClock.After(latest) {
			latest = ops[i].WallClock
		}
	}
	rec.UpdatedAt = latest
	return rec
}

// collectTombstones removes tombstones older than the TTL that were already
// present in base, so every tombstone survives at least one full cycle.
func collectTombstones(t models.EntityType, c *crdt.LWWMap, base *models.Snapshot, opts Options) int {
	cutoff := opts.Now.Add(-opts.TombstoneTTL)
	removed := 0
	for id, rec := range c.Records() {
		if !rec.Deleted || !rec.UpdatedAt.Before(cutoff) {
			continue
		}
		if prev := base.Get(t, id); prev == nil || !prev.Deleted {
			continue
		}
		c.Remove(id)
		removed++
	}
	return removed
}

func dedupe(ops []models.Operation) []models.Operation {
	seen := make(map[string]struct{}, len(ops))
	out := make([]models.Operation, 0, len(ops))
	for _, op := range ops {
		if _, ok := seen[op.OpID]; ok {
			continue
		}
		seen[op.OpID] = struct{}{}
		out = append(out, op)
	}
	return out
}
