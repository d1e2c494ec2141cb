package models

import (
	"time"
)

// Snapshot is the single merged document shared by all devices of an account.
type Snapshot struct {
	Entities        map[EntityType]map[string]*Record
	VersionToken    string // VersionToken backend concurrency handle (ETag), never serialized
	SnapshotVersion int64
}

// NewSnapshot returns an empty snapshot with every collection allocated.
func NewSnapshot() *Snapshot {
	s := &Snapshot{Entities: make(map[EntityType]map[string]*Record, len(AllEntityTypes))}
	for _, t := range AllEntityTypes {
		s.Entities[t] = make(map[string]*Record)
	}
	return s
}

// Get returns the record for (t, id) or nil.
func (s *Snapshot) Get(t EntityType, id string) *Record {
	if s == nil {
		return nil
	}
	return s.Entities[t][id]
}

// Put stores rec under (t, id), allocating the collection if needed.
func (s *Snapshot) Put(t EntityType, id string, rec *Record) {
	if s.Entities == nil {
		s.Entities = make(map[EntityType]map[string]*Record)
	}
	coll, ok := s.Entities[t]
	if !ok {
		coll = make(map[string]*Record)
		s.Entities[t] = coll
	}
	coll[id] = rec
}

// Clone создает глубокую копию снапшота
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return NewSnapshot()
	}
	out := NewSnapshot()
	out.SnapshotVersion = s.SnapshotVersion
	out.VersionToken = s.VersionToken
	for t, coll := range s.Entities {
		for id, rec := range coll {
			out.Put(t, id, rec.Clone())
		}
	}
	return out
}

// Live returns the number of non-deleted records.
func (s *Snapshot) Live() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, coll := range s.Entities {
		for _, rec := range coll {
			if !rec.Deleted {
				n++
			}
		}
	}
	return n
}

// SameEntities compares entity content only.
func (s *Snapshot) SameEntities(other *Snapshot) bool {
	for _, t := range AllEntityTypes {
		a, b := s.Entities[t], other.Entities[t]
		if len(a) != len(b) {
			return false
		}
		for id, rec := range a {
			if !rec.Equal(b[id]) {
				return false
			}
		}
	}
	return true
}

// SyncState хранит локальную информацию о синхронизации.
type SyncState struct {
	LastSyncedAt        time.Time `json:"lastSyncedAt"`
	LastAttemptAt       time.Time `json:"lastAttemptAt"`
	LastError           string    `json:"lastError,omitempty"`
	LastMergedVersion   int64     `json:"lastMergedVersion"`
	PendingOpCount      int       `json:"pendingOpCount"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
}
