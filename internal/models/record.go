package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Record представляет значение одной сущности внутри снапшота.
// Удаленная запись (tombstone) остается в снапшоте с Deleted = true,
// чтобы устаревшая запись с другого устройства не могла ее воскресить.
type Record struct {
	UpdatedAt time.Time       `json:"updatedAt"`          // UpdatedAt время последней записи (LWW timestamp)
	DeviceID  string          `json:"deviceId,omitempty"` // DeviceID устройство, записавшее текущее значение
	Data      json.RawMessage `json:"data,omitempty"`     // Data полный снапшот сущности (пусто для tombstone)
	Deleted   bool            `json:"deleted"`            // Deleted флаг tombstone
}

// IsNewerThan reports whether r wins a last-writer-wins comparison against other.
//
// Rules:
// 1. The later UpdatedAt wins.
// 2. On equal timestamps a delete beats an update.
// 3. Otherwise the lexicographically greater DeviceID wins, so every device
// picks the same winner without coordination.
func (r *Record) IsNewerThan(other *Record) bool {
	if other == nil {
		return true
	}
	if r.UpdatedAt.After(other.UpdatedAt) {
		return true
	}
	if r.UpdatedAt.Before(other.UpdatedAt) {
		return false
	}
	if r.Deleted != other.Deleted {
		return r.Deleted
	}
	return r.DeviceID > other.DeviceID
}

// Equal reports whether two records carry the same value and metadata.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == nil && other == nil
	}
	return r.UpdatedAt.Equal(other.UpdatedAt) &&
		r.DeviceID == other.DeviceID &&
		r.Deleted == other.Deleted &&
		bytes.Equal(r.Data, other.Data)
}

// Clone создает глубокую копию записи
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	var data json.RawMessage
	if r.Data != nil {
		data = make(json.RawMessage, len(r.Data))
		copy(data, r.Data)
	}
	return &Record{
		UpdatedAt: r.UpdatedAt,
		DeviceID:  r.DeviceID,
		Data:      data,
		Deleted:   r.Deleted,
	}
}
