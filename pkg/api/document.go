package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/bakesync/internal/models"
)

// ErrInvalidDocument is returned when a remote document fails schema validation.
var ErrInvalidDocument = errors.New("invalid snapshot document")

// Document представляет удаленный документ аккаунта (формат долговременной совместимости)
type Document struct {
	SnapshotVersion int64                           `json:"snapshotVersion"` // SnapshotVersion монотонная версия снапшота
	Entities        map[string]map[string]RecordDoc `json:"entities"`        // Entities коллекция -> id -> запись
}

// RecordDoc представляет одну запись документа
type RecordDoc struct {
	UpdatedAt time.Time       `json:"updatedAt"`          // ISO-8601
	Data      json.RawMessage `json:"data,omitempty"`     // полный снапшот сущности
	DeviceID  string          `json:"deviceId,omitempty"` // устройство-автор (необязательное поле)
	Deleted   bool            `json:"deleted"`
}

// EncodeDocument serializes snap into the document format. Every collection
// is present in the output, empty ones as {}. The version token is not part
// of the document.
func EncodeDocument(snap *models.Snapshot) ([]byte, error) {
	doc := Document{
		SnapshotVersion: snap.SnapshotVersion,
		Entities:        make(map[string]map[string]RecordDoc, len(models.AllEntityTypes)),
	}

	for _, t := range models.AllEntityTypes {
		coll := make(map[string]RecordDoc, len(snap.Entities[t]))
		for id, rec := range snap.Entities[t] {
			rd := RecordDoc{
				UpdatedAt: rec.UpdatedAt.UTC(),
				DeviceID:  rec.DeviceID,
				Deleted:   rec.Deleted,
			}
			if !rec.Deleted {
				rd.Data = rec.Data
			}
			coll[id] = rd
		}
		doc.Entities[string(t)] = coll
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses and validates a remote document.
//
// Rejected: malformed JSON, unknown collections, negative versions, records
// without a timestamp, live records without data, data that fails the typed
// entity schema, and entity ids that differ from their key.
// Every error wraps ErrInvalidDocument.
func DecodeDocument(body []byte) (*models.Snapshot, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidDocument)
	}
	if doc.SnapshotVersion < 0 {
		return nil, fmt.Errorf("%w: negative snapshotVersion %d", ErrInvalidDocument, doc.SnapshotVersion)
	}

	snap := models.NewSnapshot()
	snap.SnapshotVersion = doc.SnapshotVersion

	for name, coll := range doc.Entities {
		t := models.EntityType(name)
		if !t.Valid() {
			return nil, fmt.Errorf("%w: unknown collection %q", ErrInvalidDocument, name)
		}
		for id, rd := range coll {
			rec, err := decodeRecord(t, id, rd)
			if err != nil {
				return nil, fmt.Errorf("%w: %s/%s: %v", ErrInvalidDocument, name, id, err)
			}
			snap.Put(t, id, rec)
		}
	}

	return snap, nil
}

func decodeRecord(t models.EntityType, id string, rd RecordDoc) (*models.Record, error) {
	if id == "" {
		return nil, errors.New("empty id")
	}
	if rd.UpdatedAt.IsZero() {
		return nil, errors.New("missing updatedAt")
	}

	rec := &models.Record{
		UpdatedAt: rd.UpdatedAt.UTC(),
		DeviceID:  rd.DeviceID,
		Deleted:   rd.Deleted,
	}
	if rd.Deleted {
		// данные tombstone не нужны
		return rec, nil
	}

	if len(rd.Data) == 0 || bytes.Equal(rd.Data, []byte("null")) {
		return nil, errors.New("live record without data")
	}
	entity, err := models.DecodeEntity(t, rd.Data)
	if err != nil {
		return nil, err
	}
	if entity.EntityID() != id {
		return nil, fmt.Errorf("entity id %q does not match key", entity.EntityID())
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, rd.Data); err != nil {
		return nil, err
	}
	rec.Data = compact.Bytes()
	return rec, nil
}
