package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Verb is the kind of mutation an Operation records.
type Verb string

// Operation verbs
const (
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Operation описывает одну мутацию сущности на устройстве.
// Создается синхронно вместе с мутацией и больше никогда не изменяется.
type Operation struct {
	WallClock  time.Time       `json:"wallClock"`         // WallClock время мутации по часам устройства
	OpID       string          `json:"opId"`              // OpID ключ идемпотентности (UUID)
	DeviceID   string          `json:"deviceId"`          // DeviceID устройство-источник
	EntityType EntityType      `json:"entityType"`        // EntityType коллекция
	EntityID   string          `json:"entityId"`          // EntityID идентификатор сущности
	Verb       Verb            `json:"verb"`              // Verb create|update|delete
	Payload    json.RawMessage `json:"payload,omitempty"` // Payload полный снапшот сущности, пусто для delete
	Seq        int64           `json:"seq"`               // Seq монотонный счетчик устройства
}

// Validate checks structural invariants of an operation.
func (op *Operation) Validate() error {
	if op.OpID == "" {
		return fmt.Errorf("operation: opId is required")
	}
	if !op.EntityType.Valid() {
		return fmt.Errorf("operation %s: unknown entity type %q", op.OpID, op.EntityType)
	}
	if op.EntityID == "" {
		return fmt.Errorf("operation %s: entityId is required", op.OpID)
	}
	switch op.Verb {
	case VerbCreate, VerbUpdate:
		if len(op.Payload) == 0 {
			return fmt.Errorf("operation %s: %s requires a payload", op.OpID, op.Verb)
		}
	case VerbDelete:
	default:
		return fmt.Errorf("operation %s: unknown verb %q", op.OpID, op.Verb)
	}
	return nil
}

// Apply replays op over the previous record value and returns the new one.
// prev is never modified.
func (op *Operation) Apply(prev *Record) *Record {
	if op.Verb == VerbDelete {
		return &Record{
			UpdatedAt: op.WallClock,
			DeviceID:  op.DeviceID,
			Deleted:   true,
		}
	}

	data := make(json.RawMessage, len(op.Payload))
	copy(data, op.Payload)
	return &Record{
		UpdatedAt: op.WallClock,
		DeviceID:  op.DeviceID,
		Data:      data,
	}
}

// SortOperations orders operations by (DeviceID, Seq), the per-device total order.
func SortOperations(ops []Operation) {
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].DeviceID != ops[j].DeviceID {
			return ops[i].DeviceID < ops[j].DeviceID
		}
		return ops[i].Seq < ops[j].Seq
	})
}
