package crdt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bakesync/internal/models"
)

func createTestRecord(deviceID string, sec int64, deleted bool) *models.Record {
	rec := &models.Record{
		UpdatedAt: time.Unix(sec, 0).UTC(),
		DeviceID:  deviceID,
		Deleted:   deleted,
	}
	if !deleted {
		rec.Data = json.RawMessage(`{"id":"x","by":"` + deviceID + `"}`)
	}
	return rec
}

func TestPick(t *testing.T) {
	tests := []struct {
		local    *models.Record
		remote   *models.Record
		name     string
		expected Side
	}{
		{
			name:     "local newer",
			local:    createTestRecord("devA", 20, false),
			remote:   createTestRecord("devB", 10, false),
			expected: SideLocal,
		},
		{
			name:     "remote newer",
			local:    createTestRecord("devA", 10, false),
			remote:   createTestRecord("devB", 20, false),
			expected: SideRemote,
		},
		{
			name:     "tie broken by greater device id",
			local:    createTestRecord("devA", 10, false),
			remote:   createTestRecord("devB", 10, false),
			expected: SideRemote,
		},
		{
			name:     "delete at same time beats update",
			local:    createTestRecord("devA", 10, true),
			remote:   createTestRecord("devB", 10, false),
			expected: SideLocal,
		},
		{
			name:     "newer update resurrects deleted entity",
			local:    createTestRecord("devA", 11, false),
			remote:   createTestRecord("devB", 10, true),
			expected: SideLocal,
		},
		{
			name:     "missing remote",
			local:    createTestRecord("devA", 1, false),
			remote:   nil,
			expected: SideLocal,
		},
		{
			name:     "missing local",
			local:    nil,
			remote:   createTestRecord("devB", 1, false),
			expected: SideRemote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, side := Pick(tt.local, tt.remote)
			assert.Equal(t, tt.expected, side)
			if side == SideLocal {
				assert.Same(t, tt.local, winner)
			} else {
				assert.Same(t, tt.remote, winner)
			}
		})
	}
}

func TestLWWMap_Add(t *testing.T) {
	m := LWWMapFrom(nil)

	assert.True(t, m.Add("R1", createTestRecord("devA", 10, false)), "first add")
	assert.False(t, m.Add("R1", createTestRecord("devA", 5, false)), "older version ignored")
	assert.True(t, m.Add("R1", createTestRecord("devB", 10, false)), "tie won by greater device")
	assert.True(t, m.Add("R1", createTestRecord("devA", 10, true)), "delete at same time wins")
	assert.False(t, m.Add("R1", createTestRecord("devA", 10, false)), "update at same time loses to delete")

	rec := m.Get("R1")
	require.NotNil(t, rec)
	assert.True(t, rec.Deleted)
	assert.Len(t, m.Records(), 1)
}

func TestLWWMap_AddClones(t *testing.T) {
	m := LWWMapFrom(nil)
	rec := createTestRecord("devA", 10, false)
	m.Add("R1", rec)

	rec.DeviceID = "mutated"
	assert.Equal(t, "devA", m.Get("R1").DeviceID)
}

func TestLWWMap_FromCopiesAndSet(t *testing.T) {
	src := map[string]*models.Record{"R1": createTestRecord("devB", 20, false)}
	m := LWWMapFrom(src)

	src["R1"].DeviceID = "mutated"
	assert.Equal(t, "devB", m.Get("R1").DeviceID)

	// Set пишет без сравнения версий
	m.Set("R1", createTestRecord("devA", 1, false))
	assert.Equal(t, "devA", m.Get("R1").DeviceID)
}

func TestLWWMap_Remove(t *testing.T) {
	m := LWWMapFrom(map[string]*models.Record{
		"a": createTestRecord("devA", 1, true),
		"b": createTestRecord("devA", 1, false),
	})
	m.Remove("a")

	assert.Nil(t, m.Get("a"))
	assert.Len(t, m.Records(), 1)
	assert.NotNil(t, m.Get("b"))
}

func TestSide_String(t *testing.T) {
	assert.Equal(t, "local", SideLocal.String())
	assert.Equal(t, "remote", SideRemote.String())
}
