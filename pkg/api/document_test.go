package api

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bakesync/internal/models"
)

func goldenSnapshot() *models.Snapshot {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	snap := models.NewSnapshot()
	snap.SnapshotVersion = 7
	snap.VersionToken = "never-serialized"
	snap.Put(models.EntityRecipe, "R1", &models.Record{
		UpdatedAt: base.Add(10 * time.Second),
		DeviceID:  "dev-a",
		Data:      json.RawMessage(`{"id":"R1","name":"Sourdough","yieldQty":2}`),
	})
	snap.Put(models.EntityOrder, "O1", &models.Record{
		UpdatedAt: base.Add(20 * time.Second),
		DeviceID:  "dev-b",
		Deleted:   true,
		Data:      json.RawMessage(`{"id":"O1","status":"pending"}`),
	})
	snap.Put(models.EntitySettings, models.SettingsID, &models.Record{
		UpdatedAt: base.Add(5 * time.Second),
		Data:      json.RawMessage(`{"id":"settings","currency":"EUR"}`),
	})
	return snap
}

func TestEncodeDocument_Golden(t *testing.T) {
	data, err := EncodeDocument(goldenSnapshot())
	require.NoError(t, err)

	var pretty bytes.Buffer
	require.NoError(t, json.Indent(&pretty, data, "", "  "))
	pretty.WriteByte('\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "document_v1", pretty.Bytes())
}

func TestDecodeDocument_RoundTrip(t *testing.T) {
	snap := goldenSnapshot()
	data, err := EncodeDocument(snap)
	require.NoError(t, err)

	back, err := DecodeDocument(data)
	require.NoError(t, err)

	assert.Equal(t, int64(7), back.SnapshotVersion)
	assert.Empty(t, back.VersionToken)
	assert.True(t, back.Get(models.EntityOrder, "O1").Deleted)
	assert.Empty(t, back.Get(models.EntityOrder, "O1").Data, "tombstone data is dropped")
	assert.True(t, snap.Get(models.EntityRecipe, "R1").Equal(back.Get(models.EntityRecipe, "R1")))
}

func TestDecodeDocument_LegacyWithoutDeviceID(t *testing.T) {
	body := `{
		"snapshotVersion": 3,
		"entities": {
			"customers": {"C1": {"data": {"id": "C1", "name": "Ada"}, "updatedAt": "2024-05-01T10:00:00.000Z", "deleted": false}}
		}
	}`

	snap, err := DecodeDocument([]byte(body))
	require.NoError(t, err)

	rec := snap.Get(models.EntityCustomer, "C1")
	require.NotNil(t, rec)
	assert.Empty(t, rec.DeviceID)
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(rec.UpdatedAt))
	assert.JSONEq(t, `{"id":"C1","name":"Ada"}`, string(rec.Data))
	// Отсутствующие коллекции создаются пустыми
	assert.NotNil(t, snap.Entities[models.EntityRecipe])
}

func TestDecodeDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>`},
		{name: "array", body: `[]`},
		{name: "trailing garbage", body: `{"snapshotVersion":1}{}`},
		{name: "negative version", body: `{"snapshotVersion":-1}`},
		{name: "unknown collection", body: `{"entities":{"cakes":{}}}`},
		{
			name: "missing timestamp",
			body: `{"entities":{"customers":{"C1":{"data":{"id":"C1","name":"Ada"},"deleted":false}}}}`,
		},
		{
			name: "live record without data",
			body: `{"entities":{"customers":{"C1":{"updatedAt":"2024-01-01T00:00:00Z","deleted":false}}}}`,
		},
		{
			name: "null data",
			body: `{"entities":{"customers":{"C1":{"data":null,"updatedAt":"2024-01-01T00:00:00Z","deleted":false}}}}`,
		},
		{
			name: "schema violation",
			body: `{"entities":{"orders":{"O1":{"data":{"id":"O1","status":"burnt"},"updatedAt":"2024-01-01T00:00:00Z"}}}}`,
		},
		{
			name: "id mismatch",
			body: `{"entities":{"customers":{"C1":{"data":{"id":"C2","name":"Ada"},"updatedAt":"2024-01-01T00:00:00Z"}}}}`,
		},
		{
			name: "bad timestamp",
			body: `{"entities":{"customers":{"C1":{"data":{"id":"C1","name":"Ada"},"updatedAt":"yesterday"}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := DecodeDocument([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
			assert.Nil(t, snap)
		})
	}
}

func TestDecodeDocument_TombstoneWithoutData(t *testing.T) {
	body := `{"snapshotVersion":2,"entities":{"recipes":{"R9":{"updatedAt":"2024-01-01T00:00:00Z","deleted":true}}}}`

	snap, err := DecodeDocument([]byte(body))
	require.NoError(t, err)
	assert.True(t, snap.Get(models.EntityRecipe, "R9").Deleted)
}

func TestIsEnvelope(t *testing.T) {
	env, err := json.Marshal(Envelope{Format: EnvelopeFormat, Salt: []byte("salt"), Ciphertext: []byte("x")})
	require.NoError(t, err)

	assert.True(t, IsEnvelope(env))
	assert.False(t, IsEnvelope([]byte(`{"snapshotVersion":1,"entities":{}}`)))
	assert.False(t, IsEnvelope([]byte(`{"format":"rot13"}`)))
	assert.False(t, IsEnvelope([]byte(`garbage`)))
}
