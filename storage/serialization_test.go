package storage

import (
	"testing"
	"time"

	"github.com/quindle/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content", "2024-01-15T10:30:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		doc  *core.Document
	}{
		{
			name: "minimal document",
			doc: &core.Document{
				Id:         core.ID(1),
				Content:    "User alice asked: hi\nBot replied: hello",
				Metadata:   core.Metadata{User: "100", Timestamp: "2024-01-15T10:30:00"},
				InsertedAt: now,
			},
		},
		{
			name: "document with vector",
			doc: &core.Document{
				Id:      core.ID(2),
				Content: "stored with embedding",
				Metadata: core.Metadata{
					User:      "200",
					Username:  "bob",
					Server:    "guild-1",
					Timestamp: "2024-02-01T08:00:00",
					Provider:  "json",
					Source:    "chat_log",
				},
				Vector:     []float32{0.1, 0.2, 0.3, 0.4, 0.5},
				InsertedAt: now,
			},
		},
		{
			name: "unicode content",
			doc: &core.Document{
				Id:         core.ID(3),
				Content:    "apa kabar ügüms 世界 🌍",
				Metadata:   core.Metadata{User: "unknown"},
				InsertedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.doc.Id, decoded.Id)
			assert.Equal(t, tt.doc.Content, decoded.Content)
			assert.Equal(t, tt.doc.Metadata, decoded.Metadata)
			assert.True(t, tt.doc.InsertedAt.Equal(decoded.InsertedAt))
			if len(tt.doc.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.doc.Vector, decoded.Vector)
			}
		})
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument(tt.data)
			assert.Error(t, err)
		})
	}
}
