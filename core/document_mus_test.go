package core

import (
	"testing"
	"time"
)

func TestDocumentMUS_RoundTrip(t *testing.T) {
	doc := Document{
		Id:      IDFromContent("User alice asked: hi\nBot replied: hello", "2024-01-01T00:00:00Z"),
		Content: "User alice asked: hi\nBot replied: hello",
		Metadata: Metadata{
			User:      "u1",
			Username:  "alice",
			Server:    "s1",
			Timestamp: "2024-01-01T00:00:00Z",
			Provider:  "gemini",
			Source:    "initial_sync",
		},
		Vector:     []float32{0.25, -0.5, 0.75},
		InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, DocumentMUS.Size(doc))
	n := DocumentMUS.Marshal(doc, bs)
	if n != len(bs) {
		t.Fatalf("Marshal wrote %d bytes, Size predicted %d", n, len(bs))
	}

	got, n, err := DocumentMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if n != len(bs) {
		t.Errorf("Unmarshal consumed %d bytes, want %d", n, len(bs))
	}

	if got.Id != doc.Id || got.Content != doc.Content || got.Metadata != doc.Metadata {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
	if len(got.Vector) != len(doc.Vector) {
		t.Fatalf("vector length %d, want %d", len(got.Vector), len(doc.Vector))
	}
	for i := range doc.Vector {
		if got.Vector[i] != doc.Vector[i] {
			t.Errorf("vector[%d] = %v, want %v", i, got.Vector[i], doc.Vector[i])
		}
	}
	if !got.InsertedAt.Equal(doc.InsertedAt) {
		t.Errorf("InsertedAt = %v, want %v", got.InsertedAt, doc.InsertedAt)
	}
}

func TestDocumentMUS_Skip(t *testing.T) {
	doc := Document{
		Id:         42,
		Content:    "User bob asked: bye\nBot replied: later",
		Metadata:   Metadata{User: "u2", Username: "bob"},
		InsertedAt: time.Now().UTC(),
	}

	bs := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, bs)

	n, err := DocumentMUS.Skip(bs)
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if n != len(bs) {
		t.Errorf("Skip consumed %d bytes, want %d", n, len(bs))
	}
}

func TestDocumentMUS_UnmarshalTruncated(t *testing.T) {
	doc := Document{
		Id:         7,
		Content:    "User eve asked: hm\nBot replied: ok",
		Metadata:   Metadata{User: "u3"},
		InsertedAt: time.Now().UTC(),
	}
	bs := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, bs)

	if _, _, err := DocumentMUS.Unmarshal(bs[:len(bs)/2]); err == nil {
		t.Error("Unmarshal of truncated data succeeded, want error")
	}
}
