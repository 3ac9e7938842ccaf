package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored documents.
// It is generated by content-based hashing so that re-ingesting the same
// conversational turn always maps to the same key.
type ID uint64

// IDFromContent generates a deterministic ID from the document content and
// its original timestamp using BLAKE2b hashing. Two documents with identical
// content but different timestamps are distinct; the same log line processed
// twice is not.
func IDFromContent(content, timestamp string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(content))
	h.Write([]byte(timestamp))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Metadata describes the provenance of a document. User is the owner
// identifier and is the sole field used for access scoping; it must never be
// empty for a stored document.
type Metadata struct {
	User      string // owner identifier (access-scoping key)
	Username  string // display name of the asker
	Server    string // origin community identifier
	Timestamp string // ISO-8601 timestamp of the original turn
	Provider  string // which backend produced the reply
	Source    string // ingestion-source tag ("initial_sync", "sync", "live")
}

// Document is the atomic ingested unit: one conversational turn, rendered
// through the content template, with its embedding vector.
// Documents are immutable once stored.
type Document struct {
	Id         ID
	Content    string
	Metadata   Metadata
	Vector     []float32 // embedding, produced once at ingestion time
	InsertedAt time.Time
}

// SearchResult is one nearest-neighbor hit. Distance is cosine distance
// (1 - cosine similarity); smaller is closer. Results are ephemeral and
// never persisted.
type SearchResult struct {
	Document *Document
	Distance float32
}

// ConversationContent renders a turn through the fixed content template.
// Every ingestion path uses this template so downstream retrieval is
// format-agnostic.
func ConversationContent(username, query, reply string) string {
	return fmt.Sprintf("User %s asked: %s\nBot replied: %s", username, query, reply)
}
