package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		timestamp string
	}{
		{
			name:      "plain turn",
			content:   "User alice asked: hi\nBot replied: hello",
			timestamp: "2024-01-01T00:00:00Z",
		},
		{
			name:      "empty timestamp",
			content:   "User bob asked: bye\nBot replied: later",
			timestamp: "",
		},
		{
			name:      "long content",
			content:   "User carol asked: tell me something long\nBot replied: " + string(make([]byte, 512)),
			timestamp: "2024-06-15T12:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content, tt.timestamp)
			id2 := IDFromContent(tt.content, tt.timestamp)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same input: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1", "2024-01-01T00:00:00Z")
	id2 := IDFromContent("content2", "2024-01-01T00:00:00Z")
	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}

	// Same content at a different time is a different document.
	id3 := IDFromContent("content1", "2024-01-02T00:00:00Z")
	if id1 == id3 {
		t.Errorf("IDFromContent() ignored the timestamp")
	}
}

func TestConversationContent(t *testing.T) {
	got := ConversationContent("alice", "what is go", "a language")
	want := "User alice asked: what is go\nBot replied: a language"
	if got != want {
		t.Errorf("ConversationContent() = %q, want %q", got, want)
	}
}
