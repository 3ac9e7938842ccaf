package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				Content:  ConversationContent("alice", "hi", "hello"),
				Metadata: Metadata{User: "u1", Username: "alice"},
			},
			wantErr: nil,
		},
		{
			name: "unknown owner is still an owner",
			doc: &Document{
				Content:  ConversationContent("ghost", "hi", "hello"),
				Metadata: Metadata{User: "unknown", Username: "ghost"},
			},
			wantErr: nil,
		},
		{
			name:    "empty content",
			doc:     &Document{Metadata: Metadata{User: "u1"}},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "missing owner",
			doc:     &Document{Content: "something"},
			wantErr: ErrMissingOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
