package server

import "github.com/quindle/recall/core"

// ChatRequest asks for a retrieval-augmented reply.
type ChatRequest struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

// ChatResponse carries the generated reply and the metadata of the
// documents that informed it.
type ChatResponse struct {
	Response string          `json:"response"`
	Sources  []core.Metadata `json:"sources"`
}

// LogRequest records one live conversation turn.
type LogRequest struct {
	Server   string `json:"server"`
	User     string `json:"user"`
	Username string `json:"username"`
	Query    string `json:"query"`
	Reply    string `json:"reply"`
}

// SyncLogsRequest triggers an incremental bulk sync.
type SyncLogsRequest struct {
	LogPath    string `json:"log_path"`
	BatchSize  int    `json:"batch_size"`
	MaxEntries int    `json:"max_entries"`
	ForceFull  bool   `json:"force_full"`
}

// HealthResponse reports component availability.
type HealthResponse struct {
	Status    string `json:"status"`
	Generator bool   `json:"generator"`
	Store     bool   `json:"store"`
	Timestamp string `json:"timestamp"`
}
