package server

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	recall "github.com/quindle/recall"
	"github.com/quindle/recall/core"
	"github.com/quindle/recall/ingest"
)

// User-facing fallback replies for generation failures. The chat endpoint
// always answers 200 with something readable; transport-level errors stay
// out of the conversation.
const (
	fallbackTimeout     = "⏱️ Maaf, AI terlalu lama merespons. Coba lagi ya!"
	fallbackUnreachable = "🔌 Maaf, AI sedang tidak terkoneksi. Coba lagi nanti ya!"
	fallbackEmpty       = "Hmm, aku bingung mau jawab apa 😅"
)

func (s *Server) handleRoot(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    appName,
		"version": appVersion,
		"status":  "running",
		"endpoints": []string{
			"/ping", "/health", "/chat", "/log", "/status",
			"/sync-logs", "/sync-logs/status", "/sync-logs/reset",
		},
	})
}

func (s *Server) handlePing(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	ctx := c.Context()

	_, err := s.engine.Count(ctx)
	storeOK := err == nil

	generatorOK := s.liveness.get(ctx, s.engine.GeneratorAvailable)

	status := "healthy"
	if !storeOK || !generatorOK {
		status = "degraded"
	}

	return c.JSON(HealthResponse{
		Status:    status,
		Generator: generatorOK,
		Store:     storeOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleChat(c fiber.Ctx) error {
	var req ChatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	result, err := s.engine.Chat(c.Context(), req.Message, req.User)
	if err != nil {
		s.logger.Error("chat generation failed", "user", req.User, "err", err)
		reply := fallbackUnreachable
		if errors.Is(err, context.DeadlineExceeded) {
			reply = fallbackTimeout
		}
		return c.JSON(ChatResponse{Response: reply, Sources: []core.Metadata{}})
	}

	response := result.Response
	if response == "" {
		response = fallbackEmpty
	}

	sources := make([]core.Metadata, 0, len(result.Sources))
	for _, r := range result.Sources {
		sources = append(sources, r.Document.Metadata)
	}

	return c.JSON(ChatResponse{Response: response, Sources: sources})
}

func (s *Server) handleLog(c fiber.Ctx) error {
	var req LogRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	id, err := s.engine.LogConversation(recall.LogEntry{
		User:     req.User,
		Username: req.Username,
		Server:   req.Server,
		Query:    req.Query,
		Reply:    req.Reply,
	})
	if err != nil {
		if errors.Is(err, core.ErrEmptyContent) || errors.Is(err, core.ErrMissingOwner) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		s.logger.Error("logging conversation failed", "user", req.User, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to record conversation",
		})
	}

	return c.JSON(fiber.Map{
		"status": "indexed",
		"doc_id": strconv.FormatUint(uint64(id), 10),
	})
}

func (s *Server) handleStatus(c fiber.Ctx) error {
	ctx := c.Context()

	count, err := s.engine.Count(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read index",
		})
	}

	return c.JSON(fiber.Map{
		"documents_indexed": count,
		"embedding_model":   s.engine.EmbeddingModel(),
		"store_available":   true,
		"generator_available": s.liveness.get(
			ctx, s.engine.GeneratorAvailable),
	})
}

func (s *Server) handleSyncLogs(c fiber.Ctx) error {
	req := SyncLogsRequest{BatchSize: defaultSyncBatchSize}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if req.BatchSize <= 0 {
			req.BatchSize = defaultSyncBatchSize
		}
	}
	logPath := req.LogPath
	if logPath == "" {
		logPath = s.logPath
	}

	if _, err := os.Stat(logPath); err != nil {
		return c.JSON(fiber.Map{
			"status": "skipped",
			"reason": "log file not found: " + logPath,
		})
	}

	opts := []ingest.Option{ingest.WithBatchSize(req.BatchSize)}
	if req.MaxEntries > 0 {
		opts = append(opts, ingest.WithLimit(req.MaxEntries))
	}
	if req.ForceFull {
		opts = append(opts, ingest.WithForceFull(true))
	}

	result, err := s.engine.SyncLogs(c.Context(), logPath, opts...)
	if err != nil {
		if errors.Is(err, ingest.ErrAlreadyRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "a sync is already in progress",
			})
		}
		s.logger.Error("log sync failed", "path", logPath, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "sync failed",
		})
	}

	count, _ := s.engine.Count(c.Context())
	return c.JSON(fiber.Map{
		"status":          "success",
		"result":          result,
		"total_documents": count,
	})
}

func (s *Server) handleSyncStatus(c fiber.Ctx) error {
	count, _ := s.engine.Count(c.Context())
	return c.JSON(fiber.Map{
		"sync":            s.engine.SyncStatus(),
		"total_documents": count,
	})
}

func (s *Server) handleSyncReset(c fiber.Ctx) error {
	if err := s.engine.ResetSync(); err != nil {
		s.logger.Error("checkpoint reset failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to reset checkpoint",
		})
	}
	return c.JSON(fiber.Map{"status": "reset"})
}
