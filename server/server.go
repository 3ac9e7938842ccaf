package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	recall "github.com/quindle/recall"
)

const (
	appName    = "Recall Engine"
	appVersion = "1.0.0"

	// defaultSyncBatchSize is the batch size for HTTP-triggered syncs.
	// Smaller than the CLI default: a request-scoped sync shares the
	// process with live traffic.
	defaultSyncBatchSize = 100
)

// Config holds server settings.
type Config struct {
	// APIKey protects mutating endpoints via the X-API-Key header.
	// Empty disables the check (dev mode).
	APIKey string

	// LogPath is the conversation log used when a sync request doesn't
	// name one.
	LogPath string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP surface over an Engine.
type Server struct {
	app      *fiber.App
	engine   *recall.Engine
	liveness *livenessCache
	apiKey   string
	logPath  string
	logger   *slog.Logger
}

// New creates the HTTP server and registers its routes.
func New(engine *recall.Engine, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		logger.Warn("no API key configured, endpoints are open")
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName: appName,
		}),
		engine:   engine,
		liveness: newLivenessCache(),
		apiKey:   cfg.APIKey,
		logPath:  cfg.LogPath,
		logger:   logger,
	}

	s.app.Use(recover.New())
	s.app.Use(cors.New())

	s.app.Get("/", s.handleRoot)
	s.app.Get("/ping", s.handlePing)
	s.app.Get("/health", s.handleHealth)

	protected := s.app.Group("", apiKeyMiddleware(s.apiKey))
	protected.Post("/chat", s.handleChat)
	protected.Post("/log", s.handleLog)
	protected.Get("/status", s.handleStatus)
	protected.Post("/sync-logs", s.handleSyncLogs)
	protected.Get("/sync-logs/status", s.handleSyncStatus)
	protected.Post("/sync-logs/reset", s.handleSyncReset)

	return s
}

// Listen serves on addr until shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// apiKeyMiddleware rejects requests whose X-API-Key header doesn't match
// key. An empty key admits everything.
func apiKeyMiddleware(key string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if key == "" {
			return c.Next()
		}
		if c.Get("X-API-Key") != key {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}
		return c.Next()
	}
}
