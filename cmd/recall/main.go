// Copyright 2026 Quindle Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	recall "github.com/quindle/recall"
	"github.com/quindle/recall/ai"
	"github.com/quindle/recall/ingest"
	"github.com/quindle/recall/server"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine, environment variables still apply.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "recall",
		Usage: "Conversational memory engine with retrieval-augmented chat",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Data directory holding the index and checkpoint",
				Value:   "./data",
				EnvVars: []string{"RECALL_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"RECALL_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "llm-host",
				Usage:   "Chat-completion service host URL",
				Value:   "http://localhost:1234/v1",
				EnvVars: []string{"RECALL_LLM_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-profile",
				Usage:   "Embedding profile (fast, quality)",
				Value:   "fast",
				EnvVars: []string{"RECALL_EMBEDDING_PROFILE"},
			},
			&cli.StringFlag{
				Name:    "llm-model",
				Usage:   "Chat model identifier",
				Value:   "google/gemma-3n-e4b",
				EnvVars: []string{"RECALL_LLM_MODEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on",
						Value:   8000,
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "API key required in the X-API-Key header (empty disables auth)",
						EnvVars: []string{"RECALL_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "log-path",
						Usage:   "Default conversation log for sync requests",
						Value:   "./chat_log.txt",
						EnvVars: []string{"RECALL_LOG_PATH"},
					},
				},
			},
			{
				Name:   "sync",
				Usage:  "Bulk-sync a conversation log into the index",
				Action: syncCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "log-path",
						Usage:    "Conversation log to ingest",
						Required: true,
						EnvVars:  []string{"RECALL_LOG_PATH"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of lines to embed and store per batch",
						Value: ingest.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Stop after importing this many documents (0 = no limit)",
					},
					&cli.BoolFlag{
						Name:  "force-full",
						Usage: "Ignore the checkpoint and rescan from line one",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run an owner-scoped similarity search",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "Owner ID to scope results to (empty searches everyone)",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show index and sync checkpoint state",
				Action: statusCommand,
			},
			{
				Name:   "reset-sync",
				Usage:  "Delete the sync checkpoint so the next sync rescans the log",
				Action: resetSyncCommand,
			},
			{
				Name:   "clear",
				Usage:  "Delete every indexed document and the sync checkpoint",
				Action: clearCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*recall.Engine, error) {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithGeneratorHost(c.String("llm-host")),
		ai.WithProfile(ai.Profile(c.String("embedding-profile"))),
		ai.WithGeneratorModel(c.String("llm-model")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return recall.NewEngine(c.String("data-dir"), recall.WithAIConfig(cfg))
}

func serveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	srv := server.New(engine, server.Config{
		APIKey:  c.String("api-key"),
		LogPath: c.String("log-path"),
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		slog.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			slog.Error("shutdown error", "err", err)
		}
	}()

	return srv.Listen(fmt.Sprintf(":%d", c.Int("port")))
}

func syncCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	// Syncs can run for minutes on a large log; a signal checkpoints and
	// exits cleanly instead of killing mid-batch.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []ingest.Option{
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithProgress(os.Stderr, 100),
	}
	if limit := c.Int("limit"); limit > 0 {
		opts = append(opts, ingest.WithLimit(limit))
	}
	if c.Bool("force-full") {
		opts = append(opts, ingest.WithForceFull(true))
	}

	result, err := engine.SyncLogs(ctx, c.String("log-path"), opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nState: %s\n", result.State)
	fmt.Fprintf(os.Stderr, "Lines processed: %d\n", result.LinesProcessed)
	fmt.Fprintf(os.Stderr, "Imported: %d\n", result.Imported)
	fmt.Fprintf(os.Stderr, "Skipped: %d\n", result.Skipped)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Search(context.Background(), query, c.Int("top-k"), c.String("user"))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%d. [distance %.4f] %s (%s)\n", i+1,
			r.Distance, r.Document.Metadata.Username, r.Document.Metadata.Timestamp)
		fmt.Printf("   %s\n", r.Document.Content)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	count, err := engine.Count(context.Background())
	if err != nil {
		return err
	}

	sync, err := json.MarshalIndent(engine.SyncStatus(), "", "  ")
	if err != nil {
		return err
	}

	fmt.Printf("Documents indexed: %d\n", count)
	fmt.Printf("Embedding model: %s\n", engine.EmbeddingModel())
	fmt.Printf("Sync: %s\n", sync)
	return nil
}

func resetSyncCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.ResetSync(); err != nil {
		return err
	}
	fmt.Println("Sync checkpoint removed.")
	return nil
}

func clearCommand(c *cli.Context) error {
	if !c.Bool("yes") {
		fmt.Print("This deletes every indexed document. Type 'yes' to continue: ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.ClearAll(context.Background()); err != nil {
		return err
	}
	fmt.Println("Index cleared.")
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
