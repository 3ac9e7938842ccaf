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


package recall

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/quindle/recall/ai"
	"github.com/quindle/recall/ai/openai"
	"github.com/quindle/recall/core"
	"github.com/quindle/recall/ingest"
	"github.com/quindle/recall/logline"
	"github.com/quindle/recall/retrieval"
	"github.com/quindle/recall/storage"
	"github.com/quindle/recall/storage/badger"
	"github.com/quindle/recall/store"
)

const (
	indexDirName       = "index"
	checkpointFileName = "sync_checkpoint.json"
	mappingFileName    = "user-mapping.json"
	logSource          = "chat_log"
)

// Engine wires the storage backend, vector store, ingestion pipeline and
// retrieval orchestrator into one unit the CLI and HTTP layers drive.
type Engine struct {
	backend    *badger.Backend
	repo       storage.DocumentRepository
	provider   ai.Provider
	store      *store.VectorStore
	parser     *logline.Parser
	checkpoint *ingest.CheckpointFile
	directory  *retrieval.Directory
	retriever  *retrieval.Orchestrator
	pool       *ants.Pool
	logger     *slog.Logger
	dataDir    string

	mu          sync.Mutex
	syncRunning bool
	lastSync    *ingest.Pipeline
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig    *ai.Config
	provider    ai.Provider
	mappingPath string
	poolSize    int
	logger      *slog.Logger
}

// WithAIConfig sets the configuration for the default OpenAI-compatible
// provider. Ignored when WithProvider is also given.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects a pre-built AI provider instead of constructing
// one from config.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithMappingPath overrides the owner mapping file location.
// Default is user-mapping.json inside the data directory.
func WithMappingPath(path string) EngineOption {
	return func(o *engineOptions) {
		o.mappingPath = path
	}
}

// WithPoolSize sets the async indexing worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.poolSize = size
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine opens (or creates) an engine rooted at dataDir.
func NewEngine(dataDir string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		poolSize: runtime.NumCPU() / 2,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.poolSize < 1 {
		options.poolSize = 1
	}
	if options.mappingPath == "" {
		options.mappingPath = filepath.Join(dataDir, mappingFileName)
	}

	backend, err := badger.OpenBackend(filepath.Join(dataDir, indexDirName), false)
	if err != nil {
		return nil, err
	}
	repo := badger.NewDocumentRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	vectorStore, err := store.NewVectorStore(repo, provider, store.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	directory, err := retrieval.LoadDirectory(options.mappingPath)
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, fmt.Errorf("loading owner mapping: %w", err)
	}

	retriever, err := retrieval.NewOrchestrator(vectorStore, directory,
		retrieval.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	pool, err := ants.NewPool(options.poolSize)
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:    backend,
		repo:       repo,
		provider:   provider,
		store:      vectorStore,
		parser:     logline.NewParser(logSource),
		checkpoint: ingest.NewCheckpointFile(filepath.Join(dataDir, checkpointFileName)),
		directory:  directory,
		retriever:  retriever,
		pool:       pool,
		logger:     options.logger,
		dataDir:    dataDir,
	}, nil
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	e.pool.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store exposes the vector store for direct operations.
func (e *Engine) Store() *store.VectorStore {
	return e.store
}

// EmbeddingModel returns the embedding model identifier in use.
func (e *Engine) EmbeddingModel() string {
	return e.provider.EmbeddingModel()
}

// LogEntry is one live conversation turn handed to LogConversation.
type LogEntry struct {
	User      string
	Username  string
	Server    string
	Query     string
	Reply     string
	Timestamp string
}

// LogConversation records a live conversation turn. The content-derived
// document ID is returned immediately; embedding and insertion happen on
// the worker pool so the serving path never waits on the embedding
// provider. Failures there are logged, and the bulk sync sweeps up any
// turn the async path lost.
func (e *Engine) LogConversation(entry LogEntry) (core.ID, error) {
	if entry.Query == "" || entry.Reply == "" {
		return 0, core.ErrEmptyContent
	}
	if entry.User == "" {
		return 0, core.ErrMissingOwner
	}
	if entry.Username == "" {
		entry.Username = "unknown"
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	doc := &core.Document{
		Content: core.ConversationContent(entry.Username, entry.Query, entry.Reply),
		Metadata: core.Metadata{
			User:      entry.User,
			Username:  entry.Username,
			Server:    entry.Server,
			Timestamp: entry.Timestamp,
			Provider:  "live",
			Source:    logSource,
		},
	}
	doc.Id = core.IDFromContent(doc.Content, entry.Timestamp)

	id := doc.Id
	if err := e.pool.Submit(func() {
		if _, err := e.store.AddOne(context.Background(), doc); err != nil {
			e.logger.Error("error indexing conversation turn", "id", id, "err", err)
		}
	}); err != nil {
		return 0, err
	}

	return id, nil
}

// ChatResult is the outcome of a retrieval-augmented generation request.
type ChatResult struct {
	Response       string
	Sources        []*core.SearchResult
	EffectiveOwner string
	ContextUsed    bool
}

// Chat answers a query for the given owner: retrieve context, generate a
// reply. A retrieval failure degrades to context-free generation; a
// generation failure is returned for the caller to map to fallback text.
func (e *Engine) Chat(ctx context.Context, query, owner string) (*ChatResult, error) {
	assembled, err := e.retriever.AnswerContext(ctx, query, owner)
	if err != nil {
		e.logger.Warn("retrieval failed, generating without context", "err", err)
		assembled = &retrieval.Context{EffectiveOwner: owner}
	}

	generator, err := e.provider.Generator()
	if err != nil {
		return nil, err
	}

	response, err := generator.Generate(ctx, query, assembled.Text, assembled.OwnerNote)
	if err != nil {
		return nil, err
	}

	return &ChatResult{
		Response:       response,
		Sources:        assembled.Documents,
		EffectiveOwner: assembled.EffectiveOwner,
		ContextUsed:    assembled.Text != "",
	}, nil
}

// Search runs an owner-scoped similarity search directly.
func (e *Engine) Search(ctx context.Context, query string, k int, owner string) ([]*core.SearchResult, error) {
	return e.store.Search(ctx, query, k, owner)
}

// Count returns the number of indexed documents.
func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

// StoreAvailable reports whether the vector store can embed and search.
func (e *Engine) StoreAvailable(ctx context.Context) bool {
	return e.store.IsAvailable(ctx)
}

// GeneratorAvailable reports whether the generation backend is reachable.
func (e *Engine) GeneratorAvailable(ctx context.Context) bool {
	generator, err := e.provider.Generator()
	if err != nil {
		return false
	}
	return generator.IsAvailable(ctx)
}

// SyncLogs runs a bulk sync of the log at logPath. One sync runs at a
// time per engine; a second call while one is in flight returns
// ingest.ErrAlreadyRunning.
func (e *Engine) SyncLogs(ctx context.Context, logPath string, opts ...ingest.Option) (*ingest.Result, error) {
	opts = append(opts, ingest.WithLogger(e.logger))
	pipeline, err := ingest.NewPipeline(e.store, e.parser, e.checkpoint, opts...)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.syncRunning {
		e.mu.Unlock()
		return nil, ingest.ErrAlreadyRunning
	}
	e.syncRunning = true
	e.lastSync = pipeline
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.syncRunning = false
		e.mu.Unlock()
	}()

	return pipeline.Run(ctx, logPath)
}

// SyncStatus reports the state of the current or most recent sync run,
// falling back to the checkpoint on disk when none ran in this process.
func (e *Engine) SyncStatus() ingest.Status {
	e.mu.Lock()
	last := e.lastSync
	e.mu.Unlock()

	if last != nil {
		return last.Status()
	}
	return ingest.Status{
		State:      ingest.StateIdle,
		Checkpoint: *e.checkpoint.Load(),
	}
}

// ResetSync removes the sync checkpoint so the next run starts from the
// beginning of the log. Indexed documents are untouched.
func (e *Engine) ResetSync() error {
	return e.checkpoint.Reset()
}

// ClearAll destroys the indexed collection and the sync checkpoint.
func (e *Engine) ClearAll(ctx context.Context) error {
	if err := e.store.ClearAll(ctx); err != nil {
		return err
	}
	return e.checkpoint.Reset()
}
