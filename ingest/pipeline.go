package ingest

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/quindle/recall/core"
	"github.com/quindle/recall/logline"
)

// State identifies where a sync run is in its lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateCounting    State = "counting"
	StateStreaming   State = "streaming"
	StateInterrupted State = "interrupted"
	StateCompleted   State = "completed"
)

const (
	// DefaultBatchSize matches the bulk import default.
	DefaultBatchSize = 500

	// maxLineSize bounds a single log line. Legacy logs carry whole
	// conversations on one line.
	maxLineSize = 1024 * 1024
)

// BatchStore is the slice of the vector store the pipeline writes through.
type BatchStore interface {
	AddBatch(ctx context.Context, docs []*core.Document) (int, error)
}

// Result reports the outcome of a sync run.
type Result struct {
	State          State `json:"state"`
	TotalLines     int   `json:"total_lines"`
	LinesProcessed int   `json:"lines_processed"`
	Imported       int   `json:"imported"`
	Skipped        int   `json:"skipped"`
}

// Status is a point-in-time snapshot of a pipeline, safe to read while a
// run is in flight.
type Status struct {
	State          State      `json:"state"`
	TotalLines     int        `json:"total_lines"`
	LinesProcessed int        `json:"lines_processed"`
	Imported       int        `json:"imported"`
	Skipped        int        `json:"skipped"`
	Checkpoint     Checkpoint `json:"checkpoint"`
}

// Pipeline streams a conversation log into the vector store in batches,
// checkpointing after every durable flush so an interrupted run resumes
// where it left off.
type Pipeline struct {
	store      BatchStore
	parser     *logline.Parser
	checkpoint *CheckpointFile

	batchSize        int
	limit            int
	forceFull        bool
	yieldDelay       time.Duration
	progressWriter   io.Writer
	progressInterval int
	logger           *slog.Logger

	mu      sync.Mutex
	running bool
	status  Status
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithBatchSize sets how many parsed documents accumulate before a flush.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLimit caps the number of documents imported in one run.
// Zero means no limit. Used for dry runs and testing.
func WithLimit(limit int) Option {
	return func(p *Pipeline) error {
		if limit < 0 {
			limit = 0
		}
		p.limit = limit
		return nil
	}
}

// WithForceFull restarts the scan from line zero while keeping already
// indexed documents. Content-addressed IDs make the re-scan idempotent.
func WithForceFull(force bool) Option {
	return func(p *Pipeline) error {
		p.forceFull = force
		return nil
	}
}

// WithYieldDelay inserts a pause after each flushed batch so a sync
// sharing a process with the serving path doesn't starve it.
func WithYieldDelay(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d < 0 {
			d = 0
		}
		p.yieldDelay = d
		return nil
	}
}

// WithProgress enables progress reporting to the writer every interval
// lines.
func WithProgress(w io.Writer, interval int) Option {
	return func(p *Pipeline) error {
		if interval < 1 {
			interval = 1
		}
		p.progressWriter = w
		p.progressInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a sync pipeline over the given store, parser and
// checkpoint file.
func NewPipeline(
	store BatchStore,
	parser *logline.Parser,
	checkpoint *CheckpointFile,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if parser == nil {
		return nil, ErrParserRequired
	}
	if checkpoint == nil {
		return nil, ErrCheckpointRequired
	}

	p := &Pipeline{
		store:      store,
		parser:     parser,
		checkpoint: checkpoint,
		batchSize:  DefaultBatchSize,
		logger:     slog.Default(),
		status:     Status{State: StateIdle},
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Status returns a snapshot of the pipeline.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.status
	st.Checkpoint = *p.checkpoint.Load()
	return st
}

// Run executes one sync pass over the log at logPath.
//
// Cancellation via ctx is a clean stopping point, not an error: the run
// keeps everything flushed so far, saves the checkpoint, and reports
// StateInterrupted. Storage and embedding failures do return an error;
// the checkpoint still reflects only fully flushed batches.
func (p *Pipeline) Run(ctx context.Context, logPath string) (*Result, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	p.setState(StateCounting)
	total, err := countLines(logPath)
	if err != nil {
		p.setState(StateIdle)
		return nil, err
	}
	p.updateStatus(func(st *Status) { st.TotalLines = total })

	cp := p.checkpoint.Load()
	if p.forceFull {
		cp.LastLine = 0
		cp.Imported = 0
	}
	cp.CompletedAt = nil
	if cp.StartedAt == nil {
		now := time.Now().UTC()
		cp.StartedAt = &now
	}

	var progress *ProgressTracker
	if p.progressWriter != nil {
		remaining := total - cp.LastLine
		if remaining < 0 {
			remaining = 0
		}
		progress = NewProgressTracker(p.progressWriter, remaining, p.progressInterval)
		progress.Start()
	}

	file, err := os.Open(logPath)
	if err != nil {
		p.setState(StateIdle)
		return nil, err
	}
	defer file.Close()

	p.setState(StateStreaming)
	p.logger.Info("sync started",
		"path", logPath, "from_line", cp.LastLine, "total_lines", total, "batch_size", p.batchSize)

	var (
		batch        []*core.Document
		lineNo       int
		processed    int
		skipped      int
		importedRun  int
		interrupted  bool
		limitReached bool
	)

	flush := func(upTo int) error {
		if len(batch) == 0 {
			return nil
		}
		n, err := p.store.AddBatch(ctx, batch)
		if err != nil {
			return err
		}
		cp.LastLine = upTo
		cp.Imported += n
		importedRun += n
		batch = batch[:0]

		if err := p.checkpoint.Save(cp); err != nil {
			// Re-importing a batch is a no-op thanks to content IDs, so
			// a failed checkpoint save costs a re-scan, not correctness.
			p.logger.Error("error saving checkpoint", "err", err)
		}
		p.updateStatus(func(st *Status) { st.Imported = cp.Imported })

		if p.yieldDelay > 0 {
			time.Sleep(p.yieldDelay)
		}
		return nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		lineNo++
		if lineNo <= cp.LastLine {
			continue
		}

		select {
		case <-ctx.Done():
			interrupted = true
		default:
		}
		if interrupted {
			break
		}

		processed++
		if progress != nil {
			progress.Increment(1)
		}

		doc, ok := p.parser.Parse(scanner.Text())
		if !ok {
			skipped++
			continue
		}
		batch = append(batch, doc)

		if p.limit > 0 && importedRun+len(batch) >= p.limit {
			over := importedRun + len(batch) - p.limit
			batch = batch[:len(batch)-over]
			if err := flush(lineNo); err != nil {
				return p.fail(err, total, processed, skipped)
			}
			limitReached = true
			break
		}

		if len(batch) >= p.batchSize {
			if err := flush(lineNo); err != nil {
				return p.fail(err, total, processed, skipped)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return p.fail(err, total, processed, skipped)
	}

	result := &Result{
		TotalLines:     total,
		LinesProcessed: processed,
		Skipped:        skipped,
	}

	if interrupted {
		// Drop the partial batch; the checkpoint already reflects the
		// last durable flush. The next run re-reads the dropped lines.
		if err := p.checkpoint.Save(cp); err != nil {
			p.logger.Error("error saving checkpoint", "err", err)
		}
		p.setState(StateInterrupted)
		result.State = StateInterrupted
		result.Imported = importedRun
		p.updateStatus(func(st *Status) {
			st.LinesProcessed = processed
			st.Skipped = skipped
		})
		p.logger.Info("sync interrupted", "imported", importedRun, "last_line", cp.LastLine)
		return result, nil
	}

	if !limitReached {
		if err := flush(lineNo); err != nil {
			return p.fail(err, total, processed, skipped)
		}
		now := time.Now().UTC()
		cp.CompletedAt = &now
		if err := p.checkpoint.Save(cp); err != nil {
			p.logger.Error("error saving checkpoint", "err", err)
		}
	}

	if progress != nil {
		progress.Finish()
	}

	p.setState(StateCompleted)
	result.State = StateCompleted
	result.Imported = importedRun
	p.updateStatus(func(st *Status) {
		st.LinesProcessed = processed
		st.Skipped = skipped
	})
	p.logger.Info("sync completed",
		"imported", importedRun, "skipped", skipped, "lines", processed)
	return result, nil
}

func (p *Pipeline) fail(err error, total, processed, skipped int) (*Result, error) {
	p.setState(StateInterrupted)
	p.logger.Error("sync failed", "err", err)
	return &Result{
		State:          StateInterrupted,
		TotalLines:     total,
		LinesProcessed: processed,
		Skipped:        skipped,
	}, err
}

func (p *Pipeline) setState(s State) {
	p.updateStatus(func(st *Status) { st.State = s })
}

func (p *Pipeline) updateStatus(fn func(*Status)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.status)
}

// countLines counts newline-delimited lines in the file at path.
func countLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
