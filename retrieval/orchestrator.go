package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quindle/recall/core"
)

const (
	defaultK = 5
	historyK = 10

	// genericTopicQuery replaces the literal query for history questions
	// like "what have we talked about": the question text itself is a
	// poor embedding target, a broad topical probe surfaces a more
	// diverse slice of the owner's history.
	genericTopicQuery = "percakapan topik"

	contextSeparator = "\n---\n"
)

// historyKeywords mark a query as asking about past conversations rather
// than stating a topic. The corpus is Indonesian-dominant.
var historyKeywords = []string{
	"pernah", "sebelumnya", "riwayat", "history",
	"tanyakan", "bahas", "ngobrol", "cerita",
}

// Searcher is the slice of the vector store the orchestrator reads from.
type Searcher interface {
	Search(ctx context.Context, query string, k int, owner string) ([]*core.SearchResult, error)
}

// Context is the assembled retrieval context handed to the generator.
type Context struct {
	// Documents are the retrieved results, nearest first.
	Documents []*core.SearchResult

	// Text is the document contents joined for prompt inclusion.
	Text string

	// EffectiveOwner is whose history was searched. Differs from the
	// requesting owner when the query mentioned another known name.
	EffectiveOwner string

	// OwnerNote is a disclosure for the generator when EffectiveOwner is
	// not the requesting owner, empty otherwise.
	OwnerNote string
}

// Orchestrator assembles owner-scoped conversation context for a query.
type Orchestrator struct {
	store     Searcher
	directory *Directory
	monitor   RetrievalMonitor
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithMonitor sets a retrieval monitor.
// Default is a no-op monitor.
func WithMonitor(monitor RetrievalMonitor) Option {
	return func(o *Orchestrator) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		o.monitor = monitor
		return nil
	}
}

// NewOrchestrator creates a retrieval orchestrator.
func NewOrchestrator(store Searcher, directory *Directory, opts ...Option) (*Orchestrator, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if directory == nil {
		return nil, ErrDirectoryRequired
	}

	o := &Orchestrator{
		store:     store,
		directory: directory,
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// AnswerContext retrieves conversation context for answering query on
// behalf of requestingOwner.
//
// The search is always scoped to a single owner. By default that is the
// requesting owner; when the query mentions another known display name,
// that name's history is searched instead and OwnerNote discloses the
// substitution. History-style questions trade the literal query for a
// generic topical probe with a larger k.
//
// Finding nothing is not an error: the Context comes back with no
// documents and empty Text, and generation proceeds context-free.
func (o *Orchestrator) AnswerContext(ctx context.Context, query, requestingOwner string) (*Context, error) {
	o.monitor.Start(query, requestingOwner)

	effectiveOwner := requestingOwner
	ownerNote := ""

	if name, owner, ok := o.directory.Resolve(query); ok && owner != requestingOwner {
		effectiveOwner = owner
		ownerNote = fmt.Sprintf(
			"The conversation history below belongs to %s, not the person asking. Answer about %s in the third person.",
			name, name)
		o.monitor.ResolvedMention(name, owner)
		o.logger.Debug("query mentions another owner", "name", name, "owner", owner)
	}

	searchQuery := query
	k := defaultK
	if isHistoryQuestion(query) {
		searchQuery = genericTopicQuery
		k = historyK
		o.monitor.HistoryQuestion(searchQuery, k)
	}

	results, err := o.store.Search(ctx, searchQuery, k, effectiveOwner)
	if err != nil {
		o.logger.Error("error searching conversation history", "owner", effectiveOwner, "err", err)
		return nil, err
	}
	o.monitor.AfterSearch(results)

	assembled := &Context{
		Documents:      results,
		Text:           joinContents(results),
		EffectiveOwner: effectiveOwner,
		OwnerNote:      ownerNote,
	}
	o.monitor.Finish(assembled)
	return assembled, nil
}

// isHistoryQuestion reports whether the query asks about past
// conversations.
func isHistoryQuestion(query string) bool {
	lowered := strings.ToLower(query)
	for _, kw := range historyKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// joinContents concatenates result contents with the context separator.
func joinContents(results []*core.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Document.Content)
	}
	return strings.Join(parts, contextSeparator)
}
