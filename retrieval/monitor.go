package retrieval

import "github.com/quindle/recall/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during context
// assembly.
type RetrievalMonitor interface {
	Start(query, requestingOwner string)
	ResolvedMention(name, owner string)
	HistoryQuestion(searchQuery string, k int)
	AfterSearch(results []*core.SearchResult)
	Finish(assembled *Context)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                   {}
func (n *noopMonitor) ResolvedMention(_, _ string)         {}
func (n *noopMonitor) HistoryQuestion(_ string, _ int)     {}
func (n *noopMonitor) AfterSearch(_ []*core.SearchResult)  {}
func (n *noopMonitor) Finish(_ *Context)                   {}
