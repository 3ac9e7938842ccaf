package retrieval

import "errors"

var (
	// ErrStoreRequired indicates a nil vector store was passed.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrDirectoryRequired indicates a nil owner directory was passed.
	ErrDirectoryRequired = errors.New("owner directory is required")
)
