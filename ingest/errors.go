package ingest

import "errors"

var (
	// ErrStoreRequired indicates a nil vector store was passed.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrParserRequired indicates a nil line parser was passed.
	ErrParserRequired = errors.New("line parser is required")

	// ErrCheckpointRequired indicates a nil checkpoint file was passed.
	ErrCheckpointRequired = errors.New("checkpoint file is required")

	// ErrAlreadyRunning indicates a sync run is already in progress on
	// this pipeline. Bulk ingestion is serialized per log source.
	ErrAlreadyRunning = errors.New("sync already running")
)
