// Package ingest implements the checkpointed bulk sync of conversation
// logs into the vector store.
//
// A Pipeline streams a log file line by line through the format parser,
// accumulates parseable lines into batches, embeds and stores each batch
// in a single provider call, and advances a JSON checkpoint file only
// after the batch is durably written. Interrupting a run is a clean
// stopping point: the next run with the same parameters resumes from the
// last flushed batch, and content-addressed document IDs make any
// re-read lines idempotent.
package ingest
