// Package logline parses the conversation log's historical line formats
// into documents.
//
// The log accumulated across several incompatible generations of the
// logging code: a current self-contained JSON format, the same JSON with an
// external timestamp prefix, and two bracketed text forms with escaped
// newlines. The parser tries an ordered list of matchers and normalizes
// every shape to the same content template, so downstream indexing and
// retrieval never see format differences.
//
// Parse never fails: a line that matches no shape is reported as not
// parseable and counted by the caller, not treated as an error.
package logline
