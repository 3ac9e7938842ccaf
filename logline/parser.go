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


package logline

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/quindle/recall/core"
)

// bannerMarker appears in operational log lines that are not conversation
// data and must never be treated as malformed records.
const bannerMarker = "Added to conversation log"

// minFieldLength guards against truncated or corrupted legacy lines: a
// query or reply shorter than this after unescaping is noise.
const minFieldLength = 2

// Parser converts raw log lines into documents. It is stateless apart from
// the source tag stamped into each document's metadata, total (it never
// panics) and deterministic.
type Parser struct {
	source   string
	matchers []matcher
}

// matcher is one recognized historical line shape: a predicate and
// extractor pair. Matchers are tried in a fixed priority order; new legacy
// formats are supported by appending a matcher, never by editing an
// existing one.
type matcher func(p *Parser, line string) (*core.Document, bool)

// NewParser creates a parser whose output documents carry the given
// ingestion-source tag ("initial_sync", "sync", "live").
func NewParser(source string) *Parser {
	return &Parser{
		source: source,
		matchers: []matcher{
			matchJSONObject,
			matchTimestampedJSON,
			// The search-result variant must run before the plain bracketed
			// form: the plain form's lazy captures would otherwise swallow
			// the extra segment into the query text.
			matchBracketedWithSearchResult,
			matchBracketed,
		},
	}
}

// Parse converts a single log line into a document. The second return value
// is false for any line that is not a conversational turn: blank lines,
// operational banners, unrecognized shapes, undecodable payloads, and
// truncated legacy records. Callers route those to a skip counter.
func (p *Parser) Parse(line string) (*core.Document, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}
	if strings.Contains(line, bannerMarker) {
		return nil, false
	}

	for _, match := range p.matchers {
		if doc, ok := match(p, line); ok {
			return doc, true
		}
	}
	return nil, false
}

// matchJSONObject handles the current canonical format: a self-contained
// JSON object with query, reply and user fields.
func matchJSONObject(p *Parser, line string) (*core.Document, bool) {
	if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
		return nil, false
	}
	return p.decodeEntry([]byte(line), "")
}

// matchTimestampedJSON handles the same JSON object prefixed by an external
// ISO-8601 timestamp: "<timestamp> - {...}".
func matchTimestampedJSON(p *Parser, line string) (*core.Document, bool) {
	m := reTimestampedJSON.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return p.decodeEntry([]byte(m[2]), m[1])
}

// matchBracketedWithSearchResult handles the oldest format variant carrying
// an extra search-result segment between query and reply. The segment is
// skipped, not captured.
func matchBracketedWithSearchResult(p *Parser, line string) (*core.Document, bool) {
	m := reBracketedSearch.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return p.legacyDocument(m[1], m[2], m[3], m[4], "legacy_google")
}

// matchBracketed handles the plain bracketed legacy format:
// "<timestamp> - \"[User: @name],\n [Query: ...],\n [reply: ...]\"".
func matchBracketed(p *Parser, line string) (*core.Document, bool) {
	m := reBracketed.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return p.legacyDocument(m[1], m[2], m[3], m[4], "legacy")
}

// decodeEntry builds a document from a structured JSON payload. The
// fallbackTimestamp is the line's external timestamp prefix, used when the
// payload carries none.
func (p *Parser) decodeEntry(payload []byte, fallbackTimestamp string) (*core.Document, bool) {
	var entry map[string]any
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, false
	}

	// query, reply and user are what make a line a conversational turn.
	if _, ok := entry["query"]; !ok {
		return nil, false
	}
	if _, ok := entry["reply"]; !ok {
		return nil, false
	}
	if _, ok := entry["user"]; !ok {
		return nil, false
	}

	username := stringField(entry, "username")
	query := stringField(entry, "query")
	reply := stringField(entry, "reply")

	timestamp := stringOrEmpty(entry, "timestamp")
	if timestamp == "" {
		timestamp = fallbackTimestamp
	}

	return &core.Document{
		Content: core.ConversationContent(username, query, reply),
		Metadata: core.Metadata{
			User:      stringField(entry, "user"),
			Username:  username,
			Server:    stringField(entry, "server"),
			Timestamp: timestamp,
			Provider:  stringField(entry, "provider"),
			Source:    p.source,
		},
	}, true
}

// legacyDocument builds a document from the captures of a bracketed form.
// Legacy lines carry no owner id or server; both are recorded as "unknown".
func (p *Parser) legacyDocument(timestamp, username, query, reply, provider string) (*core.Document, bool) {
	query = strings.TrimSpace(unescapeNewlines(query))
	reply = strings.TrimSpace(unescapeNewlines(reply))
	if len(query) < minFieldLength || len(reply) < minFieldLength {
		return nil, false
	}

	return &core.Document{
		Content: core.ConversationContent(username, query, reply),
		Metadata: core.Metadata{
			User:      "unknown",
			Username:  username,
			Server:    "unknown",
			Timestamp: timestamp,
			Provider:  provider,
			Source:    p.source,
		},
	}, true
}

// unescapeNewlines converts the literal "\n" escape sequences the legacy
// logger wrote into real newlines.
func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// stringField coerces a JSON value to a string, defaulting absent or null
// fields to "unknown". Numeric ids (Discord snowflakes decoded as numbers)
// are rendered without an exponent.
func stringField(entry map[string]any, key string) string {
	v, ok := entry[key]
	if !ok || v == nil {
		return "unknown"
	}
	return coerceString(v)
}

// stringOrEmpty is stringField without the "unknown" default.
func stringOrEmpty(entry map[string]any, key string) string {
	v, ok := entry[key]
	if !ok || v == nil {
		return ""
	}
	return coerceString(v)
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "unknown"
		}
		return string(b)
	}
}
