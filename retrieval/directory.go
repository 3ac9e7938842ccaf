package retrieval

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
)

// Directory maps display names to owner identifiers. It is loaded once at
// startup and read-only afterwards, so concurrent use is safe.
type Directory struct {
	owners map[string]string // lowercased name -> owner id
}

// directoryEntry mirrors one element of a name's account list in the
// mapping file.
type directoryEntry struct {
	User string `json:"user"`
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{owners: make(map[string]string)}
}

// LoadDirectory reads a name-to-owner mapping file of the shape
//
//	{"alice": [{"user": "100"}], "bob": [{"user": "200"}]}
//
// The first listed account wins when a name has several. A missing file
// yields an empty directory; mentions simply stop resolving.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("owner mapping file missing, mention resolution disabled", "path", path)
			return NewDirectory(), nil
		}
		return nil, err
	}

	var raw map[string][]directoryEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	d := NewDirectory()
	for name, entries := range raw {
		if len(entries) == 0 || entries[0].User == "" {
			continue
		}
		d.owners[strings.ToLower(name)] = entries[0].User
	}
	return d, nil
}

// Add registers a name-to-owner mapping. Mostly useful in tests.
func (d *Directory) Add(name, owner string) {
	d.owners[strings.ToLower(name)] = owner
}

// Len returns the number of known names.
func (d *Directory) Len() int {
	return len(d.owners)
}

// Resolve scans text for a known display name and returns the matched
// name and its owner id. Matching is case-insensitive substring search,
// so "what did Bob say" resolves the name "bob".
func (d *Directory) Resolve(text string) (name, owner string, ok bool) {
	lowered := strings.ToLower(text)
	for n, id := range d.owners {
		if strings.Contains(lowered, n) {
			return n, id, true
		}
	}
	return "", "", false
}
