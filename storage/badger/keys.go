package badger

import (
	"fmt"

	"github.com/quindle/recall/core"
)

// Key prefixes for different data types
const (
	documentPrefix = "docrec"
	modelPinKey    = "docmodel"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}
