package types

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier such as "order-1a2b3c4d".
// The suffix is the first n hex characters of a random UUID, which keeps
// identifiers short enough to read in logs while staying unique in practice.
func NewID(prefix string, n int) string {
	id := uuid.New()
	h := hex.EncodeToString(id[:])
	if n > len(h) {
		n = len(h)
	}
	return prefix + "-" + h[:n]
}
