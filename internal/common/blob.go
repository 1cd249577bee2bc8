package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ShardPrefixLength is the number of content id characters used to name a shard directory.
const ShardPrefixLength = 4

// BlobRecord is a decoded blob transaction. ContentID is the identity; Height and
// Index only describe where the transaction was seen.
type BlobRecord struct {
	ContentID string
	Payload   []byte
	Height    uint64
	Index     int
}

// NormalizeContentID strips an optional 0x prefix, lowercases the remainder and
// validates it is hex and long enough to be sharded.
func NormalizeContentID(id string) (string, error) {
	id = strings.ToLower(strings.TrimPrefix(id, "0x"))
	if len(id) < ShardPrefixLength {
		return "", fmt.Errorf("%w: %q is shorter than %d characters", ErrInvalidContentID, id, ShardPrefixLength)
	}
	if _, err := hex.DecodeString(evenHex(id)); err != nil {
		return "", fmt.Errorf("%w: %q is not hex", ErrInvalidContentID, id)
	}
	return id, nil
}

// Shard returns the shard directory name for a normalized content id.
func Shard(id string) string {
	return id[:ShardPrefixLength]
}

func evenHex(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}
