package badger

import (
	"encoding/binary"

	"github.com/poiesic/recall/core"
)

// Key prefixes for different data types
const (
	turnPrefix = "convturn"
	turnIDSeq  = "convturnseq"
)

// makeTurnKey generates a composite key for a turn.
// Format: prefix:conversationID:sequence, with the numeric parts written in
// BigEndian order so lexicographic sort matches append order.
func makeTurnKey(conversationID core.ID, seq uint64) []byte {
	prefix := turnPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for conversation + 8 bytes for sequence
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(conversationID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeTurnPrefix generates the key prefix covering all turns of a conversation.
func makeTurnPrefix(conversationID core.ID) []byte {
	prefix := turnPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(conversationID))
	return buf
}
