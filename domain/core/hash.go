package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough for display.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// HashParts hashes an ordered list of values. Order is significant.
func HashParts(parts ...interface{}) Hash {
	var data strings.Builder
	for _, p := range parts {
		data.WriteString(fmt.Sprintf("%v", p))
		data.WriteByte(0x1f)
	}
	return NewHash([]byte(data.String()))
}

// HashPartition hashes a set of groups independent of group order and of
// member order inside each group. Two partitions with the same member sets
// hash equal even when their labels differ.
func HashPartition(groups [][]string) Hash {
	encoded := make([]string, 0, len(groups))
	for _, g := range groups {
		members := append([]string(nil), g...)
		sort.Strings(members)
		encoded = append(encoded, strings.Join(members, "\x1e"))
	}
	sort.Strings(encoded)
	return NewHash([]byte(strings.Join(encoded, "\x1d")))
}
