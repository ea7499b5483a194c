// Package idgen computes stable identifiers for symbols and clusters.
package idgen

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// SymbolID returns the stable id for a declaration at filePath+name,
// forcing the declaration offset to 0 for exported symbols so that
// exported renames preserve identity across edits within the same file.
func SymbolID(filePath, name string, declOffset int64, exported bool) string {
	offset := declOffset
	if exported {
		offset = 0
	}
	h := xxhash.New()
	h.WriteString(filePath)
	h.Write([]byte{0})
	h.WriteString(name)
	h.Write([]byte{0})
	h.WriteString(strconv.FormatInt(offset, 10))
	return strconv.FormatUint(h.Sum64(), 16)
}

// ClusterKey buckets symbol bodies by a hash of kind plus the caller-normalized
// body; only bodies identical after that normalization share a key.
// Stable for unchanged content across indexing runs.
func ClusterKey(kind, normalizedBody string) string {
	h := xxhash.New()
	h.WriteString(kind)
	h.Write([]byte{0})
	h.WriteString(normalizedBody)
	return strconv.FormatUint(h.Sum64(), 16)
}
