// Package cachekey derives deterministic identifiers for dlx cache entries.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyLength is the length in hex characters of a cache key.
const KeyLength = 16

// ForSpec derives a deterministic cache key from a spec string such as
// "url:name" or a bare binary name. The key is the truncated SHA-256 of the
// spec, always exactly 16 lowercase hex characters. Keys are deduplication
// identifiers used as on-disk directory names, never a security boundary.
func ForSpec(spec string) string {
	sum := sha256.Sum256([]byte(spec))
	return hex.EncodeToString(sum[:])[:KeyLength]
}

// ForDownload derives a cache key for a URL + name pair, the spec form used
// by URL-keyed cache entries.
func ForDownload(url, name string) string {
	return ForSpec(url + ":" + name)
}
