// Package manifest provides a JSON-backed store recording dlx cache entries.
// A single file maps spec strings to records; a record is either a
// current-format discriminated entry (package or binary) or a legacy flat
// record kept for backward compatibility. The two shapes live in the same
// file but are exposed through separate accessors and are invisible to each
// other.
package manifest

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntryType discriminates the current-format record shapes.
type EntryType string

// Supported entry types.
const (
	TypePackage EntryType = "package"
	TypeBinary  EntryType = "binary"
)

// PackageDetails holds metadata for a package-install-style entry.
type PackageDetails struct {
	InstalledVersion string `json:"installed_version"`
	Size             int64  `json:"size,omitempty"`
	UpdateCheck      int64  `json:"update_check,omitempty"`
}

// SourceInfo records where a binary entry came from.
type SourceInfo struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// BinaryDetails holds metadata for a downloaded-binary entry.
type BinaryDetails struct {
	Checksum          string     `json:"checksum"`
	ChecksumAlgorithm string     `json:"checksum_algorithm"`
	Platform          string     `json:"platform"`
	Arch              string     `json:"arch"`
	Size              int64      `json:"size"`
	Source            SourceInfo `json:"source"`
}

// Entry is a current-format manifest record. Exactly one of Package or
// Binary is set, matching Type. Timestamp is the entry's creation or refresh
// time in epoch milliseconds.
type Entry struct {
	Type      EntryType
	CacheKey  string
	Timestamp int64
	Package   *PackageDetails
	Binary    *BinaryDetails
}

// LegacyRecord is the historical flat record shape. It shares the manifest
// file with Entry records but is logically distinct from them.
type LegacyRecord struct {
	Version               string `json:"version"`
	TimestampFetch        int64  `json:"timestampFetch"`
	TimestampNotification int64  `json:"timestampNotification"`
}

// IsFresh reports whether a legacy record is still within ttl. A nil record
// is never fresh, and a record exactly ttl old is stale.
func IsFresh(rec *LegacyRecord, ttl time.Duration) bool {
	if rec == nil {
		return false
	}
	return time.Now().UnixMilli()-rec.TimestampFetch < ttl.Milliseconds()
}

type entryJSON struct {
	Type      EntryType       `json:"type"`
	CacheKey  string          `json:"cache_key"`
	Timestamp int64           `json:"timestamp"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// MarshalJSON encodes the entry with its type-specific details object.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		Type:      e.Type,
		CacheKey:  e.CacheKey,
		Timestamp: e.Timestamp,
	}

	var details interface{}
	switch e.Type {
	case TypePackage:
		details = e.Package
	case TypeBinary:
		details = e.Binary
	default:
		return nil, fmt.Errorf("unknown manifest entry type %q", e.Type)
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return nil, err
		}
		out.Details = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an entry, dispatching the details object on type.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Type = raw.Type
	e.CacheKey = raw.CacheKey
	e.Timestamp = raw.Timestamp
	e.Package = nil
	e.Binary = nil

	switch raw.Type {
	case TypePackage:
		if len(raw.Details) > 0 {
			e.Package = &PackageDetails{}
			return json.Unmarshal(raw.Details, e.Package)
		}
	case TypeBinary:
		if len(raw.Details) > 0 {
			e.Binary = &BinaryDetails{}
			return json.Unmarshal(raw.Details, e.Binary)
		}
	default:
		return fmt.Errorf("unknown manifest entry type %q", raw.Type)
	}
	return nil
}
