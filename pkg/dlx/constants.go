package dlx

import "time"

const (
	// MetadataFilename is the sidecar metadata file written next to each
	// cached artifact.
	MetadataFilename = ".dlx-metadata.json"

	// DefaultCacheTTL is the maximum age of a cache entry before a run
	// re-downloads it, and the default cutoff for Clean.
	DefaultCacheTTL = 7 * 24 * time.Hour

	// ChecksumAlgorithm is the digest algorithm recorded in manifest
	// entries.
	ChecksumAlgorithm = "sha256"
)
