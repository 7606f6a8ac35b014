//go:generate mockgen -destination=./mocks/download.go -package=mocks . Manager

// Package download provides HTTP fetching of remote binaries with integrity
// verification and atomic on-disk finalization.
package download

import (
	"context"
	"net/url"
)

// Manager defines the interface for downloading remote binaries. It replaces
// ad-hoc HTTP downloading with a testable API that supports integrity
// verification.
type Manager interface {
	// Fetch downloads a single item into opts.Dir and returns the absolute
	// local file path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)

	// FetchAll downloads all items concurrently and returns a map from
	// Item.ID to absolute local file path.
	FetchAll(ctx context.Context, items []Item, opts Options) (map[string]string, error)
}

// Item represents one remote resource to download.
type Item struct {
	ID       string   // stable identifier, unique within a batch
	URL      *url.URL // source URL to download
	Checksum string   // optional hex-encoded SHA-256; verified when non-empty
	Filename string   // optional preferred filename; derived when empty
}

// Options control the behavior of the download manager.
type Options struct {
	Dir         string // destination directory; must be absolute
	Concurrency int    // parallel downloads for FetchAll; <=0 picks a default
}
