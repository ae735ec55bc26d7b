package domain

import (
	"context"
	"net/http"
	"time"
)

//go:generate mockgen -destination=../mocks/domain.go -package=mocks . Fetcher,RecordStore

// Fetcher defines the interface for fetching remote pages
type Fetcher interface {
	// Get fetches content from a URL
	Get(ctx context.Context, url string) (*Response, error)
	// Close releases resources
	Close() error
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
	FromCache   bool
}

// Cache defines the interface for the fetched page cache
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// RecordStore persists the enriched post list keyed by a manifest digest
type RecordStore interface {
	// Load returns the stored records when digest matches the stored one
	Load(digest string) ([]PostRecord, bool)
	// Save overwrites the store with the given digest and records
	Save(digest string, records []PostRecord) error
}

// Extractor turns a descriptor and its fetched page into a record
type Extractor interface {
	Extract(desc PostDescriptor, html []byte) (PostRecord, error)
}
