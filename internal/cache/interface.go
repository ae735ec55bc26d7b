package cache

import (
	"github.com/kitops-ml/blogdata/internal/domain"
)

// Ensure implementations satisfy the domain interfaces
var (
	_ domain.Cache       = (*BadgerCache)(nil)
	_ domain.RecordStore = (*Store)(nil)
)

// Entry is the on-disk shape of the record cache file
type Entry struct {
	Hash  string              `json:"hash"`
	Posts []domain.PostRecord `json:"posts"`
}

// Options contains page cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
}

// DefaultOptions returns default page cache options
func DefaultOptions() Options {
	return Options{
		Directory: "",
		InMemory:  false,
		Logger:    false,
	}
}
