package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/utils"
)

var (
	// ErrCorrupted indicates the cache file is not a valid entry
	ErrCorrupted = errors.New("cache file is corrupted")

	// ErrMissingHash indicates the cache file has no digest
	ErrMissingHash = errors.New("cache file has no hash")
)

// Store is the JSON file holding the enriched post list of the last build.
// It is the only reader and writer of that file.
type Store struct {
	path   string
	logger *utils.Logger
}

// StoreOptions contains options for creating a Store
type StoreOptions struct {
	Path   string
	Logger *utils.Logger
}

// NewStore creates a record store backed by the file at opts.Path
func NewStore(opts StoreOptions) *Store {
	return &Store{
		path:   opts.Path,
		logger: opts.Logger,
	}
}

// Path returns the cache file path
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached records when the stored hash equals digest.
// Read and parse failures are reported as a miss, never as an error.
func (s *Store) Load(digest string) ([]domain.PostRecord, bool) {
	entry, err := s.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && s.logger != nil {
			s.logger.Debug().Err(err).Str("path", s.path).Msg("Ignoring unreadable cache file")
		}
		return nil, false
	}

	if entry.Hash != digest {
		if s.logger != nil {
			s.logger.Debug().
				Str("stored", entry.Hash).
				Str("current", digest).
				Msg("Cache digest mismatch")
		}
		return nil, false
	}

	if entry.Posts == nil {
		return []domain.PostRecord{}, true
	}
	for i := range entry.Posts {
		if entry.Posts[i].Tags == nil {
			entry.Posts[i].Tags = []string{}
		}
	}
	return entry.Posts, true
}

// Digest returns the digest stored in the cache file
func (s *Store) Digest() (string, error) {
	entry, err := s.read()
	if err != nil {
		return "", err
	}
	return entry.Hash, nil
}

func (s *Store) read() (*Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if entry.Hash == "" {
		return nil, ErrMissingHash
	}
	return &entry, nil
}

// Save overwrites the cache file with digest and records, creating the
// file's parent directory when needed.
func (s *Store) Save(digest string, records []domain.PostRecord) error {
	if records == nil {
		records = []domain.PostRecord{}
	}

	data, err := json.MarshalIndent(Entry{Hash: digest, Posts: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	if err := utils.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache %s: %w", s.path, err)
	}

	if s.logger != nil {
		s.logger.Debug().
			Int("posts", len(records)).
			Str("path", s.path).
			Msg("Cache saved")
	}
	return nil
}

// Clear removes the cache file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether the cache file is present
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
