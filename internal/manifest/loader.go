package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kitops-ml/blogdata/internal/domain"
	"gopkg.in/yaml.v3"
)

// Loader loads manifest files
type Loader struct{}

// NewLoader creates a new manifest loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a manifest file from the given path
func (l *Loader) Load(path string) ([]domain.PostDescriptor, error) {
	data, err := l.Read(path)
	if err != nil {
		return nil, err
	}

	return l.LoadFromBytes(data, filepath.Ext(path))
}

// Read returns the raw manifest bytes, the input of the cache digest
func (l *Loader) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return data, nil
}

// LoadFromBytes parses a manifest from raw bytes. The extension selects the
// decoder: .yaml and .yml use YAML, anything else JSON.
func (l *Loader) LoadFromBytes(data []byte, ext string) ([]domain.PostDescriptor, error) {
	var posts []domain.PostDescriptor

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &posts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		if err := json.Unmarshal(data, &posts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}

	for i := range posts {
		posts[i] = Normalize(posts[i])
	}
	if posts == nil {
		posts = []domain.PostDescriptor{}
	}

	return posts, nil
}
