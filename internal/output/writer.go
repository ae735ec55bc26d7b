package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/utils"
)

// Writer emits the enriched post list consumed by the site renderer
type Writer struct {
	path   string
	stdout io.Writer
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	// Path of the output file; empty or "-" writes to Stdout
	Path   string
	Stdout io.Writer
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	return &Writer{
		path:   opts.Path,
		stdout: opts.Stdout,
	}
}

// ToStdout reports whether records go to standard output
func (w *Writer) ToStdout() bool {
	return w.path == "" || w.path == "-"
}

// Path returns the output file path, or "-" for standard output
func (w *Writer) Path() string {
	if w.ToStdout() {
		return "-"
	}
	return w.path
}

// Write serializes records as an indented JSON array
func (w *Writer) Write(records []domain.PostRecord) error {
	if records == nil {
		records = []domain.PostRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}
	data = append(data, '\n')

	if w.ToStdout() {
		_, err := w.stdout.Write(data)
		return err
	}

	if err := utils.WriteFileAtomic(w.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", w.path, err)
	}
	return nil
}
