// Package report persists the final report to its fixed file.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mfeller/coverbrief/internal/logging"
)

// Writer writes the final report to a fixed filename, replacing any
// prior contents. There is no append, versioning, or history: the file
// always holds the most recent report.
type Writer struct {
	path   string
	logger *logging.Logger
}

// NewWriter creates a report writer for the given path.
func NewWriter(path string) *Writer {
	return &Writer{
		path:   path,
		logger: logging.GetLogger("report"),
	}
}

// Path returns the report filename.
func (w *Writer) Path() string {
	return w.path
}

// Save writes the report text. It writes to a temp file in the target
// directory and renames it into place, so a crash mid-write never leaves
// a truncated report.
func (w *Writer) Save(text string) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp report file: %w", err)
	}

	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace report file: %w", err)
	}

	w.logger.InfoWithFields("report saved",
		logging.Field("path", w.path),
		logging.Field("bytes", len(text)),
	)
	return nil
}
