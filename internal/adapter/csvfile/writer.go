// Package csvfile persists the flat table as a CSV file.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/weather-flat-etl/internal/domain"
)

// Writer writes the flat table to a caller-specified path, overwriting any
// existing file. It implements pipeline.TableWriter.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting path. Parent directories are created
// on write.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// WriteTable persists rows with the 10-field header and returns the absolute
// path written. An empty table still produces a file with the header row.
func (w *Writer) WriteTable(rows []domain.FlatRow) (string, error) {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(domain.FlatColumns); err != nil {
		f.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			f.Close()
			return "", fmt.Errorf("write row %s: %w", row.Date, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flush output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close output file: %w", err)
	}

	abs, err := filepath.Abs(w.path)
	if err != nil {
		abs = w.path
	}
	w.logger.Debug("flat table written", "path", abs, "rows", len(rows))
	return abs, nil
}
