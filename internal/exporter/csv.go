package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"ecomreport/pkg/contracts/domain"
)

// utf8BOM lets Excel recognize the files as UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	files []string
}

// NewCSVWriter creates a writer that places files in dir
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Emit writes one <name>.csv per artifact
func (w *CSVWriter) Emit(ctx context.Context, _ string, artifacts []domain.Artifact) error {
	for _, a := range artifacts {
		headers, rows := Grid(a)
		if len(headers) == 0 {
			continue
		}
		path := filepath.Join(w.dir, a.Name+".csv")
		if err := w.WriteCSV(path, WriteOptions{Headers: headers, Records: rows, BOMPrefix: true}); err != nil {
			return err
		}
		w.logger.DebugContext(ctx, "Wrote CSV file",
			slog.String("artifact", a.Name),
			slog.String("path", path),
			slog.Int("record_count", len(rows)))
	}
	return nil
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(path string, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	w.mu.Lock()
	w.files = append(w.files, path)
	w.mu.Unlock()
	return nil
}

// Files returns the paths written so far
func (w *CSVWriter) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.files))
	copy(out, w.files)
	return out
}
