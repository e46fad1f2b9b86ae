package csvsink

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"logparse/domain"
)

// SourceColumn is prepended to the record columns in every row.
const SourceColumn = "source"

// Header returns the header row written to a new destination.
func Header() []string {
	return append([]string{SourceColumn}, domain.FieldNames...)
}

// CSVSink appends records to a single CSV file. The file gets a header row when
// it is created; existing files are only appended to.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

// NewCSVSink returns a sink writing to path. The file is not touched until the
// first non-empty Emit.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Path returns the destination file.
func (s *CSVSink) Path() string {
	return s.path
}

// Emit writes one row per record, prefixed with source. Nothing is opened when
// records is empty. Whether the header is needed is decided from the file's
// existence at the time of the call.
func (s *CSVSink) Emit(_ context.Context, source string, records []domain.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists()
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_APPEND
	if !exists {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(s.path, flags, 0644)
	if err != nil {
		return fmt.Errorf("csv sink: open %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write(Header()); err != nil {
			f.Close()
			return fmt.Errorf("csv sink: write header to %s: %w", s.path, err)
		}
	}

	row := make([]string, 0, len(domain.FieldNames)+1)
	for _, r := range records {
		row = append(row[:0], source)
		row = append(row, r.Values()...)
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("csv sink: write row to %s: %w", s.path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csv sink: flush %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv sink: close %s: %w", s.path, err)
	}
	return nil
}

func (s *CSVSink) exists() (bool, error) {
	info, err := os.Stat(s.path)
	switch {
	case err == nil:
		if info.IsDir() {
			return false, fmt.Errorf("csv sink: %s is a directory", s.path)
		}
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("csv sink: stat %s: %w", s.path, err)
	}
}
