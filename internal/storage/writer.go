package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// JSONLWriter writes one JSON value per line to a file or stream.
type JSONLWriter struct {
	closer io.Closer
	writer *bufio.Writer
}

// NewJSONLWriter opens path for writing, truncating it unless appendMode is set.
func NewJSONLWriter(path string, appendMode bool) (*JSONLWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &JSONLWriter{
		closer: file,
		writer: bufio.NewWriter(file),
	}, nil
}

// NewStreamWriter wraps w without taking ownership of it.
func NewStreamWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{writer: bufio.NewWriter(w)}
}

func (w *JSONLWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return Permanent(fmt.Errorf("marshal: %w", err))
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

// Flush pushes buffered lines to the underlying file or stream.
func (w *JSONLWriter) Flush() error {
	if w == nil {
		return nil
	}
	return w.writer.Flush()
}

func (w *JSONLWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		if w.closer != nil {
			w.closer.Close()
		}
		return err
	}
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
