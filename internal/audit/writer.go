package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir is where records go when no directory is configured.
const DefaultDir = "audit"

// WriteError reports a record that could not be persisted. The planning
// result it describes is still valid.
type WriteError struct {
	EventID string
	Path    string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing audit event %s to %s: %v", e.EventID, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FileWriter writes one JSON file per event.
type FileWriter struct {
	dir string
}

// NewFileWriter writes under dir, DefaultDir when empty.
func NewFileWriter(dir string) *FileWriter {
	if dir == "" {
		dir = DefaultDir
	}
	return &FileWriter{dir: dir}
}

// Dir is the directory records are written to.
func (w *FileWriter) Dir() string { return w.dir }

// Write stores e as {dir}/{event_id}.json, creating dir if needed, and
// returns the file path.
func (w *FileWriter) Write(e *Event) (string, error) {
	path := filepath.Join(w.dir, e.EventID+".json")

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", &WriteError{EventID: e.EventID, Path: path, Err: err}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return "", &WriteError{EventID: e.EventID, Path: path, Err: err}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", &WriteError{EventID: e.EventID, Path: path, Err: err}
	}
	return path, nil
}

// ReadFile loads a record previously written by Write.
func ReadFile(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading audit record: %w", err)
	}
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding audit record %s: %w", path, err)
	}
	return &e, nil
}
