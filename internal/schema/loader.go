package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// tablesKey is the only top-level key a catalog file is read for.
const tablesKey = "tables"

// LoadError reports a catalog file that could not be read or parsed. It is
// fatal for the request that referenced the file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading schema %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader resolves a schema reference into a catalog.
type Loader interface {
	Load(path string) (*Catalog, error)
}

// FileLoader reads the file on every call.
type FileLoader struct{}

// Load reads and parses the catalog at path.
func (FileLoader) Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	cat, err := Parse(data, formatFor(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return cat, nil
}

// Format selects the parser strictness.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes catalog bytes. Table and column order follow the document.
// A document without a "tables" key yields an empty catalog. A repeated key
// keeps its first position and takes its last value.
func Parse(data []byte, format Format) (*Catalog, error) {
	if format == FormatJSON && !json.Valid(data) {
		return nil, errors.New("invalid JSON document")
	}

	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap(), yaml.AllowDuplicateMapKey()); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	root, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %T", doc)
	}

	var tables any
	found := false
	for _, item := range root {
		if fmt.Sprint(item.Key) == tablesKey {
			tables, found = item.Value, true
		}
	}
	if !found {
		return NewCatalog(), nil
	}
	return parseTables(tables)
}

func parseTables(v any) (*Catalog, error) {
	if v == nil {
		return NewCatalog(), nil
	}
	entries, ok := v.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%q must map table names to column lists, got %T", tablesKey, v)
	}

	tables := make([]Table, 0, len(entries))
	pos := make(map[string]int, len(entries))
	for _, entry := range entries {
		name := fmt.Sprint(entry.Key)
		cols, err := parseColumns(name, entry.Value)
		if err != nil {
			return nil, err
		}
		if i, ok := pos[name]; ok {
			tables[i].Columns = cols
			continue
		}
		pos[name] = len(tables)
		tables = append(tables, Table{Name: name, Columns: cols})
	}
	return NewCatalog(tables...), nil
}

func parseColumns(table string, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("columns for table %q must be a list, got %T", table, v)
	}
	cols := make([]string, 0, len(list))
	for i, c := range list {
		s, ok := c.(string)
		if !ok {
			return nil, fmt.Errorf("column %d of table %q must be a string, got %T", i, table, c)
		}
		cols = append(cols, s)
	}
	return cols, nil
}
