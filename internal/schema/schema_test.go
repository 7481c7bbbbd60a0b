package schema

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func tableNames(c *Catalog) []string {
	var names []string
	for _, tbl := range c.Tables() {
		names = append(names, tbl.Name)
	}
	return names
}

func TestParse_PreservesFileOrder(t *testing.T) {
	doc := `{
  "version": 2,
  "tables": {
    "dbo.Zeta": ["Z1", "Z2"],
    "dbo.Alpha": ["A2", "A1", "A3"],
    "dbo.Mid": []
  }
}`
	cat, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"dbo.Zeta", "dbo.Alpha", "dbo.Mid"}, tableNames(cat))
	alpha, ok := cat.Lookup("DBO.ALPHA")
	require.True(t, ok)
	assert.Equal(t, "dbo.Alpha", alpha.Name)
	assert.Equal(t, []string{"A2", "A1", "A3"}, alpha.Columns)

	mid, ok := cat.Lookup("dbo.mid")
	require.True(t, ok)
	assert.Empty(t, mid.Columns)
}

func TestParse_MissingTablesKeyYieldsEmptyCatalog(t *testing.T) {
	cat, err := Parse([]byte(`{"views": {"v": ["a"]}}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
	_, ok := cat.First()
	assert.False(t, ok)
}

func TestParse_NullColumns(t *testing.T) {
	cat, err := Parse([]byte(`{"tables": {"dbo.T": null}}`), FormatJSON)
	require.NoError(t, err)
	first, ok := cat.First()
	require.True(t, ok)
	assert.Nil(t, first.Columns)
}

func TestParse_YAML(t *testing.T) {
	doc := `
tables:
  hr.TimeEntries:
    - EntryID
    - LaborCode
  hr.Employees:
    - EmployeeID
`
	cat, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"hr.TimeEntries", "hr.Employees"}, tableNames(cat))
}

func TestParse_DuplicateKeysKeepFirstPositionLastValue(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"json", `{"tables": {"a": ["x"], "b": ["y"], "a": ["z"]}}`, FormatJSON},
		{"yaml", "tables:\n  a: [x]\n  b: [y]\n  a: [z]\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Parse([]byte(tt.doc), tt.format)
			require.NoError(t, err)

			assert.Equal(t, []string{"a", "b"}, tableNames(cat))
			a, ok := cat.Lookup("a")
			require.True(t, ok)
			assert.Equal(t, []string{"z"}, a.Columns)
		})
	}
}

func TestParse_DuplicateTablesKeyTakesLast(t *testing.T) {
	cat, err := Parse([]byte(`{"tables": {"old": ["x"]}, "tables": {"new": ["y"]}}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, tableNames(cat))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"empty document", ``, FormatJSON},
		{"truncated json", `{"tables": {"a": ["x"`, FormatJSON},
		{"yaml in json file", "tables:\n  a: [x]\n", FormatJSON},
		{"top-level list", `[1, 2]`, FormatJSON},
		{"tables not a mapping", `{"tables": ["a", "b"]}`, FormatJSON},
		{"columns not a list", `{"tables": {"a": "x"}}`, FormatJSON},
		{"non-string column", `{"tables": {"a": ["x", 3]}}`, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "schema.json", `{"tables": {"dbo.Employees": ["EmployeeID","Status"]}}`)

	cat, err := FileLoader{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
}

func TestFileLoader_MissingFileIsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")

	_, err := FileLoader{}.Load(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileLoader_InvalidJSONIsLoadError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{not json`)

	_, err := FileLoader{}.Load(path)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "bad.json")
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *Catalog
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Tables())
	_, ok := c.Lookup("x")
	assert.False(t, ok)
}

type countingLoader struct {
	calls int
}

func (l *countingLoader) Load(path string) (*Catalog, error) {
	l.calls++
	return FileLoader{}.Load(path)
}

func TestCache_ReusesParsedCatalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schema.json", `{"tables": {"a": ["x"]}}`)
	loader := &countingLoader{}
	cache, err := NewCache(loader, nil)
	require.NoError(t, err)
	defer cache.Close()

	first, err := cache.Load(path)
	require.NoError(t, err)
	second, err := cache.Load(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.calls)
}

func TestCache_InvalidatesOnWrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schema.json", `{"tables": {"a": ["x"]}}`)
	cache, err := NewCache(FileLoader{}, nil)
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	require.NoError(t, os.WriteFile(path, []byte(`{"tables": {"b": ["y"]}}`), 0o644))

	require.Eventually(t, func() bool { return cache.Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	cat, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, tableNames(cat))
}

func TestCache_DoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{}
	cache, err := NewCache(loader, nil)
	require.NoError(t, err)
	defer cache.Close()

	missing := filepath.Join(t.TempDir(), "missing.json")
	_, err = cache.Load(missing)
	require.Error(t, err)
	_, err = cache.Load(missing)
	require.Error(t, err)

	assert.Equal(t, 2, loader.calls)
	assert.Equal(t, 0, cache.Len())
}

// pausingLoader blocks its first call after reading the file until release
// is closed.
type pausingLoader struct {
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func newPausingLoader() *pausingLoader {
	return &pausingLoader{loaded: make(chan struct{}), release: make(chan struct{})}
}

func (l *pausingLoader) Load(path string) (*Catalog, error) {
	cat, err := FileLoader{}.Load(path)
	l.once.Do(func() {
		close(l.loaded)
		<-l.release
	})
	return cat, err
}

func TestCache_WriteDuringLoadIsNotCached(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schema.json", `{"tables": {"old": ["x"]}}`)
	loader := newPausingLoader()
	cache, err := NewCache(loader, nil)
	require.NoError(t, err)
	defer cache.Close()

	type result struct {
		cat *Catalog
		err error
	}
	first := make(chan result, 1)
	go func() {
		cat, err := cache.Load(path)
		first <- result{cat, err}
	}()

	<-loader.loaded
	before := cache.generation(path)
	require.NoError(t, os.WriteFile(path, []byte(`{"tables": {"new": ["y"]}}`), 0o644))
	require.Eventually(t, func() bool { return cache.generation(path) > before }, 2*time.Second, 10*time.Millisecond)
	close(loader.release)

	res := <-first
	require.NoError(t, res.err)
	assert.Equal(t, []string{"old"}, tableNames(res.cat))
	assert.Equal(t, 0, cache.Len())

	cat, err := cache.Load(path)
	require.NoError(t, err)
	fresh, err := FileLoader{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, tableNames(fresh), tableNames(cat))
	assert.Equal(t, []string{"new"}, tableNames(cat))
}

func TestCache_InvalidateDuringLoadSkipsStore(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schema.json", `{"tables": {"a": ["x"]}}`)
	loader := newPausingLoader()
	cache, err := NewCache(loader, nil)
	require.NoError(t, err)
	defer cache.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = cache.Load(path)
	}()

	<-loader.loaded
	cache.Invalidate(path)
	close(loader.release)
	<-done

	assert.Equal(t, 0, cache.Len())
}
