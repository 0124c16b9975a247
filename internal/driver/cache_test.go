package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexilc/internal/diag"
	"plexilc/internal/source"
)

func TestCacheKeyDependsOnSettings(t *testing.T) {
	content := []byte("(PLEXIL)")
	assert.Equal(t, CacheKey(content, "a", "b"), CacheKey(content, "a", "b"))
	assert.NotEqual(t, CacheKey(content, "a", "b"), CacheKey(content, "ab"))
	assert.NotEqual(t, CacheKey(content, "a"), CacheKey([]byte("(PLEXIL )"), "a"))
}

func TestCachePutGet(t *testing.T) {
	c, err := OpenCacheDir(t.TempDir())
	require.NoError(t, err)

	_, ok, err := c.Get(42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(&CacheEntry{Key: 42, Path: "p.pli", Core: []byte("<x/>")}))
	got, ok, err := c.Get(42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cacheSchemaVersion, got.Schema)
	assert.Equal(t, []byte("<x/>"), got.Core)

	entries, err := os.ReadDir(filepath.Join(c.Dir(), "plans"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are renamed into place")

	require.NoError(t, c.DropAll())
	_, ok, err = c.Get(42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptEntryIsAnError(t *testing.T) {
	c, err := OpenCacheDir(t.TempDir())
	require.NoError(t, err)
	p := c.pathFor(7)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte{0xc1}, 0o644))
	_, ok, err := c.Get(7)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNilCache(t *testing.T) {
	var c *Cache
	_, ok, err := c.Get(1)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Put(&CacheEntry{}))
	assert.NoError(t, c.DropAll())
}

func TestDiagnosticsSurviveCaching(t *testing.T) {
	file := source.FileID(3)
	d := diag.New(diag.SevError, diag.TypeAssignMismatch, source.At(file, source.Pos{Line: 4, Col: 2}), "bad").
		WithNote(source.Location{}, "internal")
	cached := cacheDiagnostics([]diag.Diagnostic{d}, file)

	bag := diag.NewBag(0)
	restoreDiagnostics(bag, cached, source.FileID(9))
	require.Equal(t, 1, bag.Len())
	got := bag.Items()[0]
	assert.Equal(t, source.At(9, source.Pos{Line: 4, Col: 2}), got.Primary)
	assert.Equal(t, diag.TypeAssignMismatch, got.Code)
	require.Len(t, got.Notes, 1)
	assert.False(t, got.Notes[0].Loc.File.IsValid())
	assert.True(t, bag.HasErrors())
}
