package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_UpdateDetectsChanges(t *testing.T) {
	c := newCache(t.TempDir(), "")

	assert.True(t, c.Update("a.txt", []byte("one"), "1"), "first sighting counts as a change")
	assert.False(t, c.Update("a.txt", []byte("one"), "1"))
	assert.True(t, c.Update("a.txt", []byte("two"), "1"))
	assert.True(t, c.Update("a.txt", []byte("two"), "2"), "lesson renumbering counts as a change")

	assert.False(t, c.Changed("a.txt", []byte("two")))
	assert.True(t, c.Changed("b.txt", []byte("two")))
}

func TestCache_PruneAndDelete(t *testing.T) {
	c := newCache(t.TempDir(), "")
	c.Update("a.txt", []byte("a"), "1")
	c.Update("b.txt", []byte("b"), "2")
	c.Update("c.txt", []byte("c"), "3")

	removed := c.Prune(map[string]bool{"a.txt": true, "b.txt": true})
	assert.Equal(t, []string{"c.txt"}, removed)

	c.Delete("b.txt")
	c.Delete("missing.txt")
	assert.Equal(t, 1, c.Len())
}

func TestCache_SaveAndLoad(t *testing.T) {
	root := t.TempDir()
	c := newCache(root, ".deckforge")
	c.Update("a.txt", []byte("a"), "1")
	require.NoError(t, c.Save())

	loaded := newCache(root, ".deckforge")
	require.NoError(t, loaded.Load())
	assert.Equal(t, 1, loaded.Len())
	assert.False(t, loaded.Changed("a.txt", []byte("a")))
}

func TestCache_CorruptIndexStartsFresh(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".deckforge"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".deckforge", "index.json"), []byte("{not json"), 0644))

	c := newCache(root, ".deckforge")
	require.NoError(t, c.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCache_MemoryOnlySkipsDisk(t *testing.T) {
	root := t.TempDir()
	c := newCache(root, "")
	c.Update("a.txt", []byte("a"), "1")
	require.NoError(t, c.Save())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFingerprint(t *testing.T) {
	assert.Len(t, fingerprint([]byte("x")), 64)
	assert.Equal(t, fingerprint([]byte("x")), fingerprint([]byte("x")))
	assert.NotEqual(t, fingerprint([]byte("x")), fingerprint([]byte("y")))
}
