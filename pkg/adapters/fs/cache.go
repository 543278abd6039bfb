package fs

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

// indexEntry records the last seen state of one lesson file.
type indexEntry struct {
	Fingerprint string    `json:"fingerprint"` // BLAKE3 of the file bytes
	Lesson      string    `json:"lesson,omitempty"`
	Seen        time.Time `json:"seen"`
}

// index represents the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // Key is the slash path relative to the root
	dirty   bool
	mu      sync.RWMutex
}

// cache tracks file fingerprints between loads and watch events.
// With an empty Path it lives in memory only.
type cache struct {
	Path  string // e.g. <root>/.deckforge/index.json
	index *index
}

func newCache(root, systemDir string) *cache {
	c := &cache{index: &index{Version: 1, Entries: make(map[string]*indexEntry)}}
	if systemDir != "" {
		c.Path = filepath.Join(root, systemDir, "index.json")
	}
	return c
}

// fingerprint returns the hex BLAKE3 digest of data.
func fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load reads the cache from disk. A missing or corrupt file yields an empty index.
func (c *cache) Load() error {
	if c.Path == "" {
		return nil
	}
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(data, c.index); err != nil || c.index.Entries == nil {
		c.index.Entries = make(map[string]*indexEntry)
	}
	c.index.dirty = false
	return nil
}

// Save persists the cache if anything changed since the last Load or Save.
func (c *cache) Save() error {
	if c.Path == "" {
		return nil
	}
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := WriteFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Update stores the fingerprint of relPath and reports whether it differs
// from the previous one. Unknown paths count as changed.
func (c *cache) Update(relPath string, data []byte, lesson string) bool {
	fp := fingerprint(data)

	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	entry, ok := c.index.Entries[relPath]
	if ok && entry.Fingerprint == fp && entry.Lesson == lesson {
		return false
	}
	c.index.Entries[relPath] = &indexEntry{Fingerprint: fp, Lesson: lesson, Seen: time.Now()}
	c.index.dirty = true
	return true
}

// Changed reports whether data differs from the stored fingerprint without recording it.
func (c *cache) Changed(relPath string, data []byte) bool {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[relPath]
	return !ok || entry.Fingerprint != fingerprint(data)
}

// Prune removes entries that are not in the 'keep' set and returns them.
func (c *cache) Prune(keep map[string]bool) []string {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	var removed []string
	for path := range c.index.Entries {
		if !keep[path] {
			delete(c.index.Entries, path)
			removed = append(removed, path)
			c.index.dirty = true
		}
	}
	return removed
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(relPath string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if _, ok := c.index.Entries[relPath]; ok {
		delete(c.index.Entries, relPath)
		c.index.dirty = true
	}
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
