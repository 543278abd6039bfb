// Package fs loads lesson files from a directory and watches it for changes.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/deckforge/pkg/core"
	"github.com/aretw0/deckforge/pkg/lesson"
)

const (
	// DefaultPattern matches lesson files directly inside the root.
	DefaultPattern = "*.txt"
	// DefaultSystemDir holds the fingerprint index.
	DefaultSystemDir = ".deckforge"
)

// Config holds the configuration for the filesystem lesson source.
type Config struct {
	Root      string
	Pattern   string   // doublestar pattern relative to Root, e.g. "*.txt" or "**/*.txt"
	SystemDir string   // e.g. ".deckforge"; empty keeps the fingerprint index in memory
	Exclude   []string // slash paths relative to Root that are never read or watched (e.g. "output")

	// NoNormalize keeps field text byte-for-byte instead of NFC-normalizing it.
	NoNormalize bool

	Logger       *slog.Logger
	ErrorHandler func(error) // receives runtime watcher errors
	Debounce     time.Duration
}

// Source implements core.LessonSource and core.Watchable over a directory.
type Source struct {
	Path   string
	config Config
	cache  *cache

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
	// stale is set while the last Load failed; the watcher then forwards
	// every change, since files after the failing one were never fingerprinted.
	stale bool
}

// NewSource creates a filesystem-backed lesson source.
func NewSource(config Config) *Source {
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	if config.SystemDir != "" {
		config.Exclude = append(config.Exclude, config.SystemDir)
	}
	return &Source{
		Path:   config.Root,
		config: config,
		cache:  newCache(config.Root, config.SystemDir),
	}
}

// Initialize checks the root directory and loads the fingerprint index.
func (s *Source) Initialize(ctx context.Context) error {
	if !doublestar.ValidatePattern(s.config.Pattern) {
		return fmt.Errorf("invalid lesson pattern: %q", s.config.Pattern)
	}
	info, err := os.Stat(s.Path)
	if os.IsNotExist(err) {
		return fmt.Errorf("lesson path does not exist: %s", s.Path)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("lesson path is not a directory: %s", s.Path)
	}
	return s.cache.Load()
}

// Files returns the lesson files matching the pattern, sorted by relative slash path.
func (s *Source) Files() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(s.Path), s.config.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", s.config.Pattern, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if !s.excluded(m) {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Load parses every lesson file in sorted order.
func (s *Source) Load(ctx context.Context) (_ []core.LessonRecord, err error) {
	defer func() { s.setStale(err != nil) }()

	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(files))
	lessons := make([]core.LessonRecord, 0, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keep[rel] = true

		data, err := os.ReadFile(filepath.Join(s.Path, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		rec, err := lesson.Parse(bytes.NewReader(data),
			lesson.WithSource(rel),
			lesson.WithNormalization(!s.config.NoNormalize),
		)
		if err != nil {
			return nil, err
		}

		changed := s.cache.Update(rel, data, rec.Number)
		s.config.Logger.Debug("lesson loaded",
			"file", rel,
			"lesson", rec.Number,
			"sections", len(rec.Sections),
			"notes", rec.NoteCount(),
			"changed", changed,
		)
		lessons = append(lessons, rec)
	}

	for _, gone := range s.cache.Prune(keep) {
		s.config.Logger.Debug("lesson removed", "file", gone)
	}
	if err := s.cache.Save(); err != nil {
		s.config.Logger.Warn("failed to save fingerprint index", "error", err)
	}
	return lessons, nil
}

// Watch starts a watcher on the root directory. Events stop when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan core.Event, error) {
	events := make(chan core.Event)
	w := newWatchWorker(s, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// Reconcile compares the directory against the fingerprint index and
// returns events for every difference. The index is not updated.
func (s *Source) Reconcile(ctx context.Context) ([]core.Event, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	defer s.recordReconcile()

	now := time.Now().Unix()
	present := make(map[string]bool, len(files))
	var events []core.Event
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		present[rel] = true
		data, err := os.ReadFile(filepath.Join(s.Path, filepath.FromSlash(rel)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if s.cache.Changed(rel, data) {
			events = append(events, core.Event{Type: core.EventModify, Path: rel, Timestamp: now})
		}
	}

	s.cache.index.mu.RLock()
	for rel := range s.cache.index.Entries {
		if !present[rel] {
			events = append(events, core.Event{Type: core.EventDelete, Path: rel, Timestamp: now})
		}
	}
	s.cache.index.mu.RUnlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	return events, nil
}

// relPath converts an absolute or root-joined path into a slash path relative to the root.
func (s *Source) relPath(p string) (string, error) {
	rel, err := filepath.Rel(s.Path, p)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %s is outside %s", p, s.Path)
	}
	return rel, nil
}

// Matches reports whether a relative slash path is a lesson file for this source.
func (s *Source) Matches(rel string) bool {
	if s.excluded(rel) {
		return false
	}
	ok, err := doublestar.Match(s.config.Pattern, rel)
	return err == nil && ok
}

func (s *Source) excluded(rel string) bool {
	rel = path.Clean(rel)
	for _, ex := range s.config.Exclude {
		ex = path.Clean(filepath.ToSlash(ex))
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
	}
	return false
}
