package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// SourceState exposes internal state for observability.
type SourceState struct {
	Path          string     `json:"path"`
	Pattern       string     `json:"pattern"`
	SystemDir     string     `json:"system_dir,omitempty"`
	Exclude       []string   `json:"exclude,omitempty"`
	TrackedFiles  int        `json:"tracked_files"`
	WatcherActive bool       `json:"watcher_active"`
	LastReconcile *time.Time `json:"last_reconcile,omitempty"`
	Stale         bool       `json:"stale"`
}

// State implements introspection.Introspectable.
func (s *Source) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SourceState{
		Path:          s.Path,
		Pattern:       s.config.Pattern,
		SystemDir:     s.config.SystemDir,
		Exclude:       append([]string(nil), s.config.Exclude...),
		TrackedFiles:  s.cache.Len(),
		WatcherActive: s.watcherActive,
		LastReconcile: s.lastReconcile,
		Stale:         s.stale,
	}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "fs-source"
}

var _ introspection.Introspectable = (*Source)(nil)
var _ introspection.Component = (*Source)(nil)

func (s *Source) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Source) recordReconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastReconcile = &now
}

func (s *Source) reportError(err error) {
	s.config.Logger.Error("watcher error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}

func (s *Source) setStale(stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = stale
}

func (s *Source) isStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}
