package core

import "context"

// LessonSource supplies parsed lessons in a stable order (sorted by source name).
// Adhering to this interface keeps the core independent of where lessons live.
type LessonSource interface {
	// Load parses every lesson. Any syntax error aborts the load.
	Load(ctx context.Context) ([]LessonRecord, error)
}

// PackageWriter serializes assembled decks into a portable archive.
// Implementations must keep deck and note order and identifiers verbatim.
type PackageWriter interface {
	Write(ctx context.Context, path string, decks []Deck) error
}

// Watchable defines an interface for sources that can report changes.
type Watchable interface {
	// Watch emits an event whenever a lesson file is created, modified or deleted.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}
