package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/deckforge/pkg/core"
)

// options holds the internal configuration for the deckforge service.
type options struct {
	source       core.LessonSource
	writer       core.PackageWriter
	logger       *slog.Logger
	adapter      string
	pattern      string
	systemDir    string
	exclude      []string
	normalize    bool
	debounce     time.Duration
	clock        func() time.Time
	errorHandler func(error)
}

// Option defines a functional option for configuring the service.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:   "fs",
		systemDir: DefaultSystemDir,
		normalize: true,
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSource injects a lesson source (e.g. a mock).
// If provided, the filesystem adapter is skipped.
func WithSource(src core.LessonSource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithWriter injects a package writer. Defaults to the apkg writer.
func WithWriter(w core.PackageWriter) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithAdapter selects the lesson source adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithPattern sets the lesson file glob, relative to the lesson directory.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithSystemDir sets the hidden directory holding the fingerprint index.
// An empty name keeps the index in memory.
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithExclude adds directories, relative to the lesson directory, that are never read.
func WithExclude(dirs ...string) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, dirs...)
	}
}

// WithNormalization toggles NFC normalization of note text.
func WithNormalization(enabled bool) Option {
	return func(o *options) {
		o.normalize = enabled
	}
}

// WithDebounce sets the watcher debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithClock sets the time source of the package writer.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
