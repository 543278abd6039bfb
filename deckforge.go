package deckforge

import (
	"io"
	"log/slog"

	"github.com/aretw0/deckforge/internal/platform"
	"github.com/aretw0/deckforge/pkg/core"
	"github.com/aretw0/deckforge/pkg/identity"
	"github.com/aretw0/deckforge/pkg/lesson"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Variant selects how notes are asked.
type Variant = core.Variant

const (
	BothWays    = core.BothWays
	LeftToRight = core.LeftToRight
	RightToLeft = core.RightToLeft
)

// LessonRecord is a parsed lesson file.
type LessonRecord = core.LessonRecord

// Deck is an assembled deck.
type Deck = core.Deck

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithPattern sets the lesson file glob (e.g. "**/*.txt").
func WithPattern(pattern string) Option {
	return platform.WithPattern(pattern)
}

// WithSystemDir sets the hidden directory name (e.g. ".deckforge").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithNormalization toggles NFC normalization of note text.
func WithNormalization(enabled bool) Option {
	return platform.WithNormalization(enabled)
}

// WithSource allows injecting a custom lesson source.
func WithSource(src core.LessonSource) Option {
	return platform.WithSource(src)
}

// WithWriter allows injecting a custom package writer.
func WithWriter(w core.PackageWriter) Option {
	return platform.WithWriter(w)
}

// --- Factory ---

// New creates a service over the lesson directory at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// FindRoot looks upwards for a directory holding a deckforge config or index.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Building blocks ---

// ParseLesson reads one lesson file.
func ParseLesson(r io.Reader) (LessonRecord, error) {
	return lesson.Parse(r)
}

// ParseVariant maps "both-ways", "left-to-right" or "right-to-left" to a Variant.
func ParseVariant(s string) (Variant, error) {
	return core.ParseVariant(s)
}

// Assemble turns lessons into decks named header::lesson::section.
func Assemble(header string, variant Variant, lessons []LessonRecord) ([]Deck, error) {
	return core.NewAssembler(header, variant, nil).Assemble(lessons)
}

// DeckID returns the stable deck identifier of a lesson section.
func DeckID(lessonNumber, sectionNumber string) uint32 {
	return identity.DeckID(lessonNumber, sectionNumber)
}

// NoteID returns the stable note identifier of a note.
func NoteID(lessonNumber, sectionNumber, noteNumber string) string {
	return identity.NoteID(lessonNumber, sectionNumber, noteNumber)
}
