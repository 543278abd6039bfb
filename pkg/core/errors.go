package core

import (
	"errors"
	"fmt"
)

// Syntax errors raised by the lesson parser.
var (
	ErrMissingLessonHeader    = errors.New("lesson header missing")
	ErrMalformedLine          = errors.New("malformed line")
	ErrSectionWithoutHeader   = errors.New("note encountered before any section header")
	// ErrDuplicateSectionHeader covers a header inside an open section and a
	// section number already used in the lesson, whatever its name: both
	// would derive the same deck id.
	ErrDuplicateSectionHeader = errors.New("duplicate section header")
)

// Assembly errors.
var (
	ErrDuplicateDeck = errors.New("duplicate deck identifier")
	ErrDuplicateNote = errors.New("duplicate note identifier")
)

// Common errors.
var (
	ErrUnknownVariant    = errors.New("unknown presentation variant")
	ErrWatchUnsupported  = errors.New("lesson source does not support watching")
	ErrNothingToAssemble = errors.New("no decks to write")
)

// SyntaxError reports a lesson line that violates the format.
type SyntaxError struct {
	Kind   error
	Source string
	Line   int // 1-based, 0 when the error is not tied to a line
	Text   string
	Bars   int
	Detail string
}

func (e *SyntaxError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s (%q)", e.Line, msg, e.Text)
	}
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	return msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

// DuplicateError reports an identifier produced twice within one run.
type DuplicateError struct {
	Kind error
	ID   string
	Deck string
}

func (e *DuplicateError) Error() string {
	if e.Kind == ErrDuplicateDeck {
		return fmt.Sprintf("%s: already generated deck `%s` (%s)", e.Kind, e.Deck, e.ID)
	}
	return fmt.Sprintf("%s: already generated note `%s` in deck `%s`", e.Kind, e.ID, e.Deck)
}

func (e *DuplicateError) Unwrap() error {
	return e.Kind
}
