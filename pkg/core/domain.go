// Package core holds the lesson and deck model, the collection assembler and
// the ports the adapters implement.
package core

// SectionKey identifies a section inside one lesson.
type SectionKey struct {
	Number string
	Name   string
}

// NoteRecord is a single numbered left/right pair as written in a lesson file.
type NoteRecord struct {
	Number string
	Left   string
	Right  string
}

// Section is an ordered run of notes under one section header.
type Section struct {
	Key   SectionKey
	Notes []NoteRecord
}

// LessonRecord is the validated content of one lesson file.
// Sections keep the order in which they appear in the file.
type LessonRecord struct {
	Number   string
	Name     string
	Sections []Section

	// Source is the file the record was parsed from. Diagnostics only.
	Source string
}

// Section returns the section stored under key.
func (l LessonRecord) Section(key SectionKey) (Section, bool) {
	for _, s := range l.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// NoteCount returns the number of notes across all sections.
func (l LessonRecord) NoteCount() int {
	n := 0
	for _, s := range l.Sections {
		n += len(s.Notes)
	}
	return n
}

// Note is an assembled note ready for the package writer.
type Note struct {
	ID      string
	Left    string
	Right   string
	Variant Variant
}

// Card is one prompt/answer face produced from a note.
type Card struct {
	Template string
	Prompt   string
	Answer   string
}

// Cards expands the note into the cards its variant produces.
func (n Note) Cards() []Card {
	model := n.Variant.Model()
	cards := make([]Card, 0, len(model.Templates))
	for _, t := range model.Templates {
		cards = append(cards, Card{
			Template: t.Name,
			Prompt:   n.field(t.Prompt),
			Answer:   n.field(t.Answer),
		})
	}
	return cards
}

func (n Note) field(f Field) string {
	if f == FieldRight {
		return n.Right
	}
	return n.Left
}

// Deck is one output deck, built from exactly one section.
type Deck struct {
	ID    uint32
	Name  string
	Notes []Note
}

// CardCount returns the number of cards the deck will contain.
func (d Deck) CardCount() int {
	n := 0
	for _, note := range d.Notes {
		n += note.Variant.CardsPerNote()
	}
	return n
}

// EventType represents the type of change in the lesson directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a lesson file.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}
