package core

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aretw0/deckforge/pkg/identity"
)

// DeckSeparator joins the header, lesson name and section name of a deck.
const DeckSeparator = "::"

// Assembler turns parsed lessons into decks for one run.
type Assembler struct {
	header  string
	variant Variant
	logger  *slog.Logger
}

// NewAssembler creates an Assembler. header prefixes every deck name.
func NewAssembler(header string, variant Variant, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{header: header, variant: variant, logger: logger}
}

// Assemble builds one deck per section, in lesson order then file order.
// Any repeated deck or note identifier aborts the whole run.
func (a *Assembler) Assemble(lessons []LessonRecord) ([]Deck, error) {
	seenDecks := make(map[uint32]string)
	seenNotes := make(map[string]struct{})

	var decks []Deck
	for _, lesson := range lessons {
		for _, section := range lesson.Sections {
			deck := Deck{
				ID:   identity.DeckID(lesson.Number, section.Key.Number),
				Name: a.header + DeckSeparator + lesson.Name + DeckSeparator + section.Key.Name,
			}
			a.logger.Info("generating deck", "deck", deck.Name, "id", deck.ID)

			if _, dup := seenDecks[deck.ID]; dup {
				return nil, &DuplicateError{
					Kind: ErrDuplicateDeck,
					ID:   strconv.FormatUint(uint64(deck.ID), 10),
					Deck: deck.Name,
				}
			}
			seenDecks[deck.ID] = deck.Name

			deck.Notes = make([]Note, 0, len(section.Notes))
			for _, rec := range section.Notes {
				id := identity.NoteID(lesson.Number, section.Key.Number, rec.Number)
				a.logger.Debug("adding note", "id", id, "deck", deck.Name)

				if _, dup := seenNotes[id]; dup {
					return nil, &DuplicateError{Kind: ErrDuplicateNote, ID: id, Deck: deck.Name}
				}
				seenNotes[id] = struct{}{}

				deck.Notes = append(deck.Notes, Note{
					ID:      id,
					Left:    rec.Left,
					Right:   rec.Right,
					Variant: a.variant,
				})
			}
			decks = append(decks, deck)
		}
	}
	return decks, nil
}

// Summary counts what an assembled collection contains.
type Summary struct {
	Decks int `json:"decks"`
	Notes int `json:"notes"`
	Cards int `json:"cards"`
}

// Summarize counts decks, notes and cards.
func Summarize(decks []Deck) Summary {
	s := Summary{Decks: len(decks)}
	for _, d := range decks {
		s.Notes += len(d.Notes)
		s.Cards += d.CardCount()
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d decks, %d notes, %d cards", s.Decks, s.Notes, s.Cards)
}
