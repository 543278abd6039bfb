package deckforge_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/deckforge"
)

const greetings = `1 | Greetings

1 | Basics
1 | Hello | Bonjour
2 | Goodbye | Au revoir

2 | Polite
1 | Thank you | Merci
`

// ExampleAssemble parses a lesson and lists the decks it produces.
func ExampleAssemble() {
	rec, err := deckforge.ParseLesson(strings.NewReader(greetings))
	if err != nil {
		log.Fatal(err)
	}

	decks, err := deckforge.Assemble("French", deckforge.LeftToRight, []deckforge.LessonRecord{rec})
	if err != nil {
		log.Fatal(err)
	}

	for _, d := range decks {
		fmt.Printf("%s: %d cards\n", d.Name, d.CardCount())
	}
	// Output:
	// French::Greetings::Basics: 2 cards
	// French::Greetings::Polite: 1 cards
}

// ExampleDeckID shows that identifiers depend only on the numbers.
func ExampleDeckID() {
	fmt.Println(deckforge.DeckID("1", "1"))
	fmt.Println(deckforge.NoteID("1", "1", "1"))
	// Output:
	// 3777860741
	// plNau$7$(b
}
