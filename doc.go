// Package deckforge compiles directories of plain-text lesson files into
// Anki flashcard packages.
//
// A lesson file starts with a "number | name" header, followed by sections.
// Each section opens with a "number | name" line and holds "number | left | right"
// notes. Every section becomes one deck named "<header>::<lesson>::<section>",
// and deck and note identifiers are derived from the numbers alone, so
// re-imports update existing cards instead of duplicating them.
//
// Usage:
//
//	svc, err := deckforge.New("./french", deckforge.WithPattern("*.txt"))
//	if err != nil {
//		return err
//	}
//	res, err := svc.Build(ctx, core.BuildRequest{
//		Header:  "French",
//		Variant: deckforge.BothWays,
//		Output:  "./french/output/french.apkg",
//	})
package deckforge
