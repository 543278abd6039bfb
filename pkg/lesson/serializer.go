package lesson

import (
	"bytes"
	"strings"

	"github.com/aretw0/deckforge/pkg/core"
)

const fieldJoin = " " + Separator + " "

// Serialize writes rec back in the canonical lesson format.
// Parsing the result yields a record equal to rec (ignoring Source).
func Serialize(rec core.LessonRecord) []byte {
	var buf bytes.Buffer
	writeLine(&buf, rec.Number, rec.Name)
	for _, s := range rec.Sections {
		buf.WriteString("\n")
		writeLine(&buf, s.Key.Number, s.Key.Name)
		for _, n := range s.Notes {
			writeLine(&buf, n.Number, n.Left, n.Right)
		}
	}
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, fields ...string) {
	buf.WriteString(strings.Join(fields, fieldJoin))
	buf.WriteString("\n")
}
