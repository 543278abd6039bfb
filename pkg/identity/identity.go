// Package identity derives the stable deck and note identifiers.
//
// Identifiers depend only on the numbering scheme of a lesson file, never on
// note text, so editing a note and regenerating keeps its identity. Both
// functions are pure.
package identity

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/binary"
	"strings"
)

const (
	deckSeparator = "::"
	noteSeparator = "__"
)

// DeckID returns the 32-bit deck identifier for a (lesson, section) pair.
//
// The MD5 digest of "lesson::section" is read as a big-endian integer and
// reduced modulo 2^32, which keeps its last four bytes.
func DeckID(lessonNumber, sectionNumber string) uint32 {
	sum := md5.Sum([]byte(lessonNumber + deckSeparator + sectionNumber))
	return binary.BigEndian.Uint32(sum[len(sum)-4:])
}

// NoteID returns the note identifier for a (lesson, section, note) triple.
//
// The value is Anki's guid encoding: the first eight bytes of
// SHA-256("lesson__section__note") written in base 91.
func NoteID(lessonNumber, sectionNumber, noteNumber string) string {
	joined := strings.Join([]string{lessonNumber, sectionNumber, noteNumber}, noteSeparator)
	sum := sha256.Sum256([]byte(joined))
	return base91(binary.BigEndian.Uint64(sum[:8]))
}

const base91Table = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!#$%&()*+,-./:;<=>?@[]^_`{|}~"

func base91(v uint64) string {
	if v == 0 {
		return ""
	}
	var buf [11]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = base91Table[v%uint64(len(base91Table))]
		v /= uint64(len(base91Table))
	}
	return string(buf[i:])
}
