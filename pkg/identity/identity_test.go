package identity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckID_KnownVectors(t *testing.T) {
	tests := []struct {
		lesson, section string
		want            uint32
	}{
		{"1", "1", 3777860741},
		{"2", "1", 3547946280},
		{"1", "2", 3680571998},
		{"10", "1", 1054384369},
	}

	for _, tc := range tests {
		t.Run(tc.lesson+"::"+tc.section, func(t *testing.T) {
			assert.Equal(t, tc.want, DeckID(tc.lesson, tc.section))
		})
	}
}

func TestNoteID_KnownVectors(t *testing.T) {
	tests := []struct {
		lesson, section, note string
		want                  string
	}{
		{"1", "1", "1", "plNau$7$(b"},
		{"1", "1", "2", "I)`#w?&[z("},
		{"2", "1", "1", "sx?PBR>oAG"},
		{"1", "2", "1", "OkjKOW0Mv9"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, NoteID(tc.lesson, tc.section, tc.note))
	}
}

func TestIdentifiers_Deterministic(t *testing.T) {
	assert.Equal(t, DeckID("3a", "b"), DeckID("3a", "b"))
	assert.Equal(t, NoteID("3a", "b", "7"), NoteID("3a", "b", "7"))
}

func TestDeckID_DistinctOverRealisticKeys(t *testing.T) {
	seen := make(map[uint32]string)
	for lesson := 1; lesson <= 100; lesson++ {
		for section := 1; section <= 50; section++ {
			key := fmt.Sprintf("%d::%d", lesson, section)
			id := DeckID(fmt.Sprint(lesson), fmt.Sprint(section))
			prev, dup := seen[id]
			require.False(t, dup, "deck id %d shared by %s and %s", id, prev, key)
			seen[id] = key
		}
	}
}

func TestNoteID_ChangesWithEveryComponent(t *testing.T) {
	base := NoteID("1", "2", "3")
	assert.NotEqual(t, base, NoteID("9", "2", "3"))
	assert.NotEqual(t, base, NoteID("1", "9", "3"))
	assert.NotEqual(t, base, NoteID("1", "2", "9"))
}

func TestNoteID_DistinctOverRealisticKeys(t *testing.T) {
	seen := make(map[string]struct{})
	for lesson := 1; lesson <= 20; lesson++ {
		for section := 1; section <= 20; section++ {
			for note := 1; note <= 50; note++ {
				id := NoteID(fmt.Sprint(lesson), fmt.Sprint(section), fmt.Sprint(note))
				_, dup := seen[id]
				require.False(t, dup, "note id collision for %d/%d/%d", lesson, section, note)
				seen[id] = struct{}{}
			}
		}
	}
}

func TestBase91(t *testing.T) {
	assert.Equal(t, "", base91(0))
	assert.Equal(t, "b", base91(1))
	assert.Equal(t, "ba", base91(91))
	assert.Len(t, base91(^uint64(0)), 10)
}
