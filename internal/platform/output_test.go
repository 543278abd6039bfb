package platform

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultHeader(t *testing.T) {
	tests := map[string]string{
		"/data/french":         "French",
		"/data/FRENCH lessons": "French lessons",
		"/data/german.v2":      "German",
		"/data/élan":           "Élan",
		"relative/dir/":        "Dir",
	}
	for in, want := range tests {
		assert.Equal(t, want, DefaultHeader(in), in)
	}
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "french_basics.apkg", PackageName("French Basics"))
	assert.Equal(t, "a_b.apkg", PackageName("A/B"))
}

func TestPackagePath(t *testing.T) {
	at := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	assert.Equal(t,
		filepath.Join("out", "2024-03-09_07-05-01", "french.apkg"),
		PackagePath("out", "French", at),
	)
}
