package platform

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RunDirLayout names the per-build output directory.
const RunDirLayout = "2006-01-02_15-04-05"

// PackageExt is the extension of written packages.
const PackageExt = ".apkg"

// RunLogName is the log file written next to each package.
const RunLogName = "log.txt"

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// DefaultHeader derives a deck header from a lesson directory: the base name
// without extension, first letter upper-cased and the rest lower-cased.
func DefaultHeader(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return capitalize(base)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return upper.String(string(r)) + lower.String(s[size:])
}

// PackageName converts a header into a file name: lower case, spaces as underscores.
func PackageName(header string) string {
	name := lower.String(header)
	name = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	return name + PackageExt
}

// RunDir returns the output directory for a build started at t.
func RunDir(outputDir string, t time.Time) string {
	return filepath.Join(outputDir, t.Format(RunDirLayout))
}

// PackagePath returns where the package for header is written for a build started at t.
func PackagePath(outputDir, header string, t time.Time) string {
	return filepath.Join(RunDir(outputDir, t), PackageName(header))
}
