// Package apkg writes assembled decks as an Anki package (.apkg).
package apkg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zip"
	_ "modernc.org/sqlite"

	"github.com/aretw0/deckforge/pkg/adapters/fs"
	"github.com/aretw0/deckforge/pkg/core"
)

const (
	// CollectionEntry is the archive entry holding the SQLite collection.
	CollectionEntry = "collection.anki2"
	// MediaEntry is the archive entry mapping media files; always empty here.
	MediaEntry = "media"

	fieldSeparator = "\x1f"
	lockRetryDelay = 50 * time.Millisecond
)

// ErrReservedDeckID is returned when a deck uses the id of the default deck.
var ErrReservedDeckID = errors.New("deck id 1 is reserved for the default deck")

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the time source used for row ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Writer implements core.PackageWriter.
type Writer struct {
	now    func() time.Time
	logger *slog.Logger

	mu   sync.RWMutex
	last *WriteStats
}

// WriteStats describes the last package produced by a Writer.
type WriteStats struct {
	Path    string    `json:"path"`
	Decks   int       `json:"decks"`
	Notes   int       `json:"notes"`
	Cards   int       `json:"cards"`
	Bytes   int64     `json:"bytes"`
	Written time.Time `json:"written"`
}

// NewWriter creates a package writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write builds the collection for decks and stores it at path as a zip archive.
// The file at path is replaced atomically; concurrent writers to the same path
// are serialised through a lock file next to it.
func (w *Writer) Write(ctx context.Context, path string, decks []core.Deck) error {
	if len(decks) == 0 {
		return core.ErrNothingToAssemble
	}
	for _, d := range decks {
		if d.ID == defaultDeckID {
			return fmt.Errorf("%w: %q", ErrReservedDeckID, d.Name)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("failed to lock %s", path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	tmpDir, err := os.MkdirTemp("", "deckforge-apkg-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	now := w.now()
	dbPath := filepath.Join(tmpDir, CollectionEntry)
	stats, err := w.buildCollection(ctx, dbPath, decks, now)
	if err != nil {
		return err
	}

	collection, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open collection: %w", err)
	}
	defer collection.Close()

	err = fs.WriteAtomic(path, 0644, func(out io.Writer) error {
		return writeArchive(out, collection, now)
	})
	if err != nil {
		return fmt.Errorf("failed to write package: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		stats.Bytes = info.Size()
	}
	stats.Path = path
	stats.Written = now

	w.mu.Lock()
	w.last = &stats
	w.mu.Unlock()

	w.logger.Debug("package written",
		"path", path,
		"decks", stats.Decks,
		"notes", stats.Notes,
		"cards", stats.Cards,
		"bytes", stats.Bytes,
	)
	return nil
}

func (w *Writer) buildCollection(ctx context.Context, dbPath string, decks []core.Deck, now time.Time) (WriteStats, error) {
	var stats WriteStats

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return stats, fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, collectionSchema); err != nil {
		return stats, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	mod := now.Unix()
	rowID := now.UnixMilli()
	variants := map[core.Variant]bool{}
	due := 0

	for _, d := range decks {
		stats.Decks++
		for _, n := range d.Notes {
			if err = ctx.Err(); err != nil {
				return stats, err
			}
			variants[n.Variant] = true

			noteID := rowID
			rowID++
			_, err = tx.ExecContext(ctx, insertNote,
				noteID,
				n.ID,
				n.Variant.Model().ID,
				mod,
				strings.Join([]string{n.Left, n.Right}, fieldSeparator),
				n.Left,
				fieldChecksum(n.Left),
			)
			if err != nil {
				return stats, fmt.Errorf("insert note %s: %w", n.ID, err)
			}
			stats.Notes++

			for ord := range n.Cards() {
				_, err = tx.ExecContext(ctx, insertCard, rowID, noteID, int64(d.ID), ord, mod, due)
				if err != nil {
					return stats, fmt.Errorf("insert card %d of note %s: %w", ord, n.ID, err)
				}
				rowID++
				stats.Cards++
			}
			due++
		}
	}

	var col colRow
	col, err = buildColRow(decks, variants, mod, due)
	if err != nil {
		return stats, err
	}
	_, err = tx.ExecContext(ctx, insertCol,
		mod, now.UnixMilli(), now.UnixMilli(), schemaVersion,
		col.conf, col.models, col.decks, col.dconf,
	)
	if err != nil {
		return stats, fmt.Errorf("insert collection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}
	return stats, nil
}

type colRow struct {
	conf, models, decks, dconf string
}

func buildColRow(decks []core.Deck, variants map[core.Variant]bool, mod int64, nextPos int) (colRow, error) {
	var row colRow

	models := make(map[string]modelJSON, len(variants))
	for _, v := range core.Variants() {
		if variants[v] {
			m := modelFor(v, mod)
			models[fmt.Sprint(m.ID)] = m
		}
	}

	deckMap := map[string]deckJSON{
		fmt.Sprint(defaultDeckID): deckFor(defaultDeckID, "Default", mod),
	}
	for _, d := range decks {
		deckMap[fmt.Sprint(d.ID)] = deckFor(int64(d.ID), d.Name, mod)
	}

	conf := confJSON{
		ActiveDecks:  []int64{defaultDeckID},
		CurDeck:      defaultDeckID,
		CollapseTime: 1200,
		EstTimes:     true,
		DueCounts:    true,
		NextPos:      nextPos,
		SortType:     "noteFld",
		AddToCur:     true,
	}
	dconf := map[string]dconfJSON{"1": defaultDconf(mod)}

	parts := []struct {
		dst *string
		v   any
	}{
		{&row.conf, conf},
		{&row.models, models},
		{&row.decks, deckMap},
		{&row.dconf, dconf},
	}
	for _, p := range parts {
		b, err := json.Marshal(p.v)
		if err != nil {
			return row, fmt.Errorf("marshal collection metadata: %w", err)
		}
		*p.dst = string(b)
	}
	return row, nil
}

// writeArchive zips the collection and an empty media map into out.
func writeArchive(out io.Writer, collection io.Reader, modified time.Time) error {
	zw := zip.NewWriter(out)

	cw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     CollectionEntry,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("create %s entry: %w", CollectionEntry, err)
	}
	if _, err := io.Copy(cw, collection); err != nil {
		return fmt.Errorf("write %s entry: %w", CollectionEntry, err)
	}

	mw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     MediaEntry,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("create %s entry: %w", MediaEntry, err)
	}
	if _, err := io.WriteString(mw, "{}"); err != nil {
		return fmt.Errorf("write %s entry: %w", MediaEntry, err)
	}

	return zw.Close()
}
