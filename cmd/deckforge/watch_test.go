package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/deckforge/internal/platform"
	"github.com/aretw0/deckforge/pkg/adapters/fs"
)

// lockedBuffer lets the test read output while the watch loop writes it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchLoop_RebuildsAndSurvivesFailures(t *testing.T) {
	dir := lessonDir(t, map[string]string{"01.txt": greetingsLesson})

	prevSettle := watchSettle
	watchSettle = 20 * time.Millisecond
	t.Cleanup(func() { watchSettle = prevSettle })

	settings, err := platform.Config{}.Resolve(dir)
	require.NoError(t, err)
	settings.LogFile = false

	opts := append(settings.Options(), platform.WithDebounce(20*time.Millisecond))
	ls, err := platform.Init(dir, opts...)
	require.NoError(t, err)
	src := ls.(*fs.Source)

	svc, err := platform.New(dir, platform.WithSource(src))
	require.NoError(t, err)

	var stdout, stderr lockedBuffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watchLoop(ctx, cmd, svc, settings) }()

	written := func(n int) func() bool {
		return func() bool { return strings.Count(stdout.String(), "Written ") == n }
	}

	require.Eventually(t, written(1), 3*time.Second, 10*time.Millisecond, "initial build")
	require.Eventually(t, func() bool {
		return src.State().(fs.SourceState).WatcherActive
	}, 3*time.Second, 10*time.Millisecond)

	lessonPath := filepath.Join(dir, "01.txt")
	require.NoError(t, os.WriteFile(lessonPath, []byte("1 | Greetings\n\nbroken line\n"), 0644))
	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "build failed")
	}, 3*time.Second, 10*time.Millisecond)

	// Restoring the last good content must rebuild.
	require.NoError(t, os.WriteFile(lessonPath, []byte(greetingsLesson), 0644))
	require.Eventually(t, written(2), 3*time.Second, 10*time.Millisecond, "rebuild after fix")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch loop did not stop after cancel")
	}
}
