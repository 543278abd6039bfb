package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/deckforge/pkg/core"
)

func TestSource_ForwardsAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	src := NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Path: "01.txt"}
	in <- core.Event{Type: core.EventDelete, Path: "02.txt"}
	close(in)

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"MODIFY 01.txt", "DELETE 02.txt"}, got)
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel was not closed after cancel")
	}
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	in := make(chan core.Event, 3)
	src := NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Path: "a.txt"}
	in <- core.Event{Type: core.EventModify, Path: "b.txt"}

	first := <-src.Events()
	batch, ok := Batch(ctx, src.Events(), first, 100*time.Millisecond)
	assert.True(t, ok)
	assert.Len(t, batch, 2)

	close(in)
	first = core.Event{Type: core.EventCreate, Path: "c.txt"}
	batch, ok = Batch(ctx, src.Events(), first, time.Second)
	assert.False(t, ok, "closed input ends the batch")
	assert.Len(t, batch, 1)
}
