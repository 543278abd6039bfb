package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/deckforge/pkg/core"
)

// MockSource implements core.LessonSource in memory.
// It deliberately does NOT implement core.Watchable to test fallback/errors.
type MockSource struct {
	lessons []core.LessonRecord
	err     error
}

func (m *MockSource) Load(ctx context.Context) ([]core.LessonRecord, error) {
	return m.lessons, m.err
}

// MockWriter records what it was asked to write.
type MockWriter struct {
	path  string
	decks []core.Deck
	calls int
}

func (m *MockWriter) Write(ctx context.Context, path string, decks []core.Deck) error {
	m.calls++
	m.path = path
	m.decks = decks
	return nil
}

func TestService_Build(t *testing.T) {
	src := &MockSource{lessons: []core.LessonRecord{
		mustParse(t, "1|Greetings\n\n1|Basics\n1|Hello|Bonjour\n2|Bye|Au revoir\n"),
	}}
	w := &MockWriter{}
	svc := core.NewService(src, w, nil)

	res, err := svc.Build(context.TODO(), core.BuildRequest{
		Header:  "French",
		Variant: core.BothWays,
		Output:  "out/french.apkg",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, w.calls)
	assert.Equal(t, "out/french.apkg", w.path)
	require.Len(t, w.decks, 1)
	assert.Equal(t, core.Summary{Decks: 1, Notes: 2, Cards: 4}, res.Summary)
	assert.Equal(t, 1, res.Lessons)

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	require.NotNil(t, state.LastBuild)
	assert.Equal(t, "out/french.apkg", state.LastBuild.Output)
}

func TestService_BuildWritesNothingOnDuplicate(t *testing.T) {
	src := &MockSource{lessons: []core.LessonRecord{
		mustParse(t, "1|A\n\n1|S\n1|a|b\n"),
		mustParse(t, "1|B\n\n1|S\n1|a|b\n"),
	}}
	w := &MockWriter{}
	svc := core.NewService(src, w, nil)

	_, err := svc.Build(context.TODO(), core.BuildRequest{Header: "H", Output: "x.apkg"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDuplicateDeck))
	assert.Equal(t, 0, w.calls)
}

func TestService_BuildRequiresDecks(t *testing.T) {
	src := &MockSource{lessons: []core.LessonRecord{mustParse(t, "1|Only a header\n")}}
	w := &MockWriter{}
	svc := core.NewService(src, w, nil)

	_, err := svc.Build(context.TODO(), core.BuildRequest{Header: "H", Output: "x.apkg"})
	assert.ErrorIs(t, err, core.ErrNothingToAssemble)
	assert.Equal(t, 0, w.calls)
}

func TestService_BuildValidatesRequest(t *testing.T) {
	svc := core.NewService(&MockSource{}, &MockWriter{}, nil)

	_, err := svc.Build(context.TODO(), core.BuildRequest{Header: "H"})
	assert.Error(t, err)

	_, err = svc.Build(context.TODO(), core.BuildRequest{Output: "x.apkg"})
	assert.Error(t, err)

	_, err = core.NewService(&MockSource{}, nil, nil).Build(context.TODO(), core.BuildRequest{Header: "H", Output: "x"})
	assert.Error(t, err)
}

func TestService_CheckPropagatesSourceErrors(t *testing.T) {
	boom := &core.SyntaxError{Kind: core.ErrMalformedLine, Line: 3, Text: "1|2|3|4", Bars: 3}
	svc := core.NewService(&MockSource{err: boom}, nil, nil)

	_, err := svc.Check(context.TODO())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMalformedLine))
}

func TestService_Assemble(t *testing.T) {
	svc := core.NewService(&MockSource{lessons: []core.LessonRecord{
		mustParse(t, "1|L\n\n1|S\n1|a|b\n"),
	}}, nil, nil)

	decks, err := svc.Assemble(context.TODO(), "H", core.LeftToRight)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, core.LeftToRight, decks[0].Notes[0].Variant)

	_, err = svc.Assemble(context.TODO(), "", core.LeftToRight)
	assert.Error(t, err)
}

func TestService_Watch_Unsupported(t *testing.T) {
	svc := core.NewService(&MockSource{}, nil, nil)

	_, err := svc.Watch(context.TODO())
	assert.ErrorIs(t, err, core.ErrWatchUnsupported)
}

func TestService_StateWithoutBuild(t *testing.T) {
	svc := core.NewService(&MockSource{}, nil, nil)

	state := svc.State().(core.ServiceState)
	assert.Equal(t, "source", state.SourceType)
	assert.Equal(t, "none", state.WriterType)
	assert.Nil(t, state.LastBuild)
	assert.Equal(t, "service", svc.ComponentType())
}
