package platform

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler_Formats(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, LogFormatJSON, slog.LevelInfo)).Info("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	buf.Reset()
	slog.New(NewHandler(&buf, LogFormatText, slog.LevelInfo)).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	// A buffer is not a terminal, so auto falls back to JSON.
	buf.Reset()
	slog.New(NewHandler(&buf, LogFormatAuto, slog.LevelInfo)).Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	slog.New(NewHandler(&buf, LogFormatText, slog.LevelInfo)).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestTeeLogger(t *testing.T) {
	var baseBuf, teeBuf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&baseBuf, nil))
	logger := TeeLogger(base, slog.NewJSONHandler(&teeBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("teed message")
	logger.Debug("debug only in tee")

	assert.Contains(t, baseBuf.String(), "teed message")
	assert.NotContains(t, baseBuf.String(), "debug only in tee")
	assert.Contains(t, teeBuf.String(), "teed message")
	assert.Contains(t, teeBuf.String(), "debug only in tee")
}

func TestOpenRunLog(t *testing.T) {
	var console bytes.Buffer
	base := slog.New(slog.NewTextHandler(&console, nil))
	runDir := filepath.Join(t.TempDir(), "2024-01-01_00-00-00")

	rl, err := OpenRunLog(base, runDir, true)
	require.NoError(t, err)
	rl.Logger.Info("generating deck", "deck", "French::Greetings::Basics")
	require.NoError(t, rl.Close())

	data, err := os.ReadFile(filepath.Join(runDir, RunLogName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "generating deck")
	assert.Contains(t, string(data), "run_id="+rl.ID)
	assert.Contains(t, console.String(), "run_id="+rl.ID)
}

func TestOpenRunLog_NoFile(t *testing.T) {
	runDir := filepath.Join(t.TempDir(), "run")
	rl, err := OpenRunLog(nil, runDir, false)
	require.NoError(t, err)
	assert.Empty(t, rl.Path)
	assert.NotEmpty(t, rl.ID)
	require.NoError(t, rl.Close())

	_, err = os.Stat(runDir)
	assert.True(t, os.IsNotExist(err))
}
