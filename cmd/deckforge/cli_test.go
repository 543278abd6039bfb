package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetingsLesson = "1 | Greetings\n\n1 | Basics\n1 | Hello | Bonjour\n2 | Bye | Au revoir\n\n2 | Polite\n1 | Thanks | Merci\n"

// run executes the root command in-process and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag variables are package globals; reset them between runs.
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--log-format", "text"))
	err := rootCmd.Execute()
	return stdout.String(), err
}

func lessonDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "french")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestBuildCommand(t *testing.T) {
	dir := lessonDir(t, map[string]string{"01.txt": greetingsLesson})

	out, err := run(t, "build", "--path", dir, "--way", "left-to-right")
	require.NoError(t, err)
	assert.Contains(t, out, "2 decks, 3 notes, 3 cards")

	pkgs, err := filepath.Glob(filepath.Join(dir, "output", "*", "french.apkg"))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	logData, err := os.ReadFile(filepath.Join(filepath.Dir(pkgs[0]), "log.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "generating deck")
}

func TestBuildCommand_ConfigFile(t *testing.T) {
	dir := lessonDir(t, map[string]string{
		"01.txt":         greetingsLesson,
		"deckforge.yaml": "name: Français Basics\noutput_dir: decks\nlog_file: false\n",
	})

	_, err := run(t, "build", "--path", dir)
	require.NoError(t, err)

	pkgs, err := filepath.Glob(filepath.Join(dir, "decks", "*", "français_basics.apkg"))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	_, err = os.Stat(filepath.Join(filepath.Dir(pkgs[0]), "log.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildCommand_SyntaxError(t *testing.T) {
	dir := lessonDir(t, map[string]string{"01.txt": "1 | Greetings\n1 | Hello | Bonjour\n"})

	_, err := run(t, "build", "--path", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "01.txt: line 2")
}

func TestCheckCommand(t *testing.T) {
	dir := lessonDir(t, map[string]string{"01.txt": greetingsLesson})

	out, err := run(t, "check", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `01.txt: lesson 1 "Greetings", 2 sections, 3 notes`)
	assert.Contains(t, out, "OK: 2 decks, 3 notes, 6 cards")

	_, err = os.Stat(filepath.Join(dir, "output"))
	assert.True(t, os.IsNotExist(err), "check writes nothing")

	out, err = run(t, "check", "--path", dir, "--json")
	require.NoError(t, err)
	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Summary.Notes)
}

func TestInspectCommand(t *testing.T) {
	dir := lessonDir(t, map[string]string{"01.txt": greetingsLesson})

	out, err := run(t, "inspect", "--path", dir, "--name", "French")
	require.NoError(t, err)
	assert.Contains(t, out, "French::Greetings::Basics")
	assert.Contains(t, out, "3777860741")

	out, err = run(t, "inspect", "--path", dir, "--json")
	require.NoError(t, err)
	var decks []deckView
	require.NoError(t, json.Unmarshal([]byte(out), &decks))
	require.Len(t, decks, 2)
	assert.Equal(t, uint32(3777860741), decks[0].ID)
	assert.Equal(t, "plNau$7$(b", decks[0].Notes[0].ID)
}

func TestRejectsUnknownWay(t *testing.T) {
	dir := lessonDir(t, map[string]string{"01.txt": greetingsLesson})
	_, err := run(t, "check", "--path", dir, "--way", "sideways")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "deckforge version "))
}
