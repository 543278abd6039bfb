package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/deckforge/internal/platform"
)

// projectFlags are the flags shared by every command that reads a lesson directory.
type projectFlags struct {
	path      string
	name      string
	way       string
	pattern   string
	output    string
	noLogFile bool
}

func (f *projectFlags) register(cmd *cobra.Command, withOutput bool) {
	cmd.Flags().StringVar(&f.path, "path", "", "Lesson directory (default: nearest directory with a deckforge config, else the working directory)")
	cmd.Flags().StringVar(&f.name, "name", "", "Deck header (default: capitalised name of the lesson directory)")
	cmd.Flags().StringVar(&f.way, "way", "", "How to ask the cards: both-ways, left-to-right or right-to-left")
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "Lesson file glob relative to the lesson directory (default \"*.txt\")")
	if withOutput {
		cmd.Flags().StringVar(&f.output, "output", "", "Output directory (default <path>/output)")
		cmd.Flags().BoolVar(&f.noLogFile, "no-log-file", false, "Do not write log.txt next to the package")
	}
}

// resolve locates the lesson directory, reads its project file and applies the flags on top.
func (f *projectFlags) resolve(cmd *cobra.Command) (platform.Settings, error) {
	path := f.path
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return platform.Settings{}, fmt.Errorf("getting working directory: %w", err)
		}
		path = wd
		if root, err := platform.FindRoot(wd); err == nil {
			path = root
		}
	}

	cfg, cfgPath, err := platform.LoadConfig(path)
	if err != nil {
		return platform.Settings{}, err
	}
	if cfgPath != "" {
		slog.Debug("config loaded", "path", cfgPath)
	}

	override := platform.Config{
		Name:      f.name,
		Way:       f.way,
		Pattern:   f.pattern,
		OutputDir: f.output,
	}
	if f.noLogFile {
		off := false
		override.LogFile = &off
	}

	s, err := cfg.Merge(override).Resolve(path)
	if err != nil {
		return platform.Settings{}, err
	}
	applyProjectLogFormat(cmd, s.LogFormat)
	return s, nil
}
