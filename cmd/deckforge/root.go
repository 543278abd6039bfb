package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/deckforge/internal/platform"
)

var (
	verbose   bool
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deckforge",
	Short: "Compile plain-text lesson files into Anki flashcard decks",
	Long: `deckforge reads a directory of lesson files and writes one Anki package
with a deck per lesson section. Deck and note identifiers are derived from the
lesson, section and note numbers, so re-importing a package updates cards
instead of duplicating them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		installLogger(cmd, logFormat)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func installLogger(cmd *cobra.Command, format string) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(platform.NewHandler(cmd.ErrOrStderr(), format, level))
	slog.SetDefault(logger)
}

// applyProjectLogFormat switches the console format to the project's
// log_format unless --log-format was given explicitly.
func applyProjectLogFormat(cmd *cobra.Command, format string) {
	if cmd.Flags().Changed("log-format") || format == logFormat {
		return
	}
	installLogger(cmd, format)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", platform.LogFormatAuto, "Console log format: auto, text or json")
}
