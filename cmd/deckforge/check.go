package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/deckforge/pkg/core"
)

var (
	checkFlags projectFlags
	checkJSON  bool
)

type lessonReport struct {
	Source   string `json:"source"`
	Number   string `json:"number"`
	Name     string `json:"name"`
	Sections int    `json:"sections"`
	Notes    int    `json:"notes"`
}

type checkReport struct {
	Lessons []lessonReport `json:"lessons"`
	Summary core.Summary   `json:"summary"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate lesson files without writing a package",
	Long: `check parses every lesson file and assembles the decks in memory, so
syntax errors and duplicate identifiers are reported without producing output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := checkFlags.resolve(cmd)
		if err != nil {
			return err
		}
		svc, err := newService(s)
		if err != nil {
			return err
		}

		lessons, err := svc.Check(cmd.Context())
		if err != nil {
			return err
		}
		decks, err := core.NewAssembler(s.Header, s.Variant, slog.Default()).Assemble(lessons)
		if err != nil {
			return fmt.Errorf("assemble: %w", err)
		}

		report := checkReport{Summary: core.Summarize(decks)}
		for _, l := range lessons {
			report.Lessons = append(report.Lessons, lessonReport{
				Source:   l.Source,
				Number:   l.Number,
				Name:     l.Name,
				Sections: len(l.Sections),
				Notes:    l.NoteCount(),
			})
		}

		out := cmd.OutOrStdout()
		if checkJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(report)
		}

		for _, l := range report.Lessons {
			fmt.Fprintf(out, "%s: lesson %s %q, %d sections, %d notes\n", l.Source, l.Number, l.Name, l.Sections, l.Notes)
		}
		fmt.Fprintf(out, "OK: %s\n", report.Summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkFlags.register(checkCmd, false)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output in JSON format")
}
