package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/deckforge/pkg/core"
)

var (
	inspectFlags projectFlags
	inspectJSON  bool
	inspectNotes bool
)

type deckView struct {
	ID    uint32     `json:"id"`
	Name  string     `json:"name"`
	Cards int        `json:"cards"`
	Notes []noteView `json:"notes"`
}

type noteView struct {
	ID    string `json:"id"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the decks and identifiers a build would produce",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := inspectFlags.resolve(cmd)
		if err != nil {
			return err
		}
		svc, err := newService(s)
		if err != nil {
			return err
		}

		decks, err := svc.Assemble(cmd.Context(), s.Header, s.Variant)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if inspectJSON {
			views := make([]deckView, 0, len(decks))
			for _, d := range decks {
				v := deckView{ID: d.ID, Name: d.Name, Cards: d.CardCount(), Notes: make([]noteView, 0, len(d.Notes))}
				for _, n := range d.Notes {
					v.Notes = append(v.Notes, noteView{ID: n.ID, Left: n.Left, Right: n.Right})
				}
				views = append(views, v)
			}
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(views)
		}

		if inspectNotes {
			fmt.Fprintln(out, renderTable(
				[]string{"Deck", "Note ID", "Left", "Right"},
				noteRows(decks),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		}

		fmt.Fprintln(out, renderTable(
			[]string{"Deck ID", "Name", "Notes", "Cards"},
			deckRows(decks),
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
		))
		fmt.Fprintln(out, core.Summarize(decks))
		return nil
	},
}

func deckRows(decks []core.Deck) [][]string {
	rows := make([][]string, 0, len(decks))
	for _, d := range decks {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(d.ID), 10),
			d.Name,
			strconv.Itoa(len(d.Notes)),
			strconv.Itoa(d.CardCount()),
		})
	}
	return rows
}

func noteRows(decks []core.Deck) [][]string {
	var rows [][]string
	for _, d := range decks {
		for _, n := range d.Notes {
			rows = append(rows, []string{d.Name, n.ID, n.Left, n.Right})
		}
	}
	return rows
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectFlags.register(inspectCmd, false)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
	inspectCmd.Flags().BoolVar(&inspectNotes, "notes", false, "List every note instead of one row per deck")
}
