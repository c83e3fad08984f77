package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <app> <text>...",
		Short: "Append a note to an application",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			text := strings.Join(args[1:], " ")
			note, err := globalStore.AppendNote(name, text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: note %d added\n", name, note.ID)
			return nil
		},
	}
}

// noteView is the serializable form of one note for show-notes output.
type noteView struct {
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func newShowNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-notes <app>",
		Short: "List an application's notes in insertion order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(outputFlag)
			if err != nil {
				return err
			}
			notes, err := globalStore.ListNotes(args[0])
			if err != nil {
				return err
			}

			views := make([]noteView, 0, len(notes))
			rows := make([][]string, 0, len(notes))
			for _, n := range notes {
				views = append(views, noteView{Text: n.Text, CreatedAt: n.CreatedAt})
				rows = append(rows, []string{n.CreatedAt.Format(time.RFC3339), n.Text})
			}
			return printOutput(cmd.OutOrStdout(), format, views,
				[]string{"created", "text"}, rows)
		},
	}
}
