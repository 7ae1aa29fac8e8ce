package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/editor"
)

var suggestLine int

var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Suggest code to insert at a position in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(consoleSink{})
		if err != nil {
			return err
		}
		defer app.close()

		file := args[0]
		doc, err := app.editor.Open(file)
		if err != nil {
			return err
		}
		if err := app.editor.SetActive(file); err != nil {
			return err
		}

		line := suggestLine - 1
		if suggestLine <= 0 {
			line = doc.LineCount() - 1
		}
		app.editor.SetCursor(editor.Position{Line: line})

		if _, err := app.engine.SuggestAtCursor(cmd.Context()); err != nil {
			return fmt.Errorf("suggestion failed: %w", err)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLine, "line", "l", 0, "1-based line to insert at (default: end of file)")
	rootCmd.AddCommand(suggestCmd)
}
