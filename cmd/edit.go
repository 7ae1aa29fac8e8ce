package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <file> <request>...",
	Short: "Apply a natural-language change to one file",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(consoleSink{})
		if err != nil {
			return err
		}
		defer app.close()

		file := args[0]
		if _, err := app.editor.Open(file); err != nil {
			return err
		}
		if err := app.editor.SetActive(file); err != nil {
			return err
		}

		_, err = app.engine.EditSelection(cmd.Context(), strings.Join(args[1:], " "))
		return err
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
