package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var modifyCmd = &cobra.Command{
	Use:   "modify <request>...",
	Short: "Apply a natural-language change to the project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(consoleSink{})
		if err != nil {
			return err
		}
		defer app.close()

		_, err = app.engine.ModifyProject(cmd.Context(), strings.Join(args, " "))
		return err
	},
}

func init() {
	rootCmd.AddCommand(modifyCmd)
}
