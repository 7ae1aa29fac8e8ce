package cmd

import (
	"github.com/spf13/cobra"
)

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Check that scribe is wired up in this workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(consoleSink{})
		if err != nil {
			return err
		}
		defer app.close()

		app.engine.Hello()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(helloCmd)
}
