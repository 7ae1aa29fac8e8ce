package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/config"
	"scribe/workspace"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage scribe configuration",
	Long:  `Get and set configuration values. Local values live in .scribe/config.json and override ~/.scribe/config.json.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath, err := workspace.DetectRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load(workspacePath)
		if err != nil {
			return err
		}

		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s = %v\n", args[0], value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath, err := workspace.DetectRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load(workspacePath)
		if err != nil {
			return err
		}

		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.SaveLocal(workspacePath, cfg); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
