package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bkahlert/kommons-sub008/internal/config"
)

const defaultConfigPath = ".kommons/config.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the kommons configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented default configuration",
	Long: `Write a commented default configuration to path
(default: .kommons/config.yaml). An existing file is overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist the effective render options",
	Long: `Write the effective render options, including those given as flags or
environment variables, to the render section of the config file in use
(default: .kommons/config.yaml). Other sections and comments are kept.

Examples:
  kommons config save --style dotted -w 100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			path = defaultConfigPath
		}
		if err := config.SaveRender(path, cfg.Render); err != nil {
			return fmt.Errorf("saving render options: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved render options to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configSaveCmd)
	rootCmd.AddCommand(configCmd)
}
