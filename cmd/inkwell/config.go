package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/inkwell/internal/platform"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			fatal("Failed to load configuration", err)
		}
		data, err := yaml.Marshal(config)
		if err != nil {
			fatal("Failed to marshal configuration", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		if err := config.Validate(); err != nil {
			slog.Warn("configuration is not usable", "error", err)
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the user config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		loader := platform.NewLoader(slog.Default())
		created, err := loader.EnsureUserConfig()
		if err != nil {
			fatal("Failed to write configuration", err)
		}
		if !created {
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration already exists at", loader.UserConfigPath())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote default configuration to", loader.UserConfigPath())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
