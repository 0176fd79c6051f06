package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell"
	"github.com/aretw0/inkwell/internal/platform"
)

var (
	verbose   bool
	logFormat string
	modeFlag  string
	apiURL    string
	stateDir  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "A command-line client for your notes",
	Long: `Inkwell signs you in to a notes server and lets you list, search,
create, edit and delete your notes from the terminal.
The session is kept on disk so you stay signed in between runs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if logFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "Backend mode (development, production)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend URL for the selected mode")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory holding the session")
}

// loadConfig layers the command-line flags over the loaded configuration.
func loadConfig() (*platform.Config, error) {
	config, err := inkwell.LoadConfig(slog.Default())
	if err != nil {
		return nil, err
	}
	flags := map[string]string{
		platform.EnvMode:     modeFlag,
		platform.EnvAPIURL:   apiURL,
		platform.EnvStateDir: stateDir,
	}
	config.ApplyEnv(func(k string) string { return flags[k] })
	return config, nil
}

// openClient builds a client from the effective configuration.
func openClient(ctx context.Context) *inkwell.Client {
	config, err := loadConfig()
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	client, err := inkwell.New(ctx,
		inkwell.WithConfig(config),
		inkwell.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Failed to initialize inkwell", err)
	}
	return client
}

// openSession is openClient for commands that need a signed-in user.
func openSession(ctx context.Context) *inkwell.Client {
	client := openClient(ctx)
	if err := client.RequireAuth(); err != nil {
		fatal("Error", fmt.Errorf("%w: run `inkwell login` first", err))
	}
	return client
}
