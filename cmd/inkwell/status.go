package main

import (
	"context"
	"strings"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell"
)

type componentStatus struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

type statusReport struct {
	Version    string            `json:"version"`
	Mode       string            `json:"mode"`
	API        string            `json:"api"`
	StateDir   string            `json:"state_dir,omitempty"`
	Components []componentStatus `json:"components"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the client configuration and component state as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := openClient(context.Background())

		report := statusReport{
			Version:  strings.TrimSpace(inkwell.Version),
			Mode:     string(client.Mode),
			API:      client.API.BaseURL(),
			StateDir: client.StateDir,
		}
		for _, comp := range client.Components(client.Notes()) {
			cs := componentStatus{Type: comp.ComponentType()}
			if intro, ok := comp.(introspection.Introspectable); ok {
				cs.State = intro.State()
			}
			report.Components = append(report.Components, cs)
		}
		writeJSON(cmd.OutOrStdout(), report)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
