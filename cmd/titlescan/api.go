package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/titlescan/internal/api"
	"github.com/jackzampolin/titlescan/internal/server/endpoints"
)

var (
	serverURL  string
	serverWait time.Duration
)

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	reg := api.NewRegistry()
	for _, ep := range endpoints.All() {
		reg.Register(ep)
	}
	apiCmd := reg.BuildCommands(getServerURL)

	// --server and --wait are persistent so all subcommands inherit them
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)
	apiCmd.PersistentFlags().DurationVar(
		&serverWait, "wait", 0, "wait up to this long for the server to answer /health before running",
	)

	// Cobra runs only the nearest persistent hook in the chain, so the
	// root's output-format setup is repeated here before the readiness wait.
	apiCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		api.SetOutputFormat(outputFormat)
		if serverWait <= 0 {
			return nil
		}
		return api.NewClient(getServerURL()).WaitReady(cmd.Context(), serverWait)
	}

	rootCmd.AddCommand(apiCmd)
}
