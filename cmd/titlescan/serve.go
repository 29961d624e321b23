package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/titlescan/internal/config"
	"github.com/jackzampolin/titlescan/internal/home"
	"github.com/jackzampolin/titlescan/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Titlescan server",
	Long: `Start the Titlescan HTTP server.

The server hosts the extraction API and the embedded web UI. Provider
configuration is read from config.yaml and hot-reloaded on change.

The server provides:
  - /health       - Basic server health check
  - /status       - Extraction readiness and configured providers
  - /api/extract  - PDF upload and extraction
  - /api/calls    - Recent extraction call history

Examples:
  titlescan serve                    # Start on default port 8080
  titlescan serve --port 3000        # Start on custom port
  titlescan serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
