package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/titlescan/internal/api"
	"github.com/jackzampolin/titlescan/internal/config"
	"github.com/jackzampolin/titlescan/internal/extract"
	"github.com/jackzampolin/titlescan/internal/providers"
)

var (
	extractProvider string
	extractModel    string
	extractExamples string
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Extract a vehicle record from a title PDF",
	Long: `Extract a vehicle record from a title PDF without a running server.

The configured default provider is used unless --provider is given.
The provider API key must be set in config.yaml or the matching
environment variable (e.g. GEMINI_API_KEY).

Examples:
  titlescan extract title.pdf
  titlescan extract title.pdf --provider openrouter
  titlescan extract title.pdf --examples ./examples/examples.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cfg.ToProviderRegistryConfig())

		providerName := cfg.Defaults.Provider
		if extractProvider != "" {
			providerName = extractProvider
		}
		client, err := registry.GetLLM(providerName)
		if err != nil {
			return err
		}

		examplesPath := cfg.Extraction.FewShotExamplesPath
		if extractExamples != "" {
			examplesPath = extractExamples
		}

		extractor, err := extract.New(extract.Config{
			Client:              client,
			Model:               extractModel,
			FewShotExamplesPath: examplesPath,
			Temperature:         cfg.Defaults.Temperature,
			MaxTokens:           cfg.Defaults.MaxTokens,
			Logger:              logger,
		})
		if err != nil {
			return err
		}

		record, err := extractor.ExtractFromFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return api.Output(record)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractProvider, "provider", "", "Provider to use (default: configured default)")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "Model to use (default: provider default)")
	extractCmd.Flags().StringVar(&extractExamples, "examples", "", "Few-shot examples JSON file")

	rootCmd.AddCommand(extractCmd)
}
