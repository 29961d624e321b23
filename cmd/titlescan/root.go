package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/titlescan/internal/api"
	"github.com/jackzampolin/titlescan/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "titlescan",
	Short: "Vehicle title data extraction with LLM-powered document analysis",
	Long: `Titlescan extracts structured vehicle data from scanned title PDFs
using schema-constrained LLM document analysis.

Each extraction produces a nine-field vehicle record: title state, title
type, VIN, year, make, model, title number, registered owner, and first
reassignment. Few-shot example documents can be configured to guide
extraction on unusual title layouts.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.titlescan/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "titlescan home directory (default: ~/.titlescan)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
