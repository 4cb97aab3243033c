package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/certgen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "certgen",
	Short: "Generate certification exam questions from study material",
	Long: "certgen turns curated summaries and ingested documents into validated " +
		"multiple-choice exam questions using a three-stage LLM pipeline.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CERTGEN_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides CERTGEN_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(summariesCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CERTGEN_DB env var, then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if os.Getenv("CERTGEN_DB") == "" && configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
