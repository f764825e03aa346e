// Package main provides the entry point for the candidate ranker CLI and HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ranker",
	Short: "Candidate ranking engine",
	Long: "ranker indexes candidate skill profiles and ranks them against free-text job queries " +
		"using semantic similarity, skill overlap and experience fit, with per-skill explanations.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (JSON, YAML or TOML)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
