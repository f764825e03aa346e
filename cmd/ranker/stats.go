package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus and skill graph statistics",
	RunE:  runStats,
}

var (
	statsSnapshot string
	statsJSON     bool
)

func init() {
	statsCmd.Flags().StringVarP(&statsSnapshot, "snapshot", "s", "", "Path to an index snapshot (defaults to snapshot_path)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.restore(ctx, statsSnapshot); err != nil {
		return err
	}

	corpus, err := a.svc.Stats()
	if err != nil {
		return err
	}
	graphStats, err := a.svc.GraphStats()
	if err != nil {
		return err
	}

	if statsJSON {
		return printJSON(cmd.OutOrStdout(), map[string]any{"corpus": corpus, "graph": graphStats})
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintStats(corpus, graphStats)
	return nil
}
