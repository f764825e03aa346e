package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/recommender"
	"github.com/jonathan/candidate-ranker/internal/schemas"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank indexed candidates against a job query",
	Long:  "Restores a snapshot and ranks its candidates against free-text job requirements, printing per-skill explanations.",
	RunE:  runSearch,
}

var (
	searchSnapshot      string
	searchQuery         string
	searchTopK          int
	searchMinSimilarity float64
	searchRequiredYears float64
	searchNoExperience  bool
	searchNoWeighting   bool
	searchJSON          bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchSnapshot, "snapshot", "s", "", "Path to an index snapshot (defaults to snapshot_path)")
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Job requirements text (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", recommender.DefaultTopK, "Maximum number of candidates to return")
	searchCmd.Flags().Float64Var(&searchMinSimilarity, "min-similarity", 0, "Drop candidates whose final score is below this")
	searchCmd.Flags().Float64Var(&searchRequiredYears, "required-years", 0, "Years of experience the role requires (0 uses the default)")
	searchCmd.Flags().BoolVar(&searchNoExperience, "no-experience", false, "Disable experience scoring")
	searchCmd.Flags().BoolVar(&searchNoWeighting, "no-weighting", false, "Disable core/booster skill weighting")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print the response as JSON")

	if err := searchCmd.MarkFlagRequired("query"); err != nil {
		panic(fmt.Sprintf("failed to mark query flag as required: %v", err))
	}

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.restore(ctx, searchSnapshot); err != nil {
		return err
	}

	req := recommender.DefaultSearchRequest()
	req.Text = searchQuery
	req.TopK = searchTopK
	req.MinSimilarity = searchMinSimilarity
	req.UseExperienceScoring = !searchNoExperience
	req.UseSkillWeighting = !searchNoWeighting
	if searchRequiredYears > 0 {
		req.RequiredYears = searchRequiredYears
	}

	resp, err := a.svc.Search(ctx, req)
	if err != nil {
		return err
	}

	if !searchJSON {
		observability.NewPrinter(cmd.OutOrStdout()).PrintSearchResponse(resp)
		return nil
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal search response: %w", err)
	}
	// Output validation is a safety check, not a requirement
	if err := schemas.Validate(schemas.SearchResponse, out); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Output validation failed: %v\n", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
