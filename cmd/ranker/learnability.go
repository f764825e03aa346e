package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/recommender"
)

var learnabilityCmd = &cobra.Command{
	Use:   "learnability",
	Short: "Estimate how learnable a missing skill is",
	Long:  "Scores how easily someone with the known skills could learn the missing one, from skill co-occurrence in the indexed corpus.",
	RunE:  runLearnability,
}

var (
	learnabilitySnapshot string
	learnabilityKnown    string
	learnabilityMissing  string
	learnabilityJSON     bool
)

func init() {
	learnabilityCmd.Flags().StringVarP(&learnabilitySnapshot, "snapshot", "s", "", "Path to an index snapshot (defaults to snapshot_path)")
	learnabilityCmd.Flags().StringVar(&learnabilityKnown, "known", "", "Comma-separated skills the candidate has (required)")
	learnabilityCmd.Flags().StringVar(&learnabilityMissing, "missing", "", "The skill to assess (required)")
	learnabilityCmd.Flags().BoolVar(&learnabilityJSON, "json", false, "Print the result as JSON")

	if err := learnabilityCmd.MarkFlagRequired("known"); err != nil {
		panic(fmt.Sprintf("failed to mark known flag as required: %v", err))
	}
	if err := learnabilityCmd.MarkFlagRequired("missing"); err != nil {
		panic(fmt.Sprintf("failed to mark missing flag as required: %v", err))
	}

	rootCmd.AddCommand(learnabilityCmd)
}

func runLearnability(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.restore(ctx, learnabilitySnapshot); err != nil {
		return err
	}

	result, err := a.svc.PredictLearnability(splitList(learnabilityKnown), learnabilityMissing)
	if err != nil {
		return err
	}
	if learnabilityJSON {
		return printJSON(cmd.OutOrStdout(), result)
	}
	printLearnability(cmd, result)
	return nil
}

func printLearnability(cmd *cobra.Command, result *recommender.Learnability) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s: learnability %.3f, about %d weeks (%d-%d)\n",
		result.Skill, result.Score, result.LearningTime.EstimateWeeks,
		result.LearningTime.MinWeeks, result.LearningTime.MaxWeeks)
	if len(result.Related) == 0 {
		return
	}
	related := make([]string, len(result.Related))
	for i, n := range result.Related {
		related[i] = fmt.Sprintf("%s (%.2f)", n.Skill, n.Adjacency)
	}
	_, _ = fmt.Fprintf(out, "related: %s\n", strings.Join(related, ", "))
}

var learnableCmd = &cobra.Command{
	Use:   "learnable",
	Short: "List required skills a candidate could learn",
	Long:  "Lists the required skills a candidate lacks, ranked by how learnable they are from the candidate's existing skills.",
	RunE:  runLearnable,
}

var (
	learnableSnapshot  string
	learnableCandidate string
	learnableSkills    string
	learnableRequired  string
	learnableThreshold float64
	learnableTopK      int
	learnableJSON      bool
)

func init() {
	learnableCmd.Flags().StringVarP(&learnableSnapshot, "snapshot", "s", "", "Path to an index snapshot (defaults to snapshot_path)")
	learnableCmd.Flags().StringVar(&learnableCandidate, "candidate-id", "", "Take known skills from this indexed candidate")
	learnableCmd.Flags().StringVar(&learnableSkills, "candidate-skills", "", "Comma-separated skills the candidate has")
	learnableCmd.Flags().StringVar(&learnableRequired, "required", "", "Comma-separated skills the role requires (required)")
	learnableCmd.Flags().Float64Var(&learnableThreshold, "threshold", 0, "Minimum learnability (0 uses the default)")
	learnableCmd.Flags().IntVar(&learnableTopK, "top-k", 0, "Maximum number of skills (0 uses the default)")
	learnableCmd.Flags().BoolVar(&learnableJSON, "json", false, "Print the result as JSON")

	if err := learnableCmd.MarkFlagRequired("required"); err != nil {
		panic(fmt.Sprintf("failed to mark required flag as required: %v", err))
	}
	learnableCmd.MarkFlagsOneRequired("candidate-id", "candidate-skills")

	rootCmd.AddCommand(learnableCmd)
}

func runLearnable(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.restore(ctx, learnableSnapshot); err != nil {
		return err
	}

	found, err := a.svc.FindLearnableSkills(recommender.LearnableRequest{
		CandidateID:     learnableCandidate,
		CandidateSkills: splitList(learnableSkills),
		RequiredSkills:  splitList(learnableRequired),
		Threshold:       learnableThreshold,
		TopK:            learnableTopK,
	})
	if err != nil {
		return err
	}
	if learnableJSON {
		return printJSON(cmd.OutOrStdout(), found)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintLearnableSkills(found)
	return nil
}
