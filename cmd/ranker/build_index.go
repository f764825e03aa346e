package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var buildIndexCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Build a candidate index and write it as a snapshot",
	Long: "Embeds every candidate profile, builds the retrieval indexes and the skill graph, and writes " +
		"a checksummed snapshot that search, learnability and serve can restore without re-encoding.",
	RunE: runBuildIndex,
}

var (
	buildIndexProfiles string
	buildIndexFromDB   bool
	buildIndexSaveDB   bool
	buildIndexOutput   string
)

func init() {
	buildIndexCmd.Flags().StringVarP(&buildIndexProfiles, "profiles", "p", "", "Path to a profiles JSON file")
	buildIndexCmd.Flags().BoolVar(&buildIndexFromDB, "from-db", false, "Load profiles from the configured database")
	buildIndexCmd.Flags().BoolVar(&buildIndexSaveDB, "save-db", false, "Upsert the profiles file into the configured database")
	buildIndexCmd.Flags().StringVarP(&buildIndexOutput, "out", "o", "", "Path to the output snapshot (required)")

	if err := buildIndexCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}
	buildIndexCmd.MarkFlagsMutuallyExclusive("profiles", "from-db")
	buildIndexCmd.MarkFlagsMutuallyExclusive("save-db", "from-db")

	rootCmd.AddCommand(buildIndexCmd)
}

func runBuildIndex(cmd *cobra.Command, _ []string) error {
	if buildIndexProfiles == "" && !buildIndexFromDB {
		return errors.New("one of --profiles or --from-db is required")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var source string
	if buildIndexFromDB {
		database, err := a.connectDB(ctx)
		if err != nil {
			return err
		}
		profiles, err := database.ListProfiles(ctx)
		if err != nil {
			return err
		}
		source = "database"
		if _, err := a.svc.BuildIndex(ctx, profiles); err != nil {
			return fmt.Errorf("failed to build index: %w", err)
		}
	} else {
		profiles, err := loadProfiles(buildIndexProfiles)
		if err != nil {
			return err
		}
		source = buildIndexProfiles
		if _, err := a.svc.BuildIndex(ctx, profiles); err != nil {
			return fmt.Errorf("failed to build index: %w", err)
		}
		if buildIndexSaveDB {
			database, err := a.connectDB(ctx)
			if err != nil {
				return err
			}
			// Store the normalized profiles the index was built from.
			if err := database.UpsertProfiles(ctx, a.svc.Profiles()); err != nil {
				return err
			}
		}
	}

	if err := a.svc.Snapshot(buildIndexOutput); err != nil {
		return err
	}

	handle := a.svc.Handle()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully indexed %d profiles from %s to %s (index %s)\n",
		handle.Size, source, buildIndexOutput, handle.ID)
	for _, note := range handle.Capabilities.Notes {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", note)
	}
	return nil
}
