package cmd

import (
	"fmt"
	"os"

	"github.com/pders01/ideagate/internal/config"
	"github.com/pders01/ideagate/internal/contextstore"
	"github.com/pders01/ideagate/internal/conversation"
	"github.com/pders01/ideagate/internal/engine"
	"github.com/pders01/ideagate/internal/models"
	"github.com/spf13/cobra"
)

var (
	snapshotProject string
	snapshotSave    bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <session>",
	Short: "Build a Lean Idea Validation Snapshot",
	Long: `Build the interim advisory report for a session: concept summary,
validation signals, critical unknowns, recommended experiments, and the
governance checklist. Useful when the readiness gate is closed or for a
quick capture of the current state.

Examples:
  ideagate snapshot my-app-idea
  ideagate snapshot my-app-idea --project my-app --save`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&snapshotProject, "project", "", "Project to persist the snapshot under")
	snapshotCmd.Flags().BoolVar(&snapshotSave, "save", false, "Persist the snapshot as project context")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	session := args[0]

	store := conversation.NewStore(config.GetSessionsDir())
	messages, err := store.Load(session)
	if err != nil {
		return err
	}

	requirements := engine.ExtractRequirements(models.ConversationText(messages))
	assessment := engine.AssessReadiness(messages, requirements)
	snapshot := engine.BuildLeanSnapshot(messages, requirements, assessment)

	fmt.Print(snapshot.Render())

	if snapshotSave {
		if snapshotProject == "" {
			return fmt.Errorf("project is required for --save (use --project)")
		}
		contexts := contextstore.NewStore(config.GetProjectsDir())
		meta := engine.SnapshotMeta{
			Score:         assessment.Score,
			Ready:         assessment.Ready,
			MissingTopics: assessment.MissingTopics,
			MessageCount:  len(messages),
		}
		if err := contexts.SaveSnapshot(snapshotProject, snapshot, meta); err != nil {
			// The snapshot is already on stdout; losing the save does
			// not lose the content
			fmt.Fprintf(os.Stderr, "Warning: snapshot ready locally but not saved: %v\n", err)
			return nil
		}
		fmt.Fprintf(os.Stderr, "\n✓ Snapshot saved to project %s\n", snapshotProject)
	}

	return nil
}
