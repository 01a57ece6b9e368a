package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pders01/ideagate/internal/config"
	"github.com/pders01/ideagate/internal/contextstore"
	"github.com/pders01/ideagate/internal/conversation"
	"github.com/pders01/ideagate/internal/docgen"
	"github.com/pders01/ideagate/internal/engine"
	"github.com/pders01/ideagate/internal/llm"
	"github.com/pders01/ideagate/internal/logging"
	"github.com/pders01/ideagate/internal/models"
	"github.com/spf13/cobra"
)

var (
	generateProject       string
	generateForceSnapshot bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <session>",
	Short: "Generate delivery documents or a Lean Snapshot",
	Long: `Run the full pipeline for a session: extract requirements, assess
readiness, persist the extraction to the project context, and then
either generate the four delivery documents or build a Lean Snapshot.

Full generation goes through the configured Ollama model. When that
fails, the deterministic generator takes over so a generation request
never comes back empty-handed.

Examples:
  ideagate generate my-app-idea --project my-app
  ideagate generate my-app-idea --project my-app --force-snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateProject, "project", "", "Project to generate for (required)")
	generateCmd.Flags().BoolVar(&generateForceSnapshot, "force-snapshot", false, "Build a snapshot even when the gate is open")
	generateCmd.MarkFlagRequired("project")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	session := args[0]

	store := conversation.NewStore(config.GetSessionsDir())
	messages, err := store.Load(session)
	if err != nil {
		return err
	}

	requirements := engine.ExtractRequirements(models.ConversationText(messages))
	assessment := engine.AssessReadiness(messages, requirements)

	ollamaURL := config.GetOllamaURL()
	available := llm.IsAvailable(ollamaURL)
	if !available {
		fmt.Fprintf(os.Stderr, "Warning: Ollama is not reachable at %s - the deterministic generator will be used\n", ollamaURL)
	}

	primary, err := llm.NewClient(ollamaURL, config.GetModel())
	if err != nil {
		return fmt.Errorf("failed to create generator client: %w", err)
	}

	if available {
		if err := primary.CheckModel(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v - the deterministic generator will be used\n", err)
		}
	}

	contexts := contextstore.NewStore(config.GetProjectsDir())
	orch := &engine.Orchestrator{
		Context:  contexts,
		Primary:  primary,
		Fallback: docgen.New(),
	}

	auditLog := logging.Get(config.GetLogPath())
	defer auditLog.Close()
	auditLog.Run("project=%s session=%s score=%d ready=%v force_snapshot=%v",
		generateProject, session, assessment.Score, assessment.Ready, generateForceSnapshot)

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(config.GetGenerateTimeoutSeconds())*time.Second)
	defer cancel()

	outcome := orch.Run(ctx, engine.Request{
		ProjectID:     generateProject,
		Messages:      messages,
		Requirements:  requirements,
		Readiness:     assessment,
		ForceSnapshot: generateForceSnapshot,
	})

	if outcome.FallbackUsed {
		auditLog.Fallback("project=%s session=%s", generateProject, session)
	}

	if outcome.PersistWarning != nil {
		auditLog.Warn("%v", outcome.PersistWarning)
		fmt.Fprintf(os.Stderr, "Warning: %v\n", outcome.PersistWarning)
	}

	if outcome.Err != nil {
		auditLog.Run("project=%s outcome=error", generateProject)
		fmt.Fprintln(os.Stderr, "Both generation attempts failed. Rerun the same command to retry with identical inputs:")
		fmt.Fprintf(os.Stderr, "  ideagate generate %s --project %s\n", session, generateProject)
		return outcome.Err
	}

	switch outcome.Mode {
	case engine.ModeSnapshot:
		auditLog.Run("project=%s outcome=snapshot saved=%v", generateProject, outcome.SnapshotSaved)
		fmt.Print(outcome.Snapshot.Render())
		if !outcome.SnapshotSaved {
			fmt.Fprintln(os.Stderr, "\nSnapshot is ready locally but was not saved to the project context")
		}

	case engine.ModeDocs:
		auditLog.Run("project=%s outcome=docs artifacts=%d", generateProject, len(outcome.Artifacts))
		docsDir := filepath.Join(contexts.ProjectDir(generateProject), "docs")
		if err := os.MkdirAll(docsDir, 0755); err != nil {
			return fmt.Errorf("failed to create docs directory: %w", err)
		}
		for _, artifact := range outcome.Artifacts {
			path := filepath.Join(docsDir, artifact.Filename)
			if err := os.WriteFile(path, []byte(artifact.Content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", artifact.Filename, err)
			}
			fmt.Printf("  ✓ %s\n", path)
		}
		fmt.Printf("\n✓ Generated %d document(s) for project %s\n", len(outcome.Artifacts), generateProject)
	}

	return nil
}
