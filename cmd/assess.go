package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/ideagate/internal/config"
	"github.com/pders01/ideagate/internal/conversation"
	"github.com/pders01/ideagate/internal/engine"
	"github.com/pders01/ideagate/internal/models"
	"github.com/spf13/cobra"
)

var (
	assessJSON  bool
	assessToon  bool
	assessQuick bool
)

var assessCmd = &cobra.Command{
	Use:   "assess <session>",
	Short: "Score a conversation for discovery readiness",
	Long: `Extract requirements from a session's conversation and score it for
discovery completeness. The gate only opens when the weighted score
reaches 60 AND the hard minimums hold (3 requirements, 3 user messages,
120 words).

--quick runs the simpler threshold-only heuristic instead. It is a
different mode for quick captures, not an approximation of the gate.

Examples:
  ideagate assess my-app-idea
  ideagate assess my-app-idea --json
  ideagate assess my-app-idea --quick`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().BoolVar(&assessJSON, "json", false, "Output as JSON")
	assessCmd.Flags().BoolVar(&assessToon, "toon", false, "Output in LLM-friendly toon format")
	assessCmd.Flags().BoolVar(&assessQuick, "quick", false, "Use the threshold-only quick heuristic")
}

type assessReport struct {
	Session      string                     `json:"session"`
	Assessment   models.ReadinessAssessment `json:"assessment"`
	Requirements []string                   `json:"requirements"`
}

func runAssess(cmd *cobra.Command, args []string) error {
	session := args[0]

	store := conversation.NewStore(config.GetSessionsDir())
	messages, err := store.Load(session)
	if err != nil {
		return err
	}

	requirements := engine.ExtractRequirements(models.ConversationText(messages))

	if assessQuick {
		if engine.QuickReady(messages, requirements) {
			fmt.Println("Quick heuristic: ready")
		} else {
			fmt.Println("Quick heuristic: not ready")
		}
		return nil
	}

	assessment := engine.AssessReadiness(messages, requirements)

	report := assessReport{
		Session:      session,
		Assessment:   assessment,
		Requirements: requirements,
	}

	if assessJSON {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if assessToon {
		output, err := gotoon.Encode(report)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	gate := "closed"
	if assessment.Ready {
		gate = "open"
	}

	fmt.Println("Readiness Assessment")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("Score:        %d/100  (gate %s)\n", assessment.Score, gate)
	fmt.Printf("Requirements: %d\n", assessment.RequirementCount)
	fmt.Printf("User msgs:    %d\n", assessment.UserMessages)
	fmt.Printf("Words:        %d\n", assessment.WordCount)
	fmt.Println()
	fmt.Println(assessment.Reason)

	if len(assessment.MissingTopics) > 0 {
		var topics []string
		for _, t := range assessment.MissingTopics {
			topics = append(topics, string(t))
		}
		fmt.Printf("\nMissing topics: %s\n", strings.Join(topics, ", "))
	}

	return nil
}
