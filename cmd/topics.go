package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/ideagate/internal/config"
	"github.com/pders01/ideagate/internal/conversation"
	"github.com/pders01/ideagate/internal/engine"
	"github.com/pders01/ideagate/internal/models"
	"github.com/spf13/cobra"
)

var (
	topicsJSON bool
	topicsToon bool
)

var topicsCmd = &cobra.Command{
	Use:   "topics <session>",
	Short: "Show which discovery topics a conversation has covered",
	Long: `Run every topic predicate against the session's full conversation text
and report which discovery dimensions have been touched.

Examples:
  ideagate topics my-app-idea
  ideagate topics my-app-idea --toon`,
	Args: cobra.ExactArgs(1),
	RunE: runTopics,
}

func init() {
	rootCmd.AddCommand(topicsCmd)

	topicsCmd.Flags().BoolVar(&topicsJSON, "json", false, "Output as JSON")
	topicsCmd.Flags().BoolVar(&topicsToon, "toon", false, "Output in LLM-friendly toon format")
}

type topicReport struct {
	Topic   string `json:"topic"`
	Covered bool   `json:"covered"`
}

func runTopics(cmd *cobra.Command, args []string) error {
	session := args[0]

	store := conversation.NewStore(config.GetSessionsDir())
	messages, err := store.Load(session)
	if err != nil {
		return err
	}

	text := models.ConversationText(messages)
	matches := engine.TopicMatches(text)
	requirements := engine.ExtractRequirements(text)

	var reports []topicReport
	for _, tag := range models.AllTopics() {
		covered := false
		if tag == models.TopicRequirements {
			covered = len(requirements) > 0
		} else {
			covered = matches[tag]
		}
		reports = append(reports, topicReport{Topic: string(tag), Covered: covered})
	}

	if topicsJSON {
		output, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if topicsToon {
		output, err := gotoon.Encode(reports)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Printf("Topic coverage for %s:\n\n", session)
	for _, r := range reports {
		mark := " "
		if r.Covered {
			mark = "✓"
		}
		fmt.Printf("  [%s] %s\n", mark, r.Topic)
	}

	return nil
}
