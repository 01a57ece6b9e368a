package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/ideagate/internal/config"
	"github.com/pders01/ideagate/internal/conversation"
	"github.com/pders01/ideagate/internal/models"
	"github.com/spf13/cobra"
)

var (
	sessionShowJSON bool
	sessionShowToon bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage conversation sessions",
	Long: `Manage the JSON session files the engine reads conversations from.
Sessions normally come from the chat frontend; these subcommands exist
for scripting and for driving the engine without one.`,
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <session> <role> <content...>",
	Short: "Append a message to a session",
	Long: `Append a message to a session, creating the session if needed.
Role must be "user" or "assistant".

Examples:
  ideagate session add my-app-idea user "I want to build a recipe planner"
  ideagate session add my-app-idea assistant "Who are the target users?"`,
	Args: cobra.MinimumNArgs(3),
	RunE: runSessionAdd,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Print a session's messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE:  runSessionList,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionListCmd)

	sessionShowCmd.Flags().BoolVar(&sessionShowJSON, "json", false, "Output as JSON")
	sessionShowCmd.Flags().BoolVar(&sessionShowToon, "toon", false, "Output in LLM-friendly toon format")
}

func runSessionAdd(cmd *cobra.Command, args []string) error {
	session := args[0]
	role := models.Role(args[1])
	content := strings.Join(args[2:], " ")

	store := conversation.NewStore(config.GetSessionsDir())
	msg, err := store.Append(session, role, content)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added %s message %s to session %s\n", msg.Role, msg.ID[:8], session)
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	session := args[0]

	store := conversation.NewStore(config.GetSessionsDir())
	messages, err := store.Load(session)
	if err != nil {
		return err
	}

	if sessionShowJSON {
		output, err := json.MarshalIndent(messages, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if sessionShowToon {
		output, err := gotoon.Encode(messages)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	if len(messages) == 0 {
		fmt.Println("No messages in session")
		return nil
	}

	for _, m := range messages {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"), m.Role, m.Content)
	}
	return nil
}

func runSessionList(cmd *cobra.Command, args []string) error {
	store := conversation.NewStore(config.GetSessionsDir())
	sessions, err := store.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	for _, s := range sessions {
		fmt.Println(s)
	}
	return nil
}
