package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pders01/ideagate/internal/engine"
	"github.com/spf13/cobra"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract canonical requirements from transcript text",
	Long: `Distill free-form transcript text into canonical requirement statements
of the form "The system SHALL <behavior>.".

Reads from the given file, or from stdin when no file is provided.
Extraction is pure and idempotent: feeding its own output back in
returns the same statements.

Examples:
  ideagate extract notes.txt
  cat transcript.txt | ideagate extract
  ideagate extract notes.txt --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Output as JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		text = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	requirements := engine.ExtractRequirements(text)

	if extractJSON {
		if requirements == nil {
			requirements = []string{}
		}
		output, err := json.MarshalIndent(requirements, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(requirements) == 0 {
		fmt.Println("No requirements found")
		return nil
	}

	fmt.Printf("Extracted %d requirement(s):\n\n", len(requirements))
	for i, r := range requirements {
		fmt.Printf("  %2d. %s\n", i+1, r)
	}

	return nil
}
