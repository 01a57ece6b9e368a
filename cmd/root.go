package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ideagate",
	Short: "Requirements extraction and readiness gating for discovery conversations",
	Long: `ideagate turns free-form discovery conversations into:
  - canonical requirement statements ("The system SHALL ...")
  - a readiness score with missing discovery topics
  - either full delivery documentation (charter, SRS, backlog, test plan)
    or an interim Lean Idea Validation Snapshot

Full generation runs through a local Ollama model with a deterministic
fallback, so a generation request always produces something useful.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ideagate/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "ideagate")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("sessions.dir", ".ideagate/sessions")
	viper.SetDefault("projects.dir", ".ideagate/projects")
	viper.SetDefault("generator.model", "llama3.1")
	viper.SetDefault("generator.ollama_url", "http://localhost:11434")
	viper.SetDefault("generator.timeout_seconds", 120)
	viper.SetDefault("log.path", ".ideagate/engine.log")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
