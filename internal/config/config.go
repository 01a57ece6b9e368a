package config

import (
	"github.com/spf13/viper"
)

// GetSessionsDir returns the directory holding conversation session files
func GetSessionsDir() string {
	return viper.GetString("sessions.dir")
}

// GetProjectsDir returns the directory holding per-project context and docs
func GetProjectsDir() string {
	return viper.GetString("projects.dir")
}

// GetModel returns the generation model
func GetModel() string {
	return viper.GetString("generator.model")
}

// GetOllamaURL returns the Ollama API endpoint
func GetOllamaURL() string {
	return viper.GetString("generator.ollama_url")
}

// GetGenerateTimeoutSeconds returns the timeout for one generation call
func GetGenerateTimeoutSeconds() int {
	return viper.GetInt("generator.timeout_seconds")
}

// GetLogPath returns the engine audit log path
func GetLogPath() string {
	return viper.GetString("log.path")
}
