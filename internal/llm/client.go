package llm

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pders01/ideagate/internal/engine"
	"github.com/pders01/ideagate/internal/models"
)

const (
	// DefaultModel is the recommended generation model
	DefaultModel = "llama3.1"
	// DefaultURL is the default Ollama API endpoint
	DefaultURL = "http://localhost:11434"
)

// fileMarker separates documents in the model's response
const fileMarker = "===== FILE: %s ====="

var fileMarkerRe = regexp.MustCompile(`(?m)^=====\s*FILE:\s*(\S+)\s*=====\s*$`)

// Client is the primary (AI-backed) document generator. It implements
// engine.Generator.
type Client struct {
	client *api.Client
	model  string
}

// NewClient creates a new Ollama-backed generator client
func NewClient(url, model string) (*Client, error) {
	if url == "" {
		url = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// IsAvailable checks if Ollama is running and accessible
func IsAvailable(url string) bool {
	if url == "" {
		url = DefaultURL
	}

	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// CheckModel checks if the configured model is available
func (c *Client) CheckModel() error {
	ctx := context.Background()

	listResp, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	for _, model := range listResp.Models {
		if model.Name == c.model {
			return nil
		}
	}

	return fmt.Errorf("model '%s' not found - run: ollama pull %s", c.model, c.model)
}

// GetModel returns the model being used
func (c *Client) GetModel() string {
	return c.model
}

// Generate asks the model for the full deliverable set and parses the
// response into artifacts. A response with no recognizable file markers
// is an error, which sends the orchestrator to the deterministic
// fallback.
func (c *Client) Generate(ctx context.Context, req engine.GenerationRequest) ([]models.Artifact, error) {
	if strings.TrimSpace(req.PromptText) == "" {
		return nil, fmt.Errorf("prompt text cannot be empty")
	}

	prompt := buildFullPrompt(req)

	stream := false
	genReq := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var response strings.Builder
	err := c.client.Generate(ctx, genReq, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}

	artifacts, err := ParseArtifacts(response.String())
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// buildFullPrompt wraps the domain prompt with output-format
// instructions the artifact parser relies on
func buildFullPrompt(req engine.GenerationRequest) string {
	var b strings.Builder

	b.WriteString("You are producing delivery documentation for a software project.\n")
	b.WriteString("Write the following documents, in order:\n")
	for _, doc := range req.Manifest {
		fmt.Fprintf(&b, "- %s (%s)\n", doc.Title(), doc.Filename())
	}
	if req.IncludeBacklog {
		b.WriteString("Size the backlog to the target item count given below.\n")
	}
	b.WriteString("\nStart each document with a line of exactly this form:\n")
	fmt.Fprintf(&b, fileMarker+"\n\n", "<filename>")
	b.WriteString(req.PromptText)

	return b.String()
}

// ParseArtifacts splits a generated response on file markers
func ParseArtifacts(response string) ([]models.Artifact, error) {
	matches := fileMarkerRe.FindAllStringSubmatchIndex(response, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no file markers found in generated response")
	}

	var artifacts []models.Artifact
	for i, m := range matches {
		filename := response[m[2]:m[3]]
		start := m[1]
		end := len(response)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.TrimSpace(response[start:end])
		if content == "" {
			continue
		}
		artifacts = append(artifacts, models.Artifact{
			Filename: filename,
			Content:  content + "\n",
		})
	}

	if len(artifacts) == 0 {
		return nil, fmt.Errorf("generated response contained only empty documents")
	}
	return artifacts, nil
}
