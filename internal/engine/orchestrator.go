package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pders01/ideagate/internal/models"
)

// promptMessageWindow caps how much transcript feeds the generation
// prompt
const promptMessageWindow = 25

// SnapshotMeta is the audit context stored alongside a persisted
// snapshot
type SnapshotMeta struct {
	Score         int               `json:"score"`
	Ready         bool              `json:"ready"`
	MissingTopics []models.TopicTag `json:"missing_topics"`
	MessageCount  int               `json:"message_count"`
}

// ContextStore persists per-project context. SaveRequirements overwrites
// the stored requirement list wholesale so stale items never accumulate
// across sessions.
type ContextStore interface {
	SaveRequirements(projectID string, requirements []string) error
	SaveSnapshot(projectID string, snapshot *models.LeanSnapshot, meta SnapshotMeta) error
}

// GenerationRequest is the contract of the primary (AI-backed) document
// generator
type GenerationRequest struct {
	PromptText     string
	Manifest       []models.DocType
	IncludeBacklog bool
}

// FallbackRequest is the contract of the deterministic document
// generator, which takes the raw material as pasted text
type FallbackRequest struct {
	PastedRequirementsText string
	TranscriptText         string
	Overlay                bool
}

// Generator is the primary document generator collaborator
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) ([]models.Artifact, error)
}

// FallbackGenerator is the always-available deterministic generator
type FallbackGenerator interface {
	GenerateFromText(ctx context.Context, req FallbackRequest) ([]models.Artifact, error)
}

// Request carries the complete input of one orchestration call. A retry
// is a pure replay of the same Request.
type Request struct {
	ProjectID     string
	Messages      []models.Message
	Requirements  []string
	Readiness     models.ReadinessAssessment
	ForceSnapshot bool
}

// OutcomeMode says which path an orchestration took
type OutcomeMode string

const (
	ModeDocs     OutcomeMode = "docs"
	ModeSnapshot OutcomeMode = "snapshot"
)

// GenerationOutcome is the normalized result of one orchestration call
type GenerationOutcome struct {
	Mode      OutcomeMode
	Artifacts []models.Artifact
	Snapshot  *models.LeanSnapshot
	// SnapshotSaved is false when the snapshot was built but could not
	// be persisted; the content is still returned to the caller.
	SnapshotSaved bool
	// PersistWarning carries non-fatal persistence failures
	PersistWarning error
	// FallbackUsed is true when the primary generator failed and the
	// deterministic generator was engaged, whether or not it succeeded
	FallbackUsed bool
	// Err is set only on total failure; Retry then carries the original
	// inputs so the caller can replay the call verbatim.
	Err   error
	Retry *Request
}

// Orchestrator is the only component with side effects: it persists
// extracted requirements and invokes the external generators. The other
// engine components are pure functions of their inputs.
type Orchestrator struct {
	Context  ContextStore
	Primary  Generator
	Fallback FallbackGenerator
}

// Run executes one generation request: persist the extraction, branch on
// the readiness gate, and produce either full delivery documents or a
// Lean Snapshot. Primary-generator failure falls back to the
// deterministic generator; the two attempts are sequential and mutually
// exclusive.
func (o *Orchestrator) Run(ctx context.Context, req Request) GenerationOutcome {
	var persistWarning error
	if err := o.Context.SaveRequirements(req.ProjectID, req.Requirements); err != nil {
		persistWarning = fmt.Errorf("failed to persist requirements: %w", err)
	}

	if req.ForceSnapshot || !req.Readiness.Ready {
		return o.runSnapshot(req, persistWarning)
	}
	return o.runFullGeneration(ctx, req, persistWarning)
}

func (o *Orchestrator) runSnapshot(req Request, persistWarning error) GenerationOutcome {
	snapshot := BuildLeanSnapshot(req.Messages, req.Requirements, req.Readiness)

	meta := SnapshotMeta{
		Score:         req.Readiness.Score,
		Ready:         req.Readiness.Ready,
		MissingTopics: req.Readiness.MissingTopics,
		MessageCount:  len(req.Messages),
	}

	saved := true
	if err := o.Context.SaveSnapshot(req.ProjectID, snapshot, meta); err != nil {
		// Generation is never lost to a persistence failure: the
		// snapshot is downgraded to "ready locally, not saved".
		saved = false
		persistWarning = errors.Join(persistWarning, fmt.Errorf("failed to persist snapshot: %w", err))
	}

	return GenerationOutcome{
		Mode:           ModeSnapshot,
		Snapshot:       snapshot,
		SnapshotSaved:  saved,
		PersistWarning: persistWarning,
	}
}

func (o *Orchestrator) runFullGeneration(ctx context.Context, req Request, persistWarning error) GenerationOutcome {
	prompt := BuildGenerationPrompt(req.Messages, req.Requirements)

	artifacts, primaryErr := o.Primary.Generate(ctx, GenerationRequest{
		PromptText:     prompt,
		Manifest:       models.DeliverableManifest(),
		IncludeBacklog: true,
	})
	if primaryErr == nil {
		return GenerationOutcome{
			Mode:           ModeDocs,
			Artifacts:      artifacts,
			PersistWarning: persistWarning,
		}
	}

	// Fallback is a retry on the same logical request, never a race.
	// The primary may have burned the whole deadline before failing, so
	// the fallback runs detached from it.
	artifacts, fallbackErr := o.Fallback.GenerateFromText(context.WithoutCancel(ctx), FallbackRequest{
		PastedRequirementsText: strings.Join(req.Requirements, "\n"),
		TranscriptText:         transcript(req.Messages),
		Overlay:                true,
	})
	if fallbackErr == nil {
		return GenerationOutcome{
			Mode:           ModeDocs,
			Artifacts:      artifacts,
			PersistWarning: persistWarning,
			FallbackUsed:   true,
		}
	}

	return GenerationOutcome{
		Mode:           ModeDocs,
		PersistWarning: persistWarning,
		FallbackUsed:   true,
		Err: fmt.Errorf("document generation failed twice: primary: %v; fallback: %w",
			primaryErr, fallbackErr),
		Retry: &req,
	}
}

// BacklogTarget sizes the generated backlog from the requirement count,
// scaled by conversation depth and clamped to [6, 40]. It feeds the
// prompt, not the readiness gate.
func BacklogTarget(requirementCount, totalChars int) int {
	base := 2 * requirementCount
	if base < 4 {
		base = 4
	}
	target := base + 3*(totalChars/350)
	if target > 40 {
		target = 40
	}
	if target < 6 {
		target = 6
	}
	return target
}

// BuildGenerationPrompt composes the generation prompt from the most
// recent messages plus the canonical requirement list
func BuildGenerationPrompt(messages []models.Message, requirements []string) string {
	window := messages
	if len(window) > promptMessageWindow {
		window = window[len(window)-promptMessageWindow:]
	}

	totalChars := 0
	for _, m := range messages {
		totalChars += len(m.Content)
	}

	var b strings.Builder
	b.WriteString("Project discovery conversation:\n\n")
	for _, m := range window {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(m.Role)), m.Content)
	}

	b.WriteString("\nCanonical requirements extracted so far:\n")
	if len(requirements) == 0 {
		b.WriteString("(none)\n")
	}
	for _, r := range requirements {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	fmt.Fprintf(&b, "\nTarget backlog size: %d items.\n", BacklogTarget(len(requirements), totalChars))

	return b.String()
}

// transcript renders the full conversation as pasted text for the
// deterministic generator
func transcript(messages []models.Message) string {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(m.Role)), m.Content)
	}
	return b.String()
}
