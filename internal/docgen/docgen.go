package docgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pders01/ideagate/internal/engine"
	"github.com/pders01/ideagate/internal/models"
)

// Generator is the deterministic document generator: the always-available
// fallback when the AI-backed generator fails. It implements
// engine.FallbackGenerator and never returns an error.
type Generator struct {
	// Now is swappable for tests; defaults to time.Now
	Now func() time.Time
}

// New creates a deterministic generator
func New() *Generator {
	return &Generator{Now: time.Now}
}

// GenerateFromText builds the four delivery documents from pasted
// requirements text and the raw transcript. Missing input degrades to
// "to be determined" sections, never to a failure.
func (g *Generator) GenerateFromText(ctx context.Context, req engine.FallbackRequest) ([]models.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Re-running extraction over pasted canonical statements is a no-op,
	// so raw notes and prior output are equally acceptable input.
	requirements := engine.ExtractRequirements(req.PastedRequirementsText)
	generatedAt := g.Now()

	artifacts := []models.Artifact{
		{Filename: models.DocCharter.Filename(), Content: g.charter(requirements, req, generatedAt)},
		{Filename: models.DocSRS.Filename(), Content: g.srs(requirements, generatedAt)},
		{Filename: models.DocBacklog.Filename(), Content: g.backlog(requirements, req.TranscriptText)},
		{Filename: models.DocTestPlan.Filename(), Content: g.testPlan(requirements)},
	}
	return artifacts, nil
}

// clause strips the canonical prefix and terminal punctuation, leaving
// the bare behavior
func clause(requirement string) string {
	c := strings.TrimPrefix(requirement, "The system SHALL ")
	c = strings.TrimRight(c, ".!?")
	return strings.TrimSpace(c)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (g *Generator) charter(requirements []string, req engine.FallbackRequest, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", models.DocCharter.Title())
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format("2006-01-02"))

	b.WriteString("## Purpose\n\n")
	if len(requirements) > 0 {
		b.WriteString("Deliver a system that, at minimum:\n\n")
		limit := len(requirements)
		if limit > 3 {
			limit = 3
		}
		for _, r := range requirements[:limit] {
			fmt.Fprintf(&b, "- %s\n", lowerFirst(clause(r)))
		}
	} else {
		b.WriteString("To be determined: no requirements have been captured yet.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Scope\n\n")
	fmt.Fprintf(&b, "The charter covers the %d captured requirement(s) listed in the requirements specification. Anything not listed there is out of scope until agreed otherwise.\n\n", len(requirements))

	b.WriteString("## Success Criteria\n\n")
	b.WriteString("- Every captured requirement is implemented and verified\n")
	b.WriteString("- The test plan passes end to end\n")

	if req.Overlay && strings.TrimSpace(req.TranscriptText) != "" {
		b.WriteString("\n## Appendix: Discovery Transcript\n\n```\n")
		b.WriteString(strings.TrimSpace(req.TranscriptText))
		b.WriteString("\n```\n")
	}

	return b.String()
}

func (g *Generator) srs(requirements []string, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", models.DocSRS.Title())
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format("2006-01-02"))

	b.WriteString("## Functional Requirements\n\n")
	if len(requirements) == 0 {
		b.WriteString("To be determined: no requirements have been captured yet.\n")
		return b.String()
	}
	for i, r := range requirements {
		fmt.Fprintf(&b, "REQ-%03d: %s\n\n", i+1, r)
	}

	return b.String()
}

func (g *Generator) backlog(requirements []string, transcriptText string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", models.DocBacklog.Title())

	target := engine.BacklogTarget(len(requirements), len(transcriptText))
	fmt.Fprintf(&b, "Sized to %d item(s).\n\n", target)

	item := 0
	for _, r := range requirements {
		if item >= target {
			break
		}
		item++
		fmt.Fprintf(&b, "%d. As a user, I can %s\n", item, lowerFirst(clause(r)))
	}

	// Pad with grooming placeholders up to the target size
	for item < target {
		item++
		fmt.Fprintf(&b, "%d. Grooming: refine an open discovery topic into a concrete story\n", item)
	}

	return b.String()
}

func (g *Generator) testPlan(requirements []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", models.DocTestPlan.Title())

	b.WriteString("## Acceptance Tests\n\n")
	if len(requirements) == 0 {
		b.WriteString("To be determined: no requirements have been captured yet.\n")
		return b.String()
	}
	for i, r := range requirements {
		fmt.Fprintf(&b, "TC-%03d: Verify that the system can %s.\n\n", i+1, lowerFirst(clause(r)))
	}

	return b.String()
}
