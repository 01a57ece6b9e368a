package models

import (
	"fmt"
	"strings"
	"time"
)

// Experiment is one recommended validation experiment row
type Experiment struct {
	Experiment string `json:"experiment"`
	Goal       string `json:"goal"`
	Owner      string `json:"owner"`
	Timeframe  string `json:"timeframe"`
}

// ChecklistItem is one governance checkpoint, cleared when its topic has
// been covered by the conversation
type ChecklistItem struct {
	Label string   `json:"label"`
	Topic TopicTag `json:"topic"`
	Done  bool     `json:"done"`
}

// LeanSnapshot is the interim advisory report produced when the readiness
// gate is not open (or the user asks for a quick capture). Immutable once
// built.
type LeanSnapshot struct {
	ConceptSummary    string          `json:"concept_summary"`
	ValidationSignals []string        `json:"validation_signals"`
	CriticalUnknowns  []string        `json:"critical_unknowns"`
	Experiments       []Experiment    `json:"experiments"`
	Checklist         []ChecklistItem `json:"checklist"`
	Requirements      []string        `json:"requirements"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// Render serializes the snapshot as a single markdown document
func (s *LeanSnapshot) Render() string {
	var b strings.Builder

	b.WriteString("# Lean Idea Validation Snapshot\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Concept\n\n")
	b.WriteString(s.ConceptSummary)
	b.WriteString("\n\n")

	b.WriteString("## Validation Signals\n\n")
	for _, sig := range s.ValidationSignals {
		fmt.Fprintf(&b, "- %s\n", sig)
	}
	b.WriteString("\n")

	b.WriteString("## Critical Unknowns\n\n")
	for _, u := range s.CriticalUnknowns {
		fmt.Fprintf(&b, "- %s\n", u)
	}
	b.WriteString("\n")

	b.WriteString("## Recommended Experiments\n\n")
	b.WriteString("| Experiment | Goal | Owner | Timeframe |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, e := range s.Experiments {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", e.Experiment, e.Goal, e.Owner, e.Timeframe)
	}
	b.WriteString("\n")

	b.WriteString("## Readiness Checklist\n\n")
	for _, item := range s.Checklist {
		mark := " "
		if item.Done {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, item.Label)
	}
	b.WriteString("\n")

	b.WriteString("## Captured Requirements\n\n")
	if len(s.Requirements) == 0 {
		b.WriteString("None captured yet.\n")
	} else {
		for _, r := range s.Requirements {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	return b.String()
}
