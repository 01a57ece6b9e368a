package contextstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pders01/ideagate/internal/engine"
	"github.com/pders01/ideagate/internal/models"
)

// SnapshotRecord is the persisted form of a Lean Snapshot plus the
// readiness diagnostics captured at generation time for audit
type SnapshotRecord struct {
	Document      string            `json:"document"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Score         int               `json:"score"`
	Ready         bool              `json:"ready"`
	MissingTopics []models.TopicTag `json:"missing_topics"`
	MessageCount  int               `json:"message_count"`
}

// ProjectContext is the per-project context document. The surrounding
// system reads it back when building regeneration prompts.
type ProjectContext struct {
	Requirements []string        `json:"requirements"`
	LeanSnapshot *SnapshotRecord `json:"lean_snapshot,omitempty"`
}

// Store is a key-value context store keyed by project, one JSON document
// per project. It implements engine.ContextStore.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ProjectDir returns the directory holding a project's context and
// generated documents
func (s *Store) ProjectDir(projectID string) string {
	return filepath.Join(s.dir, projectID)
}

func (s *Store) contextPath(projectID string) string {
	return filepath.Join(s.ProjectDir(projectID), "context.json")
}

// Load reads a project's context. A missing project yields an empty
// context.
func (s *Store) Load(projectID string) (*ProjectContext, error) {
	data, err := os.ReadFile(s.contextPath(projectID))
	if os.IsNotExist(err) {
		return &ProjectContext{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project context: %w", err)
	}

	var pc ProjectContext
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("failed to parse project context: %w", err)
	}
	return &pc, nil
}

// SaveRequirements overwrites the stored requirement list. Overwrite,
// not merge: stale items must not accumulate across sessions.
func (s *Store) SaveRequirements(projectID string, requirements []string) error {
	pc, err := s.Load(projectID)
	if err != nil {
		return err
	}
	pc.Requirements = requirements
	return s.write(projectID, pc)
}

// SaveSnapshot persists a Lean Snapshot as project metadata along with
// its readiness diagnostics
func (s *Store) SaveSnapshot(projectID string, snapshot *models.LeanSnapshot, meta engine.SnapshotMeta) error {
	pc, err := s.Load(projectID)
	if err != nil {
		return err
	}
	pc.LeanSnapshot = &SnapshotRecord{
		Document:      snapshot.Render(),
		GeneratedAt:   snapshot.GeneratedAt,
		Score:         meta.Score,
		Ready:         meta.Ready,
		MissingTopics: meta.MissingTopics,
		MessageCount:  meta.MessageCount,
	}
	return s.write(projectID, pc)
}

func (s *Store) write(projectID string, pc *ProjectContext) error {
	if err := os.MkdirAll(s.ProjectDir(projectID), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	data, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project context: %w", err)
	}
	if err := os.WriteFile(s.contextPath(projectID), data, 0644); err != nil {
		return fmt.Errorf("failed to write project context: %w", err)
	}
	return nil
}
