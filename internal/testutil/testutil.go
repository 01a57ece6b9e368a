package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pders01/ideagate/internal/models"
)

// TempWorkspace is a throwaway sessions+projects directory pair for
// command-level tests
type TempWorkspace struct {
	Root        string
	SessionsDir string
	ProjectsDir string
	T           *testing.T
}

// NewTempWorkspace creates a temporary workspace layout
func NewTempWorkspace(t *testing.T) *TempWorkspace {
	t.Helper()

	root := t.TempDir()
	ws := &TempWorkspace{
		Root:        root,
		SessionsDir: filepath.Join(root, "sessions"),
		ProjectsDir: filepath.Join(root, "projects"),
		T:           t,
	}
	for _, dir := range []string{ws.SessionsDir, ws.ProjectsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return ws
}

// WriteSession writes a session file containing the given messages
func (w *TempWorkspace) WriteSession(session string, messages []models.Message) {
	w.T.Helper()

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		w.T.Fatalf("failed to marshal session: %v", err)
	}
	path := filepath.Join(w.SessionsDir, session+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		w.T.Fatalf("failed to write session file: %v", err)
	}
}

// Conversation builds an ordered message list from alternating
// role/content pairs, spacing timestamps one second apart
func Conversation(pairs ...[2]string) []models.Message {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	messages := make([]models.Message, 0, len(pairs))
	for i, p := range pairs {
		messages = append(messages, models.Message{
			ID:        uuid.NewString(),
			Role:      models.Role(p[0]),
			Content:   p[1],
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	return messages
}

// UserMessage builds a single user message
func UserMessage(content string) models.Message {
	return models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   content,
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}
