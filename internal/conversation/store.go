package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pders01/ideagate/internal/models"
)

// Store keeps one JSON file per conversation session. The engine only
// ever reads the loaded message slice; appending is a frontend concern.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(session string) string {
	return filepath.Join(s.dir, session+".json")
}

// Load returns the session's messages ordered by creation time. A
// missing session is an empty conversation, not an error.
func (s *Store) Load(session string) ([]models.Message, error) {
	data, err := os.ReadFile(s.path(session))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", session, err)
	}

	var messages []models.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", session, err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}

// Append adds a message to the session, assigning an ID and timestamp.
// Messages are immutable once written.
func (s *Store) Append(session string, role models.Role, content string) (models.Message, error) {
	if role != models.RoleUser && role != models.RoleAssistant {
		return models.Message{}, fmt.Errorf("invalid role: %s (must be: user, assistant)", role)
	}
	if strings.TrimSpace(content) == "" {
		return models.Message{}, fmt.Errorf("message content cannot be empty")
	}

	messages, err := s.Load(session)
	if err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	messages = append(messages, msg)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return models.Message{}, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(s.path(session), data, 0644); err != nil {
		return models.Message{}, fmt.Errorf("failed to write session %s: %w", session, err)
	}

	return msg, nil
}

// List returns the names of all stored sessions, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(sessions)
	return sessions, nil
}
