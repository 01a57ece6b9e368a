package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pders01/ideagate/internal/contextstore"
	"github.com/pders01/ideagate/internal/testutil"
	"github.com/spf13/viper"
)

func TestSnapshotCommand(t *testing.T) {
	ws := testutil.NewTempWorkspace(t)
	viper.Set("sessions.dir", ws.SessionsDir)
	defer viper.Set("sessions.dir", "")

	ws.WriteSession("idea", testutil.Conversation(
		[2]string{"user", "A recipe planner for families. We interviewed ten home cooks."},
	))

	snapshotSave = false
	snapshotProject = ""

	if err := runSnapshot(nil, []string{"idea"}); err != nil {
		t.Fatalf("snapshot command failed: %v", err)
	}
}

func TestSnapshotCommandSave(t *testing.T) {
	ws := testutil.NewTempWorkspace(t)
	viper.Set("sessions.dir", ws.SessionsDir)
	viper.Set("projects.dir", ws.ProjectsDir)
	defer func() {
		viper.Set("sessions.dir", "")
		viper.Set("projects.dir", "")
	}()

	ws.WriteSession("idea", testutil.Conversation(
		[2]string{"user", "A recipe planner for families."},
	))

	snapshotSave = true
	snapshotProject = "my-app"
	defer func() {
		snapshotSave = false
		snapshotProject = ""
	}()

	if err := runSnapshot(nil, []string{"idea"}); err != nil {
		t.Fatalf("snapshot command failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(ws.ProjectsDir, "my-app", "context.json"))
	if err != nil {
		t.Fatalf("project context not written: %v", err)
	}
	var pc contextstore.ProjectContext
	if err := json.Unmarshal(data, &pc); err != nil {
		t.Fatalf("failed to parse project context: %v", err)
	}
	if pc.LeanSnapshot == nil {
		t.Error("snapshot record missing from project context")
	}
}

func TestSnapshotCommandSaveRequiresProject(t *testing.T) {
	ws := testutil.NewTempWorkspace(t)
	viper.Set("sessions.dir", ws.SessionsDir)
	defer viper.Set("sessions.dir", "")

	ws.WriteSession("idea", testutil.Conversation(
		[2]string{"user", "A recipe planner for families."},
	))

	snapshotSave = true
	snapshotProject = ""
	defer func() { snapshotSave = false }()

	if err := runSnapshot(nil, []string{"idea"}); err == nil {
		t.Error("--save without --project should be an error")
	}
}
