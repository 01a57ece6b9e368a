package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pders01/ideagate/internal/models"
	"github.com/pders01/ideagate/internal/testutil"
)

type fakeContext struct {
	requirements     map[string][]string
	snapshotMeta     *SnapshotMeta
	failRequirements bool
	failSnapshot     bool
}

func newFakeContext() *fakeContext {
	return &fakeContext{requirements: make(map[string][]string)}
}

func (f *fakeContext) SaveRequirements(projectID string, requirements []string) error {
	if f.failRequirements {
		return errors.New("requirements write refused")
	}
	f.requirements[projectID] = requirements
	return nil
}

func (f *fakeContext) SaveSnapshot(projectID string, snapshot *models.LeanSnapshot, meta SnapshotMeta) error {
	if f.failSnapshot {
		return errors.New("snapshot write refused")
	}
	f.snapshotMeta = &meta
	return nil
}

type fakePrimary struct {
	fail    bool
	calls   int
	lastReq GenerationRequest
}

func (f *fakePrimary) Generate(ctx context.Context, req GenerationRequest) ([]models.Artifact, error) {
	f.calls++
	f.lastReq = req
	if f.fail {
		return nil, errors.New("model unavailable")
	}
	return []models.Artifact{{Filename: "charter.md", Content: "from primary"}}, nil
}

type fakeFallback struct {
	fail    bool
	calls   int
	lastReq FallbackRequest
}

func (f *fakeFallback) GenerateFromText(ctx context.Context, req FallbackRequest) ([]models.Artifact, error) {
	f.calls++
	f.lastReq = req
	if f.fail {
		return nil, errors.New("fallback broken")
	}
	return []models.Artifact{{Filename: "charter.md", Content: "from fallback"}}, nil
}

func readyRequest() Request {
	return Request{
		ProjectID: "proj",
		Messages: testutil.Conversation(
			[2]string{"user", "Plenty of discovery happened here."},
		),
		Requirements: []string{
			"The system SHALL a.",
			"The system SHALL b.",
			"The system SHALL c.",
		},
		Readiness: models.ReadinessAssessment{Score: 85, Ready: true},
	}
}

func TestOrchestratorFullGeneration(t *testing.T) {
	contexts := newFakeContext()
	primary := &fakePrimary{}
	fallback := &fakeFallback{}
	orch := &Orchestrator{Context: contexts, Primary: primary, Fallback: fallback}

	outcome := orch.Run(context.Background(), readyRequest())

	if outcome.Mode != ModeDocs {
		t.Fatalf("mode = %s, want docs", outcome.Mode)
	}
	if outcome.Err != nil {
		t.Fatalf("unexpected error: %v", outcome.Err)
	}
	if len(outcome.Artifacts) != 1 || outcome.Artifacts[0].Content != "from primary" {
		t.Errorf("artifacts = %v", outcome.Artifacts)
	}
	if fallback.calls != 0 {
		t.Error("fallback must not run when the primary succeeds")
	}
	if outcome.FallbackUsed {
		t.Error("outcome should not report fallback engagement")
	}
	if len(primary.lastReq.Manifest) != 4 {
		t.Errorf("manifest = %v, want the four deliverables", primary.lastReq.Manifest)
	}
	if got := contexts.requirements["proj"]; len(got) != 3 {
		t.Errorf("persisted requirements = %v", got)
	}
}

func TestOrchestratorFallback(t *testing.T) {
	contexts := newFakeContext()
	primary := &fakePrimary{fail: true}
	fallback := &fakeFallback{}
	orch := &Orchestrator{Context: contexts, Primary: primary, Fallback: fallback}

	outcome := orch.Run(context.Background(), readyRequest())

	if outcome.Mode != ModeDocs {
		t.Fatalf("mode = %s, want docs", outcome.Mode)
	}
	if outcome.Err != nil {
		t.Fatalf("primary failure must be invisible when the fallback succeeds: %v", outcome.Err)
	}
	if len(outcome.Artifacts) != 1 || outcome.Artifacts[0].Content != "from fallback" {
		t.Errorf("artifacts = %v", outcome.Artifacts)
	}
	if !strings.Contains(fallback.lastReq.PastedRequirementsText, "The system SHALL a.") {
		t.Errorf("fallback input missing requirements: %q", fallback.lastReq.PastedRequirementsText)
	}
	if !fallback.lastReq.Overlay {
		t.Error("fallback should run with the transcript overlay")
	}
	if !outcome.FallbackUsed {
		t.Error("outcome should report fallback engagement")
	}
}

func TestOrchestratorTotalFailure(t *testing.T) {
	contexts := newFakeContext()
	orch := &Orchestrator{
		Context:  contexts,
		Primary:  &fakePrimary{fail: true},
		Fallback: &fakeFallback{fail: true},
	}

	req := readyRequest()
	outcome := orch.Run(context.Background(), req)

	if outcome.Err == nil {
		t.Fatal("want an error outcome when both generators fail")
	}
	if outcome.Retry == nil {
		t.Fatal("error outcome must carry a retry handle")
	}
	if outcome.Retry.ProjectID != req.ProjectID || len(outcome.Retry.Requirements) != len(req.Requirements) {
		t.Errorf("retry handle does not replay the original inputs: %+v", outcome.Retry)
	}
	if !outcome.FallbackUsed {
		t.Error("total failure still means the fallback was engaged")
	}
}

// blockingPrimary consumes the whole deadline before failing, the way a
// hung model request does.
type blockingPrimary struct{}

func (b *blockingPrimary) Generate(ctx context.Context, req GenerationRequest) ([]models.Artifact, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// deadlineSensitiveFallback refuses to run on an expired context, same
// as the deterministic generator's own context gate.
type deadlineSensitiveFallback struct{}

func (d *deadlineSensitiveFallback) GenerateFromText(ctx context.Context, req FallbackRequest) ([]models.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.Artifact{{Filename: "charter.md", Content: "from fallback"}}, nil
}

func TestOrchestratorFallbackOutlivesPrimaryDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	orch := &Orchestrator{
		Context:  newFakeContext(),
		Primary:  &blockingPrimary{},
		Fallback: &deadlineSensitiveFallback{},
	}

	outcome := orch.Run(ctx, readyRequest())

	if outcome.Err != nil {
		t.Fatalf("fallback must not inherit the primary's expired deadline: %v", outcome.Err)
	}
	if len(outcome.Artifacts) != 1 || outcome.Artifacts[0].Content != "from fallback" {
		t.Errorf("artifacts = %v", outcome.Artifacts)
	}
	if !outcome.FallbackUsed {
		t.Error("outcome should report fallback engagement")
	}
}

func TestOrchestratorSnapshotWhenNotReady(t *testing.T) {
	contexts := newFakeContext()
	primary := &fakePrimary{}
	orch := &Orchestrator{Context: contexts, Primary: primary, Fallback: &fakeFallback{}}

	req := readyRequest()
	req.Readiness = models.ReadinessAssessment{Score: 30, Ready: false}

	outcome := orch.Run(context.Background(), req)

	if outcome.Mode != ModeSnapshot {
		t.Fatalf("mode = %s, want snapshot", outcome.Mode)
	}
	if outcome.Snapshot == nil {
		t.Fatal("snapshot outcome must carry the snapshot")
	}
	if !outcome.SnapshotSaved {
		t.Error("snapshot should have been saved")
	}
	if primary.calls != 0 {
		t.Error("generator must not run on the snapshot path")
	}
	if contexts.snapshotMeta == nil || contexts.snapshotMeta.MessageCount != len(req.Messages) {
		t.Errorf("snapshot meta = %+v, want message count %d", contexts.snapshotMeta, len(req.Messages))
	}
}

func TestOrchestratorForceSnapshot(t *testing.T) {
	contexts := newFakeContext()
	primary := &fakePrimary{}
	orch := &Orchestrator{Context: contexts, Primary: primary, Fallback: &fakeFallback{}}

	req := readyRequest()
	req.ForceSnapshot = true

	outcome := orch.Run(context.Background(), req)

	if outcome.Mode != ModeSnapshot {
		t.Fatalf("mode = %s, want snapshot despite an open gate", outcome.Mode)
	}
	if primary.calls != 0 {
		t.Error("generator must not run when a snapshot is forced")
	}
}

func TestOrchestratorPersistenceFailureDoesNotAbort(t *testing.T) {
	contexts := newFakeContext()
	contexts.failRequirements = true
	orch := &Orchestrator{Context: contexts, Primary: &fakePrimary{}, Fallback: &fakeFallback{}}

	outcome := orch.Run(context.Background(), readyRequest())

	if outcome.Err != nil {
		t.Fatalf("persistence failure must not abort generation: %v", outcome.Err)
	}
	if outcome.Mode != ModeDocs || len(outcome.Artifacts) == 0 {
		t.Error("documents should still have been generated")
	}
	if outcome.PersistWarning == nil {
		t.Error("persistence failure must be surfaced as a warning")
	}
}

func TestOrchestratorSnapshotPersistFailureDowngrades(t *testing.T) {
	contexts := newFakeContext()
	contexts.failSnapshot = true
	orch := &Orchestrator{Context: contexts, Primary: &fakePrimary{}, Fallback: &fakeFallback{}}

	req := readyRequest()
	req.ForceSnapshot = true

	outcome := orch.Run(context.Background(), req)

	if outcome.Snapshot == nil {
		t.Fatal("snapshot content must survive a persistence failure")
	}
	if outcome.SnapshotSaved {
		t.Error("outcome should be downgraded to not-saved")
	}
	if outcome.PersistWarning == nil {
		t.Error("snapshot persistence failure must be surfaced")
	}
}

func TestBacklogTarget(t *testing.T) {
	tests := []struct {
		reqs, chars, want int
	}{
		{0, 0, 6},
		{2, 100, 6},
		{5, 0, 10},
		{1, 350, 7},
		{0, 10000, 40},
		{20, 10000, 40},
		{3, 700, 12},
	}

	for _, tt := range tests {
		if got := BacklogTarget(tt.reqs, tt.chars); got != tt.want {
			t.Errorf("BacklogTarget(%d, %d) = %d, want %d", tt.reqs, tt.chars, got, tt.want)
		}
	}
}

func TestBuildGenerationPromptWindow(t *testing.T) {
	var pairs [][2]string
	for i := 0; i < 30; i++ {
		pairs = append(pairs, [2]string{"user", fmt.Sprintf("message number %d", i)})
	}
	messages := testutil.Conversation(pairs...)

	prompt := BuildGenerationPrompt(messages, []string{"The system SHALL a."})

	if strings.Contains(prompt, "message number 4\n") {
		t.Error("prompt should only contain the most recent 25 messages")
	}
	if !strings.Contains(prompt, "message number 29") {
		t.Error("prompt should contain the latest message")
	}
	if !strings.Contains(prompt, "The system SHALL a.") {
		t.Error("prompt should contain the requirement list")
	}
	if !strings.Contains(prompt, "Target backlog size:") {
		t.Error("prompt should contain the backlog target")
	}
}
