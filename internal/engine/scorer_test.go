package engine

import (
	"fmt"
	"testing"

	"github.com/pders01/ideagate/internal/models"
	"github.com/pders01/ideagate/internal/testutil"
)

// readyConversation covers every topic, has three user messages, three
// shall statements, and well over 120 words
func readyConversation() []models.Message {
	return testutil.Conversation(
		[2]string{"user", "I want to build a recipe planning app for busy families. The system shall let users plan meals for a whole week. The main stakeholders are home cooks, their families, and the grocery partners we work with."},
		[2]string{"assistant", "What about scope and non-functional requirements? Should we worry about security or performance targets for the first release?"},
		[2]string{"user", "The scope covers meal planning and shopping lists only, nothing social. The system shall generate a shopping list from the weekly plan. Security matters because we store personal data, and the tight budget is a real constraint for the first release."},
		[2]string{"assistant", "Understood. How should it integrate with other services, and how will we test it?"},
		[2]string{"user", "It should integrate with a grocery API for live prices. The system shall sync the shopping list to the grocery service. For testing we want clear acceptance criteria, and the data model is basically recipes, plans, and list items in a database."},
	)
}

func TestAssessEmptyConversation(t *testing.T) {
	a := AssessReadiness(nil, nil)

	if a.Score != 0 {
		t.Errorf("score = %d, want 0", a.Score)
	}
	if a.Ready {
		t.Error("empty conversation must not be ready")
	}
	if !a.HasMissing(models.TopicRequirements) {
		t.Errorf("missing topics %v must contain requirements", a.MissingTopics)
	}
}

func TestAssessReadyConversation(t *testing.T) {
	messages := readyConversation()
	requirements := ExtractRequirements(models.ConversationText(messages))

	a := AssessReadiness(messages, requirements)

	if !a.Ready {
		t.Fatalf("want ready, got score=%d reason=%q missing=%v", a.Score, a.Reason, a.MissingTopics)
	}
	if a.Score < 60 {
		t.Errorf("score = %d, want >= 60", a.Score)
	}
	if len(a.MissingTopics) != 0 {
		t.Errorf("missing topics = %v, want none", a.MissingTopics)
	}
}

func TestAssessGateConjunction(t *testing.T) {
	// Mentions every topic so the weighted score passes, but only two
	// short user messages and no extractable requirements
	messages := testutil.Conversation(
		[2]string{"user", "stakeholders scope objectives security constraints risk api integration test acceptance data model schema"},
		[2]string{"assistant", "Can you say more about the stakeholders and scope?"},
		[2]string{"user", "stakeholders scope security performance constraint integration testing database entities schema records budget deadline"},
	)

	a := AssessReadiness(messages, nil)

	if a.Ready {
		t.Fatalf("hard minimums must keep the gate closed (score=%d)", a.Score)
	}
	if !a.HasMissing(models.TopicRequirements) {
		t.Errorf("missing topics %v must contain requirements when below the minimum", a.MissingTopics)
	}
}

func TestAssessReadyImpliesHardMinimums(t *testing.T) {
	variants := [][]models.Message{
		nil,
		readyConversation()[:1],
		readyConversation()[:3],
		readyConversation(),
	}

	for i, messages := range variants {
		requirements := ExtractRequirements(models.ConversationText(messages))
		a := AssessReadiness(messages, requirements)
		if !a.Ready {
			continue
		}
		if a.RequirementCount < 3 || a.UserMessages < 3 || a.WordCount < 120 {
			t.Errorf("variant %d: ready=true with reqs=%d users=%d words=%d",
				i, a.RequirementCount, a.UserMessages, a.WordCount)
		}
	}
}

func TestAssessMonotonicScore(t *testing.T) {
	var messages []models.Message
	prev := 0

	additions := []string{
		"I have an idea for an app.",
		"The stakeholders are teachers and students, and the scope is grading only.",
		"The system shall import quizzes. The system shall grade them. The system shall export results.",
		"Security and performance both matter, and the grading API must integrate with our school database schema.",
		"Acceptance testing happens with three pilot schools under a fixed budget constraint.",
	}

	for i, content := range additions {
		messages = append(messages, testutil.Conversation([2]string{"user", content})...)
		requirements := ExtractRequirements(models.ConversationText(messages))
		a := AssessReadiness(messages, requirements)

		if a.Score < prev {
			t.Fatalf("score decreased after message %d: %d -> %d", i, prev, a.Score)
		}
		prev = a.Score
	}
}

func TestAssessRequirementVolumeTiers(t *testing.T) {
	reqs := func(n int) []string {
		var out []string
		for i := 0; i < n; i++ {
			out = append(out, fmt.Sprintf("The system SHALL do thing %d.", i))
		}
		return out
	}

	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 10},
		{2, 10},
		{3, 20},
		{4, 20},
		{5, 25},
		{9, 25},
	}

	for _, tt := range tests {
		a := AssessReadiness(nil, reqs(tt.count))
		if a.Score != tt.want {
			t.Errorf("%d requirements: score = %d, want %d", tt.count, a.Score, tt.want)
		}
	}
}

func TestQuestionAnswerLoop(t *testing.T) {
	withLoop := testutil.Conversation(
		[2]string{"user", "I want to build something."},
		[2]string{"assistant", "What problem does it solve?"},
		[2]string{"user", "It solves meal planning for busy families."},
	)
	withoutLoop := testutil.Conversation(
		[2]string{"user", "I want to build something."},
		[2]string{"assistant", "Sounds interesting, tell me more."},
		[2]string{"user", "It solves meal planning for busy families."},
	)

	withScore := AssessReadiness(withLoop, nil).Score
	withoutScore := AssessReadiness(withoutLoop, nil).Score

	if withScore != withoutScore+10 {
		t.Errorf("question/answer loop worth %d points, want 10", withScore-withoutScore)
	}
}

func TestQuickReady(t *testing.T) {
	reqs := []string{
		"The system SHALL a.",
		"The system SHALL b.",
		"The system SHALL c.",
	}

	if !QuickReady(nil, reqs) {
		t.Error("three requirements alone should satisfy the quick heuristic")
	}
	if QuickReady(nil, reqs[:2]) {
		t.Error("two requirements and no conversation should not")
	}

	// Three user messages over 400 chars also satisfy it
	chatty := testutil.Conversation(
		[2]string{"user", "This first message describes the idea in a fair amount of detail so that the character count builds up quickly across the conversation as a whole, sentence by sentence and clause by clause."},
		[2]string{"user", "The second message keeps going with plenty of additional context about the users involved and the problem being solved, again at considerable length and with no particular hurry to finish."},
		[2]string{"user", "And the third message closes out the thought with more than enough extra words to comfortably push the running character total well past the four hundred mark required by the heuristic."},
	)
	if !QuickReady(chatty, nil) {
		t.Error("three substantial user messages should satisfy the quick heuristic")
	}

	// But the effective gate disagrees without requirements
	if a := AssessReadiness(chatty, nil); a.Ready {
		t.Error("the effective gate must stay closed without requirements")
	}
}
