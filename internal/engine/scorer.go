package engine

import (
	"fmt"
	"strings"

	"github.com/pders01/ideagate/internal/models"
)

// Hard conjunctive minimums layered on top of the weighted score. The
// gate never opens below these regardless of how the points add up.
const (
	minRequirements = 3
	minUserMessages = 3
	minWordCount    = 120

	readyScoreThreshold = 60
)

// topic signal weights
var topicWeights = map[models.TopicTag]int{
	models.TopicStakeholders: 15,
	models.TopicScope:        15,
	models.TopicNFR:          10,
	models.TopicConstraints:  10,
	models.TopicInterfaces:   10,
	models.TopicTesting:      5,
	models.TopicDataModel:    5,
}

// AssessReadiness scores a conversation for discovery completeness and
// decides whether full document generation is permitted. The assessment
// is recomputed from scratch on every call; there is no cached partial
// state. Appending messages never lowers the score.
func AssessReadiness(messages []models.Message, requirements []string) models.ReadinessAssessment {
	convo := models.ConversationText(messages)
	reqCount := len(requirements)

	score := 0
	switch {
	case reqCount >= 5:
		score += 25
	case reqCount >= 3:
		score += 20
	case reqCount >= 1:
		score += 10
	}

	var missing []models.TopicTag
	if reqCount == 0 {
		missing = append(missing, models.TopicRequirements)
	}

	for _, tag := range keywordTopics() {
		if topicPredicates[tag](convo) {
			score += topicWeights[tag]
		} else {
			missing = append(missing, tag)
		}
	}

	userCount := len(models.UserMessages(messages))
	if userCount >= 2 {
		score += 10
	}
	if userCount >= 3 {
		score += 10
	}

	totalChars := 0
	for _, m := range messages {
		totalChars += len(m.Content)
	}
	if totalChars >= 400 {
		score += 10
	}

	if questionAnswerLoop(messages) {
		score += 10
	}

	if score > 100 {
		score = 100
	}

	words := len(strings.Fields(convo))

	// Hard minimums: a passing weighted score alone never opens the gate.
	var unmet []string
	if reqCount < minRequirements {
		unmet = append(unmet, fmt.Sprintf("at least %d canonical requirements", minRequirements))
		if !contains(missing, models.TopicRequirements) {
			missing = append(missing, models.TopicRequirements)
		}
	}
	if userCount < minUserMessages {
		unmet = append(unmet, fmt.Sprintf("at least %d user messages", minUserMessages))
	}
	if words < minWordCount {
		unmet = append(unmet, fmt.Sprintf("at least %d words of discussion", minWordCount))
	}

	ready := score >= readyScoreThreshold && len(unmet) == 0

	var reason string
	if ready {
		reason = fmt.Sprintf("Enough has been captured to generate full delivery documentation (score %d/100).", score)
	} else if len(unmet) > 0 && score >= readyScoreThreshold {
		reason = fmt.Sprintf("The score is %d/100 but the conversation still needs %s.", score, strings.Join(unmet, ", "))
	} else {
		reason = fmt.Sprintf("Discovery is at %d/100, keep the conversation going to fill in the gaps.", score)
	}

	return models.ReadinessAssessment{
		Score:            score,
		Ready:            ready,
		Reason:           reason,
		MissingTopics:    missing,
		RequirementCount: reqCount,
		UserMessages:     userCount,
		WordCount:        words,
	}
}

// QuickReady is the simpler threshold-only readiness test used by the
// quick-capture surface. It is an intentionally different mode, not an
// approximation of AssessReadiness, and the orchestrator never consults
// it.
func QuickReady(messages []models.Message, requirements []string) bool {
	if len(requirements) >= 3 {
		return true
	}
	totalChars := 0
	for _, m := range messages {
		totalChars += len(m.Content)
	}
	return len(models.UserMessages(messages)) >= 3 && totalChars >= 400
}

// questionAnswerLoop reports whether the assistant asked a question and
// the user came back with a substantive (≥20 char) reply
func questionAnswerLoop(messages []models.Message) bool {
	asked := false
	for _, m := range messages {
		switch m.Role {
		case models.RoleAssistant:
			if strings.Contains(m.Content, "?") {
				asked = true
			}
		case models.RoleUser:
			if asked && len(strings.TrimSpace(m.Content)) >= 20 {
				return true
			}
		}
	}
	return false
}

func contains(tags []models.TopicTag, tag models.TopicTag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
