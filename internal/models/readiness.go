package models

// TopicTag is one of the fixed discovery-completeness dimensions
type TopicTag string

const (
	TopicRequirements TopicTag = "requirements"
	TopicStakeholders TopicTag = "stakeholders"
	TopicScope        TopicTag = "scope"
	TopicNFR          TopicTag = "nfr"
	TopicConstraints  TopicTag = "constraints"
	TopicInterfaces   TopicTag = "interfaces"
	TopicTesting      TopicTag = "testing"
	TopicDataModel    TopicTag = "dataModel"
)

// AllTopics returns the topic tags in canonical reporting order
func AllTopics() []TopicTag {
	return []TopicTag{
		TopicRequirements,
		TopicStakeholders,
		TopicScope,
		TopicNFR,
		TopicConstraints,
		TopicInterfaces,
		TopicTesting,
		TopicDataModel,
	}
}

// ReadinessAssessment is the full result of scoring a conversation.
// It is recomputed from scratch on every call — never mutated incrementally.
type ReadinessAssessment struct {
	Score            int        `json:"score"`
	Ready            bool       `json:"ready"`
	Reason           string     `json:"reason"`
	MissingTopics    []TopicTag `json:"missing_topics"`
	RequirementCount int        `json:"requirement_count"`
	UserMessages     int        `json:"user_messages"`
	WordCount        int        `json:"word_count"`
}

// HasMissing reports whether the given topic is in MissingTopics
func (a ReadinessAssessment) HasMissing(topic TopicTag) bool {
	for _, t := range a.MissingTopics {
		if t == topic {
			return true
		}
	}
	return false
}
