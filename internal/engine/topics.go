package engine

import (
	"regexp"
	"strings"

	"github.com/pders01/ideagate/internal/models"
)

// TopicPredicate decides whether a discovery topic has been touched by
// the conversation. Predicates see the full concatenated conversation
// text, so a topic mentioned anywhere in the conversation satisfies its
// signal permanently.
type TopicPredicate func(text string) bool

func regexPredicate(pattern string) TopicPredicate {
	re := regexp.MustCompile(pattern)
	return func(text string) bool {
		return re.MatchString(strings.ToLower(text))
	}
}

// topicPredicates maps each keyword topic to its detection rule. The
// requirements topic is not keyword-driven; it is satisfied by the
// extracted requirement set itself.
var topicPredicates = map[models.TopicTag]TopicPredicate{
	models.TopicStakeholders: regexPredicate(`stakeholder|end[- ]?user|customer|persona|audience|client|sponsor`),
	models.TopicScope:        regexPredicate(`\bscope\b|objective|\bgoal\b|deliverable|in scope|out of scope|milestone`),
	models.TopicNFR:          regexPredicate(`performance|latenc|scalab|secur|availab|reliab|non[- ]functional|throughput|uptime`),
	models.TopicConstraints:  regexPredicate(`constraint|\brisk\b|deadline|budget|assumption|limitation|compliance|regulat`),
	models.TopicInterfaces:   regexPredicate(`interface|integrat|\bapi\b|webhook|third[- ]party|external system|sso\b`),
	models.TopicTesting:      regexPredicate(`\btest|acceptance|\bqa\b|verif|quality assurance`),
	models.TopicDataModel:    regexPredicate(`data model|entit|schema|database|\btable\b|\bfield\b|\brecord\b`),
}

// keywordTopics lists the keyword-driven topics in canonical order
func keywordTopics() []models.TopicTag {
	var out []models.TopicTag
	for _, t := range models.AllTopics() {
		if t != models.TopicRequirements {
			out = append(out, t)
		}
	}
	return out
}

// TopicMatches evaluates every keyword predicate against the
// conversation text. Useful for inspecting why a topic signal did or
// did not fire.
func TopicMatches(text string) map[models.TopicTag]bool {
	out := make(map[models.TopicTag]bool, len(topicPredicates))
	for tag, pred := range topicPredicates {
		out[tag] = pred(text)
	}
	return out
}
