package engine

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pders01/ideagate/internal/models"
)

// signalFamily is one family of validation-signal keywords scanned for
// in the user's messages
type signalFamily struct {
	name     string
	re       *regexp.Regexp
	sentence string
}

var signalFamilies = []signalFamily{
	{
		name:     "customer discovery",
		re:       regexp.MustCompile(`(?i)interview|spoke (?:with|to)|talked to|user feedback|survey|discovery call`),
		sentence: "Customer discovery is underway: conversations with prospective users have already happened.",
	},
	{
		name:     "early adoption",
		re:       regexp.MustCompile(`(?i)waitlist|sign[- ]?ups?|beta tester|early adopter|pilot program|\bpilot\b`),
		sentence: "There is early-adoption interest: people have signed up or agreed to pilot the idea.",
	},
	{
		name:     "monetization",
		re:       regexp.MustCompile(`(?i)willing to pay|pricing|\bpaid\b|revenue|subscription|pre[- ]?order|purchase`),
		sentence: "Monetization evidence exists: payment or pricing interest has been voiced.",
	},
	{
		name:     "partnership",
		re:       regexp.MustCompile(`(?i)partner|collaborat|reseller|letter of intent|channel deal|joint venture`),
		sentence: "Partnership interest has surfaced: another organization wants to work together.",
	},
}

const noSignalsSentence = "No external validation signals yet: the concept is still hypothesis-driven."

// clarifyingSentences maps each missing topic to a canned clarifying
// question for the Critical Unknowns section
var clarifyingSentences = map[models.TopicTag]string{
	models.TopicRequirements: "What must the system actually do? No requirement has been stated precisely enough to capture.",
	models.TopicStakeholders: "Who are the stakeholders and target users, and who signs off on the result?",
	models.TopicScope:        "What is in scope and, just as important, what is explicitly out of scope?",
	models.TopicNFR:          "What are the non-functional expectations: performance, security, availability?",
	models.TopicConstraints:  "Which constraints, risks, or deadlines bound the solution space?",
	models.TopicInterfaces:   "Which external systems does this need to integrate with, and over what interfaces?",
	models.TopicTesting:      "How will anyone know it works? Acceptance criteria and a test approach are undefined.",
	models.TopicDataModel:    "What data does the system manage, and how do its entities relate?",
}

const unknownsResolvedSentence = "No critical unknowns remain: every discovery topic has been touched."

// experimentTable maps missing topics to recommended validation
// experiments
var experimentTable = map[models.TopicTag]models.Experiment{
	models.TopicRequirements: {
		Experiment: "Write the top five requirements as single testable sentences",
		Goal:       "Force precision on what the system must do",
		Owner:      "Product lead",
		Timeframe:  "This week",
	},
	models.TopicStakeholders: {
		Experiment: "Interview three prospective users from the target audience",
		Goal:       "Confirm who the stakeholders are and what they need",
		Owner:      "Founder",
		Timeframe:  "1-2 weeks",
	},
	models.TopicScope: {
		Experiment: "Draft a one-page scope statement with explicit exclusions",
		Goal:       "Agree on the boundary of the first release",
		Owner:      "Product lead",
		Timeframe:  "This week",
	},
	models.TopicNFR: {
		Experiment: "List expected load, data volume, and security posture",
		Goal:       "Surface non-functional requirements before design hardens",
		Owner:      "Tech lead",
		Timeframe:  "1 week",
	},
	models.TopicConstraints: {
		Experiment: "Run a pre-mortem: what could sink this project?",
		Goal:       "Make risks and constraints explicit",
		Owner:      "Team",
		Timeframe:  "1 session",
	},
	models.TopicInterfaces: {
		Experiment: "Map every external system touchpoint on a context diagram",
		Goal:       "Find integration work before it finds you",
		Owner:      "Tech lead",
		Timeframe:  "1 week",
	},
	models.TopicTesting: {
		Experiment: "Write acceptance criteria for the three most important flows",
		Goal:       "Define what done means",
		Owner:      "Product lead",
		Timeframe:  "1 week",
	},
	models.TopicDataModel: {
		Experiment: "Sketch the core entities and their relationships",
		Goal:       "Validate that the data model supports the workflow",
		Owner:      "Tech lead",
		Timeframe:  "1 week",
	},
}

// defaultExperiments is used when no missing topic maps to a canned row
var defaultExperiments = []models.Experiment{
	{
		Experiment: "Customer validation interviews",
		Goal:       "Check the problem is real and painful",
		Owner:      "Founder",
		Timeframe:  "2 weeks",
	},
	{
		Experiment: "MVP scope checkpoint",
		Goal:       "Confirm the smallest version worth shipping",
		Owner:      "Team",
		Timeframe:  "1 session",
	},
}

// governanceChecklist is the fixed ordered list of checkpoints. Each is
// cleared when its topic is no longer missing.
var governanceChecklist = []models.ChecklistItem{
	{Label: "Problem statement and measurable objectives written down", Topic: models.TopicScope},
	{Label: "Primary stakeholders and target users identified", Topic: models.TopicStakeholders},
	{Label: "Core requirements captured as testable statements", Topic: models.TopicRequirements},
	{Label: "Non-functional expectations stated", Topic: models.TopicNFR},
	{Label: "Constraints, risks, and assumptions listed", Topic: models.TopicConstraints},
	{Label: "External systems and integration points mapped", Topic: models.TopicInterfaces},
	{Label: "Acceptance criteria and test approach agreed", Topic: models.TopicTesting},
}

const conceptPlaceholder = "No user input captured yet. Share what you are trying to build and this summary will fill itself in."

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]?`)

// BuildLeanSnapshot assembles the interim advisory report from the
// conversation, the extracted requirements, and the readiness
// assessment. Pure: it knows nothing about persistence.
func BuildLeanSnapshot(messages []models.Message, requirements []string, readiness models.ReadinessAssessment) *models.LeanSnapshot {
	users := models.UserMessages(messages)

	return &models.LeanSnapshot{
		ConceptSummary:    conceptSummary(users),
		ValidationSignals: validationSignals(users),
		CriticalUnknowns:  criticalUnknowns(readiness.MissingTopics),
		Experiments:       recommendedExperiments(readiness.MissingTopics),
		Checklist:         checklist(readiness),
		Requirements:      requirements,
		GeneratedAt:       time.Now(),
	}
}

// conceptSummary takes the first one or two sentences of the most recent
// user message, falling back to the first user message
func conceptSummary(users []models.Message) string {
	if len(users) == 0 {
		return conceptPlaceholder
	}

	for _, candidate := range []string{users[len(users)-1].Content, users[0].Content} {
		sentences := sentenceRe.FindAllString(candidate, 2)
		var parts []string
		for _, s := range sentences {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return conceptPlaceholder
}

func validationSignals(users []models.Message) []string {
	var userText strings.Builder
	for _, m := range users {
		userText.WriteString(m.Content)
		userText.WriteString("\n")
	}
	text := userText.String()

	var out []string
	for _, fam := range signalFamilies {
		if fam.re.MatchString(text) {
			out = append(out, fam.sentence)
		}
	}
	if len(out) == 0 {
		out = []string{noSignalsSentence}
	}
	return out
}

func criticalUnknowns(missing []models.TopicTag) []string {
	if len(missing) == 0 {
		return []string{unknownsResolvedSentence}
	}
	out := make([]string, 0, len(missing))
	for _, topic := range missing {
		if sentence, ok := clarifyingSentences[topic]; ok {
			out = append(out, sentence)
		} else {
			out = append(out, fmt.Sprintf("%s still needs clarification.", topic))
		}
	}
	return out
}

func recommendedExperiments(missing []models.TopicTag) []models.Experiment {
	var out []models.Experiment
	for _, topic := range missing {
		if row, ok := experimentTable[topic]; ok {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		out = append(out, defaultExperiments...)
	}
	return out
}

func checklist(readiness models.ReadinessAssessment) []models.ChecklistItem {
	out := make([]models.ChecklistItem, len(governanceChecklist))
	copy(out, governanceChecklist)
	for i := range out {
		out[i].Done = !readiness.HasMissing(out[i].Topic)
	}
	return out
}
