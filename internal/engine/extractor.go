package engine

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// leading bullets, numbers, dashes
	listMarkerRe = regexp.MustCompile(`^\s*(?:[-*•‣]+|\d+[.)])\s*`)
	// sentence-ending punctuation, semicolons, or a spaced dash
	clauseSplitRe = regexp.MustCompile(`[.!?;]+|\s+[-–—]\s+`)
	metaMarkerRe  = regexp.MustCompile(`(?i)^(?:note|summary|context):`)
	// "As a <role>, I want/need to <goal> [so that ...]"
	narrativeRe = regexp.MustCompile(`(?i)^as an? [^,]+,\s*i\s+(?:want|need|would like)\s+(?:to\s+)?(.+?)(?:\s+so that\b.*)?$`)
	// leading subject + modal, e.g. "the system shall", "we need to"
	subjectModalRe = regexp.MustCompile(`(?i)^(?:the\s+system|system|we|it)\s+(?:shall|should|must|will|needs?\s+to)\s+`)
	infinitiveRe   = regexp.MustCompile(`(?i)^(?:be\s+able\s+to|to)\s+`)
	// normalizes a verbatim "the system shall" prefix
	leadingShallRe = regexp.MustCompile(`(?i)^(?:the\s+)?system\s+shall\s+`)
	// guards against "The system SHALL The system shall ..." artifacts
	doubledPrefixRe = regexp.MustCompile(`(?i)^The\s+system\s+SHALL\s+(?:the\s+system\s+|system\s+|we\s+|it\s+)?(?:shall|should|must|will|needs?\s+to)\s+`)
	containsShallRe = regexp.MustCompile(`(?i)\bshall\b`)
)

// ExtractRequirements distills free-form conversation text into canonical
// requirement statements of the form "The system SHALL <clause>.". The
// result is deduplicated by exact trimmed text, preserving first-seen
// order. Running it over its own joined output is a no-op: canonical
// statements pass through unchanged.
func ExtractRequirements(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		line = listMarkerRe.ReplaceAllString(line, "")
		for _, clause := range clauseSplitRe.Split(line, -1) {
			clause = strings.TrimSpace(clause)
			if len(clause) < 6 || metaMarkerRe.MatchString(clause) {
				continue
			}
			stmt := canonicalize(clause)
			if stmt == "" {
				continue
			}
			stmt = strings.TrimSpace(stmt)
			if !seen[stmt] {
				seen[stmt] = true
				out = append(out, stmt)
			}
		}
	}

	return out
}

// canonicalize turns one clause into a canonical requirement statement
func canonicalize(clause string) string {
	// User-authored "shall" statements carry deliberate precision. Keep
	// them verbatim, only normalizing the leading phrase casing. A
	// "shall" buried mid-clause still gets the canonical prefix so the
	// output shape stays uniform.
	if containsShallRe.MatchString(clause) {
		if leadingShallRe.MatchString(clause) {
			return ensureTerminal(leadingShallRe.ReplaceAllString(clause, "The system SHALL "))
		}
		return ensureTerminal("The system SHALL " + capitalize(clause))
	}

	c := clause
	if m := narrativeRe.FindStringSubmatch(c); m != nil {
		c = m[1]
	}
	// Strip nested subject+modal phrases until the bare predicate remains
	for {
		stripped := subjectModalRe.ReplaceAllString(c, "")
		if stripped == c {
			break
		}
		c = stripped
	}
	for {
		stripped := infinitiveRe.ReplaceAllString(c, "")
		if stripped == c {
			break
		}
		c = stripped
	}
	c = strings.TrimSpace(c)
	if c == "" {
		return ""
	}

	stmt := "The system SHALL " + capitalize(c)
	if rest := doubledPrefixRe.ReplaceAllString(stmt, ""); rest != stmt {
		stmt = "The system SHALL " + capitalize(rest)
	}
	return ensureTerminal(stmt)
}

// ensureTerminal appends a period when the statement lacks terminal
// punctuation
func ensureTerminal(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
