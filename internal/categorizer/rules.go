package categorizer

import (
	"strings"

	"fjacquet/expense-audit/internal/models"
)

// RuleConfidence is the confidence assigned to every keyword match.
const RuleConfidence = 1.0

// RuleMatcher implements categorization using keyword pattern matching
// against the category set's keyword table.
type RuleMatcher struct {
	rules []models.CategoryConfig
}

// NewRuleMatcher creates a matcher over the keywords of set. Categories are
// tried in the set's enumeration order.
func NewRuleMatcher(set models.CategorySet) *RuleMatcher {
	return &RuleMatcher{rules: set.Configs()}
}

// Match returns the first category, in enumeration order, with any keyword
// occurring as a case-insensitive substring of description.
func (m *RuleMatcher) Match(description string) (category string, confidence float64, ok bool) {
	desc := strings.ToLower(description)
	if strings.TrimSpace(desc) == "" {
		return "", 0, false
	}

	for _, rule := range m.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(desc, keyword) {
				return rule.Name, RuleConfidence, true
			}
		}
	}
	return "", 0, false
}

// MatchedKeyword returns the keyword that Match would fire on, for diagnostics.
func (m *RuleMatcher) MatchedKeyword(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range m.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(desc, keyword) {
				return keyword
			}
		}
	}
	return ""
}
