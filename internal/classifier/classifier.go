// Package classifier maps free-text spending descriptions to category labels.
package classifier

import (
	"regexp"
	"strings"

	"budgetbot/internal/core"
)

var tagPattern = regexp.MustCompile(`#(\w+)`)

// Classifier resolves a category from an explicit #tag or an ordered keyword
// dictionary. It is read-only after construction and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New builds a classifier over rules in the given order. Keywords and
// categories are lowercased.
func New(rules []Rule) *Classifier {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kw := strings.ToLower(strings.TrimSpace(r.Keyword))
		if kw == "" {
			continue
		}
		out = append(out, Rule{Keyword: kw, Category: strings.ToLower(strings.TrimSpace(r.Category))})
	}
	return &Classifier{rules: out}
}

// Classify returns the category for rawText. A #tag is returned verbatim,
// case included. Otherwise the first rule whose keyword occurs in rawText
// (case-insensitive) wins. Anything else is "misc".
func (c *Classifier) Classify(rawText string) string {
	if m := tagPattern.FindStringSubmatch(rawText); m != nil {
		return m[1]
	}
	lower := strings.ToLower(rawText)
	for _, r := range c.rules {
		if strings.Contains(lower, r.Keyword) {
			return r.Category
		}
	}
	return core.DefaultCategory
}

// Rules returns a copy of the dictionary in lookup order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}
