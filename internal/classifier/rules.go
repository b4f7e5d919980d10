package classifier

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_categories.yaml
var defaultRulesYAML []byte

// Rule maps a keyword to a category label.
type Rule struct {
	Keyword  string
	Category string
}

// ParseRules decodes a YAML mapping of keyword -> category, preserving the
// document order of keys. Keywords and categories are lowercased.
func ParseRules(data []byte) ([]Rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode rules: expected a mapping of keyword to category, got line %d", root.Line)
	}

	rules := make([]Rule, 0, len(root.Content)/2)
	seen := map[string]struct{}{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("decode rules: line %d: keyword and category must be plain strings", k.Line)
		}
		keyword := strings.ToLower(strings.TrimSpace(k.Value))
		category := strings.ToLower(strings.TrimSpace(v.Value))
		if keyword == "" || category == "" {
			return nil, fmt.Errorf("decode rules: line %d: empty keyword or category", k.Line)
		}
		// First definition wins, same as lookup order
		if _, dup := seen[keyword]; dup {
			continue
		}
		seen[keyword] = struct{}{}
		rules = append(rules, Rule{Keyword: keyword, Category: category})
	}
	return rules, nil
}

// DefaultRules returns the built-in dictionary.
func DefaultRules() []Rule {
	rules, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded category rules: %v", err))
	}
	return rules
}

// LoadRules reads rules from path. A missing file falls back to the built-in
// dictionary; a malformed file is an error.
func LoadRules(path string) ([]Rule, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("Category rules file not found, using built-in rules", "path", path)
			return DefaultRules(), nil
		}
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("Loaded category rules", "path", path, "count", len(rules))
	return rules, nil
}
