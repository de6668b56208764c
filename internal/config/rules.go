package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RulesOverlay tunes the rule engine per run: per-rule enables merged over
// detector defaults, category check toggles, and an optional strict flag
// that wins over the main config.
type RulesOverlay struct {
	Strict *bool           `yaml:"strict,omitempty"`
	Rules  map[string]bool `yaml:"rules,omitempty"`
	Checks map[string]bool `yaml:"checks,omitempty"`
}

// LoadRules reads a YAML rules overlay. An empty path yields a zero overlay.
func LoadRules(path string) (RulesOverlay, error) {
	var o RulesOverlay
	if path == "" {
		return o, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("reading rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return o, nil
}
