// Package config provides configuration management for the landscape monitor.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"landscape-monitor/internal/model"
)

// LoadIndicators reads indicator definitions and their threshold rules from
// the specified YAML file. Each rule spec is compiled once here so a bad
// threshold table fails at startup, not mid-classification.
func LoadIndicators(indicatorsPath string) ([]*model.IndicatorDefinition, error) {
	if indicatorsPath == "" {
		return nil, fmt.Errorf("indicators file path is required")
	}

	// Check if file exists
	if _, err := os.Stat(indicatorsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("indicators file not found: %s", indicatorsPath)
	}

	// Read file content
	data, err := os.ReadFile(indicatorsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read indicators file: %w", err)
	}

	// Parse YAML
	var cfg model.IndicatorsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse indicators file: %w", err)
	}

	if len(cfg.Indicators) == 0 {
		return nil, fmt.Errorf("no indicators defined in file: %s", indicatorsPath)
	}

	// Validate each indicator definition
	seen := make(map[string]bool, len(cfg.Indicators))
	for i, d := range cfg.Indicators {
		if d.Name == "" {
			return nil, fmt.Errorf("indicator at index %d has no name", i)
		}
		if d.DisplayName == "" {
			return nil, fmt.Errorf("indicator %q has no display_name", d.Name)
		}
		if d.Dataset == "" {
			return nil, fmt.Errorf("indicator %q has no dataset", d.Name)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate indicator name %q", d.Name)
		}
		seen[d.Name] = true

		// Compile to surface rule spec errors at load time
		if _, err := d.Rule.Compile(); err != nil {
			return nil, fmt.Errorf("indicator %q: invalid rule: %w", d.Name, err)
		}
	}

	return cfg.Indicators, nil
}

// CountActiveIndicators returns the count of active (non-pending) indicators.
func CountActiveIndicators(indicators []*model.IndicatorDefinition) int {
	count := 0
	for _, d := range indicators {
		if !d.IsPending() {
			count++
		}
	}
	return count
}
