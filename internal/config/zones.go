// Package config provides configuration management for the landscape monitor.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"landscape-monitor/internal/model"
)

// zonesFile is the YAML root structure of zones.yaml.
type zonesFile struct {
	CRS   string        `yaml:"crs"`
	Zones []*model.Zone `yaml:"zones"`
}

// LoadZones reads the zone registry from the specified YAML file.
// The registry carries the sensitivity tiers and heritage-obligation flags
// the classifier consumes, so every zone must be well-formed.
func LoadZones(zonesPath string) (*model.ZoneRegistry, error) {
	if zonesPath == "" {
		return nil, fmt.Errorf("zones file path is required")
	}

	// Check if file exists
	if _, err := os.Stat(zonesPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("zones file not found: %s", zonesPath)
	}

	// Read file content
	data, err := os.ReadFile(zonesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}

	// Parse YAML
	var file zonesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse zones file: %w", err)
	}

	if len(file.Zones) == 0 {
		return nil, fmt.Errorf("no zones defined in file: %s", zonesPath)
	}

	// Validate each zone definition
	seen := make(map[string]bool, len(file.Zones))
	for i, z := range file.Zones {
		if z.Key == "" {
			return nil, fmt.Errorf("zone at index %d has no key", i)
		}
		if z.Name == "" {
			return nil, fmt.Errorf("zone %q has no name", z.Key)
		}
		if seen[z.Key] {
			return nil, fmt.Errorf("duplicate zone key %q", z.Key)
		}
		seen[z.Key] = true

		switch z.Sensitivity {
		case "", model.SensitivityStandard, model.SensitivityEscalating:
		default:
			return nil, fmt.Errorf("zone %q has invalid sensitivity %q", z.Key, z.Sensitivity)
		}
		if z.Sensitivity == "" {
			z.Sensitivity = model.SensitivityStandard
		}

		switch z.BoundaryStatus {
		case "", model.BoundaryPlaceholder, model.BoundaryPending, model.BoundaryAuthoritative:
		default:
			return nil, fmt.Errorf("zone %q has invalid boundary_status %q", z.Key, z.BoundaryStatus)
		}
		if z.BoundaryStatus == "" {
			z.BoundaryStatus = model.BoundaryPlaceholder
		}

		if z.HeritageObligation && z.ObligationNote == "" {
			return nil, fmt.Errorf("zone %q carries heritage_obligation but no obligation_note", z.Key)
		}
	}

	// Parents must resolve within the registry
	for _, z := range file.Zones {
		if z.Parent != "" && !seen[z.Parent] {
			return nil, fmt.Errorf("zone %q references unknown parent %q", z.Key, z.Parent)
		}
	}

	return model.NewZoneRegistry(file.CRS, file.Zones), nil
}
