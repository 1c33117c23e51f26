package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EventPreset is an event definition saved between intake days.
type EventPreset struct {
	Name string `yaml:"name"`
	Date string `yaml:"date"`
}

// LoadEventPreset reads an event preset from a YAML file.
func LoadEventPreset(path string) (*EventPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}

	var p EventPreset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing preset YAML: %w", err)
	}

	p.Name = strings.TrimSpace(p.Name)
	p.Date = strings.TrimSpace(p.Date)
	if p.Name == "" {
		return nil, fmt.Errorf("preset %s: event name is required", path)
	}

	return &p, nil
}

// SaveEventPreset writes an event preset to a YAML file, creating the
// parent directory when needed.
func SaveEventPreset(path string, p *EventPreset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding preset: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating preset directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing preset file: %w", err)
	}

	return nil
}
