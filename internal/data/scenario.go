// Package data loads static simulation tables from YAML.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ArchetypeTemplate holds static data for one actor type.
type ArchetypeTemplate struct {
	Name             string  `yaml:"name"`
	Count            int     `yaml:"count"`
	Speed            float64 `yaml:"speed"`             // units per second
	PerceptionRadius float64 `yaml:"perception_radius"` // 0 = not an observer
	SpawnX           float64 `yaml:"spawn_x"`
	SpawnY           float64 `yaml:"spawn_y"`
	SpawnSpread      float64 `yaml:"spawn_spread"` // +- random offset on each axis
}

type scenarioFile struct {
	Archetypes []ArchetypeTemplate `yaml:"archetypes"`
}

// Scenario holds all archetype templates indexed by name, preserving file
// order for deterministic spawning.
type Scenario struct {
	ordered []ArchetypeTemplate
	byName  map[string]*ArchetypeTemplate
}

// LoadScenario loads archetype templates from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	s := &Scenario{
		ordered: f.Archetypes,
		byName:  make(map[string]*ArchetypeTemplate, len(f.Archetypes)),
	}
	for i := range s.ordered {
		t := &s.ordered[i]
		if t.Name == "" {
			return nil, fmt.Errorf("scenario %s: archetype %d has no name", path, i)
		}
		if t.Count < 0 {
			return nil, fmt.Errorf("scenario %s: archetype %q has negative count", path, t.Name)
		}
		if _, dup := s.byName[t.Name]; dup {
			return nil, fmt.Errorf("scenario %s: duplicate archetype %q", path, t.Name)
		}
		s.byName[t.Name] = t
	}
	return s, nil
}

// Get returns an archetype template by name, or nil if not found.
func (s *Scenario) Get(name string) *ArchetypeTemplate {
	return s.byName[name]
}

// Each visits templates in file order.
func (s *Scenario) Each(fn func(*ArchetypeTemplate)) {
	for i := range s.ordered {
		fn(&s.ordered[i])
	}
}

// Count returns the number of loaded templates.
func (s *Scenario) Count() int {
	return len(s.ordered)
}

// TotalActors sums the spawn counts across all templates.
func (s *Scenario) TotalActors() int {
	total := 0
	for i := range s.ordered {
		total += s.ordered[i].Count
	}
	return total
}
