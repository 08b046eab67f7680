package entities

import (
	"errors"
	"fmt"
)

// RegionSpec describes one region the orchestrator should synthesize.
type RegionSpec struct {
	Name        string `json:"name" yaml:"name"`
	Theme       string `json:"theme" yaml:"theme"`
	Biome       string `json:"biome" yaml:"biome"`
	Description string `json:"description" yaml:"description"`
	GridX       int    `json:"grid_x" yaml:"grid_x"`
	GridY       int    `json:"grid_y" yaml:"grid_y"`
}

// EntitySpec describes one item, NPC, or location the orchestrator should
// synthesize. Rationale records why the upstream planner wanted the entity;
// it is carried through for failure logs and manual retries.
type EntitySpec struct {
	Prompt    string `json:"prompt" yaml:"prompt"`
	Region    string `json:"region" yaml:"region"`
	X         int    `json:"x" yaml:"x"`
	Y         int    `json:"y" yaml:"y"`
	Rationale string `json:"rationale" yaml:"rationale"`
}

// WorldSpec is the orchestrator's input: which regions to build and which
// entities to place where.
type WorldSpec struct {
	Name      string       `json:"name" yaml:"name"`
	Context   string       `json:"context" yaml:"context"`
	Regions   []RegionSpec `json:"regions" yaml:"regions"`
	Locations []EntitySpec `json:"locations" yaml:"locations"`
	NPCs      []EntitySpec `json:"npcs" yaml:"npcs"`
	Items     []EntitySpec `json:"items" yaml:"items"`
}

// Validate checks that the spec is internally consistent: every entity spec
// has a prompt and names a region defined in the spec.
func (s *WorldSpec) Validate() error {
	if len(s.Regions) == 0 {
		return errors.New("world spec has no regions")
	}

	regionNames := make(map[string]bool, len(s.Regions))
	for i, r := range s.Regions {
		if r.Name == "" {
			return fmt.Errorf("region %d has no name", i)
		}
		if regionNames[r.Name] {
			return fmt.Errorf("duplicate region name %q", r.Name)
		}
		regionNames[r.Name] = true
	}

	check := func(kind Kind, specs []EntitySpec) error {
		for i, es := range specs {
			if es.Prompt == "" {
				return fmt.Errorf("%s spec %d has no prompt", kind, i)
			}
			if !regionNames[es.Region] {
				return fmt.Errorf("%s spec %d references unknown region %q", kind, i, es.Region)
			}
		}
		return nil
	}

	if err := check(KindLocation, s.Locations); err != nil {
		return err
	}
	if err := check(KindNPC, s.NPCs); err != nil {
		return err
	}
	return check(KindItem, s.Items)
}
