// Package gamedata loads the static species tables the planner relies on:
// display names, per-species evolution candy costs, and the evolution
// adjacency (evolved species -> predecessor).
package gamedata

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/funkwit/pokemon-go-manager/embedded"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Tables is the decoded form of a game data file.
type Tables struct {
	// Names maps species id to display name.
	Names map[types.SpeciesID]string `yaml:"names"`

	// CandyCosts maps a species to the candy needed to evolve it one step.
	CandyCosts map[types.SpeciesID]int `yaml:"candy_costs"`

	// Evolutions maps an evolved species to the species it evolves from.
	Evolutions map[types.SpeciesID]types.SpeciesID `yaml:"evolutions"`
}

// Load reads tables from path. An empty path loads the embedded defaults.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Parse(embedded.GameData)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game data: %w", err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes tables from YAML.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if t.Names == nil {
		t.Names = make(map[types.SpeciesID]string)
	}
	if t.CandyCosts == nil {
		t.CandyCosts = make(map[types.SpeciesID]int)
	}
	if t.Evolutions == nil {
		t.Evolutions = make(map[types.SpeciesID]types.SpeciesID)
	}
	return &t, nil
}

// Known reports whether the species has an entry in the name table.
func (t *Tables) Known(id types.SpeciesID) bool {
	_, ok := t.Names[id]
	return ok
}

// Name returns the display name of a species, or "#<id>" when unnamed.
func (t *Tables) Name(id types.SpeciesID) string {
	if n, ok := t.Names[id]; ok {
		return n
	}
	return fmt.Sprintf("#%d", int(id))
}

// SpeciesIDs returns every named species in ascending order.
func (t *Tables) SpeciesIDs() []types.SpeciesID {
	ids := make([]types.SpeciesID, 0, len(t.Names))
	for id := range t.Names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks the tables for internal consistency. Every species
// referenced by the cost or evolution tables must be named, every species
// that something evolves from must carry a positive candy cost. Cycle
// detection happens when the evolution graph is built.
func (t *Tables) Validate() error {
	var errs []error

	for _, id := range sortedKeys(t.CandyCosts) {
		if !t.Known(id) {
			errs = append(errs, fmt.Errorf("candy_costs: species %d: %w", id, types.ErrUnknownSpecies))
		}
		if t.CandyCosts[id] <= 0 {
			errs = append(errs, fmt.Errorf("candy_costs: species %d: cost must be positive, got %d", id, t.CandyCosts[id]))
		}
	}

	for _, child := range sortedKeys(t.Evolutions) {
		parent := t.Evolutions[child]
		if !t.Known(child) {
			errs = append(errs, fmt.Errorf("evolutions: species %d: %w", child, types.ErrUnknownSpecies))
		}
		if !t.Known(parent) {
			errs = append(errs, fmt.Errorf("evolutions: species %d (from %d): %w", parent, child, types.ErrUnknownSpecies))
		}
		if _, ok := t.CandyCosts[parent]; !ok {
			errs = append(errs, fmt.Errorf("evolutions: species %d evolves into %d: %w", parent, child, types.ErrMissingCandyCost))
		}
	}

	return errors.Join(errs...)
}

func sortedKeys[V any](m map[types.SpeciesID]V) []types.SpeciesID {
	keys := make([]types.SpeciesID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
