// Package planner computes the triage plan for one inventory snapshot:
// creatures to evolve (and therefore favorite), creatures to release, and
// items to discard.
package planner

import (
	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/evograph"
	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Planner is immutable after construction and safe for concurrent use.
type Planner struct {
	cfg     config.Config
	graph   *evograph.Graph
	targets map[types.Category]float64
}

// New creates a planner. The config is copied; later changes to cfg do not
// affect the planner.
func New(cfg *config.Config, graph *evograph.Graph) *Planner {
	c := *cfg
	c.Planner.EasyEvolutions = append([]types.FamilyID(nil), cfg.Planner.EasyEvolutions...)
	return &Planner{
		cfg:     c,
		graph:   graph,
		targets: cfg.Items.Targets(),
	}
}

// Plan is the full set of decisions for one cycle.
type Plan struct {
	Evolve          []types.Creature
	EvolutionCounts map[types.SpeciesID]int
	RemainingCandy  map[types.FamilyID]int
	Favorites       []FavoriteChange
	Release         []types.Creature
	Discard         *DiscardPlan
}

// Plan computes the plan for an inventory. The inventory must already have
// passed validation against the game tables.
func (p *Planner) Plan(inv *inventory.Inventory, limits types.PlayerLimits) *Plan {
	evo := p.PlanEvolutions(inv)
	return &Plan{
		Evolve:          evo.Selected,
		EvolutionCounts: evo.Counts,
		RemainingCandy:  evo.Remaining,
		Favorites:       PlanFavorites(inv, evo),
		Release:         p.PlanCulls(inv, evo),
		Discard:         p.PlanDiscards(inv, limits),
	}
}

// Empty reports whether the plan requires no action.
func (pl *Plan) Empty() bool {
	return len(pl.Favorites) == 0 && len(pl.Release) == 0 && len(pl.Discard.Items) == 0
}

// DiscardTotal returns the number of items the plan discards.
func (pl *Plan) DiscardTotal() int {
	n := 0
	for _, d := range pl.Discard.Items {
		n += d.Count
	}
	return n
}
