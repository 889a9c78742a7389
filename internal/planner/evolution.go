package planner

import (
	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// EvolutionPlan is the outcome of the evolution passes.
type EvolutionPlan struct {
	// Selected lists the creatures to evolve in selection order.
	Selected []types.Creature

	// Counts is the number of selected creatures per species.
	Counts map[types.SpeciesID]int

	// Remaining is the simulated candy balance left per family.
	Remaining map[types.FamilyID]int

	selected map[uint64]bool
}

// IsSelected reports whether the creature instance was selected.
func (e *EvolutionPlan) IsSelected(id uint64) bool {
	return e.selected[id]
}

func (e *EvolutionPlan) add(c types.Creature) {
	e.selected[c.ID] = true
	e.Selected = append(e.Selected, c)
	e.Counts[c.Species]++
}

// PlanEvolutions decides which creatures to evolve. Every family with a
// candy record runs three passes in order against one shared balance:
//
//  1. fill missing evolutions: for each species of the family with no caught
//     instance, select the best instance of its predecessor if the step is
//     affordable;
//  2. push base forms to their final form at the cumulative chain cost;
//  3. for easy-evolution families, farm base forms at the single-step cost.
//
// Passes 2 and 3 walk the base species by descending CP and stop at the
// first instance they cannot afford.
func (p *Planner) PlanEvolutions(inv *inventory.Inventory) *EvolutionPlan {
	plan := &EvolutionPlan{
		Counts:    make(map[types.SpeciesID]int),
		Remaining: make(map[types.FamilyID]int, len(inv.Candies)),
		selected:  make(map[uint64]bool),
	}

	for _, family := range inv.FamilyIDs() {
		balance := inv.Candies[family]
		balance = p.fillMissing(inv, family, balance, plan)

		base := family.Base()
		if _, ok := p.graph.StepCost(base); ok {
			balance = p.greedyWalk(inv.Creatures[base], p.graph.TotalCandyToFinalForm(base), balance, plan)
		}
		if p.cfg.Planner.IsEasyEvolution(family) {
			if step, ok := p.graph.StepCost(base); ok {
				balance = p.greedyWalk(inv.Creatures[base], step, balance, plan)
			}
		}

		plan.Remaining[family] = balance
	}

	return plan
}

// fillMissing runs the first pass for one family and returns the balance left.
func (p *Planner) fillMissing(inv *inventory.Inventory, family types.FamilyID, balance int, plan *EvolutionPlan) int {
	for species := range p.graph.AllDescendants(family.Base()) {
		if len(inv.Creatures[species]) > 0 {
			continue
		}
		pre, ok := p.graph.PredecessorOf(species)
		if !ok {
			continue
		}
		cost, ok := p.graph.StepCost(pre)
		if !ok || cost > balance {
			continue
		}
		for _, c := range inv.Creatures[pre] {
			if plan.IsSelected(c.ID) {
				continue
			}
			plan.add(c)
			balance -= cost
			break
		}
	}
	return balance
}

// greedyWalk selects creatures in rank order at a fixed cost each until the
// balance no longer covers the cost.
func (p *Planner) greedyWalk(creatures []types.Creature, cost, balance int, plan *EvolutionPlan) int {
	if cost <= 0 {
		return balance
	}
	for _, c := range creatures {
		if plan.IsSelected(c.ID) {
			continue
		}
		if cost > balance {
			break
		}
		plan.add(c)
		balance -= cost
	}
	return balance
}
