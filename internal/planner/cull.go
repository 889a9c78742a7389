package planner

import (
	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// PlanCulls decides which creatures to release. Per species, instances
// selected for evolution are always kept and reserve one extra slot each in
// both retention bounds. Of the rest, ranks below minKeep are kept and the
// others are released when their CP falls under the threshold
// (best CP x factor) or their rank reaches maxKeep.
func (p *Planner) PlanCulls(inv *inventory.Inventory, evo *EvolutionPlan) []types.Creature {
	var culled []types.Creature

	for _, species := range inv.SpeciesIDs() {
		list := inv.Creatures[species]
		threshold := float64(list[0].CP) * p.cfg.Planner.CPThresholdFactor
		reserved := evo.Counts[species]
		minKeep := p.cfg.Planner.MinSimilar + reserved
		maxKeep := p.cfg.Planner.MaxSimilar + reserved

		for rank, c := range list {
			if evo.IsSelected(c.ID) || rank < minKeep {
				continue
			}
			if float64(c.CP) < threshold || rank >= maxKeep {
				culled = append(culled, c)
			}
		}
	}

	return culled
}
