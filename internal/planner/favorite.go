package planner

import (
	"sort"

	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// FavoriteChange toggles the favorite flag of one creature.
type FavoriteChange struct {
	Creature types.Creature
	Favorite bool
}

// PlanFavorites marks exactly the creatures selected for evolution as
// favorites. Only creatures whose current flag differs from the desired one
// produce a change, in ascending instance id order.
func PlanFavorites(inv *inventory.Inventory, evo *EvolutionPlan) []FavoriteChange {
	ids := make([]uint64, 0, len(inv.ByID))
	for id := range inv.ByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var changes []FavoriteChange
	for _, id := range ids {
		c := inv.ByID[id]
		want := evo.IsSelected(id)
		if want != c.Favorite {
			changes = append(changes, FavoriteChange{Creature: c, Favorite: want})
		}
	}
	return changes
}
