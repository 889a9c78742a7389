package planner

import (
	"math"
	"sort"

	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Discard is a single item discard call.
type Discard struct {
	Item  types.ItemID `json:"item_id" yaml:"item_id"`
	Count int          `json:"count" yaml:"count"`
}

// DiscardPlan is the outcome of item discard planning.
type DiscardPlan struct {
	// ToDiscard is total items + buffer - storage cap. Nothing is discarded
	// unless it is positive.
	ToDiscard int

	// Allotments is the rounded share of ToDiscard per category.
	Allotments map[types.Category]int

	// Items lists the discard calls, category by category.
	Items []Discard
}

// PlanDiscards decides which items to discard to get back under the
// storage cap minus the configured buffer.
func (p *Planner) PlanDiscards(inv *inventory.Inventory, limits types.PlayerLimits) *DiscardPlan {
	toDiscard, allot := Allocate(inv.CategoryCounts(), inv.TotalItems(), p.targets, limits.MaxItemStorage, p.cfg.Items.Buffer)
	plan := &DiscardPlan{ToDiscard: toDiscard, Allotments: allot}

	for _, cat := range sortedCategories(allot) {
		remaining := allot[cat]
		for id := cat.FirstItem(); id <= cat.LastItem() && remaining > 0; id++ {
			n := min(remaining, inv.Items[id])
			if n > 0 {
				plan.Items = append(plan.Items, Discard{Item: id, Count: n})
			}
			remaining -= n
		}
	}

	return plan
}

// Allocate splits the excess over the storage cap across tracked
// categories. Each category's ideal count is its target share of the room
// left after the buffer and the untracked items; categories above their
// ideal receive a share of toDiscard proportional to their excess, rounded
// half up. The allotments are empty when toDiscard is not positive.
func Allocate(counts map[types.Category]int, total int, targets map[types.Category]float64, maxStorage, buffer int) (int, map[types.Category]int) {
	toDiscard := total + buffer - maxStorage
	allot := make(map[types.Category]int)
	if toDiscard <= 0 {
		return toDiscard, allot
	}

	tracked := 0
	for cat := range targets {
		tracked += counts[cat]
	}
	idealCount := float64(maxStorage - buffer - (total - tracked))

	excess := make(map[types.Category]float64)
	excessTotal := 0.0
	for cat, share := range targets {
		e := float64(counts[cat]) - share*idealCount
		if e > 0 {
			excess[cat] = e
			excessTotal += e
		}
	}
	if excessTotal <= 0 {
		return toDiscard, allot
	}

	for cat, e := range excess {
		allot[cat] = int(math.Floor(0.5 + e/excessTotal*float64(toDiscard)))
	}
	return toDiscard, allot
}

func sortedCategories(m map[types.Category]int) []types.Category {
	cats := make([]types.Category, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
