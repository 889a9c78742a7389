// Package inventory turns a raw inventory listing into the typed collections
// the planners work from: creatures grouped by species and ranked by CP,
// candy per family, and item counts per item type.
package inventory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Record is one entry of a raw inventory listing. Exactly one of the fields
// is expected to be set; records with none set are ignored.
type Record struct {
	Creature *CreatureRecord `json:"pokemon_data,omitempty"`
	Candy    *CandyRecord    `json:"candy,omitempty"`
	Item     *ItemRecord     `json:"item,omitempty"`
}

// CreatureRecord describes a caught creature or, when CP is absent, an egg.
type CreatureRecord struct {
	ID       uint64          `json:"id"`
	Species  types.SpeciesID `json:"pokemon_id,omitempty"`
	CP       *int            `json:"cp,omitempty"`
	Favorite int             `json:"favorite,omitempty"`
}

// CandyRecord holds the candy balance of one family.
type CandyRecord struct {
	Family types.FamilyID `json:"family_id"`
	Amount int            `json:"candy,omitempty"`
}

// ItemRecord holds the count of one item type.
type ItemRecord struct {
	ID    types.ItemID `json:"item_id"`
	Count int          `json:"count,omitempty"`
}

// Inventory is the parsed form of one snapshot.
type Inventory struct {
	// Creatures maps species to its caught instances, highest CP first.
	Creatures map[types.SpeciesID][]types.Creature

	// ByID indexes every caught creature by instance id.
	ByID map[uint64]types.Creature

	// Candies maps family to candy balance.
	Candies map[types.FamilyID]int

	// Items maps item type to count.
	Items map[types.ItemID]int

	// Eggs counts creature records without CP.
	Eggs int

	// Ignored counts records of an unrecognized shape.
	Ignored int
}

// Parse builds an Inventory from raw records. Creatures of a species are
// sorted by descending CP, ties keep listing order. The camera, which the
// game never lists, is injected with a count of one.
func Parse(records []Record) *Inventory {
	inv := &Inventory{
		Creatures: make(map[types.SpeciesID][]types.Creature),
		ByID:      make(map[uint64]types.Creature),
		Candies:   make(map[types.FamilyID]int),
		Items:     make(map[types.ItemID]int),
	}

	for _, rec := range records {
		switch {
		case rec.Creature != nil:
			c := rec.Creature
			if c.CP == nil {
				inv.Eggs++
				continue
			}
			creature := types.Creature{
				ID:       c.ID,
				Species:  c.Species,
				CP:       *c.CP,
				Favorite: c.Favorite != 0,
			}
			inv.Creatures[c.Species] = append(inv.Creatures[c.Species], creature)
			inv.ByID[c.ID] = creature
		case rec.Candy != nil:
			inv.Candies[rec.Candy.Family] += rec.Candy.Amount
		case rec.Item != nil:
			inv.Items[rec.Item.ID] = rec.Item.Count
		default:
			inv.Ignored++
		}
	}

	for species := range inv.Creatures {
		list := inv.Creatures[species]
		sort.SliceStable(list, func(i, j int) bool { return list[i].CP > list[j].CP })
	}

	inv.Items[types.ItemCamera] = 1
	return inv
}

// TotalItems returns the sum of all item counts.
func (inv *Inventory) TotalItems() int {
	total := 0
	for _, n := range inv.Items {
		total += n
	}
	return total
}

// CategoryCounts sums item counts per category.
func (inv *Inventory) CategoryCounts() map[types.Category]int {
	counts := make(map[types.Category]int)
	for id, n := range inv.Items {
		counts[id.Category()] += n
	}
	return counts
}

// CreatureCount returns the number of caught creatures.
func (inv *Inventory) CreatureCount() int {
	return len(inv.ByID)
}

// SpeciesIDs returns the species with at least one caught instance, ascending.
func (inv *Inventory) SpeciesIDs() []types.SpeciesID {
	ids := make([]types.SpeciesID, 0, len(inv.Creatures))
	for id, list := range inv.Creatures {
		if len(list) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FamilyIDs returns the families with a candy record, ascending.
func (inv *Inventory) FamilyIDs() []types.FamilyID {
	ids := make([]types.FamilyID, 0, len(inv.Candies))
	for id := range inv.Candies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Catalog reports which species the game tables describe.
type Catalog interface {
	Known(id types.SpeciesID) bool
}

// Validate checks that every creature species and candy family in the
// inventory is described by the catalog. It must pass before planning.
func (inv *Inventory) Validate(catalog Catalog) error {
	var errs []error
	for _, id := range inv.SpeciesIDs() {
		if !catalog.Known(id) {
			errs = append(errs, fmt.Errorf("creature species %d: %w", id, types.ErrUnknownSpecies))
		}
	}
	for _, id := range inv.FamilyIDs() {
		if !catalog.Known(id.Base()) {
			errs = append(errs, fmt.Errorf("candy family %d: %w", id, types.ErrUnknownSpecies))
		}
	}
	return errors.Join(errs...)
}
