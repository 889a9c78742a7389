// Package types defines the domain values shared by the inventory planner:
// species and family identifiers, creature instances, items and their
// categories, and the player limits reported by the game client.
package types

import "fmt"

// SpeciesID identifies a creature species (the national dex number).
type SpeciesID int

// FamilyID identifies an evolution family. Candy is tracked per family and a
// family is keyed by the id of its base species.
type FamilyID int

// Base returns the base species of the family.
func (f FamilyID) Base() SpeciesID {
	return SpeciesID(f)
}

// ItemID identifies an item type (e.g. 1 = Poke Ball, 101 = Potion).
type ItemID int

// Category groups item types that share a discard-proportion target.
type Category int

// Item categories tracked by the discard planner. Other categories
// (incense, lures, incubators, the camera) are never discarded.
const (
	CategoryPokeball Category = 0
	CategoryPotion   Category = 1
	CategoryRevive   Category = 2
	CategoryBerry    Category = 7
)

// ItemsPerCategory is the width of an item-id block belonging to one category.
const ItemsPerCategory = 100

// ItemCamera is always held by the player but never listed in the inventory.
const ItemCamera ItemID = 801

// Category returns the category an item type belongs to.
func (id ItemID) Category() Category {
	return Category((int(id) - 1) / ItemsPerCategory)
}

// FirstItem returns the lowest (weakest) item id in the category.
func (c Category) FirstItem() ItemID {
	return ItemID(int(c)*ItemsPerCategory + 1)
}

// LastItem returns the highest item id in the category.
func (c Category) LastItem() ItemID {
	return ItemID(int(c)*ItemsPerCategory + ItemsPerCategory)
}

func (c Category) String() string {
	switch c {
	case CategoryPokeball:
		return "pokeball"
	case CategoryPotion:
		return "potion"
	case CategoryRevive:
		return "revive"
	case CategoryBerry:
		return "berry"
	default:
		return fmt.Sprintf("category-%d", int(c))
	}
}

// Creature is one caught creature instance. Instances are immutable for the
// duration of a planning cycle.
type Creature struct {
	// ID is the unique instance id assigned by the game.
	ID uint64 `json:"id" csv:"id"`

	// Species is the species this instance belongs to.
	Species SpeciesID `json:"species" csv:"species"`

	// CP is the combat power used for ranking.
	CP int `json:"cp" csv:"cp"`

	// Favorite reports whether the instance is currently favorited.
	Favorite bool `json:"favorite" csv:"favorite"`
}

// PlayerLimits holds the per-player capacities reported by the client.
type PlayerLimits struct {
	MaxItemStorage int `json:"max_item_storage" yaml:"max_item_storage"`
}
