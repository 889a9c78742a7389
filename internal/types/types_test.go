package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestItemCategory(t *testing.T) {
	tests := []struct {
		item ItemID
		want Category
	}{
		{1, CategoryPokeball},
		{4, CategoryPokeball},
		{100, CategoryPokeball},
		{101, CategoryPotion},
		{104, CategoryPotion},
		{201, CategoryRevive},
		{701, CategoryBerry},
		{ItemCamera, 8},
		{902, 9},
	}
	for _, tt := range tests {
		if got := tt.item.Category(); got != tt.want {
			t.Errorf("ItemID(%d).Category() = %d, want %d", tt.item, got, tt.want)
		}
	}
}

func TestCategoryBounds(t *testing.T) {
	for _, c := range []Category{CategoryPokeball, CategoryPotion, CategoryRevive, CategoryBerry} {
		first, last := c.FirstItem(), c.LastItem()
		if first.Category() != c || last.Category() != c {
			t.Errorf("%s: bounds %d..%d fall outside the category", c, first, last)
		}
		if (first > 1 && (first-1).Category() == c) || (last+1).Category() == c {
			t.Errorf("%s: bounds %d..%d are not tight", c, first, last)
		}
		if int(last-first)+1 != ItemsPerCategory {
			t.Errorf("%s: width %d, want %d", c, last-first+1, ItemsPerCategory)
		}
	}
}

func TestCategoryString(t *testing.T) {
	if got := CategoryBerry.String(); got != "berry" {
		t.Errorf("CategoryBerry.String() = %q", got)
	}
	if got := Category(9).String(); got != "category-9" {
		t.Errorf("Category(9).String() = %q", got)
	}
}

func TestFamilyBase(t *testing.T) {
	if got := FamilyID(133).Base(); got != SpeciesID(133) {
		t.Errorf("FamilyID(133).Base() = %d", got)
	}
}

func TestSentinelErrorsWrap(t *testing.T) {
	sentinels := []error{ErrCyclicEvolution, ErrUnknownSpecies, ErrMissingCandyCost, ErrNotAuthenticated}
	for _, s := range sentinels {
		wrapped := fmt.Errorf("species %d: %w", 42, s)
		if !errors.Is(wrapped, s) {
			t.Errorf("errors.Is(%v, %v) = false", wrapped, s)
		}
		for _, other := range sentinels {
			if other != s && errors.Is(wrapped, other) {
				t.Errorf("%v should not match %v", wrapped, other)
			}
		}
	}
}
