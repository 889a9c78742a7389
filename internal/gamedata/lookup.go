package gamedata

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Suggestion is a species whose name is close to a lookup query.
type Suggestion struct {
	ID       types.SpeciesID
	Name     string
	Distance int
}

// Lookup resolves a query to a species. The query may be a numeric id or a
// case-insensitive name. When nothing matches exactly, ok is false and the
// closest names (by edit distance) are returned as suggestions.
func (t *Tables) Lookup(query string) (types.SpeciesID, []Suggestion, bool) {
	q := strings.TrimSpace(query)
	if n, err := strconv.Atoi(q); err == nil {
		id := types.SpeciesID(n)
		return id, nil, t.Known(id)
	}

	q = strings.ToLower(q)
	for id, name := range t.Names {
		if strings.ToLower(name) == q {
			return id, nil, true
		}
	}

	if len(q) < 3 {
		return 0, nil, false
	}

	var cands []Suggestion
	limit := distanceLimit(len(q))
	for id, name := range t.Names {
		lower := strings.ToLower(name)
		dist := levenshtein.ComputeDistance(q, lower)
		if strings.HasPrefix(lower, q) {
			dist = 0
		}
		if dist > limit {
			continue
		}
		cands = append(cands, Suggestion{ID: id, Name: name, Distance: dist})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Distance == cands[j].Distance {
			return cands[i].ID < cands[j].ID
		}
		return cands[i].Distance < cands[j].Distance
	})
	if len(cands) > 5 {
		cands = cands[:5]
	}
	return 0, cands, false
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
