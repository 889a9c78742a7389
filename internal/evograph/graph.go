// Package evograph provides read-only lookups over the evolution forest:
// successors, predecessors, descendant traversal and candy costs along a
// species' evolution chain.
package evograph

import (
	"fmt"
	"iter"
	"sort"

	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Graph is an immutable evolution forest. It is safe for concurrent use.
type Graph struct {
	forward  map[types.SpeciesID][]types.SpeciesID
	backward map[types.SpeciesID]types.SpeciesID
	costs    map[types.SpeciesID]int
	toFinal  map[types.SpeciesID]int
}

// New builds a graph from an evolved->predecessor table and a per-species
// step cost table. Successor lists are sorted ascending so traversal order
// is deterministic. A table containing a cycle is rejected with
// types.ErrCyclicEvolution.
func New(evolutions map[types.SpeciesID]types.SpeciesID, costs map[types.SpeciesID]int) (*Graph, error) {
	g := &Graph{
		forward:  make(map[types.SpeciesID][]types.SpeciesID),
		backward: make(map[types.SpeciesID]types.SpeciesID, len(evolutions)),
		costs:    make(map[types.SpeciesID]int, len(costs)),
		toFinal:  make(map[types.SpeciesID]int),
	}

	for child, parent := range evolutions {
		g.forward[parent] = append(g.forward[parent], child)
		g.backward[child] = parent
	}
	for parent := range g.forward {
		succ := g.forward[parent]
		sort.Slice(succ, func(i, j int) bool { return succ[i] < succ[j] })
	}
	for id, c := range costs {
		g.costs[id] = c
	}

	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	g.memoizeCosts()
	return g, nil
}

// checkAcyclic follows every predecessor chain. Each species has at most one
// predecessor, so a chain that revisits a species is a cycle.
func (g *Graph) checkAcyclic() error {
	done := make(map[types.SpeciesID]bool)
	for start := range g.backward {
		if done[start] {
			continue
		}
		seen := map[types.SpeciesID]bool{start: true}
		cur := start
		for {
			parent, ok := g.backward[cur]
			if !ok || done[parent] {
				break
			}
			if seen[parent] {
				return fmt.Errorf("species %d: %w", parent, types.ErrCyclicEvolution)
			}
			seen[parent] = true
			cur = parent
		}
		for id := range seen {
			done[id] = true
		}
	}
	return nil
}

// memoizeCosts computes the candy needed to reach the final form for every
// species with a step cost. Chains are walked iteratively along the first
// successor and reuse already computed suffixes.
func (g *Graph) memoizeCosts() {
	for id := range g.costs {
		if _, ok := g.toFinal[id]; ok {
			continue
		}

		var chain []types.SpeciesID
		visited := make(map[types.SpeciesID]bool)
		cur := id
		total := 0
		for {
			if v, ok := g.toFinal[cur]; ok {
				total = v
				break
			}
			_, hasCost := g.costs[cur]
			succ := g.forward[cur]
			if !hasCost || len(succ) == 0 || visited[cur] {
				break
			}
			visited[cur] = true
			chain = append(chain, cur)
			cur = succ[0]
		}

		for i := len(chain) - 1; i >= 0; i-- {
			total += g.costs[chain[i]]
			g.toFinal[chain[i]] = total
		}
	}
}

// AllDescendants yields id followed by every species reachable from it,
// depth-first. No species is yielded twice.
func (g *Graph) AllDescendants(id types.SpeciesID) iter.Seq[types.SpeciesID] {
	return func(yield func(types.SpeciesID) bool) {
		visited := make(map[types.SpeciesID]bool)
		stack := []types.SpeciesID{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			if !yield(cur) {
				return
			}
			succ := g.forward[cur]
			for i := len(succ) - 1; i >= 0; i-- {
				if !visited[succ[i]] {
					stack = append(stack, succ[i])
				}
			}
		}
	}
}

// TotalCandyToFinalForm returns the candy needed to evolve id step by step
// along its first successor until no further evolution is possible. It is 0
// for terminal species.
func (g *Graph) TotalCandyToFinalForm(id types.SpeciesID) int {
	return g.toFinal[id]
}

// StepCost returns the candy needed to evolve id one step.
func (g *Graph) StepCost(id types.SpeciesID) (int, bool) {
	c, ok := g.costs[id]
	return c, ok
}

// PredecessorOf returns the species id evolves from.
func (g *Graph) PredecessorOf(id types.SpeciesID) (types.SpeciesID, bool) {
	p, ok := g.backward[id]
	return p, ok
}

// Successors returns the direct evolutions of id in ascending order.
func (g *Graph) Successors(id types.SpeciesID) []types.SpeciesID {
	succ := g.forward[id]
	out := make([]types.SpeciesID, len(succ))
	copy(out, succ)
	return out
}

// FamilyOf returns the family a species belongs to, i.e. the base species
// at the root of its predecessor chain.
func (g *Graph) FamilyOf(id types.SpeciesID) types.FamilyID {
	cur := id
	for {
		p, ok := g.backward[cur]
		if !ok {
			return types.FamilyID(cur)
		}
		cur = p
	}
}
