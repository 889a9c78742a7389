package evograph

import (
	"errors"
	"slices"
	"testing"

	"github.com/funkwit/pokemon-go-manager/internal/gamedata"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// testGraph builds a small forest:
//
//	1 -> 2 -> 3          (25, 100)
//	10 -> 11 -> 12       (12, 50)
//	133 -> 134|135|136   (25)
//	83                   (no evolutions)
func testGraph(t *testing.T) *Graph {
	t.Helper()
	evolutions := map[types.SpeciesID]types.SpeciesID{
		2: 1, 3: 2,
		11: 10, 12: 11,
		136: 133, 134: 133, 135: 133,
	}
	costs := map[types.SpeciesID]int{
		1: 25, 2: 100,
		10: 12, 11: 50,
		133: 25,
	}
	g, err := New(evolutions, costs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func collect(g *Graph, id types.SpeciesID) []types.SpeciesID {
	var out []types.SpeciesID
	for s := range g.AllDescendants(id) {
		out = append(out, s)
	}
	return out
}

func TestAllDescendants(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		id   types.SpeciesID
		want []types.SpeciesID
	}{
		{1, []types.SpeciesID{1, 2, 3}},
		{2, []types.SpeciesID{2, 3}},
		{3, []types.SpeciesID{3}},
		{133, []types.SpeciesID{133, 134, 135, 136}},
		{83, []types.SpeciesID{83}},
	}
	for _, tt := range tests {
		got := collect(g, tt.id)
		if !slices.Equal(got, tt.want) {
			t.Errorf("AllDescendants(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestAllDescendantsEarlyStop(t *testing.T) {
	g := testGraph(t)
	var got []types.SpeciesID
	for s := range g.AllDescendants(133) {
		got = append(got, s)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 {
		t.Errorf("expected iteration to stop after 2, got %v", got)
	}
}

func TestAllDescendantsNeverRepeats(t *testing.T) {
	tables, err := gamedata.Load("")
	if err != nil {
		t.Fatal(err)
	}
	g, err := New(tables.Evolutions, tables.CandyCosts)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range tables.SpeciesIDs() {
		seen := make(map[types.SpeciesID]bool)
		for s := range g.AllDescendants(id) {
			if seen[s] {
				t.Fatalf("AllDescendants(%d) revisited %d", id, s)
			}
			seen[s] = true
		}
	}
}

func TestTotalCandyToFinalForm(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		id   types.SpeciesID
		want int
	}{
		{1, 125},
		{2, 100},
		{3, 0},
		{10, 62},
		{11, 50},
		{133, 25},
		{134, 0},
		{83, 0},
	}
	for _, tt := range tests {
		if got := g.TotalCandyToFinalForm(tt.id); got != tt.want {
			t.Errorf("TotalCandyToFinalForm(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestPredecessorAndStepCost(t *testing.T) {
	g := testGraph(t)

	if p, ok := g.PredecessorOf(3); !ok || p != 2 {
		t.Errorf("PredecessorOf(3) = %d, %v; want 2, true", p, ok)
	}
	if _, ok := g.PredecessorOf(1); ok {
		t.Error("PredecessorOf(1) should be absent")
	}
	if c, ok := g.StepCost(10); !ok || c != 12 {
		t.Errorf("StepCost(10) = %d, %v; want 12, true", c, ok)
	}
	if _, ok := g.StepCost(3); ok {
		t.Error("StepCost(3) should be absent")
	}
}

func TestSuccessorsSortedAndCopied(t *testing.T) {
	g := testGraph(t)
	succ := g.Successors(133)
	if !slices.Equal(succ, []types.SpeciesID{134, 135, 136}) {
		t.Fatalf("Successors(133) = %v", succ)
	}
	succ[0] = 999
	if g.Successors(133)[0] != 134 {
		t.Error("Successors must return a copy")
	}
}

func TestFamilyOf(t *testing.T) {
	g := testGraph(t)
	for _, id := range []types.SpeciesID{1, 2, 3} {
		if f := g.FamilyOf(id); f != 1 {
			t.Errorf("FamilyOf(%d) = %d, want 1", id, f)
		}
	}
	if f := g.FamilyOf(135); f != 133 {
		t.Errorf("FamilyOf(135) = %d, want 133", f)
	}
}

func TestNewRejectsCycles(t *testing.T) {
	tests := []struct {
		name       string
		evolutions map[types.SpeciesID]types.SpeciesID
	}{
		{"self loop", map[types.SpeciesID]types.SpeciesID{1: 1}},
		{"two cycle", map[types.SpeciesID]types.SpeciesID{1: 2, 2: 1}},
		{"cycle behind a tail", map[types.SpeciesID]types.SpeciesID{5: 4, 4: 3, 3: 2, 2: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.evolutions, map[types.SpeciesID]int{})
			if !errors.Is(err, types.ErrCyclicEvolution) {
				t.Errorf("New() error = %v, want ErrCyclicEvolution", err)
			}
		})
	}
}

func TestEmbeddedTablesBuild(t *testing.T) {
	tables, err := gamedata.Load("")
	if err != nil {
		t.Fatal(err)
	}
	g, err := New(tables.Evolutions, tables.CandyCosts)
	if err != nil {
		t.Fatalf("New on embedded tables: %v", err)
	}
	if got := g.TotalCandyToFinalForm(147); got != 125 {
		t.Errorf("Dratini to Dragonite = %d, want 125", got)
	}
	if got := g.TotalCandyToFinalForm(16); got != 62 {
		t.Errorf("Pidgey to Pidgeot = %d, want 62", got)
	}
}
