package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funkwit/pokemon-go-manager/internal/evograph"
	"github.com/funkwit/pokemon-go-manager/internal/formatter"
	"github.com/funkwit/pokemon-go-manager/internal/gamedata"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

var speciesCmd = &cobra.Command{
	Use:   "species <name|id>",
	Short: "Look up a species, its evolution chain and candy costs",
	Long: `Show a species' family, neighbours in the evolution chain and the candy
needed to evolve it. Names are matched case-insensitively; close misspellings
are suggested.

Examples:
  pgm species pidgey
  pgm species 133 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runSpecies,
}

func init() {
	rootCmd.AddCommand(speciesCmd)
}

// speciesRef names a species in lookup output.
type speciesRef struct {
	ID   types.SpeciesID `json:"id" yaml:"id"`
	Name string          `json:"name" yaml:"name"`
}

// speciesInfo is the lookup result for one species.
type speciesInfo struct {
	ID          types.SpeciesID `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Family      speciesRef      `json:"family" yaml:"family"`
	Evolves     *speciesRef     `json:"evolves_from,omitempty" yaml:"evolves_from,omitempty"`
	Successors  []speciesRef    `json:"successors" yaml:"successors"`
	StepCost    int             `json:"step_cost" yaml:"step_cost"`
	CostToFinal int             `json:"cost_to_final" yaml:"cost_to_final"`
	Descendants []speciesRef    `json:"descendants" yaml:"descendants"`
}

func runSpecies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tables, graph, err := loadGame(cfg)
	if err != nil {
		return err
	}

	id, suggestions, ok := tables.Lookup(args[0])
	if !ok {
		if len(suggestions) > 0 {
			fmt.Fprintln(os.Stderr, "Did you mean:")
			for _, s := range suggestions {
				fmt.Fprintf(os.Stderr, "  %s (#%d)\n", s.Name, s.ID)
			}
		}
		return fmt.Errorf("%w: %q", types.ErrUnknownSpecies, args[0])
	}

	info := describeSpecies(tables, graph, id)
	switch cfg.Output {
	case formatter.FormatJSON:
		return formatter.WriteJSON(os.Stdout, info)
	case formatter.FormatYAML:
		return formatter.WriteYAML(os.Stdout, info)
	default:
		writeSpecies(os.Stdout, info)
		return nil
	}
}

func describeSpecies(tables *gamedata.Tables, graph *evograph.Graph, id types.SpeciesID) speciesInfo {
	ref := func(id types.SpeciesID) speciesRef {
		return speciesRef{ID: id, Name: tables.Name(id)}
	}

	info := speciesInfo{
		ID:          id,
		Name:        tables.Name(id),
		Family:      ref(types.SpeciesID(graph.FamilyOf(id))),
		CostToFinal: graph.TotalCandyToFinalForm(id),
		Successors:  []speciesRef{},
		Descendants: []speciesRef{},
	}
	if prev, ok := graph.PredecessorOf(id); ok {
		r := ref(prev)
		info.Evolves = &r
	}
	if cost, ok := graph.StepCost(id); ok {
		info.StepCost = cost
	}
	for _, s := range graph.Successors(id) {
		info.Successors = append(info.Successors, ref(s))
	}
	for _, d := range slices.Sorted(graph.AllDescendants(id)) {
		if d != id {
			info.Descendants = append(info.Descendants, ref(d))
		}
	}
	return info
}

func writeSpecies(w io.Writer, info speciesInfo) {
	fmt.Fprintf(w, "%s (#%d)\n", info.Name, info.ID)
	fmt.Fprintf(w, "  Family:        %s (#%d)\n", info.Family.Name, info.Family.ID)
	if info.Evolves != nil {
		fmt.Fprintf(w, "  Evolves from:  %s (#%d)\n", info.Evolves.Name, info.Evolves.ID)
	}
	if len(info.Successors) == 0 {
		fmt.Fprintln(w, "  Evolves into:  (final form)")
	} else {
		fmt.Fprintf(w, "  Evolves into:  %s\n", joinRefs(info.Successors))
		fmt.Fprintf(w, "  Step cost:     %d candy\n", info.StepCost)
		fmt.Fprintf(w, "  Cost to final: %d candy\n", info.CostToFinal)
	}
	if len(info.Descendants) > len(info.Successors) {
		fmt.Fprintf(w, "  Descendants:   %s\n", joinRefs(info.Descendants))
	}
}

func joinRefs(refs []speciesRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = fmt.Sprintf("%s (#%d)", r.Name, r.ID)
	}
	return strings.Join(parts, ", ")
}
