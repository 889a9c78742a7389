package formatter

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/funkwit/pokemon-go-manager/internal/planner"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Plan actions as they appear in exports.
const (
	ActionEvolve   = "evolve"
	ActionFavorite = "favorite"
	ActionUnfavor  = "unfavorite"
	ActionRelease  = "release"
	ActionDiscard  = "discard"
)

// ActionRow is one planned action in flat form.
type ActionRow struct {
	Action  string `json:"action" yaml:"action" csv:"action"`
	ID      uint64 `json:"id,omitempty" yaml:"id,omitempty" csv:"id"`
	Species int    `json:"species,omitempty" yaml:"species,omitempty" csv:"species"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty" csv:"name"`
	CP      int    `json:"cp,omitempty" yaml:"cp,omitempty" csv:"cp"`
	Item    int    `json:"item,omitempty" yaml:"item,omitempty" csv:"item"`
	Count   int    `json:"count,omitempty" yaml:"count,omitempty" csv:"count"`
}

// CandyBalance is the simulated candy left in a family after evolutions.
type CandyBalance struct {
	Family int    `json:"family" yaml:"family"`
	Name   string `json:"name" yaml:"name"`
	Candy  int    `json:"candy" yaml:"candy"`
}

// PlanView is the document form of a plan used by the json, yaml and
// markdown outputs.
type PlanView struct {
	Evolve    []ActionRow    `json:"evolve" yaml:"evolve"`
	Favorites []ActionRow    `json:"favorites" yaml:"favorites"`
	Release   []ActionRow    `json:"release" yaml:"release"`
	Discard   []ActionRow    `json:"discard" yaml:"discard"`
	ToDiscard int            `json:"to_discard" yaml:"to_discard"`
	Candy     []CandyBalance `json:"remaining_candy" yaml:"remaining_candy"`
}

// NewPlanView flattens a plan, naming species through names.
func NewPlanView(plan *planner.Plan, names Namer) *PlanView {
	v := &PlanView{
		Evolve:    []ActionRow{},
		Favorites: []ActionRow{},
		Release:   []ActionRow{},
		Discard:   []ActionRow{},
		Candy:     []CandyBalance{},
		ToDiscard: max(plan.Discard.ToDiscard, 0),
	}
	for _, c := range plan.Evolve {
		v.Evolve = append(v.Evolve, creatureRow(ActionEvolve, c, names))
	}
	for _, f := range plan.Favorites {
		action := ActionFavorite
		if !f.Favorite {
			action = ActionUnfavor
		}
		v.Favorites = append(v.Favorites, creatureRow(action, f.Creature, names))
	}
	for _, c := range plan.Release {
		v.Release = append(v.Release, creatureRow(ActionRelease, c, names))
	}
	for _, d := range plan.Discard.Items {
		v.Discard = append(v.Discard, ActionRow{Action: ActionDiscard, Item: int(d.Item), Count: d.Count})
	}

	families := make([]types.FamilyID, 0, len(plan.RemainingCandy))
	for f := range plan.RemainingCandy {
		families = append(families, f)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })
	for _, f := range families {
		v.Candy = append(v.Candy, CandyBalance{
			Family: int(f),
			Name:   names.Name(f.Base()),
			Candy:  plan.RemainingCandy[f],
		})
	}
	return v
}

func creatureRow(action string, c types.Creature, names Namer) ActionRow {
	return ActionRow{
		Action:  action,
		ID:      c.ID,
		Species: int(c.Species),
		Name:    names.Name(c.Species),
		CP:      c.CP,
	}
}

// Rows returns every action in emission order: evolutions first as a
// record of intent, then discards, favorite changes and releases.
func (v *PlanView) Rows() []ActionRow {
	rows := make([]ActionRow, 0, len(v.Evolve)+len(v.Discard)+len(v.Favorites)+len(v.Release))
	rows = append(rows, v.Evolve...)
	rows = append(rows, v.Discard...)
	rows = append(rows, v.Favorites...)
	rows = append(rows, v.Release...)
	return rows
}

// WritePlan renders plan in the given format.
func WritePlan(w io.Writer, format string, plan *planner.Plan, names Namer) error {
	v := NewPlanView(plan, names)
	switch format {
	case FormatTable, "":
		return writePlanTable(w, v)
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatCSV:
		return WriteCSV(w, v.Rows())
	case FormatJSONL:
		return WriteJSONL(w, v.Rows())
	case FormatMarkdown:
		return writePlanMarkdown(w, v)
	default:
		return unsupported(format)
	}
}

func writePlanTable(w io.Writer, v *PlanView) error {
	//nolint:errcheck // summary line to stdout
	fmt.Fprintf(w, "evolve %s, favorite changes %s, release %s, discard %s items\n\n",
		humanize.Comma(int64(len(v.Evolve))),
		humanize.Comma(int64(len(v.Favorites))),
		humanize.Comma(int64(len(v.Release))),
		humanize.Comma(int64(discardTotal(v.Discard))),
	)

	creatures := NewTable(w, "ACTION", "ID", "SPECIES", "CP")
	creatures.SetMaxWidth(2, 24)
	for _, r := range v.Rows() {
		if r.Action == ActionDiscard {
			continue
		}
		creatures.AddRow(r.Action, r.ID, fmt.Sprintf("%s (#%d)", r.Name, r.Species), r.CP)
	}
	if err := creatures.Render(); err != nil {
		return err
	}

	if len(v.Discard) > 0 {
		if creatures.Rows() > 0 {
			//nolint:errcheck // spacer
			fmt.Fprintln(w)
		}
		items := NewTable(w, "ITEM", "CATEGORY", "COUNT")
		for _, r := range v.Discard {
			items.AddRow(r.Item, types.ItemID(r.Item).Category(), r.Count)
		}
		return items.Render()
	}
	return nil
}

func discardTotal(rows []ActionRow) int {
	n := 0
	for _, r := range rows {
		n += r.Count
	}
	return n
}
