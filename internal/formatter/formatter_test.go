package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/funkwit/pokemon-go-manager/internal/planner"
	"github.com/funkwit/pokemon-go-manager/internal/storage"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

type names map[types.SpeciesID]string

func (n names) Name(id types.SpeciesID) string {
	if s, ok := n[id]; ok {
		return s
	}
	return "?"
}

var testNames = names{16: "Pidgey", 17: "Pidgeotto", 19: "Rattata"}

func samplePlan() *planner.Plan {
	return &planner.Plan{
		Evolve: []types.Creature{{ID: 2, Species: 17, CP: 400}},
		Favorites: []planner.FavoriteChange{
			{Creature: types.Creature{ID: 2, Species: 17, CP: 400}, Favorite: true},
			{Creature: types.Creature{ID: 9, Species: 16, CP: 15}, Favorite: false},
		},
		Release:        []types.Creature{{ID: 4, Species: 19, CP: 20}},
		RemainingCandy: map[types.FamilyID]int{19: 3, 16: 10},
		Discard: &planner.DiscardPlan{
			ToDiscard: 71,
			Items:     []planner.Discard{{Item: 1, Count: 70}, {Item: 2, Count: 1}},
		},
	}
}

func emptyPlan() *planner.Plan {
	return &planner.Plan{Discard: &planner.DiscardPlan{ToDiscard: -40}}
}

func TestNewPlanView(t *testing.T) {
	v := NewPlanView(samplePlan(), testNames)

	if len(v.Evolve) != 1 || v.Evolve[0].Name != "Pidgeotto" {
		t.Errorf("Evolve = %+v", v.Evolve)
	}
	if v.Favorites[0].Action != ActionFavorite || v.Favorites[1].Action != ActionUnfavor {
		t.Errorf("Favorites = %+v", v.Favorites)
	}
	if len(v.Candy) != 2 || v.Candy[0].Family != 16 || v.Candy[0].Name != "Pidgey" {
		t.Errorf("Candy = %+v, want sorted by family", v.Candy)
	}

	rows := v.Rows()
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		order = append(order, r.Action)
	}
	want := "evolve discard discard favorite unfavorite release"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("row order = %q, want %q", got, want)
	}

	if v := NewPlanView(emptyPlan(), testNames); v.ToDiscard != 0 {
		t.Errorf("ToDiscard = %d, want negative excess clamped to 0", v.ToDiscard)
	}
}

func TestWritePlanFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{FormatTable, func(t *testing.T, out string) {
			for _, s := range []string{"discard 71 items", "Rattata (#19)", "pokeball", "unfavorite"} {
				if !strings.Contains(out, s) {
					t.Errorf("table missing %q:\n%s", s, out)
				}
			}
		}},
		{FormatJSON, func(t *testing.T, out string) {
			var v PlanView
			if err := json.Unmarshal([]byte(out), &v); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if v.ToDiscard != 71 || len(v.Release) != 1 || v.Release[0].ID != 4 {
				t.Errorf("decoded = %+v", v)
			}
		}},
		{FormatYAML, func(t *testing.T, out string) {
			var v PlanView
			if err := yaml.Unmarshal([]byte(out), &v); err != nil {
				t.Fatalf("invalid YAML: %v", err)
			}
			if len(v.Discard) != 2 || v.Discard[0].Count != 70 {
				t.Errorf("decoded = %+v", v)
			}
		}},
		{FormatCSV, func(t *testing.T, out string) {
			lines := strings.Split(strings.TrimSpace(out), "\n")
			if lines[0] != "action,id,species,name,cp,item,count" {
				t.Errorf("header = %q", lines[0])
			}
			if len(lines) != 7 {
				t.Errorf("got %d lines, want header + 6 rows:\n%s", len(lines), out)
			}
			if !strings.HasPrefix(lines[6], "release,4,19,Rattata,20") {
				t.Errorf("last row = %q", lines[6])
			}
		}},
		{FormatJSONL, func(t *testing.T, out string) {
			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(lines) != 6 {
				t.Fatalf("got %d lines, want 6", len(lines))
			}
			var row ActionRow
			if err := json.Unmarshal([]byte(lines[1]), &row); err != nil {
				t.Fatal(err)
			}
			if row.Action != ActionDiscard || row.Item != 1 || row.Count != 70 {
				t.Errorf("row = %+v", row)
			}
		}},
		{FormatMarkdown, func(t *testing.T, out string) {
			for _, s := range []string{"# Inventory plan", "## Release", "| 4 | Rattata (#19) | 20 |", "## Discard (71 over the cap)", "| 1 | pokeball | 70 |"} {
				if !strings.Contains(out, s) {
					t.Errorf("markdown missing %q:\n%s", s, out)
				}
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePlan(&buf, tt.format, samplePlan(), testNames); err != nil {
				t.Fatalf("WritePlan: %v", err)
			}
			tt.check(t, buf.String())
		})
	}
}

func TestWritePlanEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePlan(&buf, FormatMarkdown, emptyPlan(), testNames); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Nothing to do.") {
		t.Errorf("markdown = %q", buf.String())
	}

	buf.Reset()
	if err := WritePlan(&buf, FormatCSV, emptyPlan(), testNames); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "action,id,species,name,cp,item,count" {
		t.Errorf("csv = %q, want header only", buf.String())
	}
}

func TestWritePlanUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePlan(&buf, "xml", samplePlan(), testNames); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteHistory(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []storage.CycleRecord{
		{
			ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
			StartedAt: now.Add(-3 * time.Hour),
			Duration:  2340 * time.Millisecond,
			Creatures: 1250,
			Evolve:    4,
			Release:   12,
			Discarded: 1500,
		},
		{
			ID:        "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			StartedAt: now.Add(-26 * time.Hour),
			Error:     "fetch inventory: connection refused",
		},
	}

	var buf bytes.Buffer
	if err := WriteHistory(&buf, FormatTable, records, now); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"0f8fad5b", "3 hours ago", "1,250", "1,500", "ok", "connection refused"} {
		if !strings.Contains(out, s) {
			t.Errorf("table missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "469f") {
		t.Errorf("ids should be shortened:\n%s", out)
	}

	buf.Reset()
	if err := WriteHistory(&buf, FormatJSON, records, now); err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0]["started_at"] != "2024-06-01T09:00:00Z" || rows[0]["duration"] != "2.34s" {
		t.Errorf("json rows = %v", rows)
	}

	buf.Reset()
	if err := WriteHistory(&buf, FormatCSV, records, now); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "id,started_at,duration,") {
		t.Errorf("csv = %q", buf.String())
	}
}

func TestWriteReplay(t *testing.T) {
	results := []ReplayResult{
		{File: "a.json", Creatures: 10, Evolve: 1, Release: 2, Discard: 3},
		{File: "b.json", Error: "parsing snapshot b.json: unexpected EOF"},
	}

	var buf bytes.Buffer
	if err := WriteReplay(&buf, FormatJSONL, results); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], `"error":"parsing snapshot`) {
		t.Errorf("jsonl = %q", buf.String())
	}

	buf.Reset()
	if err := WriteReplay(&buf, FormatTable, results); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "a.json") || !strings.Contains(buf.String(), "unexpected EOF") {
		t.Errorf("table = %q", buf.String())
	}
}
