package formatter

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable_RowsWithMixedValues(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "ACTION", "ID", "CP")
	tbl.AddRow("release", uint64(42), 310)
	tbl.AddRow("evolve", uint64(7), 1200)
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if got := strings.Fields(lines[2]); len(got) != 3 || got[1] != "42" || got[2] != "310" {
		t.Errorf("row = %q", lines[2])
	}
	if tbl.Rows() != 2 {
		t.Errorf("Rows() = %d, want 2", tbl.Rows())
	}
}

func TestTable_EmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", buf.String())
	}
}

func TestTable_Truncate(t *testing.T) {
	tests := []struct {
		name  string
		width int
		in    string
		want  string
	}{
		{"unlimited", 0, "Charmander (#4)", "Charmander (#4)"},
		{"ellipsis", 8, "Charmander (#4)", "Charm..."},
		{"exact", 5, "Abcde", "Abcde"},
		{"tiny", 2, "Pidgey", "Pi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tbl := NewTable(&buf, "NAME", "X")
			tbl.SetMaxWidth(0, tt.width)
			tbl.AddRow(tt.in, "x")
			if err := tbl.Render(); err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			if got := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(lines[2]), "x")); got != tt.want {
				t.Errorf("cell = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTable_MissingAndExtraValues(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B")
	tbl.AddRow("only")
	tbl.AddRow("one", "two", "three")
	if err := tbl.Render(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "only") || strings.Contains(out, "three") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTable_RuleMatchesHeaderLength(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "SHORT", "LONGHEADER")
	tbl.AddRow("x", "y")
	if err := tbl.Render(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	rule := strings.Fields(lines[1])
	if len(rule) != 2 || rule[0] != "-----" || rule[1] != "----------" {
		t.Errorf("rule = %q", lines[1])
	}
}

func BenchmarkTableRender(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		tbl := NewTable(&buf, "ACTION", "ID", "SPECIES", "CP")
		tbl.SetMaxWidth(2, 24)
		for j := 0; j < 50; j++ {
			tbl.AddRow("release", uint64(j), "Rattata (#19)", j*10)
		}
		_ = tbl.Render()
	}
}
