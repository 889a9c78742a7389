package formatter

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/funkwit/pokemon-go-manager/internal/storage"
)

// historyRow is the export form of a cycle record.
type historyRow struct {
	ID        string `json:"id" yaml:"id" csv:"id"`
	StartedAt string `json:"started_at" yaml:"started_at" csv:"started_at"`
	Duration  string `json:"duration" yaml:"duration" csv:"duration"`
	Creatures int    `json:"creatures" yaml:"creatures" csv:"creatures"`
	Evolve    int    `json:"evolve" yaml:"evolve" csv:"evolve"`
	Release   int    `json:"release" yaml:"release" csv:"release"`
	Favorites int    `json:"favorites" yaml:"favorites" csv:"favorites"`
	Discarded int    `json:"discarded" yaml:"discarded" csv:"discarded"`
	Failed    int    `json:"failed" yaml:"failed" csv:"failed"`
	DryRun    bool   `json:"dry_run" yaml:"dry_run" csv:"dry_run"`
	Snapshot  string `json:"snapshot,omitempty" yaml:"snapshot,omitempty" csv:"snapshot"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty" csv:"error"`
}

// WriteHistory renders cycle records. Table output shows start times
// relative to now.
func WriteHistory(w io.Writer, format string, records []storage.CycleRecord, now time.Time) error {
	rows := make([]historyRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, historyRow{
			ID:        r.ID,
			StartedAt: r.StartedAt.UTC().Format(time.RFC3339),
			Duration:  r.Duration.Round(time.Millisecond).String(),
			Creatures: r.Creatures,
			Evolve:    r.Evolve,
			Release:   r.Release,
			Favorites: r.Favorites,
			Discarded: r.Discarded,
			Failed:    r.Failed,
			DryRun:    r.DryRun,
			Snapshot:  r.SnapshotDigest,
			Error:     r.Error,
		})
	}

	switch format {
	case FormatTable, "", FormatMarkdown:
		t := NewTable(w, "ID", "STARTED", "DURATION", "CREATURES", "EVOLVE", "RELEASE", "FAVORITES", "DISCARDED", "STATUS")
		t.SetMaxWidth(8, 40)
		for _, r := range records {
			t.AddRow(
				shortID(r.ID),
				humanize.RelTime(r.StartedAt, now, "ago", "from now"),
				r.Duration.Round(time.Millisecond),
				humanize.Comma(int64(r.Creatures)),
				r.Evolve, r.Release, r.Favorites,
				humanize.Comma(int64(r.Discarded)),
				status(r),
			)
		}
		return t.Render()
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatYAML:
		return WriteYAML(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSONL:
		return WriteJSONL(w, rows)
	default:
		return unsupported(format)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func status(r storage.CycleRecord) string {
	switch {
	case r.Error != "":
		return r.Error
	case r.DryRun:
		return "dry-run"
	case r.Failed > 0:
		return humanize.Comma(int64(r.Failed)) + " failed"
	default:
		return "ok"
	}
}
