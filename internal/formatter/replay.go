package formatter

import "io"

// ReplayResult is the outcome of planning one snapshot file offline.
type ReplayResult struct {
	File      string `json:"file" yaml:"file" csv:"file"`
	Digest    string `json:"digest,omitempty" yaml:"digest,omitempty" csv:"digest"`
	Creatures int    `json:"creatures" yaml:"creatures" csv:"creatures"`
	Evolve    int    `json:"evolve" yaml:"evolve" csv:"evolve"`
	Favorites int    `json:"favorites" yaml:"favorites" csv:"favorites"`
	Release   int    `json:"release" yaml:"release" csv:"release"`
	Discard   int    `json:"discard" yaml:"discard" csv:"discard"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty" csv:"error"`
}

// WriteReplay renders replay results. JSON lines is the natural format for
// large batches; one object per snapshot.
func WriteReplay(w io.Writer, format string, results []ReplayResult) error {
	switch format {
	case FormatJSONL:
		return WriteJSONL(w, results)
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatYAML:
		return WriteYAML(w, results)
	case FormatCSV:
		return WriteCSV(w, results)
	case FormatTable, "", FormatMarkdown:
		t := NewTable(w, "FILE", "CREATURES", "EVOLVE", "FAVORITES", "RELEASE", "DISCARD", "STATUS")
		t.SetMaxWidth(0, 48)
		for _, r := range results {
			status := "ok"
			if r.Error != "" {
				status = r.Error
			}
			t.AddRow(r.File, r.Creatures, r.Evolve, r.Favorites, r.Release, r.Discard, status)
		}
		return t.Render()
	default:
		return unsupported(format)
	}
}
