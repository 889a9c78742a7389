package formatter

import (
	"io"

	"github.com/gocarina/gocsv"
)

// WriteCSV writes rows with a header line derived from their csv tags.
// An empty slice still produces the header.
func WriteCSV[T any](w io.Writer, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	return gocsv.Marshal(&rows, w)
}
