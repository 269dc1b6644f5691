package grid

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// WriteCSV writes a header line built from the column labels followed by one
// line per row. Lines are separated by "\n" with no trailing newline. Fields
// containing a comma, quote or line break are quoted with embedded quotes
// doubled.
//
// An empty rows slice writes nothing. The returned count is the number of
// data rows written.
func WriteCSV(w io.Writer, cols []Column, rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSV(c.HeaderLabel()))
	}

	for _, row := range rows {
		b.WriteByte('\n')
		for i, c := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(Stringify(row[c.Key])))
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(rows), nil
}

// ExportFilename returns "<dataset>_<YYYY-MM-DD>.csv" for the UTC date of at.
func ExportFilename(dataset string, at time.Time) string {
	return fmt.Sprintf("%s_%s.csv", dataset, at.UTC().Format(time.DateOnly))
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
