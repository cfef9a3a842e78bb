// Package export turns expense records into delimited-text documents.
package export

import (
	"fmt"
	"strings"

	"spendtrack/internal/model"
)

// dateLayout matches the display format used across the app.
const dateLayout = "2 Jan 2006"

// CSV renders entries as comma-separated text: a header row, then one row
// per entry with date, amount, category (or the custom label) and notes.
// Every field is quoted and embedded quotes are doubled, so free-text
// notes can contain commas, quotes and newlines. This is a pure
// transformation with no side effects.
func CSV(entries []model.SpendEntry) string {
	var b strings.Builder

	writeRow(&b, []string{"Date", "Amount", "Category", "Notes"})

	for _, e := range entries {
		category := string(e.Category)
		if e.CustomCategory != "" {
			category = e.CustomCategory
		}

		writeRow(&b, []string{
			e.Timestamp.Format(dateLayout),
			fmt.Sprintf("%g", e.Amount),
			category,
			e.Notes,
		})
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
