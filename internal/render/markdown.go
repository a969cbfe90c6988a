package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tabmap-cli/internal/session"
)

// Markdown writes a plain-text summary of a layer: schema, grouping legend
// and a few sample records.
type Markdown struct {
	W io.Writer
	// SampleRows caps the records listed; 0 lists none.
	SampleRows int
}

func (m *Markdown) Render(l *session.Layer) error {
	var b strings.Builder
	b.WriteString("[LAYER SUMMARY]\n")
	if l.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", l.Name))
	}
	if len(l.Records) < l.Total {
		b.WriteString(fmt.Sprintf("Records: %d of %d rows\n", len(l.Records), l.Total))
	} else {
		b.WriteString(fmt.Sprintf("Records: %d\n", len(l.Records)))
	}
	if l.Filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s\n", l.Filter))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(l.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range l.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c.Name), c.Type))
		if c.Overridden {
			b.WriteString(" (set)")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[LEGEND]\n")
	if l.Field != "" {
		b.WriteString(fmt.Sprintf("Grouping: %s by %s\n", l.Mode, safeName(l.Field)))
	} else {
		b.WriteString(fmt.Sprintf("Grouping: %s\n", l.Mode))
	}
	counts := make([]int, len(l.Groups))
	for _, r := range l.Records {
		if r.Group >= 0 && r.Group < len(counts) {
			counts[r.Group]++
		}
	}
	for i, g := range l.Groups {
		b.WriteString(fmt.Sprintf("- %s %s (n=%d)\n", g.Color.Hex(), safeVal(g.Label), counts[i]))
	}

	if n := min(m.SampleRows, len(l.Records)); n > 0 {
		b.WriteString("\n[SAMPLE RECORDS]\n")
		for _, r := range l.Records[:n] {
			geom := r.WKT
			if !l.UseWKT {
				geom = r.Lon + " " + r.Lat
			}
			b.WriteString(fmt.Sprintf("- row %d: %s", r.Row+1, safeVal(geom)))
			if r.Label != "" {
				b.WriteString(" | " + safeVal(r.Label))
			}
			if r.Group >= 0 && r.Group < len(l.Groups) {
				b.WriteString(" | " + safeVal(l.Groups[r.Group].Label))
			}
			b.WriteString("\n")
		}
	}
	if _, err := io.WriteString(m.W, b.String()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
