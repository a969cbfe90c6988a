package session

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/tabmap-cli/internal/classify"
)

var (
	ErrNoRecords  = errors.New("no rows to emit")
	ErrNoGeometry = errors.New("no geometry columns selected")
)

// Display holds the styling that does not affect grouping.
type Display struct {
	SingleColor classify.RGB
	// Opacity of filled shapes in percent, 0 to 100.
	Opacity int
	// LabelField is the column used as record name; -1 for none.
	LabelField        int
	DescriptionFields []int
}

// DefaultDisplay returns red single color at full opacity.
func DefaultDisplay() Display {
	return Display{SingleColor: classify.DefaultSingleColor, Opacity: 100, LabelField: -1}
}

// Display returns the current display settings.
func (s *Session) Display() Display { return s.display }

// SetDisplay validates and stores display settings.
func (s *Session) SetDisplay(d Display) error {
	if d.Opacity < 0 || d.Opacity > 100 {
		return fmt.Errorf("opacity must be between 0 and 100, got %d", d.Opacity)
	}
	if d.LabelField >= len(s.columns) {
		return fmt.Errorf("column index out of range: %d", d.LabelField)
	}
	for _, i := range d.DescriptionFields {
		if i < 0 || i >= len(s.columns) {
			return fmt.Errorf("column index out of range: %d", i)
		}
	}
	d.DescriptionFields = append([]int(nil), d.DescriptionFields...)
	s.display = d
	return nil
}

// Field is a named value shown in a record description.
type Field struct {
	Name  string
	Value string
}

// Record is one emitted row. Geometry text is passed through unparsed.
type Record struct {
	Row int
	WKT string
	Lon string
	Lat string
	// Group is the index into Layer.Groups, or -1.
	Group int
	// Styled is false when the record keeps the renderer's default style.
	Styled      bool
	Color       classify.RGB
	Alpha       uint8
	Label       string
	Description []Field
}

// Layer is everything a Renderer needs to write one output.
type Layer struct {
	Name    string
	Columns []Column
	Filter  string
	// Total is the row count before filtering.
	Total   int
	Mode    Mode
	Field   string
	UseWKT  bool
	Groups  []classify.Group
	Records []Record
}

// Renderer serializes a layer to some output format.
type Renderer interface {
	Render(l *Layer) error
}

// Layer assembles records for the filtered rows. In grouped modes rows with
// an empty grouping cell are left out.
func (s *Session) Layer() (*Layer, error) {
	if s.data == nil {
		return nil, ErrNotLoaded
	}
	if len(s.rows) == 0 {
		return nil, ErrNoRecords
	}
	if !s.geometry.Valid() {
		return nil, ErrNoGeometry
	}
	g := s.grouping
	l := &Layer{
		Name:    s.data.Name,
		Columns: s.Columns(),
		Filter:  s.filterExpr,
		Total:   s.data.Len(),
		Mode:    g.Mode,
		UseWKT:  s.geometry.UsesWKT(),
		Groups:  s.Groups(),
	}
	grouped := g.Mode != ModeSingle && g.Field >= 0
	if grouped {
		l.Field = s.columns[g.Field].Name
	}
	alpha := uint8(255 * s.display.Opacity / 100)
	l.Records = make([]Record, 0, len(s.rows))
	for _, r := range s.rows {
		row := s.data.Rows[r]
		if grouped && row[g.Field].IsEmpty() {
			continue
		}
		rec := Record{Row: r, Group: -1, Alpha: alpha}
		if s.geometry.UsesWKT() {
			rec.WKT = row[s.geometry.WKT].String()
		} else {
			rec.Lon = row[s.geometry.Lon].String()
			rec.Lat = row[s.geometry.Lat].String()
		}
		switch {
		case g.Mode == ModeNumerical && s.numeric != nil:
			if v, ok := row[g.Field].Number(); ok {
				rec.Group = s.numeric.Assign(v)
			}
		case g.Mode == ModeCategorical && s.categories != nil:
			rec.Group = s.categories.Assign(row[g.Field].String())
		}
		if rec.Group >= 0 {
			rec.Styled, rec.Color = true, l.Groups[rec.Group].Color
		} else if g.Mode == ModeSingle {
			rec.Styled, rec.Color = true, s.display.SingleColor
		}
		if s.display.LabelField >= 0 {
			rec.Label = row[s.display.LabelField].String()
		}
		for _, i := range s.display.DescriptionFields {
			rec.Description = append(rec.Description, Field{Name: s.columns[i].Name, Value: row[i].String()})
		}
		l.Records = append(l.Records, rec)
	}
	return l, nil
}

// Emit builds the layer and hands it to r.
func (s *Session) Emit(r Renderer) error {
	l, err := s.Layer()
	if err != nil {
		return err
	}
	return r.Render(l)
}
