// Package session holds the state of one loaded table as it moves through
// type inference, grouping and filtering, and emits classified records to a
// Renderer.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/KaramelBytes/tabmap-cli/internal/classify"
	"github.com/KaramelBytes/tabmap-cli/internal/filter"
	"github.com/KaramelBytes/tabmap-cli/internal/infer"
	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

// State is the pipeline stage of a session.
type State int

const (
	Unloaded State = iota
	Loaded
	Classified
	Filtered
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Classified:
		return "classified"
	case Filtered:
		return "filtered"
	default:
		return "unloaded"
	}
}

var (
	ErrNotLoaded  = errors.New("no table loaded")
	ErrNoColumns  = errors.New("no columns selected")
	ErrNoGrouping = errors.New("no numeric grouping active")
)

// Column is one selected column with its current type.
type Column struct {
	Name string
	Type infer.FieldType
	// Overridden is set when the type was chosen by the user.
	Overridden bool
}

// Session owns every piece of derived state for one table. It is not safe
// for concurrent use.
type Session struct {
	ID  string
	log *slog.Logger

	state    State
	full     *table.Table
	data     *table.Table
	selected []int
	columns  []Column

	filterExpr string
	rows       []int

	grouping   Grouping
	generation uint64
	numeric    *classify.NumericSet
	categories *classify.CategorySet
	overrides  map[int]classify.Bound
	catColors  map[string]classify.RGB

	display  Display
	geometry GeometrySource

	rebuilding bool
}

// New returns an empty session. A nil logger uses slog.Default().
func New(log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	s := &Session{ID: uuid.NewString()}
	s.log = log.With("session", s.ID[:8])
	s.grouping = DefaultGrouping()
	s.display = DefaultDisplay()
	s.geometry = GeometrySource{WKT: -1, Lon: -1, Lat: -1}
	return s
}

func (s *Session) State() State { return s.state }

// Table returns the loaded table restricted to the selected columns.
func (s *Session) Table() *table.Table { return s.data }

// Columns returns a copy of the selected columns.
func (s *Session) Columns() []Column { return append([]Column(nil), s.columns...) }

// Rows returns the indexes of rows passing the current filter.
func (s *Session) Rows() []int { return append([]int(nil), s.rows...) }

// Filter returns the active filter expression.
func (s *Session) Filter() string { return s.filterExpr }

// FieldIndex returns the position of the first selected column named name.
func (s *Session) FieldIndex(name string) int {
	for i, c := range s.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Load reads src and resets all derived state. On failure the session is
// left as it was.
func (s *Session) Load(src table.RowSource) error {
	t, err := src.Read()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	cast := infer.AutoCast(t)
	s.full = t
	s.selected = make([]int, t.Width())
	for i := range s.selected {
		s.selected[i] = i
	}
	s.log.Debug("table loaded", "name", t.Name, "rows", t.Len(), "columns", t.Width(), "cast", castSummary(t.Headers, cast))
	s.resetView(t)
	return nil
}

// SelectColumns restricts the session to the given positions of the loaded
// table. Types are inferred again and the filter is cleared.
func (s *Session) SelectColumns(positions []int) error {
	if s.full == nil {
		return ErrNotLoaded
	}
	if len(positions) == 0 {
		return ErrNoColumns
	}
	t, err := s.full.Project(positions)
	if err != nil {
		return err
	}
	s.selected = append([]int(nil), positions...)
	s.resetView(t)
	return nil
}

func (s *Session) resetView(t *table.Table) {
	s.data = t
	types := infer.InferTable(t)
	s.columns = make([]Column, t.Width())
	for i, h := range t.Headers {
		s.columns[i] = Column{Name: h, Type: types[i]}
	}
	s.filterExpr = ""
	s.rows = allRows(t.Len())
	s.state = Loaded
	s.grouping.Field = -1
	s.display.LabelField = -1
	s.display.DescriptionFields = nil
	s.geometry = GeometrySource{WKT: -1, Lon: -1, Lat: -1}
	s.bumpGeneration()
	s.resolveField()
	s.autoSelectGeometry()
	s.rebuild()
}

// SetFieldType overrides the type of column i, or re-infers it from the
// full data when choice is Auto. Groups on that column are rebuilt.
func (s *Session) SetFieldType(i int, choice infer.Choice) error {
	if s.data == nil {
		return ErrNotLoaded
	}
	if i < 0 || i >= len(s.columns) {
		return fmt.Errorf("column index out of range: %d", i)
	}
	c := &s.columns[i]
	if choice.Auto {
		c.Type = infer.InferColumn(s.data, i)
		c.Overridden = false
	} else {
		c.Type = choice.Type
		c.Overridden = true
	}
	s.log.Debug("field type set", "column", c.Name, "type", c.Type, "auto", choice.Auto)
	if s.resolveField() || s.grouping.Field == i {
		s.rebuild()
	}
	return nil
}

// ApplyFilter compiles expr against the selected columns and regroups the
// matching rows. A blank expression clears the filter. On error the
// previous filter stays in effect.
func (s *Session) ApplyFilter(expr string) error {
	if s.data == nil {
		return ErrNotLoaded
	}
	cols := make([]filter.Column, len(s.columns))
	for i, c := range s.columns {
		cols[i] = filter.Column{Name: c.Name, Type: c.Type}
	}
	f, err := filter.Compile(strings.TrimSpace(expr), cols)
	if err != nil {
		return err
	}
	s.filterExpr = strings.TrimSpace(expr)
	s.rows = f.Apply(s.data.Rows)
	s.state = Filtered
	s.log.Debug("filter applied", "expr", s.filterExpr, "matched", len(s.rows), "total", s.data.Len())
	s.rebuild()
	return nil
}

func (s *Session) bumpGeneration() {
	s.generation++
	s.overrides = nil
	s.catColors = nil
}

func allRows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func castSummary(headers []string, types []infer.FieldType) string {
	var parts []string
	for i, t := range types {
		if t.Numeric() {
			parts = append(parts, headers[i]+"="+t.String())
		}
	}
	return strings.Join(parts, ",")
}
