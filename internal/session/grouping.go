package session

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabmap-cli/internal/classify"
	"github.com/KaramelBytes/tabmap-cli/internal/infer"
)

// Mode selects how records are colored.
type Mode int

const (
	ModeSingle Mode = iota
	ModeNumerical
	ModeCategorical
)

func (m Mode) String() string {
	switch m {
	case ModeNumerical:
		return "numerical"
	case ModeCategorical:
		return "categorical"
	default:
		return "single"
	}
}

// ParseMode accepts numerical|numeric, categorical|unique and single.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numerical", "numeric", "ranges":
		return ModeNumerical, nil
	case "categorical", "unique", "categories":
		return ModeCategorical, nil
	case "single", "":
		return ModeSingle, nil
	}
	return ModeSingle, fmt.Errorf("unknown grouping mode: %q (use numerical, categorical or single)", s)
}

// Grouping is the grouping key. Changing Mode, Field or Bins starts a new
// generation and discards manual bounds and category colors.
type Grouping struct {
	Mode Mode
	// Field is the column position; -1 picks the first suitable column.
	Field    int
	Bins     int
	EndColor classify.RGB
	// MaxSamples caps the Jenks input; see classify.NumericOptions.
	MaxSamples int
}

// DefaultGrouping is three numeric ranges on a white to red ramp.
func DefaultGrouping() Grouping {
	return Grouping{Mode: ModeNumerical, Field: -1, Bins: 3, EndColor: classify.DefaultEndColor}
}

// Grouping returns the current grouping key with the resolved field.
func (s *Session) Grouping() Grouping { return s.grouping }

// Generation identifies the current grouping key.
func (s *Session) Generation() uint64 { return s.generation }

// SetGrouping changes the grouping and rebuilds groups from the filtered
// rows. An explicit field must suit the mode: numeric columns for
// numerical grouping, any other column for categorical grouping.
func (s *Session) SetGrouping(g Grouping) error {
	if s.data == nil {
		return ErrNotLoaded
	}
	if g.Mode == ModeNumerical && g.Bins < 1 {
		return fmt.Errorf("bins must be at least 1, got %d", g.Bins)
	}
	if g.Field >= len(s.columns) {
		return fmt.Errorf("column index out of range: %d", g.Field)
	}
	if g.Field >= 0 && !s.suits(g.Mode, g.Field) {
		return fmt.Errorf("column %q (%s) cannot be used for %s grouping", s.columns[g.Field].Name, s.columns[g.Field].Type, g.Mode)
	}
	prev := s.grouping
	s.grouping = g
	if g.Field < 0 {
		s.grouping.Field = prev.Field
		if !s.suits(g.Mode, s.grouping.Field) {
			s.grouping.Field = -1
		}
	}
	s.resolveField()
	if prev.Mode != s.grouping.Mode || prev.Field != s.grouping.Field || prev.Bins != s.grouping.Bins {
		s.bumpGeneration()
	}
	s.state = Classified
	s.rebuild()
	return nil
}

func (s *Session) suits(m Mode, i int) bool {
	if i < 0 || i >= len(s.columns) {
		return false
	}
	switch m {
	case ModeNumerical:
		return s.columns[i].Type.Numeric()
	case ModeCategorical:
		return !s.columns[i].Type.Numeric()
	}
	return true
}

// resolveField replaces an unusable grouping field with the first column
// suiting the mode. It reports whether the field changed.
func (s *Session) resolveField() bool {
	if s.grouping.Mode == ModeSingle || s.suits(s.grouping.Mode, s.grouping.Field) {
		return false
	}
	next := -1
	for i := range s.columns {
		if s.suits(s.grouping.Mode, i) {
			next = i
			break
		}
	}
	if next == s.grouping.Field {
		return false
	}
	s.grouping.Field = next
	s.bumpGeneration()
	return true
}

// rebuild recomputes groups from the filtered rows. Nested calls are no-ops.
func (s *Session) rebuild() {
	if s.rebuilding {
		return
	}
	s.rebuilding = true
	defer func() { s.rebuilding = false }()

	s.numeric, s.categories = nil, nil
	g := s.grouping
	if s.data == nil || g.Field < 0 || g.Mode == ModeSingle {
		return
	}
	switch g.Mode {
	case ModeNumerical:
		vals := make([]float64, 0, len(s.rows))
		for _, r := range s.rows {
			if v, ok := s.data.Rows[r][g.Field].Number(); ok {
				vals = append(vals, v)
			}
		}
		set := classify.BuildNumeric(vals, classify.NumericOptions{
			Bins:       g.Bins,
			Integer:    s.columns[g.Field].Type == infer.Integer,
			EndColor:   g.EndColor,
			MaxSamples: g.MaxSamples,
			Generation: s.generation,
			Overrides:  s.overrides,
		})
		if len(set.Dropped) > 0 {
			s.log.Debug("manual bounds dropped", "groups", set.Dropped)
		}
		if set.Sampled {
			limit := g.MaxSamples
			if limit == 0 {
				limit = classify.DefaultMaxSamples
			}
			s.log.Warn("natural breaks computed on a sample", "values", len(vals), "max_samples", limit)
		}
		s.overrides = set.Overrides
		s.numeric = set
		s.log.Debug("numeric groups built", "field", s.columns[g.Field].Name, "groups", len(set.Groups), "generation", s.generation)
	case ModeCategorical:
		vals := make([]string, 0, len(s.rows))
		for _, r := range s.rows {
			vals = append(vals, s.data.Rows[r][g.Field].String())
		}
		set := classify.BuildCategories(vals, s.generation, s.catColors)
		s.catColors = set.Colors
		s.categories = set
		s.log.Debug("categories built", "field", s.columns[g.Field].Name, "groups", len(set.Groups), "generation", s.generation)
	}
}

// Groups returns the current groups, if any.
func (s *Session) Groups() []classify.Group {
	switch {
	case s.numeric != nil:
		return s.numeric.Groups
	case s.categories != nil:
		return s.categories.Groups
	}
	return nil
}

// Numeric returns the numeric group set, or nil outside numerical mode.
func (s *Session) Numeric() *classify.NumericSet { return s.numeric }

// Categories returns the categorical group set, or nil.
func (s *Session) Categories() *classify.CategorySet { return s.categories }

// EditBound moves the upper bound of numeric group i. Rejected edits leave
// the groups unchanged.
func (s *Session) EditBound(i int, v float64) error {
	if s.numeric == nil {
		return ErrNoGrouping
	}
	if err := s.numeric.EditUpper(i, v); err != nil {
		return err
	}
	s.overrides = s.numeric.Overrides
	s.log.Debug("bound edited", "group", i, "value", v, "generation", s.generation)
	return nil
}

// SetCategoryColor overrides the color of one category.
func (s *Session) SetCategoryColor(label string, c classify.RGB) error {
	if s.categories == nil {
		return fmt.Errorf("no categorical grouping active")
	}
	if err := s.categories.SetColor(label, c); err != nil {
		return err
	}
	s.catColors = s.categories.Colors
	return nil
}
