package classify

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// Group is one class of a grouping. Numeric groups use Lower and Upper;
// categorical groups leave them zero and match by Label.
type Group struct {
	Label string
	Lower float64
	Upper float64
	Color RGB
	Count int
}

// Bound is a manual override of one group's range ends.
type Bound struct {
	Lower *float64
	Upper *float64
}

// NumericOptions configures a numeric grouping.
type NumericOptions struct {
	Bins     int
	Integer  bool
	EndColor RGB
	// MaxSamples caps the Jenks input. Zero means DefaultMaxSamples; a
	// negative value disables the cap.
	MaxSamples int
	// Generation identifies the grouping key (field and bin count) that
	// Overrides were recorded against.
	Generation uint64
	Overrides  map[int]Bound
}

// NumericSet is the result of classifying a numeric column into ranges.
// Ranges are half-open except the last, which is closed and ends at the
// observed maximum.
type NumericSet struct {
	ID         string
	Generation uint64
	Integer    bool
	EndColor   RGB
	Sampled    bool
	Groups     []Group
	// Overrides holds the manual bounds still in effect, keyed by group index.
	Overrides map[int]Bound
	// Dropped lists override indices discarded because they no longer fit
	// the rebuilt ranges.
	Dropped []int

	values []float64
	base   []Group
}

// BuildNumeric classifies values into opt.Bins ranges. Integer groupings
// truncate values and round boundaries half to even.
func BuildNumeric(values []float64, opt NumericOptions) *NumericSet {
	s := &NumericSet{
		ID:         uuid.NewString(),
		Generation: opt.Generation,
		Integer:    opt.Integer,
		EndColor:   opt.EndColor,
		Overrides:  map[int]Bound{},
	}
	vals := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if opt.Integer {
			v = math.Trunc(v)
		}
		vals = append(vals, v)
	}
	s.values = vals
	k := opt.Bins
	if len(vals) == 0 || k <= 0 {
		return s
	}
	maxSamples := opt.MaxSamples
	if maxSamples == 0 {
		maxSamples = DefaultMaxSamples
	}
	b, sampled := Breaks(vals, k, maxSamples)
	s.Sampled = sampled
	if opt.Integer {
		for i := range b {
			b[i] = math.RoundToEven(b[i])
		}
	}
	hi, _ := stats.Max(vals)

	base := make([]Group, k)
	for i := range base {
		idx := min(i, len(b)-1)
		lower, upper := b[idx], b[len(b)-1]
		if idx+1 < len(b) {
			upper = b[idx+1]
		}
		if i == k-1 {
			upper = hi
		}
		base[i] = Group{Lower: s.round(lower), Upper: s.round(upper)}
	}
	s.base = base
	s.applyOverrides(opt.Overrides)
	return s
}

// applyOverrides lays manual bounds over the computed ranges. An override
// whose upper bound no longer lies strictly between its group's lower bound
// and the next group's upper bound is dropped, and the rest re-applied.
func (s *NumericSet) applyOverrides(ov map[int]Bound) {
	ups := map[int]float64{}
	// lower bounds always mirror the previous group's upper, so only the
	// upper edits need replaying
	for i, b := range ov {
		if b.Upper == nil {
			continue
		}
		if i >= 0 && i < len(s.base)-1 {
			v := *b.Upper
			if s.Integer {
				v = math.Trunc(v)
			}
			ups[i] = v
		} else {
			s.Dropped = append(s.Dropped, i)
		}
	}
	for {
		groups := append([]Group(nil), s.base...)
		for i, v := range ups {
			groups[i].Upper = v
			groups[i+1].Lower = v
		}
		bad := -1
		for _, i := range sortedKeys(ups) {
			v := ups[i]
			if v <= groups[i].Lower || v >= groups[i+1].Upper {
				bad = i
				break
			}
		}
		if bad < 0 {
			s.Groups = groups
			break
		}
		delete(ups, bad)
		s.Dropped = append(s.Dropped, bad)
	}
	s.Overrides = map[int]Bound{}
	for i, v := range ups {
		s.record(i, v)
	}
	sort.Ints(s.Dropped)
	s.refresh()
}

func (s *NumericSet) record(i int, v float64) {
	up := v
	b := s.Overrides[i]
	b.Upper = &up
	s.Overrides[i] = b
	lo := v
	nb := s.Overrides[i+1]
	nb.Lower = &lo
	s.Overrides[i+1] = nb
}

// EditUpper moves the upper bound of group i, and with it the lower bound
// of group i+1. The last group's upper bound is fixed at the maximum.
func (s *NumericSet) EditUpper(i int, v float64) error {
	n := len(s.Groups)
	if n > 0 && i == n-1 {
		return &BoundError{Index: i, Value: v, Err: ErrFinalBound}
	}
	if i < 0 || i >= n {
		return &BoundError{Index: i, Value: v, Err: ErrBoundIndex}
	}
	if s.Integer {
		v = math.Trunc(v)
	}
	if lo := s.Groups[i].Lower; v <= lo {
		return &BoundError{Index: i, Value: v, Limit: lo, Err: ErrBelowLower}
	}
	if hi := s.Groups[i+1].Upper; v >= hi {
		return &BoundError{Index: i, Value: v, Limit: hi, Err: ErrAboveNext}
	}
	s.Groups[i].Upper = v
	s.Groups[i+1].Lower = v
	s.record(i, v)
	s.refresh()
	return nil
}

// Assign returns the index of the group holding v, or -1. The last group
// also takes values within floating-point tolerance of its upper bound.
// Integer groupings truncate v first, as they do when counting.
func (s *NumericSet) Assign(v float64) int {
	if s.Integer {
		v = math.Trunc(v)
	}
	last := len(s.Groups) - 1
	for i, g := range s.Groups {
		if g.Lower <= v && v < g.Upper {
			return i
		}
		if i == last && isClose(v, g.Upper) {
			return i
		}
	}
	return -1
}

// Format renders a boundary the way labels show it.
func (s *NumericSet) Format(v float64) string {
	if s.Integer {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// refresh recomputes labels, counts and colors from the current bounds.
func (s *NumericSet) refresh() {
	k := len(s.Groups)
	for i := range s.Groups {
		g := &s.Groups[i]
		g.Label = s.Format(g.Lower) + " - " + s.Format(g.Upper)
		g.Color = Gradient(i, k, s.EndColor)
		g.Count = 0
		for _, v := range s.values {
			if g.Lower <= v && (v < g.Upper || (i == k-1 && v <= g.Upper)) {
				g.Count++
			}
		}
	}
}

func (s *NumericSet) round(v float64) float64 {
	if s.Integer {
		return math.RoundToEven(v)
	}
	return v
}

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-8+1e-5*math.Abs(b)
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
