package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// CategorySet is a grouping of text values, one group per distinct value.
type CategorySet struct {
	ID         string
	Generation uint64
	Groups     []Group
	// Colors holds manual per-category colors.
	Colors map[string]RGB

	index map[string]int
}

// BuildCategories groups the distinct non-empty trimmed values in byte
// order and assigns evenly spaced hues. Colors from overrides replace the
// generated color of categories that still exist.
func BuildCategories(values []string, gen uint64, overrides map[string]RGB) *CategorySet {
	counts := map[string]int{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		counts[v]++
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	s := &CategorySet{
		ID:         uuid.NewString(),
		Generation: gen,
		Groups:     make([]Group, len(labels)),
		Colors:     map[string]RGB{},
		index:      make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		c := Hue(i, len(labels))
		if oc, ok := overrides[l]; ok {
			c = oc
			s.Colors[l] = oc
		}
		s.Groups[i] = Group{Label: l, Color: c, Count: counts[l]}
		s.index[l] = i
	}
	return s
}

// SetColor replaces the color of one category.
func (s *CategorySet) SetColor(label string, c RGB) error {
	i, ok := s.index[label]
	if !ok {
		return fmt.Errorf("unknown category: %q", label)
	}
	s.Groups[i].Color = c
	s.Colors[label] = c
	return nil
}

// Assign returns the group index for a cell value, or -1.
func (s *CategorySet) Assign(v string) int {
	if i, ok := s.index[strings.TrimSpace(v)]; ok {
		return i
	}
	return -1
}
