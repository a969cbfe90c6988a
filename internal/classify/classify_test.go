package classify

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJenks_IsolatesOutlier(t *testing.T) {
	b := Jenks([]float64{1, 2, 3, 4, 5, 6, 7, 8, 100}, 3)
	assert.Equal(t, []float64{1, 4, 8, 100}, b)
	assert.True(t, sort.Float64sAreSorted(b))
}

func TestJenks_Clusters(t *testing.T) {
	vals := []float64{22, 1, 12, 2, 21, 3, 10, 11, 20}
	assert.Equal(t, []float64{1, 3, 12, 22}, Jenks(vals, 3))
	assert.Equal(t, []float64{1, 12, 22}, Jenks(vals, 2))
	assert.Equal(t, []float64{0.5, 2.5, 9.5}, Jenks([]float64{0.5, 1.5, 2.5, 7.5, 8.5, 9.5}, 2))
}

func TestJenks_Edges(t *testing.T) {
	assert.Empty(t, Jenks(nil, 3))
	assert.Empty(t, Jenks([]float64{1, 2}, 0))
	// k is clamped to the number of values
	assert.Equal(t, []float64{1, 1, 2, 3}, Jenks([]float64{3, 1, 2}, 5))
}

func TestBreaks_Fallbacks(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		k      int
		want   []float64
	}{
		{"constant column", []float64{5, 5, 5, 5}, 3, []float64{5, 6}},
		{"constant single class", []float64{5, 5}, 1, []float64{5, 5}},
		{"two distinct values", []float64{0, 10, 0, 10}, 2, []float64{0, 5, 10}},
		{"single class", []float64{1, 2, 3, 4}, 1, []float64{1, 4}},
		{"ties collapse classes", []float64{1, 1, 1, 2, 2, 2, 3}, 3, []float64{1, 5.0 / 3, 7.0 / 3, 3}},
		{"more classes than values", []float64{3, 1, 2}, 5, []float64{1, 1.4, 1.8, 2.2, 2.6, 3}},
		{"jenks result kept", []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}, 3, []float64{1, 4, 8, 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, sampled := Breaks(tc.values, tc.k, DefaultMaxSamples)
			assert.False(t, sampled)
			require.Len(t, got, len(tc.want))
			assert.InDeltaSlice(t, tc.want, got, 1e-9)
		})
	}
}

func TestBreaks_SampleCap(t *testing.T) {
	vals := make([]float64, 0, 600)
	for i := 0; i < 300; i++ {
		vals = append(vals, float64(i%10))
		vals = append(vals, 1000+float64(i%10))
	}
	vals = append(vals, -50, 5000)

	b, sampled := Breaks(vals, 2, 50)
	require.True(t, sampled)
	require.Len(t, b, 3)
	assert.Equal(t, -50.0, b[0])
	assert.Equal(t, 5000.0, b[2])

	_, sampled = Breaks(vals, 2, -1)
	assert.False(t, sampled)

	s := strideSample(vals, 50)
	assert.Len(t, s, 50)
	assert.Equal(t, -50.0, s[0])
	assert.Equal(t, 5000.0, s[49])
	assert.True(t, sort.Float64sAreSorted(s))
}

func TestBuildNumeric_Groups(t *testing.T) {
	s := BuildNumeric([]float64{1, 2, 3, 10, 11, 12, 20, 21, 22}, NumericOptions{Bins: 3, EndColor: RGB{0, 0, 255}})
	require.Len(t, s.Groups, 3)
	assert.NotEmpty(t, s.ID)

	assert.Equal(t, "1.00 - 3.00", s.Groups[0].Label)
	assert.Equal(t, "3.00 - 12.00", s.Groups[1].Label)
	assert.Equal(t, "12.00 - 22.00", s.Groups[2].Label)
	assert.Equal(t, []int{2, 3, 4}, counts(s))
	assert.Equal(t, White, s.Groups[0].Color)
	assert.Equal(t, RGB{127, 127, 255}, s.Groups[1].Color)
	assert.Equal(t, RGB{0, 0, 255}, s.Groups[2].Color)
	assertContiguous(t, s.Groups)
}

func TestBuildNumeric_LastUpperIsMax(t *testing.T) {
	s := BuildNumeric([]float64{0, 0.1, 0.2, 0.9, 1.0, 7.7}, NumericOptions{Bins: 2, EndColor: DefaultEndColor})
	last := s.Groups[len(s.Groups)-1]
	assert.Equal(t, 7.7, last.Upper)
	total := 0
	for _, g := range s.Groups {
		total += g.Count
	}
	assert.Equal(t, 6, total)
}

func TestBuildNumeric_Integer(t *testing.T) {
	s := BuildNumeric([]float64{1.9, 2, 3, 4, 5, 6, 7, 8, 9.7}, NumericOptions{Bins: 2, Integer: true, EndColor: DefaultEndColor})
	require.Len(t, s.Groups, 2)
	for _, g := range s.Groups {
		assert.Equal(t, math.Trunc(g.Lower), g.Lower)
		assert.Equal(t, math.Trunc(g.Upper), g.Upper)
	}
	assert.Equal(t, 9.0, s.Groups[1].Upper)
	assert.Regexp(t, `^\d+ - \d+$`, s.Groups[0].Label)
	assert.Equal(t, 9, s.Groups[0].Count+s.Groups[1].Count)
}

func TestBuildNumeric_ConstantColumn(t *testing.T) {
	s := BuildNumeric([]float64{5, 5, 5, 5}, NumericOptions{Bins: 3, EndColor: DefaultEndColor})
	require.Len(t, s.Groups, 3)
	assert.Equal(t, 5.0, s.Groups[0].Lower)
	assert.Equal(t, 6.0, s.Groups[0].Upper)
	assert.Equal(t, 4, s.Groups[0].Count)
	assertContiguous(t, s.Groups)
}

func TestBuildNumeric_Empty(t *testing.T) {
	s := BuildNumeric([]float64{math.NaN()}, NumericOptions{Bins: 3})
	assert.Empty(t, s.Groups)
	err := s.EditUpper(0, 1)
	assert.ErrorIs(t, err, ErrBoundIndex)
}

func TestEditUpper(t *testing.T) {
	vals := []float64{1, 2, 3, 10, 11, 12, 20, 21, 22}
	s := BuildNumeric(vals, NumericOptions{Bins: 3, EndColor: RGB{0, 0, 255}})
	colors := []RGB{s.Groups[0].Color, s.Groups[1].Color, s.Groups[2].Color}

	// rejected: not below the next group's upper bound
	err := s.EditUpper(0, 12)
	var be *BoundError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, ErrAboveNext)
	assert.Equal(t, 3.0, s.Groups[0].Upper)

	assert.ErrorIs(t, s.EditUpper(0, 1), ErrBelowLower)
	assert.ErrorIs(t, s.EditUpper(2, 30), ErrFinalBound)
	assert.ErrorIs(t, s.EditUpper(7, 5), ErrBoundIndex)
	assert.Equal(t, "1.00 - 3.00", s.Groups[0].Label)

	require.NoError(t, s.EditUpper(0, 10.5))
	assert.Equal(t, 10.5, s.Groups[0].Upper)
	assert.Equal(t, 10.5, s.Groups[1].Lower)
	assert.Equal(t, "1.00 - 10.50", s.Groups[0].Label)
	assert.Equal(t, "10.50 - 12.00", s.Groups[1].Label)
	assert.Equal(t, []int{4, 1, 4}, counts(s))
	assert.Equal(t, colors, []RGB{s.Groups[0].Color, s.Groups[1].Color, s.Groups[2].Color})
	assertContiguous(t, s.Groups)

	require.Contains(t, s.Overrides, 0)
	require.Contains(t, s.Overrides, 1)
	assert.Equal(t, 10.5, *s.Overrides[0].Upper)
	assert.Equal(t, 10.5, *s.Overrides[1].Lower)
}

func TestEditUpper_IntegerTruncates(t *testing.T) {
	s := BuildNumeric([]float64{1, 2, 3, 10, 11, 12, 20, 21, 22}, NumericOptions{Bins: 3, Integer: true})
	require.NoError(t, s.EditUpper(1, 15.8))
	assert.Equal(t, 15.0, s.Groups[1].Upper)
	assert.Equal(t, "3 - 15", s.Groups[1].Label)
}

func TestAssign_IntegerTruncates(t *testing.T) {
	vals := []float64{1, 2, 3, 10, 11, 12, 20, 21, 22.7}
	s := BuildNumeric(vals, NumericOptions{Bins: 3, Integer: true})
	require.Len(t, s.Groups, 3)
	assert.Equal(t, "12 - 22", s.Groups[2].Label)

	assigned := make([]int, len(s.Groups))
	for _, v := range vals {
		i := s.Assign(v)
		require.GreaterOrEqual(t, i, 0, "value %v", v)
		assigned[i]++
	}
	assert.Equal(t, counts(s), assigned)
}

func TestBuildNumeric_IntegerTruncatesReplayedBounds(t *testing.T) {
	vals := []float64{1, 2, 3, 10, 11, 12, 20, 21, 22}
	f := BuildNumeric(vals, NumericOptions{Bins: 3, Generation: 2})
	require.NoError(t, f.EditUpper(0, 10.5))

	s := BuildNumeric(vals, NumericOptions{Bins: 3, Integer: true, Generation: 2, Overrides: f.Overrides})
	assert.Empty(t, s.Dropped)
	assert.Equal(t, 10.0, s.Groups[0].Upper)
	assert.Equal(t, 10.0, s.Groups[1].Lower)
	assert.Equal(t, "1 - 10", s.Groups[0].Label)
	assert.Equal(t, 10.0, *s.Overrides[0].Upper)
	assert.Equal(t, []int{3, 2, 4}, counts(s))
}

func TestBuildNumeric_OverridesSurviveRebuild(t *testing.T) {
	vals := []float64{1, 2, 3, 10, 11, 12, 20, 21, 22}
	s := BuildNumeric(vals, NumericOptions{Bins: 3, Generation: 4})
	require.NoError(t, s.EditUpper(0, 9))

	// same key, narrower data: the edit still fits
	r := BuildNumeric(vals[:8], NumericOptions{Bins: 3, Generation: 4, Overrides: s.Overrides})
	assert.Equal(t, 9.0, r.Groups[0].Upper)
	assert.Equal(t, 9.0, r.Groups[1].Lower)
	assert.Empty(t, r.Dropped)
	assertContiguous(t, r.Groups)

	// data shrinks below the edited bound: the edit is dropped
	d := BuildNumeric([]float64{1, 2, 3, 4, 5, 6}, NumericOptions{Bins: 3, Overrides: s.Overrides})
	assert.Equal(t, []int{0}, d.Dropped)
	assert.Empty(t, d.Overrides)
	assert.NotEqual(t, 9.0, d.Groups[0].Upper)
	assertContiguous(t, d.Groups)
}

func TestAssign(t *testing.T) {
	s := BuildNumeric([]float64{1, 2, 3, 10, 11, 12, 20, 21, 22}, NumericOptions{Bins: 3})
	assert.Equal(t, 0, s.Assign(1))
	assert.Equal(t, 1, s.Assign(3))
	assert.Equal(t, 2, s.Assign(22))
	assert.Equal(t, 2, s.Assign(22.0000000001))
	assert.Equal(t, -1, s.Assign(0))
	assert.Equal(t, -1, s.Assign(23))
}

func TestBuildCategories(t *testing.T) {
	s := BuildCategories([]string{"b", " a", "c", "", "a ", "  ", "b"}, 1, nil)
	require.Len(t, s.Groups, 3)
	assert.Equal(t, "a", s.Groups[0].Label)
	assert.Equal(t, "b", s.Groups[1].Label)
	assert.Equal(t, "c", s.Groups[2].Label)
	assert.Equal(t, 2, s.Groups[0].Count)
	assert.Equal(t, RGB{255, 76, 76}, s.Groups[0].Color)
	assert.Equal(t, RGB{76, 255, 76}, s.Groups[1].Color)
	assert.Equal(t, RGB{76, 76, 255}, s.Groups[2].Color)
	assert.Equal(t, 1, s.Assign(" b"))
	assert.Equal(t, -1, s.Assign("d"))
}

func TestBuildCategories_ColorOverride(t *testing.T) {
	s := BuildCategories([]string{"x", "y"}, 1, nil)
	require.NoError(t, s.SetColor("y", RGB{1, 2, 3}))
	assert.Equal(t, RGB{1, 2, 3}, s.Groups[1].Color)
	assert.Equal(t, Hue(0, 2), s.Groups[0].Color)
	assert.Error(t, s.SetColor("z", White))

	r := BuildCategories([]string{"y", "w"}, 1, s.Colors)
	assert.Equal(t, RGB{1, 2, 3}, r.Groups[1].Color)
	assert.Equal(t, Hue(0, 2), r.Groups[0].Color)
}

func TestColorHelpers(t *testing.T) {
	c, err := ParseHex("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, RGB{255, 128, 0}, c)
	c, err = ParseHex("00FF00")
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", c.Hex())
	_, err = ParseHex("red")
	assert.Error(t, err)

	assert.Equal(t, White, Gradient(0, 1, RGB{0, 0, 0}))
	assert.Equal(t, RGB{170, 170, 255}, Gradient(1, 4, RGB{0, 0, 255}))
	assert.Equal(t, RGB{85, 85, 255}, Gradient(2, 4, RGB{0, 0, 255}))
}

func TestBoundError_Message(t *testing.T) {
	err := &BoundError{Index: 1, Value: 5, Limit: 4, Err: ErrAboveNext}
	assert.Contains(t, err.Error(), "group 1")
	assert.True(t, errors.Is(err, ErrAboveNext))
}

func counts(s *NumericSet) []int {
	out := make([]int, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = g.Count
	}
	return out
}

func assertContiguous(t *testing.T, groups []Group) {
	t.Helper()
	for i := 0; i+1 < len(groups); i++ {
		assert.Equal(t, groups[i].Upper, groups[i+1].Lower, "groups %d/%d", i, i+1)
	}
}
