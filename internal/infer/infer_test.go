package infer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

func TestInfer(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		want   FieldType
	}{
		{"sentinels ignored", []string{"null", "", "5", "7.5", "na"}, Float},
		{"integers", []string{"1", " 2 ", "-3"}, Integer},
		{"integral floats", []string{"1.0", "2,0"}, Integer},
		{"comma decimals", []string{"1,5", "2,25"}, Float},
		{"geometry wins", []string{"POINT (30 10)", "12"}, Geometry},
		{"lowercase wkt", []string{"polygon ((0 0, 1 0, 1 1, 0 0))"}, Geometry},
		{"one bad value", []string{"1", "2", "x"}, Text},
		{"all missing", []string{"", "N/A", "None", "NaN"}, Text},
		{"empty", nil, Text},
		{"words", []string{"North", "South"}, Text},
		{"infinity is float", []string{"1", "inf"}, Float},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Infer(tc.values))
		})
	}
}

func TestInfer_SampleLimit(t *testing.T) {
	vals := make([]string, 0, 150)
	for i := 0; i < SampleSize; i++ {
		vals = append(vals, "7")
	}
	vals = append(vals, "not a number")
	assert.Equal(t, Integer, Infer(vals))

	// missing values do not count toward the sample
	vals = append([]string{"", "", "na"}, vals[:SampleSize-1]...)
	vals = append(vals, "x")
	assert.Equal(t, Text, Infer(vals))
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "  ", "NULL", "none", "NaN", "na", "N/A"} {
		assert.True(t, IsMissing(s), s)
	}
	for _, s := range []string{"0", "n", "missing"} {
		assert.False(t, IsMissing(s), s)
	}
}

func TestIsWKT(t *testing.T) {
	assert.True(t, IsWKT("LINESTRING (0 0, 1 1)"))
	assert.True(t, IsWKT("MULTILINESTRING ((0 0, 1 1), (2 2, 3 3))"))
	assert.False(t, IsWKT("12.5"))
	assert.False(t, IsWKT("Point of sale"))
}

func TestParseChoice(t *testing.T) {
	c, err := ParseChoice("Auto")
	require.NoError(t, err)
	assert.True(t, c.Auto)

	c, err = ParseChoice("varchar")
	require.NoError(t, err)
	assert.Equal(t, Choice{Type: Text}, c)

	c, err = ParseChoice("INT")
	require.NoError(t, err)
	assert.Equal(t, Integer, c.Type)

	_, err = ParseChoice("date")
	assert.Error(t, err)
}

func newTable(headers []string, rows ...string) *table.Table {
	t := &table.Table{Headers: headers}
	for _, r := range rows {
		cells := strings.Split(r, "|")
		row := make([]table.Value, len(cells))
		for i, c := range cells {
			row[i] = table.Text(c)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestAutoCast(t *testing.T) {
	tbl := newTable([]string{"id", "share", "name", "blank", "mixed"},
		"1|0,5|A||1",
		"2|null|B||two",
		"na|3|C||3",
	)
	types := AutoCast(tbl)
	assert.Equal(t, []FieldType{Integer, Float, Text, Text, Text}, types)

	assert.Equal(t, table.KindInt, tbl.Rows[0][0].Kind())
	assert.Equal(t, "2", tbl.Rows[1][0].String())
	assert.True(t, tbl.Rows[2][0].IsEmpty())

	assert.Equal(t, table.KindFloat, tbl.Rows[0][1].Kind())
	n, _ := tbl.Rows[0][1].Number()
	assert.Equal(t, 0.5, n)
	assert.True(t, tbl.Rows[1][1].IsEmpty())
	assert.Equal(t, table.KindFloat, tbl.Rows[2][1].Kind())

	assert.Equal(t, table.KindText, tbl.Rows[0][4].Kind())
	assert.Equal(t, "two", tbl.Rows[1][4].String())
}

func TestAutoCast_IntOverflowStaysText(t *testing.T) {
	tbl := newTable([]string{"big"}, "1", "99999999999999999999")
	assert.Equal(t, []FieldType{Integer}, AutoCast(tbl))
	assert.Equal(t, table.KindInt, tbl.Rows[0][0].Kind())
	assert.Equal(t, table.KindText, tbl.Rows[1][0].Kind())
}

func TestInferColumn_AfterCast(t *testing.T) {
	tbl := newTable([]string{"v", "geom"}, "1,5|POINT (1 1)", "2|")
	AutoCast(tbl)
	assert.Equal(t, []FieldType{Float, Geometry}, InferTable(tbl))
}
