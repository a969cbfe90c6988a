package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabmap-cli/internal/infer"
	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Age>30 and City=Boston", `Age > 30 and City == "Boston"`},
		{"Age >= -2.5", `Age >= -2.5`},
		{"Full Name = John Smith", "`Full Name` == \"John Smith\""},
		{"`a=b` != 'x'", "`a=b` != \"x\""},
		{"code = '007'", `code == "007"`},
		{"Город = Москва", `Город == "Москва"`},
		{"a=1 OR b=2 && c=3", `a == 1 or b == 2 and c == 3`},
		{"(a=1 | b=2) & c=3", `(a == 1 or b == 2) and c == 3`},
		{"note = \"say \\\"hi\\\"\"", `note == "say \"hi\""`},
		{"share = 1,5", `share == "1,5"`},
		{"   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Translate(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			again, err := Translate(got)
			require.NoError(t, err)
			assert.Equal(t, got, again, "translation should be stable")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{
		"Age",
		"Age >",
		"> 5",
		"(a = 1",
		"a = 1 and",
		"a = 'open",
		"`col = 1",
		"a = 1 b = 2",
		"a = 1)",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			var se *SyntaxError
			require.Error(t, err)
			assert.True(t, errors.As(err, &se), "want *SyntaxError, got %T", err)
		})
	}
}

func TestParse_Tree(t *testing.T) {
	e, err := Parse("a=1 or b=2 and c=3")
	require.NoError(t, err)
	or, ok := e.(*Or)
	require.True(t, ok)
	and, ok := or.Right.(*And)
	require.True(t, ok)
	assert.Equal(t, "b", and.Left.(*Comparison).Column)
	assert.Equal(t, "c", and.Right.(*Comparison).Column)

	e, err = Parse("order_id = 5")
	require.NoError(t, err)
	assert.Equal(t, "order_id", e.(*Comparison).Column)

	e, err = Parse("name = Anderson and x = 1")
	require.NoError(t, err)
	assert.Equal(t, "Anderson", e.(*And).Left.(*Comparison).Value)
}

var people = struct {
	cols []Column
	rows [][]table.Value
}{
	cols: []Column{{"Name", infer.Text}, {"Age", infer.Integer}, {"City", infer.Text}, {"Score", infer.Text}},
	rows: [][]table.Value{
		{table.Text("Ann"), table.Int(34), table.Text("Boston"), table.Text("7,5")},
		{table.Text("Bob"), table.Int(25), table.Text("Boston"), table.Text("n/a")},
		{table.Text("Cid"), table.Int(41), table.Text("Denver"), table.Text("9")},
		{table.Text("Dee"), table.Text(""), table.Text("Boston"), table.Text("10")},
		{table.Text("Eve"), table.Int(52), table.Text("Boston"), table.Text("3")},
	},
}

func apply(t *testing.T, expr string) []int {
	t.Helper()
	f, err := Compile(expr, people.cols)
	require.NoError(t, err)
	return f.Apply(people.rows)
}

func TestCompile_Matches(t *testing.T) {
	assert.Equal(t, []int{0, 4}, apply(t, "Age>30 and City=Boston"))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, apply(t, ""))
	assert.Equal(t, []int{1, 2, 4}, apply(t, "Age != 34"), "unparseable cells never match")
	assert.Equal(t, []int{2, 3}, apply(t, "Score >= 8"))
	assert.Equal(t, []int{0}, apply(t, "Score = 7.5"))
	assert.Equal(t, []int{2, 4}, apply(t, "City = Denver or Age > 50"))
	assert.Equal(t, []int{1, 2, 3, 4}, apply(t, "Name != Ann"))
	assert.Equal(t, []int{}, apply(t, "Age = abc"), "text fallback on numeric column")
	assert.Equal(t, []int{2}, apply(t, "Score = '9'"))
}

func TestCompile_Idempotent(t *testing.T) {
	expr := "(City = Boston | City = Denver) and Age < 45"
	first := apply(t, expr)
	assert.Equal(t, first, apply(t, expr))

	canon, err := Translate(expr)
	require.NoError(t, err)
	assert.Equal(t, first, apply(t, canon))
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile("Height > 3", people.cols)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Msg, "unknown column")

	_, err = Compile("City > Boston", people.cols)
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Msg, "numeric")

	_, err = Compile("City =", people.cols)
	assert.Error(t, err)
}

func TestCompile_DuplicateHeadersUseFirst(t *testing.T) {
	cols := []Column{{"v", infer.Text}, {"v", infer.Text}}
	rows := [][]table.Value{{table.Text("a"), table.Text("b")}}
	f, err := Compile("v = a", cols)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, f.Apply(rows))
}

func TestFilter_EmptyMatchesAll(t *testing.T) {
	var f *Filter
	assert.True(t, f.Empty())
	assert.True(t, f.Match(nil))
}
