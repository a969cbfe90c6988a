package infer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

var (
	intPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern = regexp.MustCompile(`^-?\d+(?:[.,]\d+)?$`)
)

// AutoCast scans every column of t and converts columns that hold only
// numbers and missing sentinels to native int or float cells. Missing cells
// in converted columns become empty text. Mixed columns are left untouched.
// It returns the detected type per column (Text for columns not converted).
func AutoCast(t *table.Table) []FieldType {
	out := make([]FieldType, t.Width())
	for c := range out {
		out[c] = castColumn(t, c)
	}
	return out
}

func castColumn(t *table.Table, c int) FieldType {
	isInt, seen := true, false
	for _, row := range t.Rows {
		v := row[c]
		if v.Kind() != table.KindText {
			if v.Kind() == table.KindFloat {
				isInt = false
			}
			seen = true
			continue
		}
		s := strings.TrimSpace(v.String())
		if IsMissing(s) {
			continue
		}
		s = strings.ReplaceAll(s, ",", ".")
		switch {
		case intPattern.MatchString(s):
		case floatPattern.MatchString(s):
			isInt = false
		default:
			return Text
		}
		seen = true
	}
	if !seen {
		return Text
	}
	for _, row := range t.Rows {
		v := row[c]
		if v.Kind() != table.KindText {
			continue
		}
		s := strings.TrimSpace(v.String())
		if IsMissing(s) {
			row[c] = table.Text("")
			continue
		}
		s = strings.ReplaceAll(s, ",", ".")
		if isInt {
			// values beyond int64 stay as text
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				row[c] = table.Int(i)
			}
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			row[c] = table.Float(f)
		}
	}
	if isInt {
		return Integer
	}
	return Float
}
