// Package infer classifies raw column values into semantic field types and
// promotes purely numeric columns to native numeric storage.
package infer

import (
	"math"
	"strings"

	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

// SampleSize is the number of non-missing values examined per column.
const SampleSize = 100

var missingValues = map[string]struct{}{
	"":     {},
	"null": {},
	"none": {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
}

// IsMissing reports whether s is a missing-value sentinel, ignoring case and
// surrounding whitespace.
func IsMissing(s string) bool {
	_, ok := missingValues[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Infer classifies a column from its raw string values.
func Infer(values []string) FieldType {
	return inferSample(sample(values, SampleSize))
}

// InferColumn classifies column i of t using the rendered cell text, so
// re-inference also works on columns that were already auto-cast.
func InferColumn(t *table.Table, i int) FieldType {
	vals := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		vals[r] = row[i].String()
	}
	return Infer(vals)
}

// InferTable classifies every column of t.
func InferTable(t *table.Table) []FieldType {
	out := make([]FieldType, t.Width())
	for i := range out {
		out[i] = InferColumn(t, i)
	}
	return out
}

func sample(values []string, n int) []string {
	out := make([]string, 0, min(len(values), n))
	for _, v := range values {
		s := strings.TrimSpace(v)
		if IsMissing(s) {
			continue
		}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}

func inferSample(vals []string) FieldType {
	if len(vals) == 0 {
		return Text
	}
	for _, v := range vals {
		if IsWKT(v) {
			return Geometry
		}
	}
	integer := true
	for _, v := range vals {
		f, ok := table.ParseNumber(v)
		if !ok {
			return Text
		}
		if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			integer = false
		}
	}
	if integer {
		return Integer
	}
	return Float
}
