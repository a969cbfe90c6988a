package infer

import (
	"fmt"
	"strings"
)

// FieldType is the semantic type of a column.
type FieldType int

const (
	Text FieldType = iota
	Integer
	Float
	Geometry
)

func (t FieldType) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Geometry:
		return "Geometry"
	default:
		return "Text"
	}
}

// Numeric reports whether the type holds numbers.
func (t FieldType) Numeric() bool { return t == Integer || t == Float }

// Choice is a user type selection for a column: Auto or a fixed type.
type Choice struct {
	Auto bool
	Type FieldType
}

// ParseChoice parses a type name as typed on the command line or in config.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return Choice{Auto: true}, nil
	case "int", "integer":
		return Choice{Type: Integer}, nil
	case "float", "double", "real":
		return Choice{Type: Float}, nil
	case "text", "varchar", "string":
		return Choice{Type: Text}, nil
	case "geometry", "geom", "wkt":
		return Choice{Type: Geometry}, nil
	default:
		return Choice{}, fmt.Errorf("unknown field type: %q (use auto, integer, float, text, geometry)", s)
	}
}
