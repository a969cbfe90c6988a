package infer

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKT decodes a well-known-text literal. Keywords are matched case
// insensitively.
func ParseWKT(s string) (orb.Geometry, error) {
	return wkt.Unmarshal(strings.ToUpper(strings.TrimSpace(s)))
}

// IsWKT reports whether s decodes to a supported geometry kind.
func IsWKT(s string) bool {
	g, err := ParseWKT(s)
	if err != nil || g == nil {
		return false
	}
	switch g.(type) {
	case orb.Point, orb.LineString, orb.Polygon, orb.MultiPoint,
		orb.MultiLineString, orb.MultiPolygon, orb.Collection:
		return true
	}
	return false
}
