package session

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/KaramelBytes/tabmap-cli/internal/infer"
)

// GeometrySource names the columns records take their location from:
// either a WKT column, or a longitude/latitude pair. Unset positions are -1.
type GeometrySource struct {
	WKT int
	Lon int
	Lat int
}

// UsesWKT reports whether the WKT column is the active source.
func (g GeometrySource) UsesWKT() bool { return g.WKT >= 0 }

// Valid reports whether a complete source is configured.
func (g GeometrySource) Valid() bool { return g.WKT >= 0 || (g.Lon >= 0 && g.Lat >= 0) }

var (
	wktNames = set("wkt", "geom", "geometry", "thegeom", "shape", "geomwkt",
		"geometrywkt", "geometria", "геометрия", "геом")
	latNames = set("lat", "latitude", "y", "ycoord", "ycoordinate", "latwgs84",
		"latwgs", "широта", "широты", "latdeg", "latdd", "коордy", "yкоорд", "coordy")
	lonNames = set("lon", "long", "longitude", "lng", "x", "xcoord", "xcoordinate",
		"lonwgs84", "lonwgs", "долгота", "долготы", "долг", "londeg", "коордx",
		"xкоорд", "coordx")
)

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// NormalizeFieldName keeps Latin and Cyrillic letters and digits, lower cased.
func NormalizeFieldName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я', r == 'ё', r == 'Ё':
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Geometry returns the current geometry source.
func (s *Session) Geometry() GeometrySource { return s.geometry }

// SetGeometry selects the geometry columns explicitly.
func (s *Session) SetGeometry(g GeometrySource) error {
	for _, i := range []int{g.WKT, g.Lon, g.Lat} {
		if i >= len(s.columns) {
			return fmt.Errorf("column index out of range: %d", i)
		}
	}
	if !g.Valid() {
		return fmt.Errorf("geometry needs a WKT column or both longitude and latitude columns")
	}
	s.geometry = g
	return nil
}

// autoSelectGeometry picks the first Geometry-typed or WKT-named column.
// Without one it looks for a longitude and a latitude column by name.
func (s *Session) autoSelectGeometry() {
	for i, c := range s.columns {
		if _, ok := wktNames[NormalizeFieldName(c.Name)]; ok || c.Type == infer.Geometry {
			s.geometry = GeometrySource{WKT: i, Lon: -1, Lat: -1}
			s.log.Debug("geometry column selected", "wkt", c.Name)
			return
		}
	}
	lon, lat := -1, -1
	for i, c := range s.columns {
		n := NormalizeFieldName(c.Name)
		if _, ok := lonNames[n]; ok && lon < 0 {
			lon = i
		}
		if _, ok := latNames[n]; ok && lat < 0 {
			lat = i
		}
	}
	if lon >= 0 && lat >= 0 {
		s.geometry = GeometrySource{WKT: -1, Lon: lon, Lat: lat}
		s.log.Debug("coordinate columns selected", "lon", s.columns[lon].Name, "lat", s.columns[lat].Name)
	}
}
