// Package render serializes classified layers. Renderers own geometry
// parsing; rows whose geometry cannot be read are skipped and counted.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/KaramelBytes/tabmap-cli/internal/infer"
	"github.com/KaramelBytes/tabmap-cli/internal/session"
	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

// GeoJSON writes a layer as a FeatureCollection. Styling uses the
// simplestyle property names (fill, stroke, marker-color, fill-opacity).
type GeoJSON struct {
	W      io.Writer
	Indent bool
	Log    *slog.Logger

	// Written and Skipped are updated by Render.
	Written int
	Skipped int
}

func (g *GeoJSON) Render(l *session.Layer) error {
	log := g.Log
	if log == nil {
		log = slog.Default()
	}
	fc := geojson.NewFeatureCollection()
	g.Written, g.Skipped = 0, 0
	for _, r := range l.Records {
		geom, err := geometry(l.UseWKT, r)
		if err != nil {
			g.Skipped++
			log.Debug("row skipped", "row", r.Row, "err", err)
			continue
		}
		f := geojson.NewFeature(geom)
		f.ID = r.Row
		if r.Label != "" {
			f.Properties["name"] = r.Label
		}
		if r.Group >= 0 && r.Group < len(l.Groups) {
			f.Properties["group"] = l.Groups[r.Group].Label
		}
		if r.Styled {
			hex := r.Color.Hex()
			f.Properties["fill"] = hex
			f.Properties["stroke"] = hex
			f.Properties["marker-color"] = hex
			f.Properties["fill-opacity"] = math.Round(float64(r.Alpha)/255*100) / 100
		}
		for _, d := range r.Description {
			// styling keys win over same-named columns
			if _, taken := f.Properties[d.Name]; !taken {
				f.Properties[d.Name] = d.Value
			}
		}
		fc.Append(f)
		g.Written++
	}
	if g.Skipped > 0 {
		log.Warn("rows without readable geometry skipped", "layer", l.Name, "skipped", g.Skipped)
	}

	var (
		b   []byte
		err error
	)
	if g.Indent {
		b, err = json.MarshalIndent(fc, "", "  ")
	} else {
		b, err = fc.MarshalJSON()
	}
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	if _, err := g.W.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}

func geometry(useWKT bool, r session.Record) (orb.Geometry, error) {
	if useWKT {
		g, err := infer.ParseWKT(r.WKT)
		if err != nil {
			return nil, err
		}
		b := g.Bound()
		if !finite(b.Min[0], b.Min[1], b.Max[0], b.Max[1]) {
			return nil, fmt.Errorf("non-finite coordinates in %q", r.WKT)
		}
		return g, nil
	}
	lon, ok := table.ParseNumber(r.Lon)
	if !ok || !finite(lon) {
		return nil, fmt.Errorf("invalid longitude %q", r.Lon)
	}
	lat, ok := table.ParseNumber(r.Lat)
	if !ok || !finite(lat) {
		return nil, fmt.Errorf("invalid latitude %q", r.Lat)
	}
	return orb.Point{lon, lat}, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
