package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabmap-cli/internal/classify"
	"github.com/KaramelBytes/tabmap-cli/internal/render"
	"github.com/KaramelBytes/tabmap-cli/internal/session"
	"github.com/KaramelBytes/tabmap-cli/internal/utils"
)

var (
	clsMode          string
	clsField         string
	clsBins          int
	clsEndColor      string
	clsSingleColor   string
	clsOpacity       int
	clsMaxSamples    int
	clsFilter        string
	clsColumns       []string
	clsTypes         []string
	clsBounds        []string
	clsCategoryColor []string
	clsWKT           string
	clsLon           string
	clsLat           string
	clsLabel         string
	clsDescribe      []string
	clsFormat        string
	clsOutputPath    string
	clsIndent        bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Group rows of a CSV/XLSX and write a styled layer",
	Long: `Load a table, group its rows into natural-break ranges (numerical), one
group per distinct value (categorical) or a single color, and write the
filtered records as GeoJSON or a Markdown legend.`,
	Example: `  tabmap classify wells.csv --field depth --bins 5 --end-color '#0044aa'
  tabmap classify sites.xlsx --mode categorical --field kind --filter "depth > 10"
  tabmap classify wells.csv --field depth --bound 0=25 --bound 1=80 -o -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := settings()
		s, err := openSession(cmd, path)
		if err != nil {
			return err
		}
		if err := applyColumnSelection(s, clsColumns); err != nil {
			return err
		}
		if err := applyTypes(s, clsTypes); err != nil {
			return err
		}
		if err := applyGeometry(s); err != nil {
			return err
		}

		g, err := groupingFromFlags(cmd, s)
		if err != nil {
			return err
		}
		if err := s.SetGrouping(g); err != nil {
			return err
		}
		if clsFilter != "" {
			if err := s.ApplyFilter(clsFilter); err != nil {
				return err
			}
		}
		if err := applyBounds(s, clsBounds); err != nil {
			return err
		}
		if err := applyCategoryColors(s, clsCategoryColor); err != nil {
			return err
		}
		if err := applyDisplay(cmd, s); err != nil {
			return err
		}

		format := c.OutputFormat
		if cmd.Flags().Changed("format") {
			format = clsFormat
		}
		var buf bytes.Buffer
		var r session.Renderer
		gj := &render.GeoJSON{W: &buf, Indent: clsIndent, Log: logger}
		ext := "geojson"
		switch strings.ToLower(format) {
		case "geojson", "json":
			r = gj
		case "markdown", "md":
			r = &render.Markdown{W: &buf, SampleRows: c.SampleRows}
			ext = "md"
		default:
			return fmt.Errorf("unsupported --format: %s (use geojson or markdown)", format)
		}
		if err := s.Emit(r); err != nil {
			return err
		}

		out := clsOutputPath
		if out == "" {
			out = utils.OutputPath(path, ext)
		}
		if out == "-" {
			_, err := os.Stdout.Write(buf.Bytes())
			return err
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return err
		}
		if r == gj {
			fmt.Printf("✓ Wrote %d features to %s\n", gj.Written, out)
			if gj.Skipped > 0 {
				fmt.Printf("⚠ Warning: %d rows skipped (unreadable geometry)\n", gj.Skipped)
			}
		} else {
			fmt.Printf("✓ Wrote legend to %s\n", out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	f := classifyCmd.Flags()
	f.StringVarP(&clsMode, "mode", "m", "", "grouping mode: numerical | categorical | single (overrides config)")
	f.StringVarP(&clsField, "field", "f", "", "column to group by (default first suitable column)")
	f.IntVarP(&clsBins, "bins", "k", 0, "number of numeric ranges (overrides config)")
	f.StringVar(&clsEndColor, "end-color", "", "last color of the numeric ramp, e.g. '#ff0000'")
	f.StringVar(&clsSingleColor, "single-color", "", "color for single mode")
	f.IntVar(&clsOpacity, "opacity", -1, "fill opacity in percent, 0-100")
	f.IntVar(&clsMaxSamples, "max-samples", 0, "cap on values used for natural breaks (-1 = no cap)")
	f.StringVar(&clsFilter, "filter", "", "filter expression, e.g. \"depth > 10 and kind = well\"")
	f.StringSliceVar(&clsColumns, "columns", nil, "columns to keep, by name or #position (repeatable)")
	f.StringSliceVar(&clsTypes, "type", nil, "column type override: name=auto|integer|float|text|geometry (repeatable)")
	f.StringSliceVar(&clsBounds, "bound", nil, "manual upper bound of a numeric range: index=value (repeatable)")
	f.StringSliceVar(&clsCategoryColor, "category-color", nil, "manual category color: value=#rrggbb (repeatable)")
	f.StringVar(&clsWKT, "wkt", "", "WKT geometry column (default auto-detected)")
	f.StringVar(&clsLon, "lon", "", "longitude column (default auto-detected)")
	f.StringVar(&clsLat, "lat", "", "latitude column (default auto-detected)")
	f.StringVar(&clsLabel, "label", "", "column used as feature name")
	f.StringSliceVar(&clsDescribe, "describe", nil, "columns copied into feature properties (repeatable)")
	f.StringVar(&clsFormat, "format", "geojson", "output format: geojson | markdown")
	f.StringVarP(&clsOutputPath, "output", "o", "", "output path ('-' for stdout; default next to input)")
	f.BoolVar(&clsIndent, "indent", false, "indent GeoJSON output")
}

func groupingFromFlags(cmd *cobra.Command, s *session.Session) (session.Grouping, error) {
	c := settings()
	f := cmd.Flags()
	g := session.DefaultGrouping()

	mode := c.GroupingMode
	if f.Changed("mode") {
		mode = clsMode
	}
	m, err := session.ParseMode(mode)
	if err != nil {
		return g, err
	}
	g.Mode = m

	g.Bins = c.Bins
	if f.Changed("bins") {
		g.Bins = clsBins
	}
	endColor := c.EndColor
	if f.Changed("end-color") {
		endColor = clsEndColor
	}
	if g.EndColor, err = classify.ParseHex(endColor); err != nil {
		return g, err
	}
	g.MaxSamples = c.JenksMaxSamples
	if f.Changed("max-samples") {
		g.MaxSamples = clsMaxSamples
	}
	if g.Field, err = optionalColumn(s, clsField); err != nil {
		return g, err
	}
	return g, nil
}

func applyGeometry(s *session.Session) error {
	if clsWKT == "" && clsLon == "" && clsLat == "" {
		return nil
	}
	wkt, err := optionalColumn(s, clsWKT)
	if err != nil {
		return err
	}
	lon, err := optionalColumn(s, clsLon)
	if err != nil {
		return err
	}
	lat, err := optionalColumn(s, clsLat)
	if err != nil {
		return err
	}
	return s.SetGeometry(session.GeometrySource{WKT: wkt, Lon: lon, Lat: lat})
}

func applyBounds(s *session.Session, pairs []string) error {
	for _, p := range pairs {
		idx, val, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("invalid --bound %q (use index=value)", p)
		}
		i, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return fmt.Errorf("invalid --bound index: %q", idx)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(val, ",", ".")), 64)
		if err != nil {
			return fmt.Errorf("invalid --bound value: %q", val)
		}
		if err := s.EditBound(i, v); err != nil {
			return err
		}
	}
	return nil
}

func applyCategoryColors(s *session.Session, pairs []string) error {
	for _, p := range pairs {
		// split on the last '=' so category values may contain one
		i := strings.LastIndex(p, "=")
		if i < 0 {
			return fmt.Errorf("invalid --category-color %q (use value=#rrggbb)", p)
		}
		col, err := classify.ParseHex(p[i+1:])
		if err != nil {
			return err
		}
		if err := s.SetCategoryColor(strings.TrimSpace(p[:i]), col); err != nil {
			return err
		}
	}
	return nil
}

func applyDisplay(cmd *cobra.Command, s *session.Session) error {
	c := settings()
	f := cmd.Flags()
	d := s.Display()

	single := c.SingleColor
	if f.Changed("single-color") {
		single = clsSingleColor
	}
	col, err := classify.ParseHex(single)
	if err != nil {
		return err
	}
	d.SingleColor = col
	d.Opacity = c.Opacity
	if f.Changed("opacity") {
		d.Opacity = clsOpacity
	}
	if d.LabelField, err = optionalColumn(s, clsLabel); err != nil {
		return err
	}
	d.DescriptionFields = nil
	for _, ref := range clsDescribe {
		i, err := column(s, ref)
		if err != nil {
			return err
		}
		d.DescriptionFields = append(d.DescriptionFields, i)
	}
	return s.SetDisplay(d)
}
