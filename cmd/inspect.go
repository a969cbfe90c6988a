package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/tabmap-cli/internal/session"
	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

var (
	insJobs  int
	insQuiet bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Show inferred column types, geometry columns and default groups",
	Long: `Inspect one or more CSV/XLSX files (glob patterns allowed). Files are
loaded concurrently, each in its own session; reports print in file order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		reports := make([]string, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		jobs := insJobs
		if jobs <= 0 {
			jobs = runtime.NumCPU()
		}
		g.SetLimit(jobs)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				s, err := openSession(cmd, path)
				if err != nil {
					return err
				}
				report := inspectReport(path, s)
				if strings.EqualFold(filepath.Ext(path), ".xlsx") {
					if sheets, err := table.SheetNames(path); err == nil {
						report += "\n\nSheets: " + strings.Join(sheets, ", ")
					}
				}
				reports[i] = report
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for i, r := range reports {
			if !insQuiet && len(files) > 1 {
				fmt.Printf("[%d/%d] %s\n", i+1, len(files), filepath.Base(files[i]))
			}
			fmt.Println(r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVarP(&insJobs, "jobs", "j", 0, "files loaded in parallel (default number of CPUs)")
	inspectCmd.Flags().BoolVarP(&insQuiet, "quiet", "q", false, "omit per-file progress headers")
}

// expandInputs resolves glob patterns, keeps literal paths that exist and
// drops duplicates. Only supported extensions are kept from globs.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, err := table.Open(m, table.DefaultOptions()); err != nil {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func inspectReport(path string, s *session.Session) string {
	var b strings.Builder
	t := s.Table()
	b.WriteString("[TABLE]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", path))
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", t.Len(), t.Width()))

	b.WriteString("[SCHEMA]\n")
	for i, c := range s.Columns() {
		missing := 0
		for _, row := range t.Rows {
			if row[i].IsEmpty() {
				missing++
			}
		}
		b.WriteString(fmt.Sprintf("- #%d %s: %s (missing %d)\n", i, c.Name, c.Type, missing))
	}

	b.WriteString("\n[GEOMETRY]\n")
	cols := s.Columns()
	switch geo := s.Geometry(); {
	case geo.UsesWKT():
		b.WriteString(fmt.Sprintf("WKT: %s\n", cols[geo.WKT].Name))
	case geo.Valid():
		b.WriteString(fmt.Sprintf("Lon: %s, Lat: %s\n", cols[geo.Lon].Name, cols[geo.Lat].Name))
	default:
		b.WriteString("none detected (use --wkt or --lon/--lat)\n")
	}

	g := s.Grouping()
	if groups := s.Groups(); len(groups) > 0 {
		b.WriteString(fmt.Sprintf("\n[GROUPS] %s by %s\n", g.Mode, cols[g.Field].Name))
		for _, gr := range groups {
			b.WriteString(fmt.Sprintf("- %s %s (n=%d)\n", gr.Color.Hex(), gr.Label, gr.Count))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
