package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabmap-cli/internal/filter"
)

var (
	fltShow  int
	fltTypes []string
)

var filterCmd = &cobra.Command{
	Use:   "filter <file> <expression>",
	Short: "Check a filter expression against a table",
	Long: `Parse the expression, print its canonical form and the number of matching
rows. Comparisons use = == != < <= > >= and combine with and/or; numeric
columns, numeric literals and ordering operators compare as numbers.`,
	Example: `  tabmap filter wells.csv "depth >= 10 and (kind = well or kind = spring)"
  tabmap filter wells.csv "` + "`station name`" + ` = 'North 1'" --show 5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, expr := args[0], args[1]
		canonical, err := filter.Translate(expr)
		if err != nil {
			return err
		}
		s, err := openSession(cmd, path)
		if err != nil {
			return err
		}
		if err := applyTypes(s, fltTypes); err != nil {
			return err
		}
		if err := s.ApplyFilter(expr); err != nil {
			return err
		}
		rows := s.Rows()
		t := s.Table()
		if canonical == "" {
			canonical = "(none)"
		}
		fmt.Printf("Filter: %s\n", canonical)
		fmt.Printf("✓ %d of %d rows match\n", len(rows), t.Len())
		if n := min(fltShow, len(rows)); n > 0 {
			fmt.Println(strings.Join(t.Headers, "\t"))
			for _, r := range rows[:n] {
				cells := make([]string, len(t.Rows[r]))
				for i, v := range t.Rows[r] {
					cells[i] = v.String()
				}
				fmt.Println(strings.Join(cells, "\t"))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().IntVar(&fltShow, "show", 0, "print the first N matching rows")
	filterCmd.Flags().StringSliceVar(&fltTypes, "type", nil, "column type override: name=auto|integer|float|text|geometry (repeatable)")
}
