package table

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads one sheet of an Excel workbook.
type XLSXSource struct {
	Path    string
	Options Options
}

// Read loads the configured sheet (or the first one) as text cells. Cells
// carry their stored values, not the number-formatted display text, so
// "1,234.50" or "25.00%" styling does not hide a numeric column.
func (s *XLSXSource) Read() (*Table, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := s.Options.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return build(filepath.Base(s.Path), rows, s.Options)
}

// SheetNames lists the sheets of a workbook in order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
