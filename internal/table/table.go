package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoColumns is returned when a source yields no header or data columns.
var ErrNoColumns = errors.New("no columns found")

// Table is a loaded dataset: headers plus rows aligned to them by position.
// Header names need not be unique.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]Value
}

// RowSource produces a table from some external format.
type RowSource interface {
	Read() (*Table, error)
}

// Options controls how a row source interprets its input.
type Options struct {
	// Delimiter for delimited text. If 0, ';' is used.
	Delimiter rune
	// Encoding of delimited text: "utf-8" or "cp1251".
	Encoding string
	// HasHeader treats the first row at StartRow as column names.
	HasHeader bool
	// StartRow is the 1-based row at which the header (or data) begins.
	StartRow int
	// Sheet selects a workbook sheet by name; empty means the first sheet.
	Sheet string
}

// DefaultOptions returns the loading defaults.
func DefaultOptions() Options {
	return Options{
		Delimiter: ';',
		Encoding:  "utf-8",
		HasHeader: true,
		StartRow:  1,
	}
}

// Open picks a row source for path by extension.
func Open(path string, opt Options) (RowSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return &XLSXSource{Path: path, Options: opt}, nil
	case ".csv", ".tsv", ".txt":
		if opt.Delimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
			opt.Delimiter = '\t'
		}
		return &CSVSource{Path: path, Options: opt}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// Load opens and reads path in one step.
func Load(path string, opt Options) (*Table, error) {
	src, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	return src.Read()
}

// Width is the number of columns.
func (t *Table) Width() int { return len(t.Headers) }

// Len is the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the first column with the given name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of column i across all rows.
func (t *Table) Column(i int) []Value {
	out := make([]Value, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Project returns a table restricted to the given column positions.
func (t *Table) Project(cols []int) (*Table, error) {
	for _, c := range cols {
		if c < 0 || c >= len(t.Headers) {
			return nil, fmt.Errorf("column index out of range: %d", c)
		}
	}
	out := &Table{Name: t.Name, Headers: make([]string, len(cols)), Rows: make([][]Value, len(t.Rows))}
	for i, c := range cols {
		out.Headers[i] = t.Headers[c]
	}
	for r, row := range t.Rows {
		nr := make([]Value, len(cols))
		for i, c := range cols {
			nr[i] = row[c]
		}
		out.Rows[r] = nr
	}
	return out, nil
}

// build assembles a table from raw string records, applying header and
// start-row options. Rows are padded or truncated to the header width.
func build(name string, records [][]string, opt Options) (*Table, error) {
	start := opt.StartRow - 1
	if start < 0 {
		start = 0
	}
	t := &Table{Name: name}
	dataStart := start
	if opt.HasHeader && start < len(records) {
		t.Headers = make([]string, len(records[start]))
		for i, h := range records[start] {
			t.Headers[i] = strings.TrimSpace(h)
		}
		dataStart++
	}
	var data [][]string
	if dataStart < len(records) {
		data = records[dataStart:]
	}
	if !opt.HasHeader {
		width := 0
		switch {
		case len(data) > 0:
			width = len(data[0])
		case start < len(records):
			width = len(records[start])
		}
		t.Headers = make([]string, width)
		for i := range t.Headers {
			t.Headers[i] = fmt.Sprintf("Column %d", i)
		}
	}
	if len(t.Headers) == 0 {
		return nil, ErrNoColumns
	}
	t.Rows = make([][]Value, 0, len(data))
	for _, rec := range data {
		row := make([]Value, len(t.Headers))
		for i := range row {
			if i < len(rec) {
				row[i] = Text(rec[i])
			} else {
				row[i] = Text("")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
