package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const bom = "\ufeff"

// CSVSource reads delimited text files.
type CSVSource struct {
	Path    string
	Options Options
}

// Read decodes the file, strips byte-order marks and builds the table.
func (s *CSVSource) Read() (*Table, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	text, err := decode(raw, s.Options.Encoding)
	if err != nil {
		return nil, err
	}
	records, err := readRecords(strings.NewReader(text), s.Options.Delimiter)
	if err != nil {
		return nil, err
	}
	return build(filepath.Base(s.Path), records, s.Options)
}

func decode(raw []byte, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		// undecodable bytes are dropped
		return strings.ToValidUTF8(string(raw), ""), nil
	case "cp1251", "windows-1251":
		b, err := charmap.Windows1251.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decode cp1251: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s (use utf-8 or cp1251)", encoding)
	}
}

func readRecords(r io.Reader, delim rune) ([][]string, error) {
	if delim == 0 {
		delim = ';'
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	var out [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) > 0 {
			rec[0] = strings.TrimLeft(rec[0], bom)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ParseDelimiter maps a user-facing delimiter name to a rune.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "\t", "tab", "\\t":
		return '\t', nil
	case "space":
		return ' ', nil
	}
	r := []rune(s)
	if len(r) != 1 || strings.ContainsRune("\r\n\"", r[0]) {
		return 0, fmt.Errorf("unsupported delimiter: %q", s)
	}
	return r[0], nil
}
