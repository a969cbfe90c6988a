package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabmap-cli/internal/infer"
	"github.com/KaramelBytes/tabmap-cli/internal/session"
	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

// openSession loads path into a fresh session using config and loading flags.
func openSession(cmd *cobra.Command, path string) (*session.Session, error) {
	opt, err := tableOptions(cmd)
	if err != nil {
		return nil, err
	}
	src, err := table.Open(path, opt)
	if err != nil {
		return nil, err
	}
	s := session.New(logger)
	if err := s.Load(src); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// column resolves a column by name, or by 0-based position when prefixed
// with '#'.
func column(s *session.Session, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "#") {
		i, err := strconv.Atoi(ref[1:])
		if err != nil || i < 0 || i >= len(s.Columns()) {
			return -1, fmt.Errorf("invalid column position: %s", ref)
		}
		return i, nil
	}
	if i := s.FieldIndex(ref); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("unknown column: %q", ref)
}

func optionalColumn(s *session.Session, ref string) (int, error) {
	if strings.TrimSpace(ref) == "" {
		return -1, nil
	}
	return column(s, ref)
}

// applyColumnSelection keeps only the named columns, in the given order.
func applyColumnSelection(s *session.Session, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	pos := make([]int, 0, len(refs))
	for _, r := range refs {
		i, err := column(s, r)
		if err != nil {
			return err
		}
		pos = append(pos, i)
	}
	return s.SelectColumns(pos)
}

// applyTypes handles name=type pairs such as "code=text" or "depth=auto".
func applyTypes(s *session.Session, pairs []string) error {
	for _, p := range pairs {
		name, typ, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("invalid --type %q (use column=type)", p)
		}
		i, err := column(s, name)
		if err != nil {
			return err
		}
		choice, err := infer.ParseChoice(typ)
		if err != nil {
			return err
		}
		if err := s.SetFieldType(i, choice); err != nil {
			return err
		}
	}
	return nil
}
