package cfgfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LoadFile opens path on fsys and calls Load on its contents.
func LoadFile(fsys afero.Fs, path string, schema Schema, opts ...Option) (*Store, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()
	return Load(f, schema, opts...)
}

// Save writes every group as a "[group]" header followed by "key = value"
// lines, groups and keys in sorted order. Values are written unquoted.
func (s *Store) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, g := range s.Groups() {
		fmt.Fprintf(bw, "[%s]\n", g)
		for _, k := range s.Keys(g) {
			fmt.Fprintf(bw, "%s = %s\n", k, s.groups[g][k])
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	return nil
}

// CheckSaveable reports why value would not read back unchanged after Save:
// line breaks split it, Load drops leading blanks, and a matching pair of
// enclosing quotes is stripped. Trailing blanks are refused too since they
// are invisible in the file and lost to editors that trim lines.
func CheckSaveable(value string) error {
	switch {
	case strings.ContainsAny(value, "\r\n"):
		return errors.New("value contains a line break")
	case value != strings.Trim(value, " \t"):
		return errors.New("value has leading or trailing whitespace")
	case unquote(value) != value:
		return fmt.Errorf("value is enclosed in %c quotes", value[0])
	}
	return nil
}

// SaveFile writes the Store to path atomically via a temporary file in the
// same directory and a rename.
func (s *Store) SaveFile(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: creating config directory: %w", ErrSinkUnavailable, err)
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), "."+filepath.Base(path)+".tmp.")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	tmpName := tmp.Name()

	if err := s.Save(tmp); err != nil {
		tmp.Close()
		fsys.Remove(tmpName) // best effort cleanup
		return err
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	if err := fsys.Chmod(tmpName, 0644); err != nil && !os.IsNotExist(err) {
		fsys.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	return nil
}
