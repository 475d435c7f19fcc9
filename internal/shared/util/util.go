package util

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// NormalizePatternPath converts a user supplied path or glob to slash form,
// cleaned and without a leading "./". The current directory becomes "".
func NormalizePatternPath(s string) string {
	p := path.Clean(strings.TrimSpace(filepath.ToSlash(strings.ReplaceAll(s, "\\", "/"))))
	if p == "." {
		return ""
	}
	return strings.TrimPrefix(p, "./")
}

func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteFileWithDirs writes data to name through a temporary sibling file and
// a rename, creating parent directories as needed. Readers never observe a
// partially written file. An existing file with identical content is left
// untouched so file watchers do not see a spurious change.
func WriteFileWithDirs(name string, data []byte, perm fs.FileMode) error {
	if current, err := os.ReadFile(name); err == nil && bytes.Equal(current, data) {
		return nil
	}

	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, name)
}

func WriteStringWithDirs(name, content string, perm fs.FileMode) error {
	return WriteFileWithDirs(name, []byte(content), perm)
}
