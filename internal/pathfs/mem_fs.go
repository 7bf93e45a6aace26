package pathfs

import (
	"fmt"
	"sort"
	"strings"
)

// MemFS is an in-memory FS used by deterministic tests, including the
// txtar-backed multi-file fixtures in internal/driver.
type MemFS struct {
	files map[string]string
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string]string)}
}

// WriteFile adds or overwrites a file's contents.
func (m *MemFS) WriteFile(path, contents string) {
	m.files[normalize(path)] = contents
}

func normalize(path string) string {
	path = strings.TrimPrefix(path, "./")
	return Join(path)
}

func (m *MemFS) Exists(path string) bool {
	return m.IsFile(path) || m.IsDir(path)
}

func (m *MemFS) IsFile(path string) bool {
	_, ok := m.files[normalize(path)]
	return ok
}

func (m *MemFS) IsDir(path string) bool {
	prefix := normalize(path)
	if prefix != "" {
		prefix += "/"
	}
	for f := range m.files {
		if strings.HasPrefix(f, prefix) && f != prefix {
			return true
		}
	}
	return false
}

func (m *MemFS) ReadFile(path string) (string, error) {
	content, ok := m.files[normalize(path)]
	if !ok {
		return "", fmt.Errorf("pathfs: no such file %q", path)
	}
	return content, nil
}

func (m *MemFS) ReadDir(path string) ([]DirEntry, error) {
	prefix := normalize(path)
	if prefix != "" {
		prefix += "/"
	}
	seen := make(map[string]bool)
	var entries []DirEntry
	for f := range m.files {
		if !strings.HasPrefix(f, prefix) {
			continue
		}
		rest := strings.TrimPrefix(f, prefix)
		if rest == "" {
			continue
		}
		parts := strings.SplitN(rest, "/", 2)
		name := parts[0]
		if seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, DirEntry{Name: name, IsDir: len(parts) > 1})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
