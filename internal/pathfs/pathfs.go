// Package pathfs is the Path/FS adapter (component A): a uniform filesystem
// view used by the import resolver and the source-file driver so neither
// has to special-case case-sensitivity or path joining, and so tests can
// swap in a deterministic in-memory filesystem. Grounded on the teacher's
// internal/utils/path_utils.go path-handling conventions, generalized into
// an interface with two implementations.
package pathfs

import "path/filepath"

// DirEntry describes one entry returned by ReadDir.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FS is the filesystem surface the core consumes (spec.md §6).
type FS interface {
	// Exists reports whether path names an existing file or directory.
	Exists(path string) bool
	// IsFile reports whether path names an existing regular file.
	IsFile(path string) bool
	// IsDir reports whether path names an existing directory.
	IsDir(path string) bool
	// ReadFile returns the UTF-8 decoded contents of path.
	ReadFile(path string) (string, error)
	// ReadDir enumerates the immediate children of a directory.
	ReadDir(path string) ([]DirEntry, error)
}

// Join joins path elements using the adapter's separator convention. Both
// implementations in this package use '/' so join is just filepath.ToSlash
// over filepath.Join; kept as a free function (rather than an FS method) since
// it needs no filesystem state, mirroring utils.ResolveImportPath being a
// free function in the teacher.
func Join(elems ...string) string {
	return filepath.ToSlash(filepath.Join(elems...))
}

// Dir returns the parent directory of path.
func Dir(path string) string {
	return filepath.ToSlash(filepath.Dir(path))
}

// Base returns the final path element.
func Base(path string) string {
	return filepath.Base(path)
}
