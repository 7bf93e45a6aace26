package main

import (
	"os"
	"path/filepath"
	"sort"
)

// discoverSourceFiles expands a list of file/directory arguments into the
// flat list of .py source files to check, walking directories recursively
// the way the teacher's collectResources walks an --embed directory
// argument in cmd/funxy.
func discoverSourceFiles(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, filepath.ToSlash(arg))
			continue
		}
		err = filepath.Walk(arg, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if filepath.Ext(path) == ".py" {
				out = append(out, filepath.ToSlash(path))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}

// sourceRoot returns the common root to resolve relative imports against:
// the first argument's directory if it's a directory, otherwise its
// parent, mirroring pyright's "project root" inference when no explicit
// root is configured.
func sourceRoot(args []string) string {
	if len(args) == 0 {
		return "."
	}
	info, err := os.Stat(args[0])
	if err == nil && info.IsDir() {
		return filepath.ToSlash(args[0])
	}
	return filepath.ToSlash(filepath.Dir(args[0]))
}
