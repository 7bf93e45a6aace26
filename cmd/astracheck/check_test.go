package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return buf.String(), err
}

func writeSourceFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestCheckCommandReportsCleanFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "clean.py", "x = 1\n")

	out, err := runCLI(t, "check", path)
	require.NoError(t, err)
	require.Contains(t, out, "checked 1 file, 0 errors")
}

func TestCheckCommandReportsMissingImportAsError(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "broken.py", "import nonexistent_module\n")

	out, err := runCLI(t, "check", path)
	require.Error(t, err)
	require.Contains(t, out, "reportMissingImports")
}

func TestCheckCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "clean.py", "x = 1\n")

	out, err := runCLI(t, "check", "--json", path)
	require.NoError(t, err)
	require.Contains(t, out, "\"fileCount\": 1")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
