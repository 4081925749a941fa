package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree writes content to a file named name inside a fresh temp dir and
// returns its absolute path. It fails the test immediately on error.
func WriteTree(t *testing.T, name, content string) string {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join(t.TempDir(), name))
	require.NoError(t, err, "Failed to get absolute path for temp file")

	require.NoError(t, os.WriteFile(absPath, []byte(content), 0o644), "Failed to write tree")
	return absPath
}

// ReadLines returns the newline-terminated lines of the file at path.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to read %s", path)

	text := string(data)
	if text == "" {
		return nil
	}
	require.True(t, strings.HasSuffix(text, "\n"), "%s must end with a newline", path)
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
