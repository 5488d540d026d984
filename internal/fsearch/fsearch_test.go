package fsearch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindInContainers(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	libPath := filepath.Join(dirB, "opamp.lib")
	require.NoError(t, os.WriteFile(libPath, []byte(".subckt OP1 1 2 3\n.ends\n"), 0o644))

	got, ok := Find("opamp.lib", dirA, dirB)
	require.True(t, ok)
	assert.Equal(t, libPath, got)
}

func TestFindOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	first := filepath.Join(dirA, "x.lib")
	require.NoError(t, os.WriteFile(first, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dirB, "x.lib"), []byte("b"), 0o644))

	got, ok := Find("x.lib", dirA, dirB)
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestFindAbsolute(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "abs.lib")
	require.NoError(t, os.WriteFile(lib, []byte("x"), 0o644))

	got, ok := Find(lib)
	require.True(t, ok)
	assert.Equal(t, lib, got)
}

func TestFindStaleAbsoluteFallsBack(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "mylib.lib")
	require.NoError(t, os.WriteFile(lib, []byte("x"), 0o644))

	// Absolute path from another machine, basename resolvable locally.
	got, ok := Find(filepath.Join(string(filepath.Separator), "nonexistent", "mylib.lib"), dir)
	require.True(t, ok)
	assert.Equal(t, lib, got)
}

func TestFindMissing(t *testing.T) {
	_, ok := Find("nope.lib", t.TempDir(), "")
	assert.False(t, ok)
}
