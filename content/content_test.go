package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadReturnsFileContents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.txt"), []byte("Программа дня\n"), 0o644))

	p := NewProvider(dir)
	assert.Equal(t, "Программа дня", p.Read("about.txt"))
}

func TestReadMissingFileFallsBack(t *testing.T) {
	p := NewProvider(t.TempDir())
	assert.Equal(t, Fallback, p.Read("nope.txt"))
}

func TestReadEmptyFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("  \n"), 0o644))

	p := NewProvider(dir)
	assert.Equal(t, Fallback, p.Read("empty.txt"))
}
