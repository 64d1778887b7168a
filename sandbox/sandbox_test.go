package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCreatesLogDirectory(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "sandbox")

	sb, err := New(Options{DataDir: dataDir})
	require.NoError(t, err)
	require.NotNil(t, sb)

	info, err := os.Stat(filepath.Join(dataDir, "logs"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestNewDefaultsOctezBinary(t *testing.T) {
	sb, err := New(Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, "octez-node", sb.opts.OctezBinary)
}
