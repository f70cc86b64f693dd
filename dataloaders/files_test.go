package dataloaders

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFallsBack(t *testing.T) {
	data := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(data, TalentDir, "default"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, TalentDir, "default", "p.csv"), []byte("x"), 0o644))

	f, err := Open(data, TalentDir, "p.csv")
	require.NoError(t, err)
	defer f.Close()
	bts, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "x", string(bts))

	_, err = Open(data, TalentDir, "missing.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOpenPrefersDirectPath(t *testing.T) {
	data := t.TempDir()
	path := filepath.Join(t.TempDir(), "league.yaml")
	require.NoError(t, os.WriteFile(path, []byte("y"), 0o644))
	f, err := Open(data, LeagueDir, path)
	require.NoError(t, err)
	f.Close()
}
