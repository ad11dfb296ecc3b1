package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHomeRoundTrip(t *testing.T) {
	t.Parallel()
	s := Store{Dir: filepath.Join(t.TempDir(), "voxelcmd")}

	_, ok, err := s.LoadHome()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SaveHome(Home{X: 1.5, Y: 64, Z: -3}))
	h, ok, err := s.LoadHome()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Home{X: 1.5, Y: 64, Z: -3}, h)
}

func TestLoadHomeRejectsGarbage(t *testing.T) {
	t.Parallel()
	s := Store{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, homeFile), []byte("{"), 0o600))
	_, _, err := s.LoadHome()
	require.Error(t, err)
}
