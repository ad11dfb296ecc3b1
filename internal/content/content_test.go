package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPack(t *testing.T) {
	t.Parallel()

	p, err := Default()
	require.NoError(t, err)
	require.Equal(t, "air", p.Blocks[0].Name)
	require.False(t, p.Blocks[0].IsSolid())
	require.True(t, p.Blocks[1].IsSolid())

	items := p.AllItems()
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
		require.Positive(t, it.MaxStack, it.Name)
	}
	require.Contains(t, names, "torch")
	require.Contains(t, names, "dirt")
	require.NotContains(t, names, "air")
}

func TestParseRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
[[block]]
id = 1
name = "dirt"

[[block]]
id = 1
name = "mud"
`))
	require.ErrorContains(t, err, "block id 1")

	_, err = Parse([]byte(`
[[block]]
id = 1
name = "dirt"

[[item]]
name = "dirt"
`))
	require.ErrorContains(t, err, "duplicate name dirt")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pack.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[item]]
name = "apple"
`), 0o644))
	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Item{{Name: "apple", MaxStack: 64}}, p.AllItems())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
