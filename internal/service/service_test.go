package service

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/voxelcmd/internal/commands"
	"github.com/jask/voxelcmd/internal/content"
	"github.com/jask/voxelcmd/internal/database"
	"github.com/jask/voxelcmd/internal/prefs"
)

type logConsole struct {
	lines     []string
	listeners []func(string)
}

func (c *logConsole) Log(text string) { c.lines = append(c.lines, text) }

func (c *logConsole) OnInput(fn func(string)) commands.Subscription {
	c.listeners = append(c.listeners, fn)
	idx := len(c.listeners) - 1
	return unsub(func() { c.listeners[idx] = nil })
}

func (c *logConsole) Type(line string) {
	for _, fn := range c.listeners {
		if fn != nil {
			fn(line)
		}
	}
}

func (c *logConsole) last() string {
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[len(c.lines)-1]
}

type unsub func()

func (u unsub) Unsubscribe() { u() }

func openWorld(t *testing.T) (*sql.DB, *Services) {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "world.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pack, err := content.Default()
	require.NoError(t, err)
	require.NoError(t, database.SeedDefaults(ctx, db, pack))

	svc, err := New(ctx, db, prefs.Store{Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	return db, svc
}

func startInterpreter(t *testing.T, svc *Services) (*logConsole, *commands.Plugin) {
	t.Helper()
	console := &logConsole{}
	plugin, err := commands.New(svc.Deps(console, nil, 8))
	require.NoError(t, err)
	require.NoError(t, svc.Plugins.Host(plugin))
	require.NoError(t, svc.Plugins.Host(&WeatherPlugin{Host: plugin, Console: console}))
	require.NoError(t, svc.Plugins.Restore(context.Background()))
	return console, plugin
}

func TestRaycastHitsTerrainBelow(t *testing.T) {
	t.Parallel()
	_, svc := openWorld(t)

	hit, ok := svc.World.RaycastVoxels(commands.Vec3{X: 0.5, Y: 1.6, Z: 0.5}, commands.Vec3{Y: -1}, 8)
	require.True(t, ok)
	require.Equal(t, commands.Voxel{0, -1, 0}, hit.Voxel)
	require.Equal(t, 2, hit.Value, "grass")

	_, ok = svc.World.RaycastVoxels(commands.Vec3{X: 0.5, Y: 1.6, Z: 0.5}, commands.Vec3{Y: 1}, 8)
	require.False(t, ok, "nothing above ground")

	_, ok = svc.World.RaycastVoxels(commands.Vec3{X: 0.5, Y: 1.6, Z: 0.5}, commands.Vec3{}, 8)
	require.False(t, ok, "zero direction")
}

func TestRaycastStopsAtPlacedBlockWithinReach(t *testing.T) {
	t.Parallel()
	_, svc := openWorld(t)
	ctx := context.Background()
	require.NoError(t, svc.World.Place(ctx, commands.Voxel{3, 1, 0}, 3))

	origin := commands.Vec3{X: 0.5, Y: 1.6, Z: 0.5}
	east := commands.Vec3{X: 1}
	hit, ok, err := svc.World.Raycast(ctx, origin, east, 8)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, commands.Voxel{3, 1, 0}, hit.Voxel)
	require.Equal(t, 3, hit.Value)

	_, ok, err = svc.World.Raycast(ctx, origin, east, 2)
	require.NoError(t, err)
	require.False(t, ok)

	// air placed over terrain is not solid
	require.NoError(t, svc.World.Place(ctx, commands.Voxel{0, -1, 0}, content.AirID))
	hit, ok, err = svc.World.Raycast(ctx, origin, commands.Vec3{Y: -1}, 8)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, commands.Voxel{0, -2, 0}, hit.Voxel)
	require.Equal(t, 1, hit.Value, "dirt")
}

func TestCameraFollowsPlayer(t *testing.T) {
	t.Parallel()
	p := NewPlayer(nil, nil)
	p.MoveTo(1, 2, 3)
	require.Equal(t, commands.Vec3{X: 1, Y: 2 + EyeHeight, Z: 3}, p.CameraPosition())

	p.Look(0, -math.Pi/2)
	v := p.CameraVector()
	require.InDelta(t, -1, v.Y, 1e-9)
	require.InDelta(t, 0, v.X, 1e-9)
	require.InDelta(t, 0, v.Z, 1e-9)

	p.Look(math.Pi/2, 3)
	v = p.CameraVector()
	require.InDelta(t, 1, v.Y, 1e-9, "pitch clamps at straight up")
}

func TestHomeUsesSavedPosition(t *testing.T) {
	t.Parallel()
	p := NewPlayer(prefs.Store{Dir: t.TempDir()}, nil)

	p.MoveTo(10, 20, 30)
	p.Home()
	require.Equal(t, Spawn, p.Position())

	p.MoveTo(4, 5, 6)
	require.NoError(t, p.SetHome())
	p.MoveTo(0, 0, 0)
	p.Home()
	require.Equal(t, commands.Vec3{X: 4, Y: 5, Z: 6}, p.Position())
}

func TestBlockCommandAgainstWorld(t *testing.T) {
	t.Parallel()
	_, svc := openWorld(t)
	console, plugin := startInterpreter(t, svc)
	require.True(t, plugin.Enabled())

	svc.Player.Look(0, -math.Pi/2)
	console.Type(".block stone")
	require.Equal(t, "Set (0, -1, 0) grass/2 -> stone/3", console.last())

	console.Type(`.b glass '{"owner":"steve"}'`)
	require.Equal(t, `Set (0, -1, 0) stone/3 -> glass/7  null -> {"owner":"steve"}`, console.last())

	console.Type(".set")
	require.Equal(t, `Set (0, -1, 0) glass/7 -> glass/7  {"owner":"steve"} -> {"owner":"steve"}`, console.last())

	console.Type(".block lava")
	require.Equal(t, "No such block: lava", console.last())

	svc.Player.Look(0, math.Pi/2)
	console.Type(".block dirt")
	require.Equal(t, "No block targetted", console.last())
}

func TestItemCommandStacksInInventory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, svc := openWorld(t)
	console, _ := startInterpreter(t, svc)

	console.Type(".give torch 70")
	require.Equal(t, "Gave torch x 70", console.last())
	console.Type(`.i pickaxeWood 2 '{"damage":3}'`)
	require.Equal(t, `Gave pickaxeWood x 2 {"damage":3}`, console.last())

	piles, err := svc.Inventory.Contents(ctx)
	require.NoError(t, err)
	require.Equal(t, []commands.ItemPile{
		{Item: "torch", Count: 64},
		{Item: "torch", Count: 6},
		{Item: "pickaxeWood", Count: 1, Tags: map[string]any{"damage": float64(3)}},
		{Item: "pickaxeWood", Count: 1, Tags: map[string]any{"damage": float64(3)}},
	}, piles)

	console.Type(".clear")
	require.Equal(t, "Cleared inventory", console.last())
	piles, err = svc.Inventory.Contents(ctx)
	require.NoError(t, err)
	require.Empty(t, piles)
}

func TestWeatherPluginLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, svc := openWorld(t)
	console, _ := startInterpreter(t, svc)

	console.Type(".plugins")
	require.Equal(t, "Enabled plugins (2): voxel-commands voxel-weather", console.last())

	console.Type(".weather rain")
	require.Equal(t, "Weather set to rain", console.last())
	console.Type(".weather")
	require.Equal(t, "Weather: rain", console.last())

	console.Type(".help")
	require.Contains(t, strings.Join(console.lines, "\n"), ".weather [clear|rain|thunder] -- show or change the weather")

	console.Type(".disable voxel-weather")
	require.Equal(t, "Disabled plugin: voxel-weather", console.last())
	console.Type(".weather")
	require.Equal(t, "Invalid command weather", console.last())

	console.Type(".enable nope")
	require.Equal(t, "Failed to enable plugin: nope", console.last())

	// a fresh session restores the stored flags
	svc2, err := New(ctx, db, nil, nil)
	require.NoError(t, err)
	console2, _ := startInterpreter(t, svc2)
	console2.Type(".plugins")
	require.Equal(t, "Enabled plugins (1): voxel-commands", console2.last())
}

func TestBlockDataNilClears(t *testing.T) {
	t.Parallel()
	_, svc := openWorld(t)
	svc.BlockData.Set(1, 2, 3, map[string]any{"a": float64(1)})
	v, ok := svc.BlockData.Get(1, 2, 3)
	require.True(t, ok)
	require.Equal(t, map[string]any{"a": float64(1)}, v)

	svc.BlockData.Set(1, 2, 3, nil)
	_, ok = svc.BlockData.Get(1, 2, 3)
	require.False(t, ok)
}

func TestRegistryLookups(t *testing.T) {
	t.Parallel()
	_, svc := openWorld(t)

	props, ok := svc.Registry.ItemProps("dirt")
	require.True(t, ok)
	require.True(t, props.IsBlock)
	props, ok = svc.Registry.ItemProps("pickaxeWood")
	require.True(t, ok)
	require.False(t, props.IsBlock)
	require.Equal(t, 1, props.MaxStack)
	_, ok = svc.Registry.ItemProps("air")
	require.False(t, ok, "air is not an item")

	id, ok := svc.Registry.BlockIndex("glass")
	require.True(t, ok)
	require.Equal(t, 7, id)
	require.Equal(t, "glass", svc.Registry.BlockName(7))
	require.Empty(t, svc.Registry.BlockName(99))
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, svc := openWorld(t)
	require.NoError(t, svc.World.Place(ctx, commands.Voxel{0, 0, 0}, 3))
	svc.BlockData.Set(0, 0, 0, "sign")
	require.NoError(t, svc.Inventory.Add(ctx, commands.ItemPile{Item: "coal", Count: 3}))

	require.NoError(t, svc.Maintenance.Reset(ctx))
	for _, table := range []string{"blocks", "block_data", "inventory", "plugins"} {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
		require.Zero(t, n, table)
	}
	var types int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM block_types").Scan(&types))
	require.NotZero(t, types)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
