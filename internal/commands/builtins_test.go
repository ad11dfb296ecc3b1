package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpListsPrimaryCommands(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.plugin.Register("weather", &recorder{}, "[clear|rain]", "change the weather"))
	f.plugin.Process(".help")

	require.Equal(t, []string{
		"Available commands:",
		".pos x y z",
		".home",
		".item name [count [tags]]",
		".clear",
		".block name [data]",
		".plugins",
		".enable plugin",
		".disable plugin",
		".help",
		".weather [clear|rain] -- change the weather",
	}, f.console.lines)
}

func TestHelpWithoutUsageKeepsSingleSpace(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.plugin.Register("sethome", &recorder{}, "", "save the current position as home"))
	f.plugin.Process(".help")
	require.Equal(t, ".sethome -- save the current position as home", f.console.last())
}

func TestBuiltinsCannotBeUnregistered(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for _, name := range []string{"pos", "tp", "item", "give", "help"} {
		cmd, ok := f.plugin.Registry().Lookup(name)
		require.True(t, ok, name)
		require.ErrorIs(t, f.plugin.Unregister(name, cmd), ErrHandlerMismatch, name)
	}

	f.plugin.Process(".give torch 2")
	require.Equal(t, []ItemPile{{Item: "torch", Count: 2}}, f.inventory.given)
	f.plugin.Process(".help")
	require.Contains(t, f.console.lines, ".pos x y z")
}

func TestPluginCommands(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".plugins")
	f.plugin.Process(".enable voxel-weather")
	f.plugin.Process(".enable nonexistent")
	f.plugin.Process(".disable voxel-weather")
	f.plugin.Process(".disable voxel-weather")

	require.Equal(t, []string{
		"Enabled plugins (2): voxel-commands voxel-weather",
		"Enabled plugin: voxel-weather",
		"Failed to enable plugin: nonexistent",
		"Disabled plugin: voxel-weather",
		"Failed to disable plugin: voxel-weather",
	}, f.console.lines)
}

func TestPosValidatesCoordinates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".pos 1 2")
	f.plugin.Process(".tp 1 two 3")
	require.Equal(t, Vec3{}, f.player.pos)
	require.Equal(t, []string{
		"Usage: .pos x y z",
		`Invalid coordinate "two": usage .pos x y z`,
	}, f.console.lines)
}

func TestHome(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".home")
	require.Equal(t, 1, f.player.homed)
}

func TestItemGivesPile(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".item torch 3")
	require.Equal(t, []ItemPile{{Item: "torch", Count: 3}}, f.inventory.given)
	require.Len(t, f.console.lines, 1)
	require.Contains(t, f.console.lines[0], "torch")
	require.Contains(t, f.console.lines[0], "3")
}

func TestItemCountDefaults(t *testing.T) {
	t.Parallel()

	for _, line := range []string{".item torch", ".item torch many", ".item torch 0", ".item torch -4"} {
		f := newFixture(t)
		f.plugin.Process(line)
		require.Equal(t, []ItemPile{{Item: "torch", Count: 1}}, f.inventory.given, line)
		require.Equal(t, "Gave torch x 1", f.console.last(), line)
	}
}

func TestItemCountIsCapped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".item torch 999")
	require.Equal(t, []ItemPile{{Item: "torch", Count: MaxGiveCount}}, f.inventory.given)

	f = newFixture(t)
	f.plugin.Process(".give torch 2000000000")
	require.Empty(t, f.inventory.given)
	require.Equal(t, "Count 2000000000 is over the limit of 999: usage .item name [count [tags]]", f.console.last())
}

func TestItemTags(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(`.give torch 5 '{"name": "Lamp"}'`)
	require.Equal(t, []ItemPile{{Item: "torch", Count: 5, Tags: map[string]any{"name": "Lamp"}}}, f.inventory.given)
	require.Equal(t, `Gave torch x 5 {"name":"Lamp"}`, f.console.last())
}

func TestItemInvalidJSONAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".give torch 2 {bad json")
	require.Empty(t, f.inventory.given)
	require.Len(t, f.console.lines, 1)
	require.Contains(t, f.console.lines[0], "Invalid JSON {bad")
}

func TestItemUnknownName(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".i cake")
	f.plugin.Process(".i")
	require.Empty(t, f.inventory.given)
	require.Equal(t, []string{"No such item: cake", "Usage: .item name [count [tags]]"}, f.console.lines)
}

func TestClear(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".clear")
	require.Equal(t, 1, f.inventory.cleared)
	require.Equal(t, []string{"Cleared inventory"}, f.console.lines)
}

func TestMissingCollaboratorsAreSilent(t *testing.T) {
	t.Parallel()

	console := newFakeConsole()
	p, err := New(Deps{Console: console, Registry: newFakeRegistry()})
	require.NoError(t, err)

	for _, line := range []string{".pos 1 2 3", ".home", ".item torch 2", ".clear", ".block dirt", ".plugins", ".enable x", ".disable x"} {
		p.Process(line)
	}
	require.Empty(t, console.lines)
}

func TestNewRequiresConsoleAndRegistry(t *testing.T) {
	t.Parallel()

	_, err := New(Deps{Registry: newFakeRegistry()})
	require.Error(t, err)
	_, err = New(Deps{Console: newFakeConsole()})
	require.Error(t, err)
}

func TestBlockReportsTarget(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.world.hit = &Hit{Voxel: Voxel{1, -1, 4}, Value: 1}
	f.plugin.Process(".block")

	require.Empty(t, f.world.set)
	require.Equal(t, []string{"Set (1, -1, 4) dirt/1 -> dirt/1"}, f.console.lines)
	require.Equal(t, float64(DefaultReachDistance), f.world.reach)
	require.Equal(t, Vec3{0, 1.6, 0}, f.world.origin)
}

func TestBlockSetsTypeAndData(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.world.hit = &Hit{Voxel: Voxel{2, 0, 3}, Value: 1}
	f.blockData.Set(2, 0, 3, "old")

	f.plugin.Process(`.set stone '{"text":"hi"}'`)
	require.Equal(t, map[Voxel]int{{2, 0, 3}: 2}, f.world.set)
	data, ok := f.blockData.Get(2, 0, 3)
	require.True(t, ok)
	require.Equal(t, map[string]any{"text": "hi"}, data)
	require.Equal(t, []string{`Set (2, 0, 3) dirt/1 -> stone/2  "old" -> {"text":"hi"}`}, f.console.lines)
}

func TestBlockAcceptsNumericID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.world.hit = &Hit{Voxel: Voxel{0, 0, 0}, Value: 2}
	f.plugin.Process(".b 1 note")
	require.Equal(t, map[Voxel]int{{0, 0, 0}: 1}, f.world.set)
	require.Equal(t, []string{`Set (0, 0, 0) stone/2 -> dirt/1  null -> "note"`}, f.console.lines)
}

func TestBlockRejectsUnknownNameBeforeRaycast(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.world.hit = &Hit{Voxel: Voxel{0, 0, 0}, Value: 2}
	f.plugin.Process(".setblock lava")
	require.Empty(t, f.world.set)
	require.Zero(t, f.world.reach, "raycast must not run")
	require.Equal(t, []string{"No such block: lava"}, f.console.lines)
}

func TestBlockNoTarget(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.plugin.Process(".block dirt")
	require.Equal(t, []string{"No block targetted"}, f.console.lines)
}

func TestBlockHonoursReachDistance(t *testing.T) {
	t.Parallel()

	console := newFakeConsole()
	world := &fakeWorld{}
	p, err := New(Deps{Console: console, Registry: newFakeRegistry(), World: world, ReachDistance: 3})
	require.NoError(t, err)
	p.Process(".block")
	require.Equal(t, 3.0, world.reach)
}
