package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultReachDistance is how far the block command looks for a target.
const DefaultReachDistance = 8

// MaxGiveCount caps how many items one item command may hand out.
const MaxGiveCount = 999

// builtins holds the commands every interpreter starts with.
type builtins struct {
	deps     Deps
	registry *Registry
}

// install registers the built-in commands and their aliases. A failure here is
// a programming error, so it panics like any other must-register.
func (b *builtins) install() {
	must := func(name string, cmd Command, usage string, aliases ...string) {
		if err := b.registry.Register(name, cmd, usage, ""); err != nil {
			panic("register builtin command " + name + ": " + err.Error())
		}
		if err := b.registry.alias(cmd, aliases...); err != nil {
			panic("alias builtin command " + name + ": " + err.Error())
		}
		b.registry.protect(append([]string{name}, aliases...)...)
	}

	must("pos", Func(b.pos), "x y z", "p", "position", "tp")
	must("home", Func(b.home), "")
	must("item", Func(b.item), "name [count [tags]]", "i", "give")
	must("clear", Func(b.clear), "")
	must("block", Func(b.block), "name [data]", "b", "setblock", "set")
	must("plugins", Func(b.plugins), "")
	must("enable", Func(b.enable), "plugin")
	must("disable", Func(b.disable), "plugin")
	must("help", Func(b.help), "")
}

func (b *builtins) log(format string, args ...any) {
	b.deps.Console.Log(fmt.Sprintf(format, args...))
}

func (b *builtins) help([]string) {
	b.deps.Console.Log("Available commands:")
	for _, u := range b.registry.Usages() {
		b.deps.Console.Log(strings.TrimRight(Marker+u.Name+" "+u.Text, " "))
	}
}

func (b *builtins) plugins([]string) {
	if b.deps.Plugins == nil {
		return
	}
	list := b.deps.Plugins.List()
	b.log("Enabled plugins (%d): %s", len(list), strings.Join(list, " "))
}

func (b *builtins) enable(args []string) {
	if b.deps.Plugins == nil {
		return
	}
	name := arg(args, 0)
	if b.deps.Plugins.Enable(name) {
		b.log("Enabled plugin: %s", name)
	} else {
		b.log("Failed to enable plugin: %s", name)
	}
}

func (b *builtins) disable(args []string) {
	if b.deps.Plugins == nil {
		return
	}
	name := arg(args, 0)
	if b.deps.Plugins.Disable(name) {
		b.log("Disabled plugin: %s", name)
	} else {
		b.log("Failed to disable plugin: %s", name)
	}
}

func (b *builtins) pos(args []string) {
	player := b.deps.Player
	if player == nil {
		return
	}
	if len(args) < 3 {
		b.log("Usage: %spos x y z", Marker)
		return
	}
	var coords [3]float64
	for i := range coords {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			b.log("Invalid coordinate %q: usage %spos x y z", args[i], Marker)
			return
		}
		coords[i] = v
	}
	player.MoveTo(coords[0], coords[1], coords[2])
	p := player.Position()
	b.log("[%s, %s, %s]", formatCoord(p.X), formatCoord(p.Y), formatCoord(p.Z))
}

func (b *builtins) home([]string) {
	if b.deps.Player != nil {
		b.deps.Player.Home()
	}
}

func (b *builtins) item(args []string) {
	if len(args) == 0 {
		b.log("Usage: %sitem name [count [tags]]", Marker)
		return
	}
	name := args[0]
	if _, ok := b.deps.Registry.ItemProps(name); !ok {
		b.log("No such item: %s", name)
		return
	}

	var tags any
	if len(args) > 2 {
		if err := json.Unmarshal([]byte(args[2]), &tags); err != nil {
			b.log("Invalid JSON %s: %v", args[2], err)
			return
		}
	}

	count := 1
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			count = n
		}
	}

	if b.deps.Inventory == nil {
		return
	}
	b.deps.Inventory.Give(ItemPile{Item: name, Count: count, Tags: tags})
	msg := fmt.Sprintf("Gave %s x %d", name, count)
	if tags != nil {
		msg += " " + jsonText(tags)
	}
	b.deps.Console.Log(msg)
}

func (b *builtins) clear([]string) {
	if b.deps.Inventory == nil {
		return
	}
	b.deps.Inventory.Clear()
	b.deps.Console.Log("Cleared inventory")
}

func (b *builtins) block(args []string) {
	world := b.deps.World
	if world == nil {
		return
	}

	name, hasName := argOK(args, 0)
	var index int
	if hasName {
		id, ok := b.resolveBlock(name)
		if !ok {
			b.log("No such block: %s", name)
			return
		}
		index = id
		name = b.deps.Registry.BlockName(id)
	}

	reach := b.deps.ReachDistance
	if reach <= 0 {
		reach = DefaultReachDistance
	}
	hit, ok := world.RaycastVoxels(world.CameraPosition(), world.CameraVector(), reach)
	if !ok {
		b.deps.Console.Log("No block targetted")
		return
	}
	x, y, z := hit.Voxel[0], hit.Voxel[1], hit.Voxel[2]
	oldIndex := hit.Value
	oldName := b.deps.Registry.BlockName(oldIndex)

	if hasName {
		world.SetBlock(hit.Voxel, index)
	} else {
		name, index = oldName, oldIndex
	}

	dataInfo := ""
	if store := b.deps.BlockData; store != nil {
		oldData, had := store.Get(x, y, z)
		newData := oldData
		if raw, ok := argOK(args, 1); ok {
			newData = parseBlockData(raw)
			store.Set(x, y, z, newData)
			had = true
		}
		if had {
			dataInfo = jsonText(oldData) + " -> " + jsonText(newData)
		}
	}

	b.deps.Console.Log(strings.TrimRight(fmt.Sprintf("Set (%d, %d, %d) %s/%d -> %s/%d  %s",
		x, y, z, oldName, oldIndex, name, index, dataInfo), " "))
}

// resolveBlock accepts a block name or a numeric block id.
func (b *builtins) resolveBlock(name string) (int, bool) {
	if id, ok := b.deps.Registry.BlockIndex(name); ok {
		return id, true
	}
	if id, err := strconv.Atoi(name); err == nil && b.deps.Registry.BlockName(id) != "" {
		return id, true
	}
	return 0, false
}

// parseBlockData keeps JSON values structured and stores anything else as text.
func parseBlockData(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func jsonText(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func arg(args []string, i int) string {
	v, _ := argOK(args, i)
	return v
}

func argOK(args []string, i int) (string, bool) {
	if i < len(args) {
		return args[i], true
	}
	return "", false
}
