package commands

import (
	"errors"
	"strings"
	"testing"
)

type fakeSub struct {
	cancel func()
}

func (s *fakeSub) Unsubscribe() { s.cancel() }

type fakeConsole struct {
	lines     []string
	listeners map[int]func(string)
	nextID    int
}

func newFakeConsole() *fakeConsole {
	return &fakeConsole{listeners: map[int]func(string){}}
}

func (c *fakeConsole) Log(text string) { c.lines = append(c.lines, text) }

func (c *fakeConsole) OnInput(fn func(string)) Subscription {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return &fakeSub{cancel: func() { delete(c.listeners, id) }}
}

// Type delivers a line to every input listener.
func (c *fakeConsole) Type(line string) {
	for _, fn := range c.listeners {
		fn(line)
	}
}

func (c *fakeConsole) joined() string { return strings.Join(c.lines, "\n") }

func (c *fakeConsole) last() string {
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[len(c.lines)-1]
}

type fakeRegistry struct {
	items  map[string]ItemProps
	blocks map[string]int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		items: map[string]ItemProps{
			"torch": {Name: "torch", MaxStack: 64},
			"dirt":  {Name: "dirt", MaxStack: 64, IsBlock: true},
		},
		blocks: map[string]int{"air": 0, "dirt": 1, "stone": 2},
	}
}

func (r *fakeRegistry) ItemProps(name string) (ItemProps, bool) {
	p, ok := r.items[name]
	return p, ok
}

func (r *fakeRegistry) BlockIndex(name string) (int, bool) {
	id, ok := r.blocks[name]
	return id, ok
}

func (r *fakeRegistry) BlockName(id int) string {
	for name, i := range r.blocks {
		if i == id {
			return name
		}
	}
	return ""
}

type fakePlugins struct {
	names   []string
	enabled map[string]bool
}

func (p *fakePlugins) List() []string { return p.names }

func (p *fakePlugins) Enable(name string) bool {
	if _, ok := p.enabled[name]; !ok {
		return false
	}
	p.enabled[name] = true
	return true
}

func (p *fakePlugins) Disable(name string) bool {
	if on, ok := p.enabled[name]; !ok || !on {
		return false
	}
	p.enabled[name] = false
	return true
}

type fakePlayer struct {
	pos   Vec3
	homed int
}

func (p *fakePlayer) MoveTo(x, y, z float64) { p.pos = Vec3{x, y, z} }
func (p *fakePlayer) Home()                  { p.homed++ }
func (p *fakePlayer) Position() Vec3         { return p.pos }

type fakeInventory struct {
	given   []ItemPile
	cleared int
}

func (i *fakeInventory) Give(pile ItemPile) { i.given = append(i.given, pile) }
func (i *fakeInventory) Clear()             { i.cleared++ }

type fakeWorld struct {
	hit    *Hit
	set    map[Voxel]int
	origin Vec3
	reach  float64
}

func (w *fakeWorld) RaycastVoxels(origin, _ Vec3, maxDistance float64) (Hit, bool) {
	w.origin, w.reach = origin, maxDistance
	if w.hit == nil {
		return Hit{}, false
	}
	return *w.hit, true
}

func (w *fakeWorld) SetBlock(v Voxel, id int) {
	if w.set == nil {
		w.set = map[Voxel]int{}
	}
	w.set[v] = id
}

func (w *fakeWorld) CameraPosition() Vec3 { return Vec3{0, 1.6, 0} }
func (w *fakeWorld) CameraVector() Vec3   { return Vec3{0, 0, -1} }

type fakeBlockData struct {
	data map[Voxel]any
}

func (d *fakeBlockData) Get(x, y, z int) (any, bool) {
	v, ok := d.data[Voxel{x, y, z}]
	return v, ok
}

func (d *fakeBlockData) Set(x, y, z int, data any) {
	if d.data == nil {
		d.data = map[Voxel]any{}
	}
	d.data[Voxel{x, y, z}] = data
}

type emitted struct {
	event   string
	payload any
}

type fakeConn struct {
	emits     []emitted
	emitErr   error
	listeners map[int]func(any)
	nextID    int
}

func newFakeConn() *fakeConn { return &fakeConn{listeners: map[int]func(any){}} }

func (c *fakeConn) Emit(event string, payload any) error {
	if c.emitErr != nil {
		return c.emitErr
	}
	c.emits = append(c.emits, emitted{event, payload})
	return nil
}

func (c *fakeConn) OnChat(fn func(any)) Subscription {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return &fakeSub{cancel: func() { delete(c.listeners, id) }}
}

func (c *fakeConn) deliver(payload any) {
	for _, fn := range c.listeners {
		fn(payload)
	}
}

type fakeNetwork struct {
	connected bool
	conn      *fakeConn
}

func (n *fakeNetwork) Connected() bool { return n.connected }

func (n *fakeNetwork) Connection() Connection {
	if n.conn == nil {
		return nil
	}
	return n.conn
}

var errBroken = errors.New("broken pipe")

// recorder is a Command that remembers every invocation.
type recorder struct {
	calls [][]string
}

func (r *recorder) Invoke(args []string) { r.calls = append(r.calls, args) }

type fixture struct {
	console   *fakeConsole
	registry  *fakeRegistry
	plugins   *fakePlugins
	player    *fakePlayer
	inventory *fakeInventory
	world     *fakeWorld
	blockData *fakeBlockData
	network   *fakeNetwork
	plugin    *Plugin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		console:   newFakeConsole(),
		registry:  newFakeRegistry(),
		plugins:   &fakePlugins{names: []string{"voxel-commands", "voxel-weather"}, enabled: map[string]bool{"voxel-weather": false}},
		player:    &fakePlayer{},
		inventory: &fakeInventory{},
		world:     &fakeWorld{},
		blockData: &fakeBlockData{},
		network:   &fakeNetwork{},
	}
	p, err := New(Deps{
		Console:   f.console,
		Registry:  f.registry,
		Plugins:   f.plugins,
		Player:    f.player,
		Inventory: f.inventory,
		World:     f.world,
		BlockData: f.blockData,
		Network:   f.network,
	})
	if err != nil {
		t.Fatalf("new plugin: %v", err)
	}
	f.plugin = p
	return f
}
