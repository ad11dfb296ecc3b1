package commands

// Vec3 is a world-space position or direction.
type Vec3 struct {
	X, Y, Z float64
}

// Voxel addresses a single block cell.
type Voxel [3]int

// Hit is the result of a successful voxel raycast.
type Hit struct {
	Voxel Voxel
	Value int // block id at Voxel
}

// ItemProps describes a registered item type.
type ItemProps struct {
	Name        string
	DisplayName string
	MaxStack    int
	IsBlock     bool
}

// ItemPile is a stack of one item type handed to an inventory.
type ItemPile struct {
	Item  string
	Count int
	Tags  any
}

// Subscription is a handle to an attached listener.
type Subscription interface {
	Unsubscribe()
}

// Console is the text widget commands report through.
type Console interface {
	Log(text string)
	OnInput(fn func(line string)) Subscription
}

// PluginManager hosts named plugins.
type PluginManager interface {
	List() []string
	Enable(name string) bool
	Disable(name string) bool
}

// ItemRegistry resolves item and block names.
type ItemRegistry interface {
	ItemProps(name string) (ItemProps, bool)
	BlockIndex(name string) (int, bool)
	BlockName(id int) string
}

type Player interface {
	MoveTo(x, y, z float64)
	Home()
	Position() Vec3
}

type Inventory interface {
	Give(pile ItemPile)
	Clear()
}

type World interface {
	RaycastVoxels(origin, direction Vec3, maxDistance float64) (Hit, bool)
	SetBlock(voxel Voxel, id int)
	CameraPosition() Vec3
	CameraVector() Vec3
}

// BlockData stores arbitrary per-voxel metadata.
type BlockData interface {
	Get(x, y, z int) (any, bool)
	Set(x, y, z int, data any)
}

// Network exposes the chat connection to a server, if any.
// Connected reports whether a remote session owns chat display.
type Network interface {
	Connected() bool
	Connection() Connection
}

// Connection is a live link to a chat peer. Connection() returns nil, not a
// typed nil, when there is none.
type Connection interface {
	Emit(event string, payload any) error
	OnChat(fn func(payload any)) Subscription
}

// Deps bundles the collaborators the interpreter depends on. Console and
// Registry are required; everything else may be nil.
type Deps struct {
	Console   Console
	Registry  ItemRegistry
	Plugins   PluginManager
	Player    Player
	Inventory Inventory
	World     World
	BlockData BlockData
	Network   Network

	// ReachDistance bounds the block raycast. Zero means DefaultReachDistance.
	ReachDistance float64
}
