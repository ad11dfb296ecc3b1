// Package content reads TOML content packs that declare block and item types.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultPack []byte

const defaultMaxStack = 64

// Block declares a block type.
type Block struct {
	ID          int    `toml:"id"`
	Name        string `toml:"name"`
	DisplayName string `toml:"display_name"`
	Solid       *bool  `toml:"solid"`
	MaxStack    int    `toml:"max_stack"`
}

// IsSolid reports whether raycasts stop at the block. Defaults to true.
func (b Block) IsSolid() bool { return b.Solid == nil || *b.Solid }

// Item declares a non-block item type.
type Item struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"display_name"`
	MaxStack    int    `toml:"max_stack"`
}

// Pack is a parsed content pack.
type Pack struct {
	Blocks []Block `toml:"block"`
	Items  []Item  `toml:"item"`
}

// Default returns the built-in content pack.
func Default() (Pack, error) {
	return Parse(defaultPack)
}

// Load reads a content pack from path.
func Load(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("read content pack: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a content pack.
func Parse(data []byte) (Pack, error) {
	var p Pack
	if _, err := toml.Decode(string(data), &p); err != nil {
		return Pack{}, fmt.Errorf("decode content pack: %w", err)
	}
	if err := p.validate(); err != nil {
		return Pack{}, err
	}
	return p, nil
}

// AirID is the block id of empty space.
const AirID = 0

// AllItems lists the declared items plus one item per non-air block.
func (p Pack) AllItems() []Item {
	out := make([]Item, 0, len(p.Blocks)+len(p.Items))
	for _, b := range p.Blocks {
		if b.ID == AirID {
			continue
		}
		out = append(out, Item{Name: b.Name, DisplayName: b.DisplayName, MaxStack: withDefault(b.MaxStack)})
	}
	for _, it := range p.Items {
		it.MaxStack = withDefault(it.MaxStack)
		out = append(out, it)
	}
	return out
}

func (p Pack) validate() error {
	ids := map[int]string{}
	names := map[string]bool{}
	for _, b := range p.Blocks {
		if b.Name == "" {
			return fmt.Errorf("content pack: block %d has no name", b.ID)
		}
		if prev, ok := ids[b.ID]; ok {
			return fmt.Errorf("content pack: block id %d used by %s and %s", b.ID, prev, b.Name)
		}
		if names[b.Name] {
			return fmt.Errorf("content pack: duplicate name %s", b.Name)
		}
		ids[b.ID] = b.Name
		names[b.Name] = true
	}
	for _, it := range p.Items {
		if it.Name == "" {
			return fmt.Errorf("content pack: item without name")
		}
		if names[it.Name] {
			return fmt.Errorf("content pack: duplicate name %s", it.Name)
		}
		names[it.Name] = true
	}
	return nil
}

func withDefault(maxStack int) int {
	if maxStack <= 0 {
		return defaultMaxStack
	}
	return maxStack
}
