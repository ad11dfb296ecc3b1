package repository

import "time"

// BlockType represents a block_types row.
type BlockType struct {
	ID          int
	Name        string
	DisplayName string
	Solid       bool
}

// Item represents an items row. BlockID is set for placeable items.
type Item struct {
	Name        string
	DisplayName string
	MaxStack    int
	BlockID     *int
}

// Block represents a placed block.
type Block struct {
	X, Y, Z   int
	BlockID   int
	UpdatedAt time.Time
}

// InventoryPile represents one inventory slot.
type InventoryPile struct {
	ID        string
	Slot      int
	Item      string
	Count     int
	Tags      *string // JSON
	CreatedAt time.Time
}

// PluginState represents a persisted plugin flag.
type PluginState struct {
	Name      string
	Enabled   bool
	UpdatedAt time.Time
}
