package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/voxelcmd/internal/content"
	"github.com/jask/voxelcmd/internal/database/repository"
)

// SeedDefaults loads a content pack into the block and item tables.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, pack content.Pack) error {
	types := repository.NewBlockTypeRepo(db)
	items := repository.NewItemRepo(db)

	blockIDs := map[string]int{}
	for _, b := range pack.Blocks {
		t := repository.BlockType{ID: b.ID, Name: b.Name, DisplayName: b.DisplayName, Solid: b.IsSolid()}
		if err := types.Upsert(ctx, t); err != nil {
			return fmt.Errorf("seed block %s: %w", b.Name, err)
		}
		blockIDs[b.Name] = b.ID
	}
	for _, it := range pack.AllItems() {
		row := repository.Item{Name: it.Name, DisplayName: it.DisplayName, MaxStack: it.MaxStack}
		if id, ok := blockIDs[it.Name]; ok {
			row.BlockID = &id
		}
		if err := items.Upsert(ctx, row); err != nil {
			return fmt.Errorf("seed item %s: %w", it.Name, err)
		}
	}
	return nil
}
