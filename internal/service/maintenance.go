package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/voxelcmd/internal/database"
)

// MaintenanceService houses destructive actions exposed on the command line.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes edited blocks, block data, the inventory and plugin flags. Block
// and item types stay so the world keeps working.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"inventory",
			"block_data",
			"blocks",
			"plugins",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
