package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// BlockDataRepo stores per-voxel JSON metadata.
type BlockDataRepo struct {
	db *sql.DB
}

func NewBlockDataRepo(db *sql.DB) *BlockDataRepo { return &BlockDataRepo{db: db} }

func (r *BlockDataRepo) Set(ctx context.Context, x, y, z int, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode block data: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO block_data(x, y, z, data, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(x, y, z) DO UPDATE SET
	 data=excluded.data,
	 updated_at=CURRENT_TIMESTAMP;
	`, x, y, z, string(raw))
	return err
}

// Get decodes the stored value; ok is false when the voxel has no data.
func (r *BlockDataRepo) Get(ctx context.Context, x, y, z int) (data any, ok bool, err error) {
	var raw string
	err = r.db.QueryRowContext(ctx, `SELECT data FROM block_data WHERE x = ? AND y = ? AND z = ?`, x, y, z).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false, fmt.Errorf("decode block data at %d,%d,%d: %w", x, y, z, err)
	}
	return data, true, nil
}

func (r *BlockDataRepo) Delete(ctx context.Context, x, y, z int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM block_data WHERE x = ? AND y = ? AND z = ?`, x, y, z)
	return err
}
