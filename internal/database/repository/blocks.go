package repository

import (
	"context"
	"database/sql"
)

// BlockRepo stores placed blocks. Cells without a row use the world's
// generated terrain.
type BlockRepo struct {
	db *sql.DB
}

func NewBlockRepo(db *sql.DB) *BlockRepo { return &BlockRepo{db: db} }

func (r *BlockRepo) Set(ctx context.Context, x, y, z, blockID int) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO blocks(x, y, z, block_id, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(x, y, z) DO UPDATE SET
	 block_id=excluded.block_id,
	 updated_at=CURRENT_TIMESTAMP;
	`, x, y, z, blockID)
	return err
}

// Get returns the stored block id and whether the cell has a row.
func (r *BlockRepo) Get(ctx context.Context, x, y, z int) (int, bool, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `SELECT block_id FROM blocks WHERE x = ? AND y = ? AND z = ?`, x, y, z).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// InBox lists stored blocks inside the inclusive box.
func (r *BlockRepo) InBox(ctx context.Context, minX, minY, minZ, maxX, maxY, maxZ int) ([]Block, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT x, y, z, block_id, updated_at FROM blocks
	WHERE x BETWEEN ? AND ? AND y BETWEEN ? AND ? AND z BETWEEN ? AND ?
	ORDER BY x, y, z`, minX, maxX, minY, maxY, minZ, maxZ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.X, &b.Y, &b.Z, &b.BlockID, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
