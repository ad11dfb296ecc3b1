package repository

import (
	"context"
	"database/sql"
)

// BlockTypeRepo handles block types.
type BlockTypeRepo struct {
	db *sql.DB
}

func NewBlockTypeRepo(db *sql.DB) *BlockTypeRepo { return &BlockTypeRepo{db: db} }

func (r *BlockTypeRepo) Upsert(ctx context.Context, t BlockType) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO block_types(id, name, display_name, solid) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 display_name=excluded.display_name,
	 solid=excluded.solid;
	`, t.ID, t.Name, t.DisplayName, t.Solid)
	return err
}

func (r *BlockTypeRepo) ByName(ctx context.Context, name string) (*BlockType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, display_name, solid FROM block_types WHERE name = ?`, name)
	return scanBlockType(row)
}

func (r *BlockTypeRepo) Get(ctx context.Context, id int) (*BlockType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, display_name, solid FROM block_types WHERE id = ?`, id)
	return scanBlockType(row)
}

func (r *BlockTypeRepo) List(ctx context.Context) ([]BlockType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, display_name, solid FROM block_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BlockType
	for rows.Next() {
		var t BlockType
		if err := rows.Scan(&t.ID, &t.Name, &t.DisplayName, &t.Solid); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanBlockType(row *sql.Row) (*BlockType, error) {
	var t BlockType
	if err := row.Scan(&t.ID, &t.Name, &t.DisplayName, &t.Solid); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
