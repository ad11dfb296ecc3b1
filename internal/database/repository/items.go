package repository

import (
	"context"
	"database/sql"
)

// ItemRepo handles item definitions.
type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

func (r *ItemRepo) Upsert(ctx context.Context, it Item) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO items(name, display_name, max_stack, block_id) VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
	 display_name=excluded.display_name,
	 max_stack=excluded.max_stack,
	 block_id=excluded.block_id;
	`, it.Name, it.DisplayName, it.MaxStack, it.BlockID)
	return err
}

func (r *ItemRepo) ByName(ctx context.Context, name string) (*Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT name, display_name, max_stack, block_id FROM items WHERE name = ?`, name)
	var it Item
	if err := row.Scan(&it.Name, &it.DisplayName, &it.MaxStack, &it.BlockID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, display_name, max_stack, block_id FROM items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Name, &it.DisplayName, &it.MaxStack, &it.BlockID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
