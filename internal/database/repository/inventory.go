package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxSlots is how many piles the inventory holds.
const MaxSlots = 36

// ErrInventoryFull is returned when a give needs more slots than are free.
var ErrInventoryFull = errors.New("inventory full")

// InventoryRepo handles inventory slots.
type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Give adds count items, topping up piles of the same item and tags before
// opening new slots. maxStack <= 0 means unlimited. Nothing is stored when the
// items do not fit in the free slots.
func (r *InventoryRepo) Give(ctx context.Context, item string, count int, tags *string, maxStack int) error {
	if count <= 0 {
		return fmt.Errorf("give %s: count must be positive, got %d", item, count)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
	SELECT id, count FROM inventory
	WHERE item = ? AND ((tags IS NULL AND ? IS NULL) OR tags = ?)
	ORDER BY slot`, item, tags, tags)
	if err != nil {
		return err
	}
	type pile struct {
		id    string
		count int
	}
	var piles []pile
	for rows.Next() {
		var p pile
		if err := rows.Scan(&p.id, &p.count); err != nil {
			rows.Close()
			return err
		}
		piles = append(piles, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	remaining := count
	for _, p := range piles {
		if remaining == 0 {
			break
		}
		room := remaining
		if maxStack > 0 {
			room = min(remaining, maxStack-p.count)
		}
		if room <= 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE inventory SET count = count + ? WHERE id = ?`, room, p.id); err != nil {
			return err
		}
		remaining -= room
	}

	if remaining == 0 {
		return tx.Commit()
	}
	var used, slot int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(MAX(slot) + 1, 0) FROM inventory`).Scan(&used, &slot); err != nil {
		return err
	}
	need := 1
	if maxStack > 0 {
		need = (remaining + maxStack - 1) / maxStack
	}
	if used+need > MaxSlots {
		return fmt.Errorf("give %s x %d: %w: %d of %d slots free", item, count, ErrInventoryFull, MaxSlots-used, MaxSlots)
	}
	for ; remaining > 0; slot++ {
		n := remaining
		if maxStack > 0 {
			n = min(remaining, maxStack)
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO inventory(id, slot, item, count, tags, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`, uuid.NewString(), slot, item, n, tags); err != nil {
			return err
		}
		remaining -= n
	}
	return tx.Commit()
}

func (r *InventoryRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM inventory`)
	return err
}

func (r *InventoryRepo) List(ctx context.Context) ([]InventoryPile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, slot, item, count, tags, created_at FROM inventory ORDER BY slot`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InventoryPile
	for rows.Next() {
		var p InventoryPile
		if err := rows.Scan(&p.ID, &p.Slot, &p.Item, &p.Count, &p.Tags, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
