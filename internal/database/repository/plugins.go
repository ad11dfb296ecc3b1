package repository

import (
	"context"
	"database/sql"
)

// PluginRepo persists which plugins are enabled.
type PluginRepo struct {
	db *sql.DB
}

func NewPluginRepo(db *sql.DB) *PluginRepo { return &PluginRepo{db: db} }

func (r *PluginRepo) SetEnabled(ctx context.Context, name string, enabled bool) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO plugins(name, enabled, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
	 enabled=excluded.enabled,
	 updated_at=CURRENT_TIMESTAMP;
	`, name, enabled)
	return err
}

// Get returns nil when the plugin has no stored state.
func (r *PluginRepo) Get(ctx context.Context, name string) (*PluginState, error) {
	var s PluginState
	err := r.db.QueryRowContext(ctx, `SELECT name, enabled, updated_at FROM plugins WHERE name = ?`, name).
		Scan(&s.Name, &s.Enabled, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PluginRepo) List(ctx context.Context) ([]PluginState, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, enabled, updated_at FROM plugins ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PluginState
	for rows.Next() {
		var s PluginState
		if err := rows.Scan(&s.Name, &s.Enabled, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
