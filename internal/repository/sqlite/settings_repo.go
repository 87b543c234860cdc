package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// SettingsRepo implements repository.SettingsRepository over the
// variables table, which holds the workshop's runtime knobs: the
// hourly labor rate (precio-hora) and the tier access keys
// (clave_taller, clave_costo).
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new SettingsRepo
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get reads a variable. A variable that was never set reads as the
// empty string, not as an error; callers decide whether a fallback
// applies.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM variables WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read variable %s: %w", key, err)
	}
	return value, nil
}

// Set writes a variable, stamping the modification time
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO variables (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			  ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write variable %s: %w", key, err)
	}
	return nil
}
