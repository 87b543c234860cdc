// Package sqlite provides SQLite implementation of repository interfaces
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB with SQLite-specific optimizations
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection with optimizations for shared hosting
func New(dbPath string) (*DB, error) {
	cleanPath := filepath.Clean(dbPath)

	if !filepath.IsLocal(cleanPath) && !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("invalid database path: potential path traversal detected")
	}

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode for better concurrent read performance, busy_timeout to
	// handle lock contention gracefully
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=cache_size(2000)", cleanPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection to minimize memory on constrained hosts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT DEFAULT 'editor',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS variables (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			code TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			brand TEXT,
			supplier TEXT,
			category TEXT,
			subcategory TEXT,
			public_price REAL NOT NULL DEFAULT 0,
			workshop_price REAL,
			cost_price REAL
		)`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			make TEXT NOT NULL,
			model TEXT NOT NULL,
			trim TEXT,
			year INTEGER,
			engine_size TEXT,
			engine_code TEXT,
			oil_type TEXT,
			oil_viscosity TEXT,
			oil_liters REAL DEFAULT 0,
			change_interval TEXT,
			oil_labor_minutes REAL DEFAULT 0,
			oil_codes TEXT,
			oil_filter_codes TEXT,
			air_filter_codes TEXT,
			fuel_filter_codes TEXT,
			cabin_filter_codes TEXT,
			timing_kit_codes TEXT,
			tensioner_codes TEXT,
			roller_codes TEXT,
			water_pump_codes TEXT,
			belt_labor_minutes REAL DEFAULT 0,
			combo_codes TEXT,
			notes TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			user_email TEXT NOT NULL,
			action TEXT NOT NULL,
			record_id INTEGER NOT NULL,
			detail TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_vehicles_make_model ON vehicles(make, model)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_log(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category, subcategory)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
