// Package db is the SQLite storage layer for the Wakala back-office.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for the back-office service.
type DB struct {
	*sql.DB
	path string
}

// NewDB opens the database at path and runs migrations.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{DB: db, path: path}, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Wakala appointments. Dates are stored as YYYY-MM-DD text, times
		// as HH:MM text, matching the admin API surface.
		`CREATE TABLE IF NOT EXISTS appointments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT UNIQUE NOT NULL,
			name_en TEXT NOT NULL,
			name_ar TEXT,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'submitted',
			notes TEXT,
			service_en TEXT NOT NULL,
			service_ar TEXT,
			assigned_staff TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Default weekly working hours, one row per Monday-first weekday.
		`CREATE TABLE IF NOT EXISTS weekday_schedules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			weekday INTEGER UNIQUE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			open_hour INTEGER NOT NULL,
			close_hour INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Per-date working-hours exceptions (holidays, special hours).
		`CREATE TABLE IF NOT EXISTS day_overrides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT UNIQUE NOT NULL,
			is_holiday BOOLEAN NOT NULL DEFAULT 0,
			open_hour INTEGER NOT NULL DEFAULT 0,
			close_hour INTEGER NOT NULL DEFAULT 0,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Member and volunteer intake.
		`CREATE TABLE IF NOT EXISTS memberships (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name_en TEXT NOT NULL,
			full_name_ar TEXT,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			city TEXT,
			member_type TEXT NOT NULL DEFAULT 'member',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Staff Telegram registrations for booking notifications.
		`CREATE TABLE IF NOT EXISTS staff_contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			chat_id INTEGER UNIQUE NOT NULL,
			added_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date, start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_email ON appointments(email)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_phone ON appointments(phone)`,
		`CREATE INDEX IF NOT EXISTS idx_overrides_date ON day_overrides(date)`,
		`CREATE INDEX IF NOT EXISTS idx_memberships_email ON memberships(email)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
