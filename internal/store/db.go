package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
func NewDB(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; a single pooled connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{db}, nil
}

func runMigrations(db *sql.DB) error {
	// Documents and chats are keyed by (owner, id): ids only need to be
	// unique within the owner's namespace.
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT,
			full_name TEXT,
			hashed_password TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email) WHERE email <> ''`,
		`CREATE TABLE IF NOT EXISTS documents (
			owner TEXT NOT NULL,
			id TEXT NOT NULL,
			filename TEXT NOT NULL,
			file_type TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			upload_date DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			error TEXT,
			num_pages INTEGER,
			tags TEXT,
			PRIMARY KEY (owner, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_owner_date ON documents(owner, upload_date)`,
		`CREATE TABLE IF NOT EXISTS chats (
			owner TEXT NOT NULL,
			id TEXT NOT NULL,
			user_id TEXT,
			title TEXT NOT NULL DEFAULT '',
			document_ids TEXT,
			messages TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (owner, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chats_owner_created ON chats(owner, created_at)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}
