package models

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var db *sql.DB

var schema = []string{
	`CREATE TABLE IF NOT EXISTS root_folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		folder_id INTEGER,
		cron TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id INTEGER,
		name TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		file_count INTEGER NOT NULL DEFAULT 0,
		total_length INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id)`,
	`CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		folder_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		format TEXT NOT NULL DEFAULT '',
		length INTEGER NOT NULL DEFAULT 0,
		starred INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		taken_at INTEGER NOT NULL DEFAULT 0,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		orientation INTEGER NOT NULL DEFAULT 1,
		duration REAL NOT NULL DEFAULT 0,
		geotag_id INTEGER,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_files_folder ON files(folder_id)`,
	`CREATE INDEX IF NOT EXISTS idx_files_taken_at ON files(taken_at)`,
	`CREATE TABLE IF NOT EXISTS albums (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id INTEGER,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS album_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		album_id INTEGER NOT NULL,
		file_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(album_id, file_id)
	)`,
	`CREATE TABLE IF NOT EXISTS person_groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		group_id INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS faces (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id TEXT NOT NULL,
		person_id INTEGER,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		rotation REAL NOT NULL DEFAULT 0,
		status INTEGER NOT NULL DEFAULT 3,
		uncertainty REAL NOT NULL DEFAULT 1,
		thumbnail BLOB,
		descriptor TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_faces_file ON faces(file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_faces_person ON faces(person_id)`,
	`CREATE TABLE IF NOT EXISTS geotags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS geotag_areas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		radius REAL NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scan_root_folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scan_folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_id INTEGER NOT NULL,
		parent_id INTEGER,
		name TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scan_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		folder_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		options TEXT NOT NULL DEFAULT '{}',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'viewer',
		token_version INTEGER NOT NULL DEFAULT 0,
		banned INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_configs (
		username TEXT PRIMARY KEY,
		desktop TEXT NOT NULL DEFAULT '{}',
		mobile TEXT NOT NULL DEFAULT '{}',
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invites (
		token TEXT PRIMARY KEY,
		role TEXT NOT NULL DEFAULT 'viewer',
		created_by TEXT NOT NULL,
		used_by TEXT,
		created_at INTEGER NOT NULL
	)`,
}

// Initialize opens the SQLite database in the data directory and applies the schema.
func Initialize(dataDirectory string) error {
	return InitializeWithMigration(dataDirectory, true)
}

// InitializeWithMigration opens the database connection, optionally applying
// the schema. CLI subcommands that only read pass migrate=false.
func InitializeWithMigration(dataDirectory string, migrate bool) error {
	databasePath := filepath.Join(dataDirectory, "photon.db")

	var err error
	db, err = sql.Open("sqlite3", "file:"+databasePath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if migrate {
		if err := applySchema(); err != nil {
			return err
		}
		log.Debugf("Database ready at %s", databasePath)
	}

	return nil
}

func applySchema() error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// PingDB checks database connectivity
func PingDB() error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return db.Ping()
}

// BeginTx starts a new transaction
func BeginTx() (*sql.Tx, error) {
	return db.Begin()
}
