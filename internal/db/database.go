package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Database wraps the sqlite connection used for report storage.
type Database struct {
	db *sql.DB
}

// NewDatabase opens the sqlite database at the given DSN, verifies the
// connection and creates the schema.
func NewDatabase(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Verify we can actually connect to the database
	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("create tables failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	// The unique index on the natural key is what lets the upsert's
	// conflict clause fire; re-delivered events can never produce a
	// second row.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			display_phone_number TEXT NOT NULL DEFAULT '',
			phone_number_id TEXT NOT NULL DEFAULT '',
			message_template_id TEXT NOT NULL DEFAULT '',
			message_template_name TEXT NOT NULL DEFAULT '',
			waba_id TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			message_timestamp TEXT NOT NULL DEFAULT '',
			contact_wa_id TEXT NOT NULL DEFAULT '',
			contact_name TEXT NOT NULL DEFAULT '',
			error_code TEXT NOT NULL DEFAULT '',
			error_title TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			error_data TEXT NOT NULL DEFAULT '',
			message_from TEXT NOT NULL DEFAULT '',
			message_type TEXT NOT NULL DEFAULT '',
			message_body TEXT NOT NULL DEFAULT '',
			UNIQUE (message_timestamp, contact_wa_id)
		)
	`)
	return err
}

// GetDB exposes the underlying handle for repository construction.
func (d *Database) GetDB() *sql.DB {
	if d == nil {
		return nil
	}
	return d.db
}

func (d *Database) Close() error {
	if d == nil {
		return errors.New("database is nil")
	}

	if d.db == nil {
		return errors.New("database already closed")
	}

	err := d.db.Close()
	d.db = nil
	return err
}
