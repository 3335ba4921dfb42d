// Package kv is the durable key-value slot store. Each slot holds one
// JSON blob under a fixed key; the local persistence strategies keep
// the whole appointment collection (and the mock identity) in slots.
package kv

import (
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the slot database at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open slot store: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping slot store: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate slot store: %w", err)
	}
	return db, nil
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`CREATE TABLE IF NOT EXISTS slots (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// Get returns the slot value and whether the slot exists.
func (d *DB) Get(key string) (string, bool, error) {
	var v string
	err := d.conn.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Put stores value under key, replacing any previous value.
func (d *DB) Put(key, value string) error {
	_, err := d.conn.Exec(
		`INSERT OR REPLACE INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value,
	)
	return err
}

// Delete removes the slot. Deleting a missing slot is a no-op.
func (d *DB) Delete(key string) error {
	_, err := d.conn.Exec(`DELETE FROM slots WHERE key = ?`, key)
	return err
}

func (d *DB) Close() error {
	return d.conn.Close()
}
