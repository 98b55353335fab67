// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package state implements the host-variable store: the source of truth
// for configuration at startup and a write-only sink for observable
// device state afterwards.
package state

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Named fields the core reads and writes. Fixed set; anything else in
// the store belongs to the host environment.
const (
	FieldConnected = "connected"
	FieldDisplayOn = "display_on"
	FieldVolume    = "volume"
	FieldMute      = "mute"
	FieldModel     = "model"
	FieldMAC       = "mac"
	FieldIP        = "ip"
	FieldPSK       = "psk"
	FieldDebug     = "debug"
)

// Store is the narrow persistence interface the device core depends on
type Store interface {
	// Get returns the value of a named field, reporting whether it is set
	Get(name string) (string, bool)

	// Set writes a named field
	Set(name, value string) error
}

// SQLiteStore persists variables in a single-table SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a variable store at the given path
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	query := `CREATE TABLE IF NOT EXISTS variables (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create variables table: %w", err)
	}
	return nil
}

// Get returns the value of a named field
func (s *SQLiteStore) Get(name string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM variables WHERE name = ?", name).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// Set writes a named field, replacing any previous value
func (s *SQLiteStore) Set(name, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO variables (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set variable %s: %w", name, err)
	}
	return nil
}
