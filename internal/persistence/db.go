// Package persistence stores subsector documents in SQLite: named save
// slots holding the versioned JSON document, plus a small metadata
// table for application state.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Absle/swt-gen/internal/subsector"
)

// ErrNoSuchSlot marks a load from a save slot that does not exist.
var ErrNoSuchSlot = errors.New("no such save slot")

// DB wraps a SQLite connection for subsector document storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		slot TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		variant TEXT NOT NULL,
		worlds INTEGER NOT NULL,
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS app_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SlotInfo describes a stored document without its body.
type SlotInfo struct {
	ID        string `db:"id" json:"id"`
	Slot      string `db:"slot" json:"slot"`
	Name      string `db:"name" json:"name"`
	Variant   string `db:"variant" json:"variant"`
	Worlds    int    `db:"worlds" json:"worlds"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// SaveSlot serializes the subsector into the named slot, replacing any
// previous document there. Returns the document id.
func (db *DB) SaveSlot(slot string, s *subsector.Subsector) (string, error) {
	body, err := subsector.Save(s)
	if err != nil {
		return "", fmt.Errorf("save slot %q: %w", slot, err)
	}

	id := uuid.NewString()
	_, err = db.conn.Exec(`INSERT INTO documents
		(id, slot, name, variant, worlds, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			name = excluded.name,
			variant = excluded.variant,
			worlds = excluded.worlds,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		id, slot, s.Name, s.Variant, len(s.Worlds),
		string(body), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("save slot %q: %w", slot, err)
	}

	slog.Info("subsector saved", "slot", slot, "name", s.Name, "worlds", len(s.Worlds))
	return id, nil
}

// LoadSlot reads and fully validates the document in the named slot.
func (db *DB) LoadSlot(slot string) (*subsector.Subsector, error) {
	var body string
	err := db.conn.Get(&body, "SELECT body FROM documents WHERE slot = ?", slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchSlot, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", slot, err)
	}

	s, err := subsector.Load([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", slot, err)
	}
	slog.Info("subsector loaded", "slot", slot, "name", s.Name, "worlds", len(s.Worlds))
	return s, nil
}

// DeleteSlot removes a stored document.
func (db *DB) DeleteSlot(slot string) error {
	res, err := db.conn.Exec("DELETE FROM documents WHERE slot = ?", slot)
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNoSuchSlot, slot)
	}
	return nil
}

// ListSlots returns every stored document, most recently saved first.
func (db *DB) ListSlots() ([]SlotInfo, error) {
	var slots []SlotInfo
	err := db.conn.Select(&slots,
		"SELECT id, slot, name, variant, worlds, updated_at FROM documents ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// SaveMeta stores a key-value pair in application metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO app_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value; missing keys return "".
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM app_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}
