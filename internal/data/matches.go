package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"smashlog/internal/logger"
	"smashlog/internal/match"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// MatchDB is a local SQLite index of the game log used for statistics.
// The JSON log stays the source of truth; the index can always be rebuilt from it.
type MatchDB struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenMatchDB opens (or creates) the index at path
func OpenMatchDB(path string, log zerolog.Logger) (*MatchDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single local user
	db.SetMaxOpenConns(1)

	mdb := &MatchDB{
		db:  db,
		log: logger.Component(log, "matchdb"),
	}
	if err := mdb.init(); err != nil {
		db.Close()
		return nil, err
	}

	return mdb, nil
}

// init creates the schema
func (m *MatchDB) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			timestamp REAL PRIMARY KEY,
			mode TEXT NOT NULL,
			stage TEXT NOT NULL,
			win INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS participants (
			timestamp REAL NOT NULL,
			slot INTEGER NOT NULL,
			character_id TEXT NOT NULL,
			stocks INTEGER NOT NULL,
			PRIMARY KEY (timestamp, slot)
		);

		CREATE INDEX IF NOT EXISTS idx_participants_character ON participants (character_id);
	`

	if _, err := m.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (m *MatchDB) Close() error {
	return m.db.Close()
}

// Rebuild replaces the whole index with records in a single transaction
func (m *MatchDB) Rebuild(records []match.Record) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after Commit()

	if _, err := tx.Exec("DELETE FROM participants"); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}

	if err := insertRecords(tx, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	m.log.Info().Int("matches", len(records)).Msg("Rebuilt match index")
	return nil
}

// Insert adds one record. A record with the same timestamp is replaced, as in the log.
func (m *MatchDB) Insert(r match.Record) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM participants WHERE timestamp = ?", r.Timestamp()); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertRecords(tx, []match.Record{r}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertRecords(tx *sql.Tx, records []match.Record) error {
	stmtMatch, err := tx.Prepare(`
		INSERT INTO matches (timestamp, mode, stage, win)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(timestamp) DO UPDATE SET
			mode = excluded.mode,
			stage = excluded.stage,
			win = excluded.win
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare matches statement: %w", err)
	}
	defer stmtMatch.Close()

	stmtParticipant, err := tx.Prepare(`
		INSERT INTO participants (timestamp, slot, character_id, stocks)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare participants statement: %w", err)
	}
	defer stmtParticipant.Close()

	for _, r := range records {
		win := 0
		if r.IsWin() {
			win = 1
		}
		if _, err := stmtMatch.Exec(r.Timestamp(), string(r.Mode()), r.Stage(), win); err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}

		stocks := r.Stocks()
		for slot, c := range r.Participants() {
			if _, err := stmtParticipant.Exec(r.Timestamp(), slot, c.ID, stocks[slot]); err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}
	}
	return nil
}

// Count returns the number of indexed matches
func (m *MatchDB) Count() (int, error) {
	var count int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}
