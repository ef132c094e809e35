package dataset

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Snapshots are read-only SQLite copies of the cleaned dataset, written by
// the importer. The schema mirrors the CSV columns; natural order is kept
// via the rowid.

const snapshotSchema = `
	CREATE TABLE IF NOT EXISTS rolls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		episode INTEGER NOT NULL,
		character TEXT NOT NULL,
		roll_type TEXT NOT NULL,
		die TEXT NOT NULL DEFAULT '',
		total INTEGER NOT NULL,
		damage INTEGER NOT NULL DEFAULT 0,
		kill INTEGER NOT NULL DEFAULT 0
	);
`

// WriteSnapshot writes the record sequence to a SQLite file, replacing any
// previous contents.
func WriteSnapshot(path string, records []Record) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(snapshotSchema); err != nil {
		return fmt.Errorf("snapshot: create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rolls"); err != nil {
		return fmt.Errorf("snapshot: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rolls (episode, character, roll_type, die, total, damage, kill)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("snapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		kill := 0
		if r.Kill {
			kill = 1
		}
		if _, err := stmt.Exec(r.Episode, r.Character, r.RollType, r.Die, r.Total, r.Damage, kill); err != nil {
			return fmt.Errorf("snapshot: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshot: commit: %w", err)
	}
	return nil
}

// LoadSnapshot reads a SQLite snapshot back into a Table, preserving the
// insert order.
func LoadSnapshot(path string) (*Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT episode, character, roll_type, die, total, damage, kill
		FROM rolls ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query %s: %w", path, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var kill int
		if err := rows.Scan(&r.Episode, &r.Character, &r.RollType, &r.Die, &r.Total, &r.Damage, &kill); err != nil {
			return nil, fmt.Errorf("snapshot: scan: %w", err)
		}
		r.Kill = kill != 0
		if r.Die == "d20" {
			r.Nat1 = r.Total == 1
			r.Nat20 = r.Total == 20
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: iterate: %w", err)
	}

	return newTable(records), nil
}
