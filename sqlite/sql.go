// Package sqlite keeps a journal of finished games. Live game state is never
// written here.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

const createOutcomesTableSQL = `
CREATE TABLE IF NOT EXISTS Outcomes (
    ID INTEGER PRIMARY KEY AUTOINCREMENT,
    Won BOOLEAN NOT NULL,
    Length INTEGER NOT NULL,
    Ticks INTEGER NOT NULL,
    Cause TEXT NOT NULL,
    Rows INTEGER NOT NULL,
    Cols INTEGER NOT NULL,
    StartedAt TIMESTAMP,
    EndedAt TIMESTAMP
);
`

const createOutcomesIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_outcome_ended ON Outcomes (EndedAt);
`

func executeSQL(db *sql.DB, sqlStatement string) error {
	_, err := db.Exec(sqlStatement)
	if err != nil {
		return fmt.Errorf("error executing SQL statement: %s: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createOutcomesTableSQL, createOutcomesIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Journal records outcomes in a SQLite database.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
// Missing parent directories are created.
func Open(path string) (*Journal, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite 同一时间只允许一个写连接
	db.SetMaxOpenConns(1)
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one finished game.
func (j *Journal) Record(ctx context.Context, o structs.Outcome) error {
	// 开启事务
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO Outcomes (Won, Length, Ticks, Cause, Rows, Cols, StartedAt, EndedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		o.Won, o.Length, o.Ticks, o.Cause, o.Rows, o.Cols, o.StartedAt.UTC(), o.EndedAt.UTC())
	if err != nil {
		tx.Rollback()
		return err
	}
	// 提交事务
	return tx.Commit()
}

// Recent returns up to limit outcomes, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]structs.Outcome, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT Won, Length, Ticks, Cause, Rows, Cols, StartedAt, EndedAt FROM Outcomes ORDER BY ID DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := []structs.Outcome{}
	for rows.Next() {
		var o structs.Outcome
		if err := rows.Scan(&o.Won, &o.Length, &o.Ticks, &o.Cause, &o.Rows, &o.Cols, &o.StartedAt, &o.EndedAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
