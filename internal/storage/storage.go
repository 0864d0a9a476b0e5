// Package storage keeps ingested matches in SQLite. Each match is stored
// as its original JSON payload plus a few header columns used for
// filtering; the corpus is rebuilt by decoding the payloads.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB for the match store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, crerr.Wrap(err, "open db")
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		conn.SetMaxOpenConns(1)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, crerr.Wrap(err, "apply schema")
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Drop removes every stored match, person and popularity weight.
func (db *DB) Drop() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range []string{"people", "matches", "popularity"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return crerr.Wrapf(err, "clear %s", table)
		}
	}
	return tx.Commit()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
