package storage

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/pable/go-cricket-metrics/internal/names"
)

// PlayerNames returns every distinct canonical name in the people registry, sorted.
func (db *DB) PlayerNames() ([]string, error) {
	rows, err := db.conn.Query("SELECT DISTINCT name FROM people ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Popularity returns the stored popularity weights.
func (db *DB) Popularity() (map[string]int, error) {
	rows, err := db.conn.Query("SELECT name, weight FROM popularity")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			name   string
			weight int
		)
		if err := rows.Scan(&name, &weight); err != nil {
			return nil, err
		}
		out[name] = weight
	}
	return out, rows.Err()
}

// SetPopularity stores or overwrites one weight.
func (db *DB) SetPopularity(name string, weight int) error {
	if weight < 0 {
		return crerr.Newf("popularity for %s must not be negative, got %d", name, weight)
	}
	_, err := db.conn.Exec("INSERT OR REPLACE INTO popularity(name, weight) VALUES (?, ?)", name, weight)
	return crerr.Wrapf(err, "set popularity for %s", name)
}

// SeedPopularity inserts the given weights, keeping any weight already set.
func (db *DB) SeedPopularity(weights map[string]int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO popularity(name, weight) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for name, w := range weights {
		if _, err := stmt.Exec(name, w); err != nil {
			return crerr.Wrapf(err, "seed popularity for %s", name)
		}
	}
	return tx.Commit()
}

// Candidates pairs every player name with its stored weight.
func (db *DB) Candidates() ([]names.Candidate, error) {
	list, err := db.PlayerNames()
	if err != nil {
		return nil, crerr.Wrap(err, "load player names")
	}
	pop, err := db.Popularity()
	if err != nil {
		return nil, crerr.Wrap(err, "load popularity")
	}
	return names.Candidates(list, pop), nil
}
