package storage

import (
	"database/sql"
	"fmt"
)

// Overview counts what the store holds.
type Overview struct {
	Matches   int
	Players   int
	FirstDate string
	LastDate  string
	Seasons   []SeasonCount
}

// SeasonCount is the number of stored matches in one season.
type SeasonCount struct {
	Season  string
	Matches int
}

// Overview summarises the stored corpus.
func (db *DB) Overview() (Overview, error) {
	var (
		o           Overview
		first, last sql.NullString
	)
	err := db.conn.QueryRow("SELECT COUNT(1), MIN(match_date), MAX(match_date) FROM matches").
		Scan(&o.Matches, &first, &last)
	if err != nil {
		return o, err
	}
	o.FirstDate, o.LastDate = first.String, last.String
	if err := db.conn.QueryRow("SELECT COUNT(DISTINCT name) FROM people").Scan(&o.Players); err != nil {
		return o, err
	}

	rows, err := db.conn.Query("SELECT season, COUNT(1) FROM matches GROUP BY season ORDER BY season DESC")
	if err != nil {
		return o, err
	}
	defer rows.Close()
	for rows.Next() {
		var s SeasonCount
		if err := rows.Scan(&s.Season, &s.Matches); err != nil {
			return o, err
		}
		o.Seasons = append(o.Seasons, s)
	}
	return o, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows
// rendered as strings. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
