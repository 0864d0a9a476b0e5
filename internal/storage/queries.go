package storage

import (
	"database/sql"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/parser"
)

// MatchFilter narrows the matches read from the store. Zero fields match
// everything; From and To are inclusive ISO dates.
type MatchFilter struct {
	IDs    []string
	From   string
	To     string
	Season string
	Team   string
}

func (f MatchFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if len(f.IDs) > 0 {
		conds = append(conds, "id IN ("+placeholders(len(f.IDs))+")")
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	if f.From != "" {
		conds = append(conds, "match_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		conds = append(conds, "match_date <= ?")
		args = append(args, f.To)
	}
	if f.Season != "" {
		conds = append(conds, "season = ?")
		args = append(args, f.Season)
	}
	if f.Team != "" {
		conds = append(conds, "(team1 = ? OR team2 = ?)")
		args = append(args, f.Team, f.Team)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// StoredHash returns the payload hash of a stored match, or "" if absent.
func (db *DB) StoredHash(id string) (string, error) {
	var hash string
	err := db.conn.QueryRow("SELECT hash FROM matches WHERE id = ?", id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// InsertMatch stores a decoded match together with its people. Re-ingesting
// a file replaces the earlier copy; an identical payload is skipped and
// reported as not stored.
func (db *DB) InsertMatch(p *parser.Parsed) (bool, error) {
	m := p.Match
	prev, err := db.StoredHash(m.ID)
	if err != nil {
		return false, crerr.Wrapf(err, "lookup match %s", m.ID)
	}
	if prev == p.Hash {
		return false, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM people WHERE match_id = ?", m.ID); err != nil {
		return false, crerr.Wrapf(err, "clear people for %s", m.ID)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(id, match_date, season, venue, city, event_name, match_number,
			match_type, team1, team2, winner, margin, motm, hash, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Date(), m.Season, m.Venue, m.City, m.EventName, m.MatchNumber,
		m.MatchType, m.Teams[0], m.Teams[1], m.Outcome.Winner, m.Outcome.Margin(),
		strings.Join(m.PlayerOfMatch, "|"), p.Hash, p.Payload,
	)
	if err != nil {
		return false, crerr.Wrapf(err, "insert match %s", m.ID)
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO people(match_id, name, team, registry_code) VALUES (?,?,?,?)")
	if err != nil {
		return false, err
	}
	defer stmt.Close()
	for name, code := range m.People {
		team, _ := m.TeamOf(name)
		if _, err := stmt.Exec(m.ID, name, team, code); err != nil {
			return false, crerr.Wrapf(err, "insert person %s for %s", name, m.ID)
		}
	}
	return true, tx.Commit()
}

// DeleteMatch removes one match and its people.
func (db *DB) DeleteMatch(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM people WHERE match_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListMatches returns the stored match headers ordered by match_date desc.
func (db *DB) ListMatches(f MatchFilter) ([]model.MatchSummary, error) {
	where, args := f.where()
	rows, err := db.conn.Query(`
		SELECT id, match_date, season, venue, city, event_name, match_number,
		       team1, team2, winner, margin, motm
		FROM matches`+where+` ORDER BY match_date DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		var motm string
		if err := rows.Scan(&s.ID, &s.Date, &s.Season, &s.Venue, &s.City, &s.EventName, &s.MatchNumber,
			&s.Teams[0], &s.Teams[1], &s.Winner, &s.Margin, &motm); err != nil {
			return nil, err
		}
		if motm != "" {
			s.PlayerOfMatch = strings.Split(motm, "|")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose id starts with prefix, or
// nil when there is none.
func (db *DB) GetMatchByPrefix(prefix string) (*model.Match, error) {
	var (
		id      string
		payload []byte
	)
	err := db.conn.QueryRow("SELECT id, payload FROM matches WHERE id LIKE ? ORDER BY id LIMIT 1", prefix+"%").
		Scan(&id, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p, err := parser.Decode(payload, id)
	if err != nil {
		return nil, err
	}
	return p.Match, nil
}

// LoadCorpus decodes every stored match selected by f, in date order.
func (db *DB) LoadCorpus(f MatchFilter) (model.Corpus, error) {
	where, args := f.where()
	rows, err := db.conn.Query("SELECT id, payload FROM matches"+where+" ORDER BY match_date, id", args...)
	if err != nil {
		return nil, crerr.Wrap(err, "select payloads")
	}
	type stored struct {
		id      string
		payload []byte
	}
	var raw []stored
	for rows.Next() {
		var s stored
		if err := rows.Scan(&s.id, &s.payload); err != nil {
			rows.Close()
			return nil, err
		}
		raw = append(raw, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	corpus := make(model.Corpus, 0, len(raw))
	for _, s := range raw {
		p, err := parser.Decode(s.payload, s.id)
		if err != nil {
			return nil, crerr.Wrapf(err, "decode stored match %s", s.id)
		}
		corpus = append(corpus, p.Match)
	}
	return corpus, nil
}
