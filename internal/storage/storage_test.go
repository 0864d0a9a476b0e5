package storage

import (
	"fmt"
	"testing"

	"github.com/pable/go-cricket-metrics/internal/parser"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// makeParsed decodes a minimal cricsheet document: batter faces two balls
// from bowler, scoring runs off the second.
func makeParsed(t *testing.T, id, date, season, team1, team2, batter, bowler string, runs int) *parser.Parsed {
	t.Helper()
	doc := fmt.Sprintf(`{
	  "info": {
	    "dates": [%q], "season": %q, "venue": "Eden Gardens", "city": "Kolkata",
	    "teams": [%q, %q], "outcome": {"winner": %q, "by": {"runs": 12}},
	    "player_of_match": [%q],
	    "players": {%q: [%q], %q: [%q]},
	    "registry": {"people": {%q: "p-bat", %q: "p-bowl"}}
	  },
	  "innings": [{"team": %q, "overs": [{"over": 0, "deliveries": [
	    {"batter": %q, "bowler": %q, "non_striker": "x", "runs": {"batter": 0, "extras": 0, "total": 0}},
	    {"batter": %q, "bowler": %q, "non_striker": "x", "runs": {"batter": %d, "extras": 0, "total": %d}}
	  ]}]}]
	}`, date, season, team1, team2, team1, batter,
		team1, batter, team2, bowler,
		batter, bowler,
		team1, batter, bowler, batter, bowler, runs, runs)
	p, err := parser.Decode([]byte(doc), id)
	if err != nil {
		t.Fatalf("decode fixture %s: %v", id, err)
	}
	return p
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	stored, err := db.InsertMatch(makeParsed(t, "m1", "2023-01-01", "2022/23", "India", "Australia", "V Kohli", "PJ Cummins", 4))
	if err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	if !stored {
		t.Error("expected first insert to be stored")
	}

	exists, err := db.MatchExists("m1")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	p := makeParsed(t, "idem1", "2023-01-01", "2023", "India", "Australia", "V Kohli", "PJ Cummins", 4)
	if _, err := db.InsertMatch(p); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	stored, err := db.InsertMatch(p)
	if err != nil {
		t.Errorf("second InsertMatch should succeed (idempotent): %v", err)
	}
	if stored {
		t.Error("identical payload should be skipped")
	}

	// A changed payload under the same id replaces the earlier copy.
	changed := makeParsed(t, "idem1", "2023-01-01", "2023", "India", "Australia", "RG Sharma", "PJ Cummins", 6)
	stored, err = db.InsertMatch(changed)
	if err != nil || !stored {
		t.Fatalf("replacement insert: stored=%v err=%v", stored, err)
	}
	names, _ := db.PlayerNames()
	if len(names) != 2 || names[0] != "PJ Cummins" || names[1] != "RG Sharma" {
		t.Errorf("people not replaced: %v", names)
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(makeParsed(t, "h1", "2023-01-01", "2023", "India", "Australia", "V Kohli", "PJ Cummins", 1))
	db.InsertMatch(makeParsed(t, "h2", "2023-02-01", "2023", "England", "India", "JE Root", "JJ Bumrah", 1))
	db.InsertMatch(makeParsed(t, "h3", "2024-02-01", "2024", "England", "Australia", "JE Root", "PJ Cummins", 1))

	list, err := db.ListMatches(MatchFilter{})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(list))
	}
	// Ordered by match_date DESC, h3 should be first.
	if list[0].ID != "h3" {
		t.Errorf("expected h3 first (newest), got %s", list[0].ID)
	}
	if list[0].Margin != "12 runs" || len(list[0].PlayerOfMatch) != 1 || list[0].PlayerOfMatch[0] != "JE Root" {
		t.Errorf("header columns not round-tripped: %+v", list[0])
	}

	india, _ := db.ListMatches(MatchFilter{Team: "India"})
	if len(india) != 2 {
		t.Errorf("team filter: expected 2, got %d", len(india))
	}
	ranged, _ := db.ListMatches(MatchFilter{From: "2023-01-15", To: "2023-12-31"})
	if len(ranged) != 1 || ranged[0].ID != "h2" {
		t.Errorf("date filter: got %+v", ranged)
	}
	season, _ := db.ListMatches(MatchFilter{Season: "2024"})
	if len(season) != 1 || season[0].ID != "h3" {
		t.Errorf("season filter: got %+v", season)
	}
}

func TestLoadCorpus(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(makeParsed(t, "b", "2023-02-01", "2023", "India", "Australia", "V Kohli", "PJ Cummins", 4))
	db.InsertMatch(makeParsed(t, "a", "2023-01-01", "2023", "India", "Australia", "V Kohli", "PJ Cummins", 6))

	corpus, err := db.LoadCorpus(MatchFilter{})
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(corpus) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(corpus))
	}
	if corpus[0].ID != "a" || corpus[1].ID != "b" {
		t.Errorf("expected date order a, b; got %s, %s", corpus[0].ID, corpus[1].ID)
	}
	d := corpus[0].Innings[0].Overs[0].Deliveries[1]
	if d.Batter != "V Kohli" || d.Runs == nil || d.Runs.Batter != 6 {
		t.Errorf("delivery not decoded from payload: %+v", d)
	}

	only, err := db.LoadCorpus(MatchFilter{IDs: []string{"b"}})
	if err != nil || len(only) != 1 || only[0].ID != "b" {
		t.Errorf("id filter: %v %v", only, err)
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(makeParsed(t, "1384392", "2023-10-05", "2023/24", "England", "New Zealand", "JE Root", "TA Boult", 4))

	m, err := db.GetMatchByPrefix("13843")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if m == nil || m.ID != "1384392" {
		t.Fatalf("expected match for prefix '13843', got %+v", m)
	}

	m2, err := db.GetMatchByPrefix("999")
	if err != nil {
		t.Fatalf("GetMatchByPrefix no-match: %v", err)
	}
	if m2 != nil {
		t.Error("expected nil for unknown prefix")
	}
}

func TestPopularity(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(makeParsed(t, "m1", "2023-01-01", "2023", "India", "Australia", "V Kohli", "PJ Cummins", 1))

	if err := db.SeedPopularity(map[string]int{"V Kohli": 100, "PJ Cummins": 70}); err != nil {
		t.Fatalf("SeedPopularity: %v", err)
	}
	if err := db.SetPopularity("PJ Cummins", 85); err != nil {
		t.Fatalf("SetPopularity: %v", err)
	}
	// Seeding again keeps the explicit weight.
	db.SeedPopularity(map[string]int{"PJ Cummins": 10})

	pop, err := db.Popularity()
	if err != nil {
		t.Fatalf("Popularity: %v", err)
	}
	if pop["V Kohli"] != 100 || pop["PJ Cummins"] != 85 {
		t.Errorf("unexpected weights %v", pop)
	}

	if err := db.SetPopularity("V Kohli", -300); err == nil {
		t.Error("expected negative weight to be rejected")
	}

	cands, err := db.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(cands) != 2 || cands[0].Name != "PJ Cummins" || cands[0].Popularity != 85 {
		t.Errorf("unexpected candidates %+v", cands)
	}
}

func TestOverviewAndRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(makeParsed(t, "m1", "2023-01-01", "2023", "India", "Australia", "V Kohli", "PJ Cummins", 1))
	db.InsertMatch(makeParsed(t, "m2", "2024-03-01", "2024", "India", "Australia", "V Kohli", "MA Starc", 1))

	o, err := db.Overview()
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if o.Matches != 2 || o.Players != 3 || o.FirstDate != "2023-01-01" || o.LastDate != "2024-03-01" {
		t.Errorf("unexpected overview %+v", o)
	}
	if len(o.Seasons) != 2 || o.Seasons[0].Season != "2024" {
		t.Errorf("unexpected seasons %+v", o.Seasons)
	}

	cols, rows, err := db.QueryRaw("SELECT id, match_number, NULL AS empty_col FROM matches ORDER BY id")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || len(rows) != 2 {
		t.Fatalf("unexpected shape cols=%v rows=%v", cols, rows)
	}
	if rows[0][0] != "m1" || rows[0][1] != "0" || rows[0][2] != "NULL" {
		t.Errorf("unexpected row %v", rows[0])
	}

	if err := db.Drop(); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if o, _ := db.Overview(); o.Matches != 0 || o.Players != 0 {
		t.Errorf("expected empty store after Drop, got %+v", o)
	}
}
