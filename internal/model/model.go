package model

import "strconv"

// ---- Ball-by-ball records decoded from the source files ----

// Match is one fully loaded match. It is never mutated after decoding.
type Match struct {
	ID            string
	Dates         []string // ISO YYYY-MM-DD, first entry is the match date
	Venue         string
	City          string
	Season        string
	EventName     string
	MatchNumber   int
	MatchType     string
	Teams         [2]string
	Outcome       Outcome
	PlayerOfMatch []string
	Squads        map[string][]string // team -> players
	People        map[string]string   // canonical name -> registry code
	Innings       []Innings
}

// Date returns the first match date, or "" when the record has none.
func (m *Match) Date() string {
	if len(m.Dates) == 0 {
		return ""
	}
	return m.Dates[0]
}

// HasTeam reports whether team played in the match.
func (m *Match) HasTeam(team string) bool {
	return team != "" && (m.Teams[0] == team || m.Teams[1] == team)
}

// Opponent returns the side that is not team, or "" if team did not play.
func (m *Match) Opponent(team string) string {
	switch team {
	case m.Teams[0]:
		return m.Teams[1]
	case m.Teams[1]:
		return m.Teams[0]
	}
	return ""
}

// HasPerson reports whether name appears in the people registry.
func (m *Match) HasPerson(name string) bool {
	_, ok := m.People[name]
	return ok
}

// TeamOf returns the team whose squad lists player.
func (m *Match) TeamOf(player string) (string, bool) {
	for _, team := range m.Teams {
		for _, p := range m.Squads[team] {
			if p == player {
				return team, true
			}
		}
	}
	return "", false
}

// Outcome describes how a match ended.
type Outcome struct {
	Winner    string
	ByRuns    int
	ByWickets int
	Result    string // "tie", "no result", "draw" when there is no winner
}

// Margin renders the winning margin ("45 runs", "6 wickets").
func (o Outcome) Margin() string {
	switch {
	case o.ByRuns > 0:
		return plural(o.ByRuns, "run")
	case o.ByWickets > 0:
		return plural(o.ByWickets, "wicket")
	case o.Result != "":
		return o.Result
	}
	return ""
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// Innings is one team's batting turn.
type Innings struct {
	Team  string
	Overs []Over
}

// Over holds the deliveries of one over. Number is 0-indexed and may skip values.
type Over struct {
	Number     int
	Deliveries []Delivery
}

// Delivery is one bowled ball. Runs is nil when the source omitted it.
type Delivery struct {
	Batter     string
	Bowler     string
	NonStriker string
	Runs       *Runs
	Extras     *Extras
	Wicket     *Wicket

	// ExtraWickets holds any wicket entries after the first. Analytics ignore it.
	ExtraWickets []Wicket
}

// Runs is the runs breakdown of a delivery.
type Runs struct {
	Batter int
	Extras int
	Total  int
}

// Valid reports whether the breakdown is internally consistent.
func (r Runs) Valid() bool {
	return r.Batter >= 0 && r.Extras >= 0 && r.Total >= r.Batter
}

// Extras carries the per-kind extras on a delivery.
type Extras struct {
	Wides   int
	NoBalls int
	Byes    int
	LegByes int
	Penalty int
}

// Wicket is a dismissal recorded on a delivery.
type Wicket struct {
	Kind      string
	PlayerOut string
	Fielders  []string
}

// Dismissal kinds that are not credited to the bowler.
const (
	KindRunOut              = "run out"
	KindRetiredHurt         = "retired hurt"
	KindRetiredOut          = "retired out"
	KindObstructingTheField = "obstructing the field"
)

var uncreditedKinds = map[string]struct{}{
	KindRunOut:              {},
	KindRetiredHurt:         {},
	KindRetiredOut:          {},
	KindObstructingTheField: {},
}

// CreditsBowler reports whether the dismissal counts towards the bowler's wickets.
func (w *Wicket) CreditsBowler() bool {
	if w == nil {
		return false
	}
	_, skip := uncreditedKinds[w.Kind]
	return !skip
}

// IsWide reports whether the delivery was called wide.
func (d *Delivery) IsWide() bool { return d.Extras != nil && d.Extras.Wides > 0 }

// IsNoBall reports whether the delivery was a no-ball.
func (d *Delivery) IsNoBall() bool { return d.Extras != nil && d.Extras.NoBalls > 0 }

// Dismissed reports whether player was out on this delivery.
func (d *Delivery) Dismissed(player string) bool {
	return d.Wicket != nil && player != "" && d.Wicket.PlayerOut == player
}

// Corpus is the full set of matches handed to one computation.
type Corpus []*Match
