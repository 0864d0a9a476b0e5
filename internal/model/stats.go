package model

import (
	"fmt"
	"sort"
)

// ---- Aggregated metrics ----

// Exclusion reasons for deliveries that could not feed a metric.
const (
	ExcludeMissingRuns   = "missing_runs"
	ExcludeInvalidRuns   = "invalid_runs"
	ExcludeMissingBatter = "missing_batter"
	ExcludeMissingBowler = "missing_bowler"
)

// Exclusions counts deliveries left out of a metric, by reason.
type Exclusions map[string]int

// Add records one excluded delivery.
func (e *Exclusions) Add(reason string) {
	if *e == nil {
		*e = make(Exclusions)
	}
	(*e)[reason]++
}

// Merge adds other's counts into e.
func (e *Exclusions) Merge(other Exclusions) {
	for reason, n := range other {
		if *e == nil {
			*e = make(Exclusions)
		}
		(*e)[reason] += n
	}
}

// Total returns the number of excluded deliveries across all reasons.
func (e Exclusions) Total() int {
	n := 0
	for _, c := range e {
		n += c
	}
	return n
}

// Reasons returns the reasons in sorted order.
func (e Exclusions) Reasons() []string {
	out := make([]string, 0, len(e))
	for r := range e {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// BattingStats is a batter's aggregate over a delivery stream.
type BattingStats struct {
	Player     string     `json:"player"`
	Matches    int        `json:"matches"`
	BallsFaced int        `json:"balls_faced"`
	Runs       int        `json:"total_runs"`
	Dismissals int        `json:"dismissals"`
	Fours      int        `json:"fours"`
	Sixes      int        `json:"sixes"`
	Dots       int        `json:"dot_balls"`
	Average    Ratio      `json:"average"`
	StrikeRate Ratio      `json:"strike_rate"`
	DotPct     Ratio      `json:"dot_ball_percentage"`
	Excluded   Exclusions `json:"excluded,omitempty"`
}

// BowlingStats is a bowler's aggregate over a delivery stream.
type BowlingStats struct {
	Player       string     `json:"player"`
	Matches      int        `json:"matches"`
	BallsBowled  int        `json:"balls_bowled"`
	RunsConceded int        `json:"runs_conceded"`
	Wickets      int        `json:"wickets"`
	Dots         int        `json:"dot_balls"`
	Wides        int        `json:"wides"`
	NoBalls      int        `json:"noballs"`
	Economy      Ratio      `json:"economy"`
	Average      Ratio      `json:"average"`
	StrikeRate   Ratio      `json:"strike_rate"`
	DotPct       Ratio      `json:"dot_ball_percentage"`
	Excluded     Exclusions `json:"excluded,omitempty"`
}

// Overs renders balls bowled in cricket notation: 58 balls -> "9.4".
func (s BowlingStats) Overs() string {
	return fmt.Sprintf("%d.%d", s.BallsBowled/6, s.BallsBowled%6)
}

// PhaseBattingStats is a batter's aggregate restricted to one phase.
type PhaseBattingStats struct {
	Phase Phase `json:"phase"`
	BattingStats
}

// PhaseBowlingStats is a bowler's aggregate restricted to one phase.
type PhaseBowlingStats struct {
	Phase Phase `json:"phase"`
	BowlingStats
}

// TeamPhaseStats is a team's batting aggregate for one phase.
type TeamPhaseStats struct {
	Phase      Phase `json:"phase"`
	Balls      int   `json:"balls_faced"`
	Runs       int   `json:"runs_scored"`
	Extras     int   `json:"extras"`
	Wickets    int   `json:"wickets_lost"`
	Fours      int   `json:"fours"`
	Sixes      int   `json:"sixes"`
	StrikeRate Ratio `json:"strike_rate"`
	RunRate    Ratio `json:"run_rate"`
}

// DismissalKindRow is one dismissal kind and its share of the player's dismissals.
type DismissalKindRow struct {
	Kind       string  `json:"dismissal_type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DismissalBowlerRow is one (kind, bowler) pair and its share of the player's dismissals.
type DismissalBowlerRow struct {
	Kind       string  `json:"dismissal_type"`
	Bowler     string  `json:"bowler"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DismissalPhaseRow is one (phase, kind) pair and its share of that phase's dismissals.
type DismissalPhaseRow struct {
	Phase      Phase   `json:"phase"`
	Kind       string  `json:"dismissal_type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage_in_phase"`
}

// DismissalPattern groups how a player got out.
type DismissalPattern struct {
	Player   string               `json:"player"`
	Total    int                  `json:"total"`
	ByKind   []DismissalKindRow   `json:"dismissal_summary"`
	ByBowler []DismissalBowlerRow `json:"dismissal_details"`
	ByPhase  []DismissalPhaseRow  `json:"by_phase"`
}

// VictimRow counts how often a bowler dismissed a batter in a given way.
type VictimRow struct {
	Batter string `json:"batsman"`
	Kind   string `json:"dismissal_type"`
	Count  int    `json:"times_dismissed"`
}

// Encounter is a batter-vs-bowler summary for a single match.
type Encounter struct {
	MatchID     string `json:"match_id"`
	Date        string `json:"match_date"`
	Venue       string `json:"venue"`
	BattingTeam string `json:"batting_team"`
	Balls       int    `json:"balls_faced"`
	Runs        int    `json:"runs_scored"`
	Dismissals  int    `json:"dismissals"`
	StrikeRate  Ratio  `json:"strike_rate"`
}

// Result renders the encounter outcome for the batter.
func (e Encounter) Result() string {
	if e.Dismissals > 0 {
		return "Dismissed"
	}
	return "Not Out"
}

// HeadToHead is a batter-vs-bowler aggregate with its per-match breakdown.
type HeadToHead struct {
	Batter     string       `json:"batter"`
	Bowler     string       `json:"bowler"`
	Overall    BattingStats `json:"overall_stats"`
	Encounters []Encounter  `json:"encounters"`
}

// CustomPhaseParams selects the window analysed by a custom phase query.
type CustomPhaseParams struct {
	BallsBefore     int `json:"balls_before"`
	OverStart       int `json:"over_start"`
	OversToAnalyze  int `json:"overs_to_analyze"`
	MinBallsInPhase int `json:"min_balls_in_phase"`
}

// OverEnd is the first over after the window.
func (p CustomPhaseParams) OverEnd() int { return p.OverStart + p.OversToAnalyze }

// RunBucket is one range of runs-off-the-bat and how often it occurred.
type RunBucket struct {
	Range     string `json:"run_range"`
	Frequency int    `json:"frequency"`
}

// CustomPhaseStats is the outcome of a custom phase analysis.
type CustomPhaseStats struct {
	Player          string            `json:"player"`
	Params          CustomPhaseParams `json:"parameters"`
	InningsAnalyzed int               `json:"innings_analyzed"`
	TotalRuns       int               `json:"total_runs"`
	TotalBalls      int               `json:"total_balls"`
	Dismissals      int               `json:"times_dismissed"`
	AvgRunsPerBall  Ratio             `json:"avg_runs_per_ball"`
	StrikeRate      Ratio             `json:"strike_rate"`
	DismissalRate   Ratio             `json:"dismissal_rate"`
	Distribution    []RunBucket       `json:"run_distribution"`
}

// MatchSummary is the header information of a stored match.
type MatchSummary struct {
	ID            string    `json:"match_id"`
	Date          string    `json:"match_date"`
	Venue         string    `json:"venue"`
	City          string    `json:"city"`
	Season        string    `json:"season"`
	EventName     string    `json:"event_name"`
	MatchNumber   int       `json:"match_number"`
	Teams         [2]string `json:"teams"`
	Winner        string    `json:"winner"`
	Margin        string    `json:"win_margin"`
	PlayerOfMatch []string  `json:"player_of_match"`
}

// Summarize builds the header row for a match.
func Summarize(m *Match) MatchSummary {
	return MatchSummary{
		ID:            m.ID,
		Date:          m.Date(),
		Venue:         m.Venue,
		City:          m.City,
		Season:        m.Season,
		EventName:     m.EventName,
		MatchNumber:   m.MatchNumber,
		Teams:         m.Teams,
		Winner:        m.Outcome.Winner,
		Margin:        m.Outcome.Margin(),
		PlayerOfMatch: m.PlayerOfMatch,
	}
}

// MOTMSummary lists a player's player-of-the-match awards.
type MOTMSummary struct {
	Player   string         `json:"player"`
	Total    int            `json:"total_awards"`
	InWins   int            `json:"awards_in_wins"`
	InLosses int            `json:"awards_in_losses"`
	Awards   []MatchSummary `json:"awards"`
}

// MOTMLeader is one row of the awards leaderboard.
type MOTMLeader struct {
	Player      string `json:"player_name"`
	Awards      int    `json:"total_awards"`
	FirstAward  string `json:"first_award"`
	LatestAward string `json:"latest_award"`
}

// MOTMYearRow counts a player's awards in one year.
type MOTMYearRow struct {
	Year   string `json:"year"`
	Player string `json:"player_name"`
	Awards int    `json:"awards"`
}
