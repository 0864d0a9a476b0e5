package report

import (
	"fmt"
	"io"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// PrintDismissals prints how a player got out: by kind, then by kind and
// bowler, and by phase when byPhase is set.
func PrintDismissals(w io.Writer, p model.DismissalPattern, byPhase bool) {
	fmt.Fprintf(w, "\nDismissals: %s (%d)\n", p.Player, p.Total)
	if p.Total == 0 {
		fmt.Fprintln(w, "(never dismissed)")
		return
	}

	table := newTable(w)
	table.Header("KIND", "COUNT", "SHARE")
	for _, r := range p.ByKind {
		table.Append(r.Kind, itoa(r.Count), pct(r.Percentage))
	}
	table.Render()

	table = newTable(w)
	table.Header("KIND", "BOWLER", "COUNT", "SHARE")
	for _, r := range p.ByBowler {
		bowler := r.Bowler
		if bowler == "" {
			bowler = "—"
		}
		table.Append(r.Kind, bowler, itoa(r.Count), pct(r.Percentage))
	}
	table.Render()

	if !byPhase {
		return
	}
	table = newTable(w)
	table.Header("PHASE", "KIND", "COUNT", "SHARE IN PHASE")
	for _, r := range p.ByPhase {
		table.Append(r.Phase.String(), r.Kind, itoa(r.Count), pct(r.Percentage))
	}
	table.Render()
}

// PrintVictims prints the batters a bowler dismissed.
func PrintVictims(w io.Writer, bowler string, rows []model.VictimRow) {
	fmt.Fprintf(w, "\nVictims: %s\n", bowler)
	table := newTable(w)
	table.Header("BATTER", "KIND", "TIMES")
	for _, r := range rows {
		table.Append(r.Batter, r.Kind, itoa(r.Count))
	}
	table.Render()
}

// PrintHeadToHead prints the overall batter-vs-bowler line and every encounter.
func PrintHeadToHead(w io.Writer, h model.HeadToHead) {
	fmt.Fprintf(w, "\n%s vs %s\n", h.Batter, h.Bowler)
	table := newTable(w)
	table.Header("BALLS", "RUNS", "OUT", "AVG", "SR", "4S", "6S", "DOT%")
	o := h.Overall
	table.Append(
		itoa(o.BallsFaced),
		itoa(o.Runs),
		itoa(o.Dismissals),
		o.Average.Format(2),
		o.StrikeRate.Format(2),
		itoa(o.Fours),
		itoa(o.Sixes),
		o.DotPct.Format(1),
	)
	table.Render()

	table = newTable(w)
	table.Header("DATE", "MATCH", "VENUE", "BATTING", "BALLS", "RUNS", "SR", "RESULT")
	for _, e := range h.Encounters {
		table.Append(
			e.Date,
			e.MatchID,
			e.Venue,
			e.BattingTeam,
			itoa(e.Balls),
			itoa(e.Runs),
			e.StrikeRate.Format(2),
			e.Result(),
		)
	}
	table.Render()
}

// PrintCustomPhase prints the window analysis and its run distribution.
func PrintCustomPhase(w io.Writer, s model.CustomPhaseStats) {
	p := s.Params
	fmt.Fprintf(w, "\n%s: overs %d-%d after at least %d balls (min %d balls in window)\n",
		s.Player, p.OverStart, p.OverEnd()-1, p.BallsBefore, p.MinBallsInPhase)
	table := newTable(w)
	table.Header("INNINGS", "BALLS", "RUNS", "OUT", "RUNS/BALL", "SR", "OUT%")
	table.Append(
		itoa(s.InningsAnalyzed),
		itoa(s.TotalBalls),
		itoa(s.TotalRuns),
		itoa(s.Dismissals),
		s.AvgRunsPerBall.Format(2),
		s.StrikeRate.Format(2),
		s.DismissalRate.Format(1),
	)
	table.Render()

	table = newTable(w)
	table.Header("RUNS IN WINDOW", "INNINGS")
	for _, b := range s.Distribution {
		table.Append(b.Range, itoa(b.Frequency))
	}
	table.Render()
}
