// Package report renders query results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cricket-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func itoa(n int) string { return strconv.Itoa(n) }

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

// JSON writes v as indented JSON. Undefined ratios encode as null.
func JSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	result := "no result"
	if s.Winner != "" {
		result = s.Winner + " won by " + s.Margin
	} else if s.Margin != "" {
		result = s.Margin
	}
	fmt.Fprintf(w, "\n%s v %s  |  Date: %s  |  Venue: %s  |  %s  |  Id: %s\n\n",
		s.Teams[0], s.Teams[1], s.Date, s.Venue, result, s.ID)
}

// PrintMatchList prints one row per match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("ID", "DATE", "SEASON", "TEAMS", "VENUE", "WINNER", "MARGIN", "MOTM")
	for _, s := range matches {
		winner := s.Winner
		if winner == "" {
			winner = "—"
		}
		table.Append(
			s.ID,
			s.Date,
			s.Season,
			s.Teams[0]+" v "+s.Teams[1],
			s.Venue,
			winner,
			s.Margin,
			strings.Join(s.PlayerOfMatch, ", "),
		)
	}
	table.Render()
}

// PrintExclusions prints a footer naming deliveries left out of a metric.
// Nothing is printed when there are none.
func PrintExclusions(w io.Writer, excl model.Exclusions) {
	if excl.Total() == 0 {
		return
	}
	parts := make([]string, 0, len(excl))
	for _, r := range excl.Reasons() {
		parts = append(parts, fmt.Sprintf("%s=%d", r, excl[r]))
	}
	fmt.Fprintf(w, "excluded %d deliveries (%s)\n", excl.Total(), strings.Join(parts, ", "))
}

func battingRow(s model.BattingStats) []string {
	return []string{
		itoa(s.Matches),
		itoa(s.BallsFaced),
		itoa(s.Runs),
		itoa(s.Dismissals),
		s.Average.Format(2),
		s.StrikeRate.Format(2),
		itoa(s.Fours),
		itoa(s.Sixes),
		s.DotPct.Format(1),
	}
}

var battingHeader = []any{"M", "BALLS", "RUNS", "OUT", "AVG", "SR", "4S", "6S", "DOT%"}

func bowlingRow(s model.BowlingStats) []string {
	return []string{
		itoa(s.Matches),
		s.Overs(),
		itoa(s.RunsConceded),
		itoa(s.Wickets),
		s.Economy.Format(2),
		s.Average.Format(2),
		s.StrikeRate.Format(2),
		itoa(s.Wides),
		itoa(s.NoBalls),
		s.DotPct.Format(1),
	}
}

var bowlingHeader = []any{"M", "OVERS", "RUNS", "WKTS", "ECON", "AVG", "SR", "WD", "NB", "DOT%"}

func appendRow(t *tablewriter.Table, lead []string, rest []string) {
	row := make([]any, 0, len(lead)+len(rest))
	for _, v := range lead {
		row = append(row, v)
	}
	for _, v := range rest {
		row = append(row, v)
	}
	t.Append(row...)
}

func header(t *tablewriter.Table, lead []any, rest []any) {
	t.Header(append(append([]any{}, lead...), rest...)...)
}

// PrintBatting prints a single batter's career line.
func PrintBatting(w io.Writer, s model.BattingStats) {
	table := newTable(w)
	header(table, []any{"PLAYER"}, battingHeader)
	appendRow(table, []string{s.Player}, battingRow(s))
	table.Render()
	PrintExclusions(w, s.Excluded)
}

// PrintBowling prints a single bowler's career line.
func PrintBowling(w io.Writer, s model.BowlingStats) {
	table := newTable(w)
	header(table, []any{"PLAYER"}, bowlingHeader)
	appendRow(table, []string{s.Player}, bowlingRow(s))
	table.Render()
	PrintExclusions(w, s.Excluded)
}

// PrintBattingPhases prints one row per phase the batter faced a ball in.
func PrintBattingPhases(w io.Writer, player string, rows []model.PhaseBattingStats) {
	fmt.Fprintf(w, "\nBatting by phase: %s\n", player)
	table := newTable(w)
	header(table, []any{"PHASE"}, battingHeader)
	var excl model.Exclusions
	for _, r := range rows {
		appendRow(table, []string{r.Phase.String()}, battingRow(r.BattingStats))
		excl.Merge(r.Excluded)
	}
	table.Render()
	PrintExclusions(w, excl)
}

// PrintBowlingPhases prints one row per phase the bowler bowled in.
func PrintBowlingPhases(w io.Writer, player string, rows []model.PhaseBowlingStats) {
	fmt.Fprintf(w, "\nBowling by phase: %s\n", player)
	table := newTable(w)
	header(table, []any{"PHASE"}, bowlingHeader)
	var excl model.Exclusions
	for _, r := range rows {
		appendRow(table, []string{r.Phase.String()}, bowlingRow(r.BowlingStats))
		excl.Merge(r.Excluded)
	}
	table.Render()
	PrintExclusions(w, excl)
}

// PrintTeamPhases prints a team's batting by phase.
func PrintTeamPhases(w io.Writer, team string, rows []model.TeamPhaseStats, excl model.Exclusions) {
	fmt.Fprintf(w, "\nTeam batting by phase: %s\n", team)
	table := newTable(w)
	table.Header("PHASE", "BALLS", "RUNS", "EXTRAS", "WKTS", "4S", "6S", "SR", "RR")
	for _, r := range rows {
		table.Append(
			r.Phase.String(),
			itoa(r.Balls),
			itoa(r.Runs),
			itoa(r.Extras),
			itoa(r.Wickets),
			itoa(r.Fours),
			itoa(r.Sixes),
			r.StrikeRate.Format(2),
			r.RunRate.Format(2),
		)
	}
	table.Render()
	PrintExclusions(w, excl)
}

// PrintBattingLeaderboard prints ranked batters. The row for focus, if
// present, is marked with ">".
func PrintBattingLeaderboard(w io.Writer, rows []model.BattingStats, focus string) {
	table := newTable(w)
	header(table, []any{" ", "#", "PLAYER"}, battingHeader)
	for i, s := range rows {
		appendRow(table, []string{marker(s.Player, focus), itoa(i + 1), s.Player}, battingRow(s))
	}
	table.Render()
}

// PrintBowlingLeaderboard prints ranked bowlers.
func PrintBowlingLeaderboard(w io.Writer, rows []model.BowlingStats, focus string) {
	table := newTable(w)
	header(table, []any{" ", "#", "PLAYER"}, bowlingHeader)
	for i, s := range rows {
		appendRow(table, []string{marker(s.Player, focus), itoa(i + 1), s.Player}, bowlingRow(s))
	}
	table.Render()
}

func marker(player, focus string) string {
	if focus != "" && player == focus {
		return ">"
	}
	return " "
}
