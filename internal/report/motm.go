package report

import (
	"fmt"
	"io"

	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/names"
)

// PrintMOTM prints a player's awards, newest first.
func PrintMOTM(w io.Writer, s model.MOTMSummary) {
	fmt.Fprintf(w, "\n%s: %d awards (%d in wins, %d in losses)\n", s.Player, s.Total, s.InWins, s.InLosses)
	if len(s.Awards) == 0 {
		return
	}
	PrintMatchList(w, s.Awards)
}

// PrintMOTMLeaders prints the awards leaderboard.
func PrintMOTMLeaders(w io.Writer, rows []model.MOTMLeader) {
	table := newTable(w)
	table.Header("#", "PLAYER", "AWARDS", "FIRST", "LATEST")
	for i, r := range rows {
		table.Append(itoa(i+1), r.Player, itoa(r.Awards), r.FirstAward, r.LatestAward)
	}
	table.Render()
}

// PrintMOTMByYear prints award counts per year.
func PrintMOTMByYear(w io.Writer, rows []model.MOTMYearRow) {
	table := newTable(w)
	table.Header("YEAR", "PLAYER", "AWARDS")
	for _, r := range rows {
		table.Append(r.Year, r.Player, itoa(r.Awards))
	}
	table.Render()
}

// PrintResolution prints the best name match and its runners-up.
func PrintResolution(w io.Writer, query string, best names.Match, alternatives []names.Match) {
	fmt.Fprintf(w, "\n%q -> %s (score %d)\n", query, best.Name, best.Score)
	if len(alternatives) == 0 {
		return
	}
	table := newTable(w)
	table.Header("CANDIDATE", "SCORE", "ADJUSTED")
	for _, m := range alternatives {
		table.Append(m.Name, itoa(m.Score), fmt.Sprintf("%.1f", m.Adjusted))
	}
	table.Render()
}

// PrintRaw prints a query result given as column names and string rows.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
