package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var (
	motmByYear bool
	motmTeam   string
	motmLimit  int

	searchTeam   string
	searchPlayer string
	searchLimit  int
)

var motmCmd = &cobra.Command{
	Use:   "motm [player]",
	Short: "Player-of-the-match awards",
	Long: `With a player, list that player's awards split by wins and losses.
Without one, show the awards leaderboard, or counts per year with --by-year,
or a team's award winners with --team.`,
	RunE: runMOTM,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find matches by team, player and scope",
	Args:  cobra.NoArgs,
	RunE:  runSearch,
}

func init() {
	motmCmd.Flags().BoolVar(&motmByYear, "by-year", false, "count awards per year")
	motmCmd.Flags().StringVar(&motmTeam, "team", "", "award winners playing for this team")
	motmCmd.Flags().IntVar(&motmLimit, "limit", 0, "rows to show (default from config)")

	searchCmd.Flags().StringVar(&searchTeam, "team", "", "team that played")
	searchCmd.Flags().StringVar(&searchPlayer, "player", "", "player in a squad or awarded")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "matches to show (default from config)")
}

func runMOTM(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error {
		return s.motm(cmd.Context(), strings.Join(args, " "), motmTeam, motmByYear, motmLimit)
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error {
		return s.search(cmd.Context(), searchTeam, searchPlayer, searchLimit)
	})
}

func (s *session) motm(ctx context.Context, player, team string, byYear bool, limit int) error {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	switch {
	case player != "":
		name, err := s.player(player)
		if err != nil {
			return err
		}
		sum, err := s.engine.PlayerMOTM(corpus, query.PlayerQuery{Player: name, Scope: s.scope})
		if err != nil {
			return err
		}
		return s.emit(sum, func(w io.Writer) { report.PrintMOTM(w, sum) })
	case team != "":
		name, err := s.team(ctx, team)
		if err != nil {
			return err
		}
		rows, err := s.engine.TeamMOTM(corpus, query.TeamQuery{Team: name, Scope: s.scope})
		if err != nil {
			return err
		}
		return s.emit(rows, func(w io.Writer) {
			fmt.Fprintf(w, "\nAward winners for %s\n", name)
			report.PrintMOTMLeaders(w, rows)
		})
	case byYear:
		rows, err := s.engine.MOTMByYear(corpus, query.MOTMQuery{Limit: limit, Scope: s.scope})
		if err != nil {
			return err
		}
		return s.emit(rows, func(w io.Writer) { report.PrintMOTMByYear(w, rows) })
	}
	lb, err := s.engine.MOTMLeaderboard(corpus, query.MOTMQuery{Limit: limit, Scope: s.scope})
	if err != nil {
		return err
	}
	warnAdjustments(lb.Adjustments)
	return s.emit(lb, func(w io.Writer) { report.PrintMOTMLeaders(w, lb.Rows) })
}

func (s *session) search(ctx context.Context, team, player string, limit int) error {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	q := query.SearchQuery{Limit: limit, Scope: s.scope}
	if team != "" {
		if q.Team, err = s.team(ctx, team); err != nil {
			return err
		}
	}
	if player != "" {
		if q.Player, err = s.player(player); err != nil {
			return err
		}
	}
	res, err := s.engine.SearchMatches(corpus, q)
	if err != nil {
		return err
	}
	warnAdjustments(res.Adjustments)
	return s.emit(res, func(w io.Writer) {
		if res.Total == 0 {
			fmt.Fprintln(w, "No matches found.")
			return
		}
		report.PrintMatchList(w, res.Matches)
		fmt.Fprintf(w, "\n(showing %d of %d matches)\n", len(res.Matches), res.Total)
	})
}
