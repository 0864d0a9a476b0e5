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
	lbSort       string
	lbLimit      int
	lbMinBalls   int
	lbMinMatches int
	lbTeam       string
	lbFocus      string
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard batting|bowling",
	Short: "Rank batters or bowlers",
	Long: `Rank batters or bowlers over the stored matches.

Batting sort keys: runs, average, strike_rate, balls, fours, sixes.
Bowling sort keys: wickets, average, strike_rate, economy, runs, balls.
Bowling average, strike rate and economy rank lowest first. An unknown key
falls back to the default (runs / wickets) with a note.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"batting", "bowling"},
	RunE:      runLeaderboard,
}

func init() {
	f := leaderboardCmd.Flags()
	f.StringVar(&lbSort, "sort", "", "sort key")
	f.IntVar(&lbLimit, "limit", 0, "rows to show (default from config)")
	f.IntVar(&lbMinBalls, "min-balls", 0, "minimum balls faced / bowled (default from config)")
	f.IntVar(&lbMinMatches, "min-matches", 0, "minimum matches for bowlers (default from config)")
	f.StringVar(&lbTeam, "team", "", "only deliveries batted (or bowled) by this team")
	f.StringVar(&lbFocus, "focus", "", "highlight this player's row")
}

// leaderboardOpts are the tunables shared by the command and the shell.
type leaderboardOpts struct {
	kind       string
	sortBy     string
	limit      int
	minBalls   *int
	minMatches *int
	team       string
	focus      string
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	opts := leaderboardOpts{
		kind:   args[0],
		sortBy: lbSort,
		limit:  lbLimit,
		team:   lbTeam,
		focus:  lbFocus,
	}
	if cmd.Flags().Changed("min-balls") {
		opts.minBalls = &lbMinBalls
	}
	if cmd.Flags().Changed("min-matches") {
		opts.minMatches = &lbMinMatches
	}
	return inSession(func(s *session) error { return s.leaderboard(cmd.Context(), opts) })
}

func (s *session) leaderboard(ctx context.Context, opts leaderboardOpts) error {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	q := query.LeaderboardQuery{
		SortBy:     opts.sortBy,
		Limit:      opts.limit,
		MinBalls:   opts.minBalls,
		MinMatches: opts.minMatches,
		Scope:      s.scope,
	}
	if opts.team != "" {
		if q.Team, err = s.team(ctx, opts.team); err != nil {
			return err
		}
	}
	focus := opts.focus
	if focus != "" {
		if focus, err = s.player(focus); err != nil {
			return err
		}
	}

	switch strings.ToLower(opts.kind) {
	case "batting":
		lb, err := s.engine.BattingLeaderboard(corpus, q)
		if err != nil {
			return err
		}
		warnAdjustments(lb.Adjustments)
		return s.emit(lb, func(w io.Writer) {
			fmt.Fprintf(w, "\nBatting by %s (min %d balls)\n", lb.SortBy, lb.MinBalls)
			report.PrintBattingLeaderboard(w, lb.Rows, focus)
			report.PrintExclusions(w, lb.Excluded)
		})
	case "bowling":
		lb, err := s.engine.BowlingLeaderboard(corpus, q)
		if err != nil {
			return err
		}
		warnAdjustments(lb.Adjustments)
		return s.emit(lb, func(w io.Writer) {
			fmt.Fprintf(w, "\nBowling by %s (min %d balls, %d matches)\n", lb.SortBy, lb.MinBalls, lb.MinMatches)
			report.PrintBowlingLeaderboard(w, lb.Rows, focus)
			report.PrintExclusions(w, lb.Excluded)
		})
	}
	return fmt.Errorf("unknown leaderboard %q: want batting or bowling", opts.kind)
}
