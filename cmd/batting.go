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

var phasesBowling bool

var battingCmd = &cobra.Command{
	Use:   "batting <player>",
	Short: "Career batting figures for a player",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatting,
}

var bowlingCmd = &cobra.Command{
	Use:   "bowling <player>",
	Short: "Career bowling figures for a player",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBowling,
}

var phasesCmd = &cobra.Command{
	Use:   "phases <player>",
	Short: "Batting (or bowling) split by powerplay, middle and death overs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPhases,
}

var teamPhasesCmd = &cobra.Command{
	Use:   "team-phases <team>",
	Short: "A team's batting split by phase, with run rate",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTeamPhases,
}

func init() {
	phasesCmd.Flags().BoolVar(&phasesBowling, "bowling", false, "split bowling figures instead of batting")
}

func runBatting(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error { return s.batting(cmd.Context(), strings.Join(args, " ")) })
}

func runBowling(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error { return s.bowling(cmd.Context(), strings.Join(args, " ")) })
}

func runPhases(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error { return s.phases(cmd.Context(), strings.Join(args, " "), phasesBowling) })
}

func runTeamPhases(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error { return s.teamPhases(cmd.Context(), strings.Join(args, " ")) })
}

// playerQuery resolves arg and loads the corpus for a single-player query.
func (s *session) playerQuery(arg string) (query.PlayerQuery, error) {
	player, err := s.player(arg)
	if err != nil {
		return query.PlayerQuery{}, err
	}
	return query.PlayerQuery{Player: player, Scope: s.scope}, nil
}

func (s *session) batting(ctx context.Context, arg string) error {
	q, err := s.playerQuery(arg)
	if err != nil {
		return err
	}
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	stats, err := s.engine.PlayerBatting(corpus, q)
	if err != nil {
		return err
	}
	return s.emit(stats, func(w io.Writer) { report.PrintBatting(w, stats) })
}

func (s *session) bowling(ctx context.Context, arg string) error {
	q, err := s.playerQuery(arg)
	if err != nil {
		return err
	}
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	stats, err := s.engine.PlayerBowling(corpus, q)
	if err != nil {
		return err
	}
	return s.emit(stats, func(w io.Writer) { report.PrintBowling(w, stats) })
}

func (s *session) phases(ctx context.Context, arg string, bowling bool) error {
	q, err := s.playerQuery(arg)
	if err != nil {
		return err
	}
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	if bowling {
		rows, err := s.engine.BowlingPhases(corpus, q)
		if err != nil {
			return err
		}
		return s.emit(rows, func(w io.Writer) { report.PrintBowlingPhases(w, q.Player, rows) })
	}
	rows, err := s.engine.BattingPhases(corpus, q)
	if err != nil {
		return err
	}
	return s.emit(rows, func(w io.Writer) { report.PrintBattingPhases(w, q.Player, rows) })
}

func (s *session) teamPhases(ctx context.Context, arg string) error {
	team, err := s.team(ctx, arg)
	if err != nil {
		return err
	}
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	res, err := s.engine.TeamPhases(corpus, query.TeamQuery{Team: team, Scope: s.scope})
	if err != nil {
		return err
	}
	return s.emit(res, func(w io.Writer) {
		report.PrintTeamPhases(w, res.Team, res.Phases, res.Excluded)
		fmt.Fprintf(w, "phases: powerplay overs 1-%d, middle %d-%d, death %d+\n",
			s.engine.Phases.PowerplayEnd, s.engine.Phases.PowerplayEnd+1, s.engine.Phases.MiddleEnd, s.engine.Phases.MiddleEnd+1)
	})
}
