package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var dismissalsByPhase bool

var dismissalsCmd = &cobra.Command{
	Use:   "dismissals <player>",
	Short: "How a batter gets out: by kind, by bowler and by phase",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDismissals,
}

var victimsCmd = &cobra.Command{
	Use:   "victims <bowler>",
	Short: "Batters a bowler has dismissed, and how",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVictims,
}

var h2hCmd = &cobra.Command{
	Use:   "h2h <batter> <bowler>",
	Short: "Batter against bowler, overall and per match",
	Long: `Head-to-head figures for a batter facing a bowler. Multi-word names can be
quoted ("V Kohli" "JM Anderson") or separated by "vs" (V Kohli vs JM Anderson).`,
	Args: cobra.MinimumNArgs(2),
	RunE: runH2H,
}

func init() {
	dismissalsCmd.Flags().BoolVar(&dismissalsByPhase, "by-phase", false, "also break dismissals down by phase")
}

func runDismissals(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error {
		return s.dismissals(cmd.Context(), strings.Join(args, " "), dismissalsByPhase)
	})
}

func runVictims(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error { return s.victims(cmd.Context(), strings.Join(args, " ")) })
}

func runH2H(cmd *cobra.Command, args []string) error {
	batter, bowler := splitPair(args)
	return inSession(func(s *session) error { return s.headToHead(cmd.Context(), batter, bowler) })
}

// splitPair splits arguments on a "vs" token, or takes the first and the
// rest when there is none. A bare "v" also separates, except in first or
// last position where it is an initial ("V Kohli").
func splitPair(args []string) (string, string) {
	sep := -1
	for i, a := range args {
		if strings.EqualFold(a, "vs") {
			sep = i
			break
		}
		if sep < 0 && i > 0 && i < len(args)-1 && strings.EqualFold(a, "v") {
			sep = i
		}
	}
	if sep >= 0 {
		return strings.Join(args[:sep], " "), strings.Join(args[sep+1:], " ")
	}
	if len(args) == 0 {
		return "", ""
	}
	return args[0], strings.Join(args[1:], " ")
}

func (s *session) dismissals(ctx context.Context, arg string, byPhase bool) error {
	q, err := s.playerQuery(arg)
	if err != nil {
		return err
	}
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	p, err := s.engine.DismissalPattern(corpus, q)
	if err != nil {
		return err
	}
	return s.emit(p, func(w io.Writer) { report.PrintDismissals(w, p, byPhase) })
}

func (s *session) victims(ctx context.Context, arg string) error {
	q, err := s.playerQuery(arg)
	if err != nil {
		return err
	}
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	rows, err := s.engine.BowlerVictims(corpus, q)
	if err != nil {
		return err
	}
	return s.emit(rows, func(w io.Writer) { report.PrintVictims(w, q.Player, rows) })
}

func (s *session) headToHead(ctx context.Context, batterArg, bowlerArg string) error {
	batter, err := s.player(batterArg)
	if err != nil {
		return err
	}
	bowler, err := s.player(bowlerArg)
	if err != nil {
		return err
	}
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	h, err := s.engine.HeadToHead(corpus, query.PairQuery{Batter: batter, Bowler: bowler, Scope: s.scope})
	if err != nil {
		return err
	}
	return s.emit(h, func(w io.Writer) { report.PrintHeadToHead(w, h) })
}
