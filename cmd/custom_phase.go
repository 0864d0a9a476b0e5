package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var (
	cpBallsBefore int
	cpOverStart   int
	cpOvers       int
	cpMinBalls    int
)

var customPhaseCmd = &cobra.Command{
	Use:   "custom-phase <player>",
	Short: "Scoring in a window of overs once the batter is set",
	Long: `Analyse the window of overs [over-start, over-start+overs) in every innings
where the batter had already faced at least --balls-before balls before the
window and then faced at least --min-balls balls inside it. Over numbers are
0-indexed as in the source data. Unset flags use the config defaults.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCustomPhase,
}

func init() {
	f := customPhaseCmd.Flags()
	f.IntVar(&cpBallsBefore, "balls-before", 0, "balls faced before the window")
	f.IntVar(&cpOverStart, "over-start", 0, "first over of the window (0-indexed)")
	f.IntVar(&cpOvers, "overs", 0, "number of overs in the window")
	f.IntVar(&cpMinBalls, "min-balls", 0, "minimum balls faced inside the window")
}

func runCustomPhase(cmd *cobra.Command, args []string) error {
	var q query.CustomPhaseQuery
	f := cmd.Flags()
	if f.Changed("balls-before") {
		q.BallsBefore = &cpBallsBefore
	}
	if f.Changed("over-start") {
		q.OverStart = &cpOverStart
	}
	if f.Changed("overs") {
		q.OversToAnalyze = &cpOvers
	}
	if f.Changed("min-balls") {
		q.MinBallsInPhase = &cpMinBalls
	}
	return inSession(func(s *session) error { return s.customPhase(cmd.Context(), strings.Join(args, " "), q) })
}

func (s *session) customPhase(ctx context.Context, arg string, q query.CustomPhaseQuery) error {
	player, err := s.player(arg)
	if err != nil {
		return err
	}
	corpus, err := s.corpus(ctx)
	if err != nil {
		return err
	}
	q.Player, q.Scope = player, s.scope
	res, err := s.engine.CustomPhase(corpus, q)
	if err != nil {
		return err
	}
	warnAdjustments(res.Adjustments)
	return s.emit(res, func(w io.Writer) { report.PrintCustomPhase(w, res.CustomPhaseStats) })
}
