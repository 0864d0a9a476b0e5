package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/aggregator"
	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show a stored match's scorecard",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error { return s.show(cmd.Context(), args[0]) })
}

// scorecard is one innings' batting and bowling figures.
type scorecard struct {
	Team    string               `json:"team"`
	Batting []model.BattingStats `json:"batting"`
	Bowling []model.BowlingStats `json:"bowling"`
}

func (s *session) show(_ context.Context, prefix string) error {
	m, err := s.db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		return noMatch(prefix)
	}

	cards := make([]scorecard, 0, len(m.Innings))
	for i, inn := range m.Innings {
		bat, bowl := aggregator.NewBattingTable(), aggregator.NewBowlingTable()
		aggregator.Run(deliveries.Of(m, deliveries.InningsIndex(i)), bat, bowl)
		cards = append(cards, scorecard{Team: inn.Team, Batting: bat.Finalize(), Bowling: bowl.Finalize()})
	}
	summary := model.Summarize(m)
	return s.emit(struct {
		Match   model.MatchSummary `json:"match"`
		Innings []scorecard        `json:"innings"`
	}{summary, cards}, func(w io.Writer) {
		report.PrintMatchSummary(w, summary)
		for i, c := range cards {
			fmt.Fprintf(w, "Innings %d: %s\n", i+1, c.Team)
			report.PrintBattingLeaderboard(w, c.Batting, "")
			report.PrintBowlingLeaderboard(w, c.Bowling, "")
			fmt.Fprintln(w)
		}
	})
}
