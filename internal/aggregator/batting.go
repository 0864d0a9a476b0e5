package aggregator

import (
	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// Batting accumulates one batter's deliveries faced.
//
// Deliveries faced by anyone else are ignored, so the accumulator can sit on
// an unfiltered stream. A delivery without a runs breakdown is excluded and
// counted; balls faced include wides, matching the source records.
type Batting struct {
	Player string

	balls      int
	runs       int
	dismissals int
	fours      int
	sixes      int
	dots       int
	matches    matchSet
	excluded   model.Exclusions
}

// NewBatting returns an empty accumulator for player.
func NewBatting(player string) *Batting {
	return &Batting{Player: player, matches: make(matchSet)}
}

// Fold counts one delivery faced by the player.
func (a *Batting) Fold(b deliveries.Ball) {
	d := b.Delivery
	if d.Batter != a.Player || a.Player == "" {
		return
	}
	if !checkRuns(d, &a.excluded) {
		return
	}
	a.balls++
	a.runs += d.Runs.Batter
	switch d.Runs.Batter {
	case 0:
		a.dots++
	case 4:
		a.fours++
	case 6:
		a.sixes++
	}
	if d.Dismissed(a.Player) {
		a.dismissals++
	}
	a.matches = a.matches.with(b.MatchID())
}

// Merge adds o's state into a.
func (a *Batting) Merge(o *Batting) {
	a.balls += o.balls
	a.runs += o.runs
	a.dismissals += o.dismissals
	a.fours += o.fours
	a.sixes += o.sixes
	a.dots += o.dots
	a.matches = a.matches.union(o.matches)
	a.excluded.Merge(o.excluded)
}

// Balls returns the deliveries counted so far.
func (a *Batting) Balls() int { return a.balls }

// Empty reports whether nothing was folded, counted or excluded.
func (a *Batting) Empty() bool { return a.balls == 0 && len(a.excluded) == 0 }

// Finalize returns the batting line with its derived ratios.
func (a *Batting) Finalize() model.BattingStats {
	return model.BattingStats{
		Player:     a.Player,
		Matches:    len(a.matches),
		BallsFaced: a.balls,
		Runs:       a.runs,
		Dismissals: a.dismissals,
		Fours:      a.fours,
		Sixes:      a.sixes,
		Dots:       a.dots,
		Average:    model.Div(float64(a.runs), float64(a.dismissals)),
		StrikeRate: model.Div(float64(a.runs), float64(a.balls)).Scaled(100),
		DotPct:     model.Div(float64(a.dots), float64(a.balls)).Scaled(100),
		Excluded:   copyExclusions(a.excluded),
	}
}
