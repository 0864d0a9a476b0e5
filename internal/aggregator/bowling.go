package aggregator

import (
	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// Bowling accumulates one bowler's deliveries. Every delivery bowled counts
// as a ball, extras included. Wickets follow Wicket.CreditsBowler.
type Bowling struct {
	Player string

	balls    int
	conceded int
	wickets  int
	dots     int
	wides    int
	noBalls  int
	matches  matchSet
	excluded model.Exclusions
}

// NewBowling returns an empty accumulator for player.
func NewBowling(player string) *Bowling {
	return &Bowling{Player: player, matches: make(matchSet)}
}

// Fold counts one delivery bowled by the player.
func (a *Bowling) Fold(b deliveries.Ball) {
	d := b.Delivery
	if d.Bowler != a.Player || a.Player == "" {
		return
	}
	if !checkRuns(d, &a.excluded) {
		return
	}
	a.balls++
	a.conceded += d.Runs.Total
	if d.Runs.Total == 0 {
		a.dots++
	}
	if d.IsWide() {
		a.wides++
	}
	if d.IsNoBall() {
		a.noBalls++
	}
	if d.Wicket.CreditsBowler() {
		a.wickets++
	}
	a.matches = a.matches.with(b.MatchID())
}

// Merge adds o's state into a.
func (a *Bowling) Merge(o *Bowling) {
	a.balls += o.balls
	a.conceded += o.conceded
	a.wickets += o.wickets
	a.dots += o.dots
	a.wides += o.wides
	a.noBalls += o.noBalls
	a.matches = a.matches.union(o.matches)
	a.excluded.Merge(o.excluded)
}

// Balls returns the deliveries counted so far.
func (a *Bowling) Balls() int { return a.balls }

// Empty reports whether nothing was folded, counted or excluded.
func (a *Bowling) Empty() bool { return a.balls == 0 && len(a.excluded) == 0 }

// Finalize returns the bowling line with its derived ratios.
func (a *Bowling) Finalize() model.BowlingStats {
	return model.BowlingStats{
		Player:       a.Player,
		Matches:      len(a.matches),
		BallsBowled:  a.balls,
		RunsConceded: a.conceded,
		Wickets:      a.wickets,
		Dots:         a.dots,
		Wides:        a.wides,
		NoBalls:      a.noBalls,
		Economy:      model.Div(float64(a.conceded), float64(a.balls)/6),
		Average:      model.Div(float64(a.conceded), float64(a.wickets)),
		StrikeRate:   model.Div(float64(a.balls), float64(a.wickets)),
		DotPct:       model.Div(float64(a.dots), float64(a.balls)).Scaled(100),
		Excluded:     copyExclusions(a.excluded),
	}
}
