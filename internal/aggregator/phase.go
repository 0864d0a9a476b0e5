package aggregator

import (
	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// PhaseBatting splits a batter's deliveries into one Batting bucket per phase,
// keyed by the over number of each delivery.
type PhaseBatting struct {
	Bounds  model.PhaseBoundaries
	buckets [model.PhaseCount]*Batting
}

// NewPhaseBatting splits player's batting by the phases in bounds.
func NewPhaseBatting(player string, bounds model.PhaseBoundaries) *PhaseBatting {
	a := &PhaseBatting{Bounds: bounds}
	for i := range a.buckets {
		a.buckets[i] = NewBatting(player)
	}
	return a
}

// Fold routes the delivery to the phase of its over.
func (a *PhaseBatting) Fold(b deliveries.Ball) {
	a.buckets[a.Bounds.Classify(b.Over)].Fold(b)
}

// Merge adds o's state into a.
func (a *PhaseBatting) Merge(o *PhaseBatting) {
	for i := range a.buckets {
		a.buckets[i].Merge(o.buckets[i])
	}
}

// Finalize returns one row per phase the batter faced a ball in, in innings order.
func (a *PhaseBatting) Finalize() []model.PhaseBattingStats {
	var out []model.PhaseBattingStats
	for _, p := range model.Phases {
		if a.buckets[p].Balls() == 0 {
			continue
		}
		out = append(out, model.PhaseBattingStats{Phase: p, BattingStats: a.buckets[p].Finalize()})
	}
	return out
}

// PhaseBowling is the bowling counterpart of PhaseBatting.
type PhaseBowling struct {
	Bounds  model.PhaseBoundaries
	buckets [model.PhaseCount]*Bowling
}

// NewPhaseBowling splits player's bowling by the phases in bounds.
func NewPhaseBowling(player string, bounds model.PhaseBoundaries) *PhaseBowling {
	a := &PhaseBowling{Bounds: bounds}
	for i := range a.buckets {
		a.buckets[i] = NewBowling(player)
	}
	return a
}

// Fold routes the delivery to the phase of its over.
func (a *PhaseBowling) Fold(b deliveries.Ball) {
	a.buckets[a.Bounds.Classify(b.Over)].Fold(b)
}

// Merge adds o's state into a.
func (a *PhaseBowling) Merge(o *PhaseBowling) {
	for i := range a.buckets {
		a.buckets[i].Merge(o.buckets[i])
	}
}

// Finalize returns one row per phase that saw a ball.
func (a *PhaseBowling) Finalize() []model.PhaseBowlingStats {
	var out []model.PhaseBowlingStats
	for _, p := range model.Phases {
		if a.buckets[p].Balls() == 0 {
			continue
		}
		out = append(out, model.PhaseBowlingStats{Phase: p, BowlingStats: a.buckets[p].Finalize()})
	}
	return out
}

// ---- Team batting by phase ----

type teamBucket struct {
	balls   int
	runs    int // off the bat
	total   int
	extras  int
	wickets int
	fours   int
	sixes   int
}

// TeamPhase accumulates a side's batting per phase. Deliveries with a
// missing batter still count; deliveries without a runs breakdown do not.
type TeamPhase struct {
	Team     string
	Bounds   model.PhaseBoundaries
	buckets  [model.PhaseCount]teamBucket
	excluded model.Exclusions
}

// NewTeamPhase splits team's batting by the phases in bounds.
func NewTeamPhase(team string, bounds model.PhaseBoundaries) *TeamPhase {
	return &TeamPhase{Team: team, Bounds: bounds}
}

// Fold counts one delivery of the team's batting.
func (a *TeamPhase) Fold(b deliveries.Ball) {
	if b.BattingTeam != a.Team {
		return
	}
	d := b.Delivery
	if !checkRuns(d, &a.excluded) {
		return
	}
	bk := &a.buckets[a.Bounds.Classify(b.Over)]
	bk.balls++
	bk.runs += d.Runs.Batter
	bk.total += d.Runs.Total
	bk.extras += d.Runs.Extras
	if d.Wicket != nil {
		bk.wickets++
	}
	switch d.Runs.Batter {
	case 4:
		bk.fours++
	case 6:
		bk.sixes++
	}
}

// Merge adds o's state into a.
func (a *TeamPhase) Merge(o *TeamPhase) {
	for i := range a.buckets {
		x, y := &a.buckets[i], o.buckets[i]
		x.balls += y.balls
		x.runs += y.runs
		x.total += y.total
		x.extras += y.extras
		x.wickets += y.wickets
		x.fours += y.fours
		x.sixes += y.sixes
	}
	a.excluded.Merge(o.excluded)
}

// Excluded returns the deliveries left out, by reason.
func (a *TeamPhase) Excluded() model.Exclusions { return copyExclusions(a.excluded) }

// Finalize returns one row per phase that saw a ball.
func (a *TeamPhase) Finalize() []model.TeamPhaseStats {
	var out []model.TeamPhaseStats
	for _, p := range model.Phases {
		bk := a.buckets[p]
		if bk.balls == 0 {
			continue
		}
		out = append(out, model.TeamPhaseStats{
			Phase:      p,
			Balls:      bk.balls,
			Runs:       bk.runs,
			Extras:     bk.extras,
			Wickets:    bk.wickets,
			Fours:      bk.fours,
			Sixes:      bk.sixes,
			StrikeRate: model.Div(float64(bk.runs), float64(bk.balls)).Scaled(100),
			RunRate:    model.Div(float64(bk.total), float64(bk.balls)/6),
		})
	}
	return out
}
