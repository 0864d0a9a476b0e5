package aggregator

import (
	"sort"

	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

const unknownKind = "unknown"

type kindBowler struct{ kind, bowler string }

type phaseKind struct {
	phase model.Phase
	kind  string
}

// Dismissals groups how a player got out.
type Dismissals struct {
	Player string
	Bounds model.PhaseBoundaries

	total    int
	byKind   map[string]int
	byBowler map[kindBowler]int
	byPhase  map[phaseKind]int
}

// NewDismissals returns an empty accumulator for player's dismissals.
func NewDismissals(player string, bounds model.PhaseBoundaries) *Dismissals {
	return &Dismissals{
		Player:   player,
		Bounds:   bounds,
		byKind:   make(map[string]int),
		byBowler: make(map[kindBowler]int),
		byPhase:  make(map[phaseKind]int),
	}
}

// Fold counts the delivery when the subject was out on it, whoever was on strike.
func (a *Dismissals) Fold(b deliveries.Ball) {
	d := b.Delivery
	if !d.Dismissed(a.Player) {
		return
	}
	kind := d.Wicket.Kind
	if kind == "" {
		kind = unknownKind
	}
	a.total++
	a.byKind[kind]++
	a.byBowler[kindBowler{kind, d.Bowler}]++
	a.byPhase[phaseKind{a.Bounds.Classify(b.Over), kind}]++
}

// Merge adds o's state into a.
func (a *Dismissals) Merge(o *Dismissals) {
	a.total += o.total
	for k, n := range o.byKind {
		a.byKind[k] += n
	}
	for k, n := range o.byBowler {
		a.byBowler[k] += n
	}
	for k, n := range o.byPhase {
		a.byPhase[k] += n
	}
}

// Total returns the dismissals counted so far.
func (a *Dismissals) Total() int { return a.total }

// Finalize orders every grouping by count descending. Percentages are left
// unrounded so each grouping sums to 100.
func (a *Dismissals) Finalize() model.DismissalPattern {
	out := model.DismissalPattern{Player: a.Player, Total: a.total}

	for kind, n := range a.byKind {
		out.ByKind = append(out.ByKind, model.DismissalKindRow{Kind: kind, Count: n, Percentage: pct(n, a.total)})
	}
	sort.Slice(out.ByKind, func(i, j int) bool {
		x, y := out.ByKind[i], out.ByKind[j]
		if x.Count != y.Count {
			return x.Count > y.Count
		}
		return x.Kind < y.Kind
	})

	for k, n := range a.byBowler {
		out.ByBowler = append(out.ByBowler, model.DismissalBowlerRow{Kind: k.kind, Bowler: k.bowler, Count: n, Percentage: pct(n, a.total)})
	}
	sort.Slice(out.ByBowler, func(i, j int) bool {
		x, y := out.ByBowler[i], out.ByBowler[j]
		if x.Count != y.Count {
			return x.Count > y.Count
		}
		if x.Kind != y.Kind {
			return x.Kind < y.Kind
		}
		return x.Bowler < y.Bowler
	})

	var perPhase [model.PhaseCount]int
	for k, n := range a.byPhase {
		perPhase[k.phase] += n
	}
	for k, n := range a.byPhase {
		out.ByPhase = append(out.ByPhase, model.DismissalPhaseRow{Phase: k.phase, Kind: k.kind, Count: n, Percentage: pct(n, perPhase[k.phase])})
	}
	sort.Slice(out.ByPhase, func(i, j int) bool {
		x, y := out.ByPhase[i], out.ByPhase[j]
		if x.Phase != y.Phase {
			return x.Phase < y.Phase
		}
		if x.Count != y.Count {
			return x.Count > y.Count
		}
		return x.Kind < y.Kind
	})
	return out
}

// ---- Bowler victims ----

type batterKind struct{ batter, kind string }

// Victims counts the batters a bowler dismissed, by dismissal kind. Only
// dismissals credited to the bowler count.
type Victims struct {
	Bowler string
	counts map[batterKind]int
}

// NewVictims returns an empty accumulator for bowler's credited wickets.
func NewVictims(bowler string) *Victims {
	return &Victims{Bowler: bowler, counts: make(map[batterKind]int)}
}

// Fold counts the delivery when the bowler is credited with its wicket.
func (a *Victims) Fold(b deliveries.Ball) {
	d := b.Delivery
	if d.Bowler != a.Bowler || !d.Wicket.CreditsBowler() {
		return
	}
	kind := d.Wicket.Kind
	if kind == "" {
		kind = unknownKind
	}
	a.counts[batterKind{d.Wicket.PlayerOut, kind}]++
}

// Merge adds o's state into a.
func (a *Victims) Merge(o *Victims) {
	for k, n := range o.counts {
		a.counts[k] += n
	}
}

// Finalize orders victims by times dismissed descending, then batter name.
func (a *Victims) Finalize() []model.VictimRow {
	out := make([]model.VictimRow, 0, len(a.counts))
	for k, n := range a.counts {
		out = append(out, model.VictimRow{Batter: k.batter, Kind: k.kind, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Batter != out[j].Batter {
			return out[i].Batter < out[j].Batter
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
