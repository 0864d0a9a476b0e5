// Package deliveries flattens match records into a chronological stream of
// deliveries carrying their innings and over context.
package deliveries

import (
	"iter"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// Ball is one delivery with the context it was bowled in.
type Ball struct {
	Match        *model.Match
	InningsIndex int
	Over         int
	BattingTeam  string
	BowlingTeam  string
	Index        int // 1-based position of the delivery within its innings
	Delivery     *model.Delivery
}

// MatchID returns the id of the match the ball belongs to.
func (b Ball) MatchID() string { return b.Match.ID }

// Predicate selects deliveries from the stream.
type Predicate func(Ball) bool

// Of yields the deliveries of m in innings order, then over order, then
// delivery order as stored. Predicates are applied per delivery; the sequence
// can be ranged over any number of times.
func Of(m *model.Match, preds ...Predicate) iter.Seq[Ball] {
	keep := All(preds...)
	return func(yield func(Ball) bool) {
		if m == nil {
			return
		}
		walkMatch(m, keep, yield)
	}
}

// Each yields the deliveries of every match in the corpus, match by match.
func Each(corpus model.Corpus, preds ...Predicate) iter.Seq[Ball] {
	keep := All(preds...)
	return func(yield func(Ball) bool) {
		for _, m := range corpus {
			if m == nil {
				continue
			}
			if !walkMatch(m, keep, yield) {
				return
			}
		}
	}
}

// walkMatch returns false when the consumer stopped the iteration.
func walkMatch(m *model.Match, keep Predicate, yield func(Ball) bool) bool {
	for i := range m.Innings {
		inn := &m.Innings[i]
		bowling := m.Opponent(inn.Team)
		index := 0
		for o := range inn.Overs {
			over := &inn.Overs[o]
			for d := range over.Deliveries {
				index++
				b := Ball{
					Match:        m,
					InningsIndex: i,
					Over:         over.Number,
					BattingTeam:  inn.Team,
					BowlingTeam:  bowling,
					Index:        index,
					Delivery:     &over.Deliveries[d],
				}
				if keep != nil && !keep(b) {
					continue
				}
				if !yield(b) {
					return false
				}
			}
		}
	}
	return true
}

// All combines predicates with logical AND. Nil predicates are ignored.
func All(preds ...Predicate) Predicate {
	var active []Predicate
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(b Ball) bool {
		for _, p := range active {
			if !p(b) {
				return false
			}
		}
		return true
	}
}

// Batter keeps deliveries faced by name.
func Batter(name string) Predicate {
	return func(b Ball) bool { return b.Delivery.Batter == name }
}

// Bowler keeps deliveries bowled by name.
func Bowler(name string) Predicate {
	return func(b Ball) bool { return b.Delivery.Bowler == name }
}

// BattingTeam keeps deliveries where team was batting.
func BattingTeam(team string) Predicate {
	return func(b Ball) bool { return b.BattingTeam == team }
}

// BowlingTeam keeps deliveries where team was in the field.
func BowlingTeam(team string) Predicate {
	return func(b Ball) bool { return b.BowlingTeam == team }
}

// OverRange keeps deliveries with from <= over < to.
func OverRange(from, to int) Predicate {
	return func(b Ball) bool { return b.Over >= from && b.Over < to }
}

// FirstBalls keeps the first n deliveries of each innings.
func FirstBalls(n int) Predicate {
	return func(b Ball) bool { return b.Index <= n }
}

// InningsIndex keeps deliveries of the i-th innings (0-based).
func InningsIndex(i int) Predicate {
	return func(b Ball) bool { return b.InningsIndex == i }
}

// Dismissal keeps deliveries on which player was out.
func Dismissal(player string) Predicate {
	return func(b Ball) bool { return b.Delivery.Dismissed(player) }
}
