package aggregator

import (
	"sort"

	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// BattingTable keeps a Batting accumulator per batter seen in the stream.
type BattingTable struct {
	players  map[string]*Batting
	excluded model.Exclusions
}

// NewBattingTable returns an empty per-batter table.
func NewBattingTable() *BattingTable {
	return &BattingTable{players: make(map[string]*Batting)}
}

// Fold routes the delivery to its batter. Deliveries without a batter are
// excluded at table level.
func (t *BattingTable) Fold(b deliveries.Ball) {
	name := b.Delivery.Batter
	if name == "" {
		t.excluded.Add(model.ExcludeMissingBatter)
		return
	}
	acc, ok := t.players[name]
	if !ok {
		acc = NewBatting(name)
		t.players[name] = acc
	}
	acc.Fold(b)
}

// Merge adds o's rows and exclusions into t.
func (t *BattingTable) Merge(o *BattingTable) {
	for name, acc := range o.players {
		mine, ok := t.players[name]
		if !ok {
			mine = NewBatting(name)
			t.players[name] = mine
		}
		mine.Merge(acc)
	}
	t.excluded.Merge(o.excluded)
}

// Excluded returns deliveries dropped before reaching any player, by reason.
func (t *BattingTable) Excluded() model.Exclusions { return copyExclusions(t.excluded) }

// Finalize returns one row per batter, ordered by name.
func (t *BattingTable) Finalize() []model.BattingStats {
	out := make([]model.BattingStats, 0, len(t.players))
	for _, acc := range t.players {
		out = append(out, acc.Finalize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out
}

// BowlingTable keeps a Bowling accumulator per bowler seen in the stream.
type BowlingTable struct {
	players  map[string]*Bowling
	excluded model.Exclusions
}

// NewBowlingTable returns an empty per-bowler table.
func NewBowlingTable() *BowlingTable {
	return &BowlingTable{players: make(map[string]*Bowling)}
}

// Fold routes the delivery to its bowler. Deliveries without a bowler are
// excluded at table level.
func (t *BowlingTable) Fold(b deliveries.Ball) {
	name := b.Delivery.Bowler
	if name == "" {
		t.excluded.Add(model.ExcludeMissingBowler)
		return
	}
	acc, ok := t.players[name]
	if !ok {
		acc = NewBowling(name)
		t.players[name] = acc
	}
	acc.Fold(b)
}

// Merge adds o's rows and exclusions into t.
func (t *BowlingTable) Merge(o *BowlingTable) {
	for name, acc := range o.players {
		mine, ok := t.players[name]
		if !ok {
			mine = NewBowling(name)
			t.players[name] = mine
		}
		mine.Merge(acc)
	}
	t.excluded.Merge(o.excluded)
}

// Excluded returns deliveries dropped before reaching any player, by reason.
func (t *BowlingTable) Excluded() model.Exclusions { return copyExclusions(t.excluded) }

// Finalize returns one row per bowler, ordered by name.
func (t *BowlingTable) Finalize() []model.BowlingStats {
	out := make([]model.BowlingStats, 0, len(t.players))
	for _, acc := range t.players {
		out = append(out, acc.Finalize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out
}
