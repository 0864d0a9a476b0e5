// Package aggregator folds delivery streams into batting, bowling, phase,
// dismissal and head-to-head statistics.
//
// Every accumulator follows the same contract: Fold one delivery at a time,
// Merge partial states built over disjoint shards, then Finalize into a
// result type from the model package. Merging is associative and
// commutative, so a corpus can be folded shard by shard in any order.
package aggregator

import (
	"iter"

	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// Folder consumes deliveries one at a time.
type Folder interface {
	Fold(b deliveries.Ball)
}

// Run folds every delivery of seq into each folder.
func Run(seq iter.Seq[deliveries.Ball], folders ...Folder) {
	for b := range seq {
		for _, f := range folders {
			f.Fold(b)
		}
	}
}

// matchSet tracks the distinct match ids a player appeared in.
type matchSet map[string]struct{}

func (s matchSet) with(id string) matchSet {
	if s == nil {
		s = make(matchSet)
	}
	s[id] = struct{}{}
	return s
}

func (s matchSet) union(o matchSet) matchSet {
	for id := range o {
		s = s.with(id)
	}
	return s
}

// checkRuns reports whether the delivery carries a usable runs breakdown,
// recording the exclusion reason when it doesn't.
func checkRuns(d *model.Delivery, excluded *model.Exclusions) bool {
	if d.Runs == nil {
		excluded.Add(model.ExcludeMissingRuns)
		return false
	}
	if !d.Runs.Valid() {
		excluded.Add(model.ExcludeInvalidRuns)
		return false
	}
	return true
}

// pct returns n as a percentage of total, unrounded.
func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func copyExclusions(e model.Exclusions) model.Exclusions {
	if len(e) == 0 {
		return nil
	}
	out := make(model.Exclusions, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
