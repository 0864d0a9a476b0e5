package query

import (
	"fmt"

	"github.com/pable/go-cricket-metrics/internal/aggregator"
	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// CustomPhaseQuery analyses a batter inside an over window, only in innings
// where they were already set. Nil parameters take the engine defaults.
type CustomPhaseQuery struct {
	Player          string `json:"player" validate:"required"`
	BallsBefore     *int   `json:"balls_before,omitempty"`
	OverStart       *int   `json:"over_start,omitempty"`
	OversToAnalyze  *int   `json:"overs_to_analyze,omitempty"`
	MinBallsInPhase *int   `json:"min_balls_in_phase,omitempty"`
	Scope
}

// CustomPhaseResult carries the analysis and any corrected parameters.
type CustomPhaseResult struct {
	model.CustomPhaseStats
	Adjustments []Adjustment `json:"adjustments,omitempty"`
}

var bucketRanges = [...]string{"0", "1-3", "4", "5", "6", "7+"}

func bucketOf(runs int) int {
	switch {
	case runs <= 0:
		return 0
	case runs <= 3:
		return 1
	case runs >= 7:
		return 5
	}
	return runs - 2 // 4, 5, 6
}

func (e *Engine) customParams(q CustomPhaseQuery, adj *[]Adjustment) model.CustomPhaseParams {
	def := e.CustomDefaults
	p := model.CustomPhaseParams{
		BallsBefore:     intParam("balls_before", q.BallsBefore, def.BallsBefore, adj),
		OverStart:       intParam("over_start", q.OverStart, def.OverStart, adj),
		MinBallsInPhase: intParam("min_balls_in_phase", q.MinBallsInPhase, def.MinBallsInPhase, adj),
	}
	p.OversToAnalyze = def.OversToAnalyze
	if v := q.OversToAnalyze; v != nil {
		if *v > 0 {
			p.OversToAnalyze = *v
		} else {
			*adj = append(*adj, Adjustment{Param: "overs_to_analyze", Given: fmt.Sprint(*v), Used: fmt.Sprint(def.OversToAnalyze)})
		}
	}
	return p
}

// CustomPhase runs two passes per innings over the batter's deliveries:
// the first counts balls faced before the window, the second folds the
// in-window balls of innings that meet both thresholds.
func (e *Engine) CustomPhase(corpus model.Corpus, q CustomPhaseQuery) (CustomPhaseResult, error) {
	if err := check(q); err != nil {
		return CustomPhaseResult{}, err
	}
	if err := q.validateRange(); err != nil {
		return CustomPhaseResult{}, err
	}
	var adj []Adjustment
	p := e.customParams(q, &adj)
	inWindow := deliveries.OverRange(p.OverStart, p.OverEnd())

	acc := aggregator.NewBatting(q.Player)
	var freq [len(bucketRanges)]int
	admitted := 0

	for _, m := range q.filter(corpus) {
		for i := range m.Innings {
			faced := deliveries.Of(m, deliveries.InningsIndex(i), deliveries.Batter(q.Player), q.facing())
			prior, window := 0, 0
			for b := range faced {
				switch {
				case b.Over < p.OverStart:
					prior++
				case inWindow(b):
					window++
				}
			}
			if prior+window == 0 || prior < p.BallsBefore || window < p.MinBallsInPhase {
				continue
			}
			admitted++
			for b := range faced {
				if !inWindow(b) {
					continue
				}
				acc.Fold(b)
				if r := b.Delivery.Runs; r != nil && r.Valid() {
					freq[bucketOf(r.Batter)]++
				}
			}
		}
	}
	if admitted == 0 {
		return CustomPhaseResult{Adjustments: adj}, noData("no innings of %s meet the phase thresholds", q.Player)
	}

	s := acc.Finalize()
	e.logExclusions("custom_phase", s.Excluded)
	out := model.CustomPhaseStats{
		Player:          q.Player,
		Params:          p,
		InningsAnalyzed: admitted,
		TotalRuns:       s.Runs,
		TotalBalls:      s.BallsFaced,
		Dismissals:      s.Dismissals,
		AvgRunsPerBall:  model.Div(float64(s.Runs), float64(s.BallsFaced)),
		StrikeRate:      s.StrikeRate,
		DismissalRate:   model.Div(float64(s.Dismissals), float64(admitted)).Scaled(100),
	}
	for i, r := range bucketRanges {
		out.Distribution = append(out.Distribution, model.RunBucket{Range: r, Frequency: freq[i]})
	}
	return CustomPhaseResult{CustomPhaseStats: out, Adjustments: adj}, nil
}
