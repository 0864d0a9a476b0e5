package query

import (
	"github.com/pable/go-cricket-metrics/internal/aggregator"
	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// PlayerQuery selects one player's deliveries.
type PlayerQuery struct {
	Player string `json:"player" validate:"required"`
	Scope
}

func (q PlayerQuery) check() error {
	if err := check(q); err != nil {
		return err
	}
	return q.validateRange()
}

// PlayerBatting aggregates the player's batting over the scoped corpus.
func (e *Engine) PlayerBatting(corpus model.Corpus, q PlayerQuery) (model.BattingStats, error) {
	if err := q.check(); err != nil {
		return model.BattingStats{}, err
	}
	acc := aggregator.NewBatting(q.Player)
	aggregator.Run(deliveries.Each(q.filter(corpus), deliveries.Batter(q.Player), q.facing()), acc)
	if acc.Empty() {
		return model.BattingStats{}, noData("no batting records for %s", q.Player)
	}
	s := acc.Finalize()
	e.logExclusions("batting", s.Excluded)
	return s, nil
}

// PlayerBowling aggregates the player's bowling over the scoped corpus.
func (e *Engine) PlayerBowling(corpus model.Corpus, q PlayerQuery) (model.BowlingStats, error) {
	if err := q.check(); err != nil {
		return model.BowlingStats{}, err
	}
	acc := aggregator.NewBowling(q.Player)
	aggregator.Run(deliveries.Each(q.filter(corpus), deliveries.Bowler(q.Player), q.bowlingAt()), acc)
	if acc.Empty() {
		return model.BowlingStats{}, noData("no bowling records for %s", q.Player)
	}
	s := acc.Finalize()
	e.logExclusions("bowling", s.Excluded)
	return s, nil
}

// BattingPhases splits the player's batting by phase.
func (e *Engine) BattingPhases(corpus model.Corpus, q PlayerQuery) ([]model.PhaseBattingStats, error) {
	if err := q.check(); err != nil {
		return nil, err
	}
	acc := aggregator.NewPhaseBatting(q.Player, e.Phases)
	aggregator.Run(deliveries.Each(q.filter(corpus), deliveries.Batter(q.Player), q.facing()), acc)
	rows := acc.Finalize()
	if len(rows) == 0 {
		return nil, noData("no batting records for %s", q.Player)
	}
	return rows, nil
}

// BowlingPhases splits the player's bowling by phase.
func (e *Engine) BowlingPhases(corpus model.Corpus, q PlayerQuery) ([]model.PhaseBowlingStats, error) {
	if err := q.check(); err != nil {
		return nil, err
	}
	acc := aggregator.NewPhaseBowling(q.Player, e.Phases)
	aggregator.Run(deliveries.Each(q.filter(corpus), deliveries.Bowler(q.Player), q.bowlingAt()), acc)
	rows := acc.Finalize()
	if len(rows) == 0 {
		return nil, noData("no bowling records for %s", q.Player)
	}
	return rows, nil
}

// TeamQuery selects one side's matches.
type TeamQuery struct {
	Team string `json:"team" validate:"required"`
	Scope
}

func (q TeamQuery) check() error {
	if err := check(q); err != nil {
		return err
	}
	return q.validateRange()
}

// TeamPhaseResult is a side's batting split by phase.
type TeamPhaseResult struct {
	Team     string                 `json:"team"`
	Phases   []model.TeamPhaseStats `json:"phases"`
	Excluded model.Exclusions       `json:"excluded,omitempty"`
}

// TeamPhases splits the side's batting by phase.
func (e *Engine) TeamPhases(corpus model.Corpus, q TeamQuery) (TeamPhaseResult, error) {
	if err := q.check(); err != nil {
		return TeamPhaseResult{}, err
	}
	acc := aggregator.NewTeamPhase(q.Team, e.Phases)
	aggregator.Run(deliveries.Each(q.filter(corpus), deliveries.BattingTeam(q.Team), q.facing()), acc)
	rows := acc.Finalize()
	if len(rows) == 0 {
		return TeamPhaseResult{}, noData("no batting records for team %s", q.Team)
	}
	excl := acc.Excluded()
	e.logExclusions("team_phases", excl)
	return TeamPhaseResult{Team: q.Team, Phases: rows, Excluded: excl}, nil
}

// DismissalPattern groups how the player got out. A player who batted but
// was never dismissed gets an empty pattern, not ErrNoData.
func (e *Engine) DismissalPattern(corpus model.Corpus, q PlayerQuery) (model.DismissalPattern, error) {
	if err := q.check(); err != nil {
		return model.DismissalPattern{}, err
	}
	scoped := q.filter(corpus)
	dis := aggregator.NewDismissals(q.Player, e.Phases)
	aggregator.Run(deliveries.Each(scoped, deliveries.Dismissal(q.Player), q.facing()), dis)
	if dis.Total() == 0 && !appears(scoped, q.Player, q.facing()) {
		return model.DismissalPattern{}, noData("no batting records for %s", q.Player)
	}
	return dis.Finalize(), nil
}

// BowlerVictims lists the batters the bowler dismissed.
func (e *Engine) BowlerVictims(corpus model.Corpus, q PlayerQuery) ([]model.VictimRow, error) {
	if err := q.check(); err != nil {
		return nil, err
	}
	scoped := q.filter(corpus)
	acc := aggregator.NewVictims(q.Player)
	bowled := aggregator.NewBowling(q.Player)
	aggregator.Run(deliveries.Each(scoped, deliveries.Bowler(q.Player), q.bowlingAt()), acc, bowled)
	if bowled.Empty() {
		return nil, noData("no bowling records for %s", q.Player)
	}
	return acc.Finalize(), nil
}

// PairQuery selects the deliveries a batter faced from a bowler.
type PairQuery struct {
	Batter string `json:"batter" validate:"required"`
	Bowler string `json:"bowler" validate:"required"`
	Scope
}

// HeadToHead aggregates the batter against the bowler, overall and per match.
func (e *Engine) HeadToHead(corpus model.Corpus, q PairQuery) (model.HeadToHead, error) {
	if err := check(q); err != nil {
		return model.HeadToHead{}, err
	}
	if err := q.validateRange(); err != nil {
		return model.HeadToHead{}, err
	}
	acc := aggregator.NewHeadToHead(q.Batter, q.Bowler)
	aggregator.Run(deliveries.Each(q.filter(corpus), deliveries.Batter(q.Batter), deliveries.Bowler(q.Bowler), q.facing()), acc)
	if acc.Empty() {
		return model.HeadToHead{}, noData("%s never faced %s", q.Batter, q.Bowler)
	}
	h := acc.Finalize()
	e.logExclusions("head_to_head", h.Overall.Excluded)
	return h, nil
}

// appears reports whether player faced a delivery in the corpus that
// passes every predicate.
func appears(corpus model.Corpus, player string, preds ...deliveries.Predicate) bool {
	for range deliveries.Each(corpus, append([]deliveries.Predicate{deliveries.Batter(player)}, preds...)...) {
		return true
	}
	return false
}
