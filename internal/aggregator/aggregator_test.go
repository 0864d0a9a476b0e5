package aggregator

import (
	"math"
	"testing"

	"github.com/pable/go-cricket-metrics/internal/deliveries"
	mt "github.com/pable/go-cricket-metrics/internal/matchtest"
	"github.com/pable/go-cricket-metrics/internal/model"
)

const (
	kohli   = "V Kohli"
	sharma  = "RG Sharma"
	starc   = "MA Starc"
	cummins = "PJ Cummins"
)

// makeMatch builds an India innings against Australia where Kohli faces
// Starc in the powerplay and Cummins at the death.
func makeMatch(id, date string) *model.Match {
	return mt.Match(id, date, "India", "Australia").
		Squad("India", kohli, sharma).
		Squad("Australia", starc, cummins).
		Innings("India",
			mt.Over(0,
				mt.Runs(kohli, starc, 4),
				mt.Runs(kohli, starc, 0),
				mt.Wide(kohli, starc, 1),
				mt.Runs(kohli, starc, 1),
				mt.Runs(sharma, starc, 6),
				mt.LegBye(sharma, starc, 1),
			),
			mt.Over(45,
				mt.Runs(kohli, cummins, 6),
				mt.NoBall(kohli, cummins, 2),
				mt.Out(kohli, cummins, "caught"),
			),
		).
		Build()
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// ---- Batting ----

func TestBatting_Basic(t *testing.T) {
	acc := NewBatting(kohli)
	Run(deliveries.Of(makeMatch("m1", "2023-01-01")), acc)
	s := acc.Finalize()

	if s.BallsFaced != 7 {
		t.Errorf("BallsFaced = %d, want 7", s.BallsFaced)
	}
	if s.Runs != 13 {
		t.Errorf("Runs = %d, want 13", s.Runs)
	}
	if s.Dismissals != 1 {
		t.Errorf("Dismissals = %d, want 1", s.Dismissals)
	}
	if s.Fours != 1 || s.Sixes != 1 {
		t.Errorf("Fours/Sixes = %d/%d, want 1/1", s.Fours, s.Sixes)
	}
	// dot, wide (0 off the bat) and the wicket ball
	if s.Dots != 3 {
		t.Errorf("Dots = %d, want 3", s.Dots)
	}
	if !s.Average.Defined || !approx(s.Average.Value, 13) {
		t.Errorf("Average = %v, want 13", s.Average)
	}
	if !approx(s.StrikeRate.Value, 13.0/7*100) {
		t.Errorf("StrikeRate = %v", s.StrikeRate)
	}
	if s.Matches != 1 {
		t.Errorf("Matches = %d, want 1", s.Matches)
	}
}

func TestBatting_NoDismissalAverageUndefined(t *testing.T) {
	acc := NewBatting(sharma)
	Run(deliveries.Of(makeMatch("m1", "2023-01-01")), acc)
	s := acc.Finalize()
	if s.Average.Defined {
		t.Errorf("expected undefined average, got %v", s.Average)
	}
	if s.BallsFaced != 2 || s.Runs != 6 {
		t.Errorf("got %d balls %d runs, want 2/6", s.BallsFaced, s.Runs)
	}
}

func TestBatting_ZeroBallsStrikeRateUndefined(t *testing.T) {
	s := NewBatting("nobody").Finalize()
	if s.StrikeRate.Defined || s.Average.Defined || s.DotPct.Defined {
		t.Errorf("expected every ratio undefined with no balls: %+v", s)
	}
}

func TestBatting_StrikeRateBounds(t *testing.T) {
	m := mt.Match("m1", "2023-01-01", "A", "B").
		Innings("A", mt.Over(0, mt.Repeat(6, mt.Runs("x", "y", 6))...)).
		Build()
	acc := NewBatting("x")
	Run(deliveries.Of(m), acc)
	sr := acc.Finalize().StrikeRate
	if !sr.Defined || sr.Value < 0 || sr.Value > 600 {
		t.Errorf("strike rate %v outside [0, 600]", sr)
	}
}

func TestBatting_MalformedExcluded(t *testing.T) {
	m := mt.Match("m1", "2023-01-01", "A", "B").
		Innings("A", mt.Over(0,
			mt.Runs("x", "y", 2),
			mt.Malformed("x", "y"),
			model.Delivery{Batter: "x", Bowler: "y", Runs: &model.Runs{Batter: 4, Total: 1}},
		)).
		Build()
	acc := NewBatting("x")
	Run(deliveries.Of(m), acc)
	s := acc.Finalize()
	if s.BallsFaced != 1 || s.Runs != 2 {
		t.Errorf("got %d balls %d runs, want 1/2", s.BallsFaced, s.Runs)
	}
	if s.Excluded[model.ExcludeMissingRuns] != 1 || s.Excluded[model.ExcludeInvalidRuns] != 1 {
		t.Errorf("Excluded = %v", s.Excluded)
	}
}

// ---- Bowling ----

func TestBowling_Basic(t *testing.T) {
	acc := NewBowling(starc)
	Run(deliveries.Of(makeMatch("m1", "2023-01-01")), acc)
	s := acc.Finalize()

	if s.BallsBowled != 6 {
		t.Errorf("BallsBowled = %d, want 6", s.BallsBowled)
	}
	if s.RunsConceded != 13 {
		t.Errorf("RunsConceded = %d, want 13", s.RunsConceded)
	}
	if s.Wides != 1 {
		t.Errorf("Wides = %d, want 1", s.Wides)
	}
	if s.Wickets != 0 || s.Average.Defined || s.StrikeRate.Defined {
		t.Errorf("expected no wickets and undefined average/strike rate: %+v", s)
	}
	if !approx(s.Economy.Value, 13) {
		t.Errorf("Economy = %v, want 13", s.Economy)
	}
	if s.Overs() != "1.0" {
		t.Errorf("Overs = %q, want 1.0", s.Overs())
	}
}

func TestBowling_CreditedWickets(t *testing.T) {
	m := mt.Match("m1", "2023-01-01", "A", "B").
		Innings("A", mt.Over(0,
			mt.Out("x", "y", "bowled"),
			mt.RunOut("z", "y", "z", 1),
			mt.Out("w", "y", model.KindRetiredHurt),
			mt.Out("v", "y", model.KindObstructingTheField),
			mt.Out("u", "y", "lbw"),
		)).
		Build()
	acc := NewBowling("y")
	Run(deliveries.Of(m), acc)
	s := acc.Finalize()
	if s.Wickets != 2 {
		t.Errorf("Wickets = %d, want 2", s.Wickets)
	}
	if !approx(s.StrikeRate.Value, 2.5) {
		t.Errorf("StrikeRate = %v, want 2.5", s.StrikeRate)
	}
	if s.Overs() != "0.5" {
		t.Errorf("Overs = %q, want 0.5", s.Overs())
	}
}

// ---- Phases ----

func TestPhaseBatting_OverBuckets(t *testing.T) {
	acc := NewPhaseBatting(kohli, model.ODIPhases)
	Run(deliveries.Of(makeMatch("m1", "2023-01-01")), acc)
	rows := acc.Finalize()
	if len(rows) != 2 {
		t.Fatalf("expected powerplay and death rows, got %d", len(rows))
	}
	if rows[0].Phase != model.Powerplay || rows[0].BallsFaced != 4 {
		t.Errorf("powerplay row = %+v", rows[0])
	}
	if rows[1].Phase != model.DeathOvers || rows[1].BallsFaced != 3 || rows[1].Dismissals != 1 {
		t.Errorf("death row = %+v", rows[1])
	}
}

func TestPhaseBoundaries_Configurable(t *testing.T) {
	acc := NewPhaseBowling(cummins, model.PhaseBoundaries{PowerplayEnd: 10, MiddleEnd: 50})
	Run(deliveries.Of(makeMatch("m1", "2023-01-01")), acc)
	rows := acc.Finalize()
	if len(rows) != 1 || rows[0].Phase != model.MiddleOvers {
		t.Fatalf("over 45 should be middle overs with MiddleEnd=50, got %+v", rows)
	}
	if rows[0].Wickets != 1 {
		t.Errorf("Wickets = %d, want 1", rows[0].Wickets)
	}
}

func TestTeamPhase_RunRate(t *testing.T) {
	m := makeMatch("m1", "2023-01-01")
	m.Innings[0].Overs[0].Deliveries = append(m.Innings[0].Overs[0].Deliveries, mt.Runs("", starc, 2))
	acc := NewTeamPhase("India", model.ODIPhases)
	Run(deliveries.Of(m), acc)
	rows := acc.Finalize()
	pp := rows[0]
	if pp.Balls != 7 {
		t.Errorf("missing-batter delivery should count for the team, balls = %d", pp.Balls)
	}
	if pp.Runs != 13 || pp.Extras != 2 {
		t.Errorf("powerplay runs/extras = %d/%d, want 13/2", pp.Runs, pp.Extras)
	}
	if !approx(pp.RunRate.Value, 15.0/7*6) {
		t.Errorf("RunRate = %v", pp.RunRate)
	}
	death := rows[1]
	if death.Wickets != 1 || death.Runs != 8 {
		t.Errorf("death row = %+v", death)
	}
}

// ---- Dismissals ----

func TestDismissals_PercentagesSumTo100(t *testing.T) {
	kinds := []string{"caught", "caught", "bowled", "lbw", "caught", "stumped", "bowled"}
	var overs []model.Over
	for i, k := range kinds {
		overs = append(overs, mt.Over(i*7, mt.Out("x", []string{"p", "q", "r"}[i%3], k)))
	}
	m := mt.Match("m1", "2023-01-01", "A", "B").Innings("A", overs...).Build()

	acc := NewDismissals("x", model.ODIPhases)
	Run(deliveries.Of(m), acc)
	p := acc.Finalize()

	if p.Total != len(kinds) {
		t.Fatalf("Total = %d, want %d", p.Total, len(kinds))
	}
	if p.ByKind[0].Kind != "caught" || p.ByKind[0].Count != 3 {
		t.Errorf("first kind = %+v, want caught x3", p.ByKind[0])
	}
	var sumKind, sumBowler float64
	for _, r := range p.ByKind {
		sumKind += r.Percentage
	}
	for _, r := range p.ByBowler {
		sumBowler += r.Percentage
	}
	if math.Abs(sumKind-100) > 0.1 || math.Abs(sumBowler-100) > 0.1 {
		t.Errorf("percentages sum to %.3f / %.3f", sumKind, sumBowler)
	}
	perPhase := map[model.Phase]float64{}
	for _, r := range p.ByPhase {
		perPhase[r.Phase] += r.Percentage
	}
	for ph, sum := range perPhase {
		if math.Abs(sum-100) > 0.1 {
			t.Errorf("phase %v sums to %.3f", ph, sum)
		}
	}
}

func TestDismissals_NonStrikerRunOut(t *testing.T) {
	m := mt.Match("m1", "2023-01-01", "A", "B").
		Innings("A", mt.Over(0, mt.RunOut("y", "b", "x", 1))).
		Build()
	acc := NewDismissals("x", model.ODIPhases)
	Run(deliveries.Of(m), acc)
	if acc.Total() != 1 {
		t.Errorf("run out at the non-striker's end should count, total = %d", acc.Total())
	}
}

func TestVictims_CreditedOnly(t *testing.T) {
	acc := NewVictims(cummins)
	m := makeMatch("m1", "2023-01-01")
	m.Innings[0].Overs[1].Deliveries = append(m.Innings[0].Overs[1].Deliveries, mt.RunOut(sharma, cummins, sharma, 0))
	Run(deliveries.Of(m), acc)
	rows := acc.Finalize()
	if len(rows) != 1 || rows[0].Batter != kohli || rows[0].Kind != "caught" {
		t.Errorf("victims = %+v", rows)
	}
}

// ---- Head to head ----

func TestHeadToHead_EncountersSumToOverall(t *testing.T) {
	corpus := model.Corpus{
		makeMatch("m3", "2023-03-01"),
		makeMatch("m1", "2023-01-01"),
		makeMatch("m2", "2023-01-01"),
	}
	acc := NewHeadToHead(kohli, starc)
	Run(deliveries.Each(corpus), acc)
	h := acc.Finalize()

	if len(h.Encounters) != 3 {
		t.Fatalf("expected 3 encounters, got %d", len(h.Encounters))
	}
	wantOrder := []string{"m1", "m2", "m3"}
	var balls, runs, outs int
	for i, e := range h.Encounters {
		if e.MatchID != wantOrder[i] {
			t.Errorf("encounter %d = %s, want %s", i, e.MatchID, wantOrder[i])
		}
		balls += e.Balls
		runs += e.Runs
		outs += e.Dismissals
	}
	if balls != h.Overall.BallsFaced || runs != h.Overall.Runs || outs != h.Overall.Dismissals {
		t.Errorf("encounters sum %d/%d/%d != overall %d/%d/%d",
			balls, runs, outs, h.Overall.BallsFaced, h.Overall.Runs, h.Overall.Dismissals)
	}
	if h.Overall.BallsFaced != 12 || h.Overall.Runs != 15 {
		t.Errorf("overall = %+v", h.Overall)
	}
	if h.Encounters[0].Result() != "Not Out" {
		t.Errorf("Kohli was never out to Starc")
	}
}

// ---- Sharding ----

func TestMerge_ShardsEqualSequential(t *testing.T) {
	corpus := model.Corpus{
		makeMatch("m1", "2023-01-01"),
		makeMatch("m2", "2023-02-01"),
		makeMatch("m3", "2023-03-01"),
		makeMatch("m4", "2023-04-01"),
	}

	seqBat, seqBowl := NewBattingTable(), NewBowlingTable()
	Run(deliveries.Each(corpus), seqBat, seqBowl)

	leftBat, leftBowl := NewBattingTable(), NewBowlingTable()
	rightBat, rightBowl := NewBattingTable(), NewBowlingTable()
	Run(deliveries.Each(corpus[:1]), leftBat, leftBowl)
	Run(deliveries.Each(corpus[1:]), rightBat, rightBowl)
	// merge in the opposite order to check commutativity
	rightBat.Merge(leftBat)
	rightBowl.Merge(leftBowl)

	a, b := seqBat.Finalize(), rightBat.Finalize()
	if len(a) != len(b) {
		t.Fatalf("batting rows %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Player != b[i].Player || a[i].Runs != b[i].Runs || a[i].BallsFaced != b[i].BallsFaced ||
			a[i].Dismissals != b[i].Dismissals || a[i].Matches != b[i].Matches {
			t.Errorf("batting row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	c, d := seqBowl.Finalize(), rightBowl.Finalize()
	for i := range c {
		if c[i].Player != d[i].Player || c[i].RunsConceded != d[i].RunsConceded ||
			c[i].Wickets != d[i].Wickets || c[i].Matches != d[i].Matches {
			t.Errorf("bowling row %d differs: %+v vs %+v", i, c[i], d[i])
		}
	}
}

func TestBattingTable_MissingBatterExcluded(t *testing.T) {
	m := mt.Match("m1", "2023-01-01", "A", "B").
		Innings("A", mt.Over(0, mt.Runs("", "y", 1), mt.Runs("x", "y", 1))).
		Build()
	tbl := NewBattingTable()
	Run(deliveries.Of(m), tbl)
	if got := tbl.Excluded()[model.ExcludeMissingBatter]; got != 1 {
		t.Errorf("missing batter exclusions = %d, want 1", got)
	}
	if rows := tbl.Finalize(); len(rows) != 1 || rows[0].Player != "x" {
		t.Errorf("rows = %+v", rows)
	}
}
