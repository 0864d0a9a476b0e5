package query

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mt "github.com/pable/go-cricket-metrics/internal/matchtest"
	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/names"
)

const (
	kohli   = "V Kohli"
	sharma  = "RG Sharma"
	bumrah  = "JJ Bumrah"
	starc   = "MA Starc"
	cummins = "PJ Cummins"
	warner  = "DA Warner"
	smith   = "SPD Smith"
)

// leagueCorpus is six India v Australia matches on consecutive January days.
// Kohli is caught off Cummins in the even-numbered matches.
func leagueCorpus() model.Corpus {
	var corpus model.Corpus
	for i := 1; i <= 6; i++ {
		kohliLast := mt.Runs(kohli, cummins, 1)
		if i%2 == 0 {
			kohliLast = mt.Out(kohli, cummins, "caught")
		}
		winner, venue := "India", "Wankhede Stadium, Mumbai"
		if i > 3 {
			winner = "Australia"
		}
		if i%2 == 0 {
			venue = "Melbourne Cricket Ground"
		}
		motm := kohli
		if i%2 == 0 {
			motm = bumrah
		}
		m := mt.Match(fmt.Sprintf("m%d", i), fmt.Sprintf("2023-01-%02d", i), "India", "Australia").
			Venue(venue).
			Winner(winner, 10).
			MOTM(motm).
			Squad("India", kohli, sharma, bumrah).
			Squad("Australia", starc, cummins, warner, smith).
			Innings("India",
				mt.Over(0,
					mt.Runs(kohli, starc, 4),
					mt.Runs(kohli, starc, 1),
					mt.Runs(sharma, starc, 0),
					mt.Runs(sharma, starc, 6),
					mt.Runs(kohli, starc, 0),
					mt.Runs(kohli, starc, 2),
				),
				mt.Over(10,
					mt.Runs(kohli, cummins, 1),
					mt.Runs(sharma, cummins, 1),
					mt.Runs(kohli, cummins, 4),
					mt.Wide(kohli, cummins, 1),
					mt.Runs(kohli, cummins, 0),
					kohliLast,
				),
			).
			Innings("Australia",
				mt.Over(0, append(mt.Repeat(5, mt.Runs(warner, bumrah, 0)), mt.Runs(warner, bumrah, 4))...),
				mt.Over(1,
					mt.Out(warner, bumrah, "bowled"),
					mt.Runs(smith, bumrah, 1),
					mt.Runs(smith, bumrah, 6),
				),
			).
			Build()
		corpus = append(corpus, m)
	}
	return corpus
}

func intp(v int) *int { return &v }

func testEngine() *Engine {
	e := New()
	e.Parallelism = 1
	return e
}

// ---- Contracts ----

func TestPlayerBatting_MissingPlayerIsInvalid(t *testing.T) {
	_, err := testEngine().PlayerBatting(leagueCorpus(), PlayerQuery{})
	require.Error(t, err)
	assert.True(t, IsInvalidParameter(err))
	assert.False(t, IsNoData(err))
	assert.Contains(t, err.Error(), "player is required")
}

func TestPlayerBatting_BadDateIsInvalid(t *testing.T) {
	_, err := testEngine().PlayerBatting(leagueCorpus(), PlayerQuery{Player: kohli, Scope: Scope{From: "01/01/2023"}})
	require.Error(t, err)
	assert.True(t, IsInvalidParameter(err))

	_, err = testEngine().PlayerBatting(leagueCorpus(), PlayerQuery{Player: kohli, Scope: Scope{From: "2023-02-01", To: "2023-01-01"}})
	assert.True(t, IsInvalidParameter(err))
}

func TestPlayerBatting_UnknownPlayerIsNoData(t *testing.T) {
	_, err := testEngine().PlayerBatting(leagueCorpus(), PlayerQuery{Player: "Nobody"})
	require.Error(t, err)
	assert.True(t, IsNoData(err))
}

// ---- Player queries ----

func TestPlayerBatting(t *testing.T) {
	s, err := testEngine().PlayerBatting(leagueCorpus(), PlayerQuery{Player: kohli})
	require.NoError(t, err)
	assert.Equal(t, 6, s.Matches)
	assert.Equal(t, 54, s.BallsFaced)
	assert.Equal(t, 75, s.Runs)
	assert.Equal(t, 3, s.Dismissals)
	assert.InDelta(t, 25.0, s.Average.Value, 1e-9)
	assert.InDelta(t, 75.0/54*100, s.StrikeRate.Value, 1e-9)
}

func TestPlayerBatting_Scope(t *testing.T) {
	s, err := testEngine().PlayerBatting(leagueCorpus(), PlayerQuery{Player: kohli, Scope: Scope{From: "2023-01-03", To: "2023-01-04"}})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Matches)
	assert.Equal(t, 25, s.Runs)
	assert.Equal(t, 1, s.Dismissals)

	s, err = testEngine().PlayerBatting(leagueCorpus(), PlayerQuery{Player: kohli, Scope: Scope{Venue: "mumbai"}})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Matches)
	assert.Equal(t, 0, s.Dismissals)

	_, err = testEngine().PlayerBatting(leagueCorpus(), PlayerQuery{Player: kohli, Scope: Scope{Opponent: "England"}})
	assert.True(t, IsNoData(err))
}

func TestPlayerBowling(t *testing.T) {
	s, err := testEngine().PlayerBowling(leagueCorpus(), PlayerQuery{Player: bumrah})
	require.NoError(t, err)
	assert.Equal(t, 54, s.BallsBowled)
	assert.Equal(t, 66, s.RunsConceded)
	assert.Equal(t, 6, s.Wickets)
	assert.Equal(t, "9.0", s.Overs())
	assert.InDelta(t, 66.0/9, s.Economy.Value, 1e-9)
}

func TestBattingPhases(t *testing.T) {
	rows, err := testEngine().BattingPhases(leagueCorpus(), PlayerQuery{Player: kohli})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.Powerplay, rows[0].Phase)
	assert.Equal(t, 24, rows[0].BallsFaced)
	assert.Equal(t, model.MiddleOvers, rows[1].Phase)
	assert.Equal(t, 3, rows[1].Dismissals)
}

func TestBowlingPhases_CustomBoundaries(t *testing.T) {
	e := testEngine()
	e.Phases = model.PhaseBoundaries{PowerplayEnd: 1, MiddleEnd: 2}
	rows, err := e.BowlingPhases(leagueCorpus(), PlayerQuery{Player: bumrah})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Wickets)
	assert.Equal(t, model.MiddleOvers, rows[1].Phase)
	assert.Equal(t, 6, rows[1].Wickets)
}

func TestTeamPhases(t *testing.T) {
	res, err := testEngine().TeamPhases(leagueCorpus(), TeamQuery{Team: "India"})
	require.NoError(t, err)
	require.Len(t, res.Phases, 2)
	pp, mid := res.Phases[0], res.Phases[1]
	assert.Equal(t, 36, pp.Balls)
	assert.Equal(t, 78, pp.Runs)
	assert.Equal(t, 39, mid.Runs)
	assert.Equal(t, 6, mid.Extras)
	assert.Equal(t, 3, mid.Wickets)
	assert.InDelta(t, 45.0/6, mid.RunRate.Value, 1e-9)
}

func TestDismissalPattern(t *testing.T) {
	p, err := testEngine().DismissalPattern(leagueCorpus(), PlayerQuery{Player: kohli})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Total)
	require.Len(t, p.ByKind, 1)
	assert.InDelta(t, 100, p.ByKind[0].Percentage, 0.1)
	require.Len(t, p.ByBowler, 1)
	assert.Equal(t, cummins, p.ByBowler[0].Bowler)

	p, err = testEngine().DismissalPattern(leagueCorpus(), PlayerQuery{Player: sharma})
	require.NoError(t, err, "a batter never dismissed still has a (empty) pattern")
	assert.Zero(t, p.Total)

	_, err = testEngine().DismissalPattern(leagueCorpus(), PlayerQuery{Player: "Nobody"})
	assert.True(t, IsNoData(err))
}

func TestDismissalPattern_OpponentScope(t *testing.T) {
	root := "JE Root"
	corpus := append(leagueCorpus(), mt.Match("m7", "2023-02-01", "England", "India").
		Squad("England", root).
		Squad("India", bumrah).
		Innings("England", mt.Over(0, mt.Runs(root, bumrah, 1), mt.Runs(root, bumrah, 0))).
		Build())

	// Root bats for England, so England never bowled to him.
	_, err := testEngine().DismissalPattern(corpus, PlayerQuery{Player: root, Scope: Scope{Opponent: "England"}})
	assert.True(t, IsNoData(err))

	p, err := testEngine().DismissalPattern(corpus, PlayerQuery{Player: root, Scope: Scope{Opponent: "India"}})
	require.NoError(t, err)
	assert.Zero(t, p.Total)
}

func TestBowlerVictims(t *testing.T) {
	rows, err := testEngine().BowlerVictims(leagueCorpus(), PlayerQuery{Player: bumrah})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.VictimRow{Batter: warner, Kind: "bowled", Count: 6}, rows[0])

	rows, err = testEngine().BowlerVictims(leagueCorpus(), PlayerQuery{Player: starc})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHeadToHead_SumsToOverall(t *testing.T) {
	h, err := testEngine().HeadToHead(leagueCorpus(), PairQuery{Batter: kohli, Bowler: cummins})
	require.NoError(t, err)
	require.Len(t, h.Encounters, 6)
	var balls, runs, outs int
	for i, enc := range h.Encounters {
		if i > 0 {
			assert.LessOrEqual(t, h.Encounters[i-1].Date, enc.Date)
		}
		balls += enc.Balls
		runs += enc.Runs
		outs += enc.Dismissals
	}
	assert.Equal(t, h.Overall.BallsFaced, balls)
	assert.Equal(t, h.Overall.Runs, runs)
	assert.Equal(t, h.Overall.Dismissals, outs)
	assert.Equal(t, "Dismissed", h.Encounters[1].Result())

	_, err = testEngine().HeadToHead(leagueCorpus(), PairQuery{Batter: kohli, Bowler: bumrah})
	assert.True(t, IsNoData(err))

	_, err = testEngine().HeadToHead(leagueCorpus(), PairQuery{Batter: kohli})
	assert.True(t, IsInvalidParameter(err))
}

func TestHeadToHead_OpponentScope(t *testing.T) {
	h, err := testEngine().HeadToHead(leagueCorpus(), PairQuery{Batter: kohli, Bowler: cummins, Scope: Scope{Opponent: "Australia"}})
	require.NoError(t, err)
	assert.Len(t, h.Encounters, 6)

	// Cummins bowls for Australia, so no delivery was bowled by India.
	_, err = testEngine().HeadToHead(leagueCorpus(), PairQuery{Batter: kohli, Bowler: cummins, Scope: Scope{Opponent: "India"}})
	assert.True(t, IsNoData(err))
}

// ---- Leaderboards ----

func battingNames(rows []model.BattingStats) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Player
	}
	return out
}

func bowlingNames(rows []model.BowlingStats) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Player
	}
	return out
}

func TestBattingLeaderboard_SortKeys(t *testing.T) {
	cases := []struct {
		sort string
		want []string
	}{
		{"runs", []string{kohli, sharma, smith, warner}},
		{"strike_rate", []string{smith, sharma, kohli, warner}},
		{"average", []string{kohli, warner, sharma, smith}},
		{"balls", []string{kohli, warner, sharma, smith}},
		{"sixes", []string{sharma, smith, kohli, warner}},
	}
	for _, tc := range cases {
		t.Run(tc.sort, func(t *testing.T) {
			lb, err := testEngine().BattingLeaderboard(leagueCorpus(), LeaderboardQuery{SortBy: tc.sort, MinBalls: intp(12)})
			require.NoError(t, err)
			assert.Equal(t, tc.want, battingNames(lb.Rows))
			assert.Empty(t, lb.Adjustments)
		})
	}
}

func TestBattingLeaderboard_Defaults(t *testing.T) {
	lb, err := testEngine().BattingLeaderboard(leagueCorpus(), LeaderboardQuery{SortBy: "economy", Limit: -3, MinBalls: intp(-1)})
	require.NoError(t, err)
	assert.Equal(t, SortRuns, lb.SortBy)
	assert.Equal(t, DefaultBattingMinBalls, lb.MinBalls)
	assert.Empty(t, lb.Rows, "nobody reaches the default sample size")
	require.Len(t, lb.Adjustments, 3)
	assert.Equal(t, "sort_by", lb.Adjustments[0].Param)
}

func TestBattingLeaderboard_ThresholdAndLimit(t *testing.T) {
	lb, err := testEngine().BattingLeaderboard(leagueCorpus(), LeaderboardQuery{MinBalls: intp(40), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{kohli}, battingNames(lb.Rows))
	for _, r := range lb.Rows {
		assert.GreaterOrEqual(t, r.BallsFaced, 40)
	}
}

func TestBattingLeaderboard_ParallelEqualsSequential(t *testing.T) {
	seq := testEngine()
	par := testEngine()
	par.Parallelism = 4
	q := LeaderboardQuery{SortBy: "strike_rate", MinBalls: intp(0)}

	a, err := seq.BattingLeaderboard(leagueCorpus(), q)
	require.NoError(t, err)
	b, err := par.BattingLeaderboard(leagueCorpus(), q)
	require.NoError(t, err)
	assert.Equal(t, a.Rows, b.Rows)
}

func TestBowlingLeaderboard(t *testing.T) {
	base := LeaderboardQuery{MinBalls: intp(10), MinMatches: intp(1)}
	cases := []struct {
		sort string
		want []string
	}{
		{"", []string{bumrah, cummins}},
		{"economy", []string{bumrah, cummins}},
		{"average", []string{bumrah, cummins}},
		{"strike_rate", []string{bumrah, cummins}},
		{"runs", []string{bumrah, cummins}},
	}
	for _, tc := range cases {
		t.Run("sort="+tc.sort, func(t *testing.T) {
			q := base
			q.SortBy = tc.sort
			lb, err := testEngine().BowlingLeaderboard(leagueCorpus(), q)
			require.NoError(t, err)
			assert.Equal(t, tc.want, bowlingNames(lb.Rows), "wicketless bowlers never appear")
		})
	}

	lb, err := testEngine().BowlingLeaderboard(leagueCorpus(), LeaderboardQuery{SortBy: "sixes", MinBalls: intp(10), MinMatches: intp(10)})
	require.NoError(t, err)
	assert.Equal(t, SortWickets, lb.SortBy)
	assert.Empty(t, lb.Rows, "six matches is below min_matches")
}

func TestBowlingSort_AscendingAndUndefinedLast(t *testing.T) {
	rows := []model.BowlingStats{
		{Player: "a", Economy: model.Div(30, 6)},
		{Player: "b", Economy: model.Undefined},
		{Player: "c", Economy: model.Div(24, 6)},
	}
	sortBowling(rows, SortEconomy)
	assert.Equal(t, []string{"c", "a", "b"}, bowlingNames(rows))
}

func TestBattingSort_TieBreak(t *testing.T) {
	rows := []model.BattingStats{
		{Player: "b", Runs: 10, Fours: 2},
		{Player: "a", Runs: 10, Fours: 2},
		{Player: "c", Runs: 20, Fours: 2},
	}
	sortBatting(rows, SortFours)
	assert.Equal(t, []string{"c", "a", "b"}, battingNames(rows))
}

// ---- Custom phase ----

func TestCustomPhase_NoOpEqualsBatting(t *testing.T) {
	e := testEngine()
	full, err := e.PlayerBatting(leagueCorpus(), PlayerQuery{Player: kohli})
	require.NoError(t, err)

	res, err := e.CustomPhase(leagueCorpus(), CustomPhaseQuery{
		Player:          kohli,
		BallsBefore:     intp(0),
		OverStart:       intp(0),
		OversToAnalyze:  intp(50),
		MinBallsInPhase: intp(0),
	})
	require.NoError(t, err)
	assert.Equal(t, full.BallsFaced, res.TotalBalls)
	assert.Equal(t, full.Runs, res.TotalRuns)
	assert.Equal(t, full.Dismissals, res.Dismissals)
	assert.Equal(t, full.StrikeRate, res.StrikeRate)
	assert.Equal(t, 6, res.InningsAnalyzed)
}

func TestCustomPhase_Window(t *testing.T) {
	res, err := testEngine().CustomPhase(leagueCorpus(), CustomPhaseQuery{
		Player:          kohli,
		BallsBefore:     intp(4),
		OverStart:       intp(10),
		OversToAnalyze:  intp(1),
		MinBallsInPhase: intp(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.InningsAnalyzed)
	assert.Equal(t, 30, res.TotalBalls)
	assert.Equal(t, 3, res.Dismissals)
	assert.InDelta(t, 50.0, res.DismissalRate.Value, 1e-9)

	var ranges []string
	freq := map[string]int{}
	total := 0
	for _, b := range res.Distribution {
		ranges = append(ranges, b.Range)
		freq[b.Range] = b.Frequency
		total += b.Frequency
	}
	assert.Equal(t, []string{"0", "1-3", "4", "5", "6", "7+"}, ranges)
	assert.Equal(t, 15, freq["0"])
	assert.Equal(t, 9, freq["1-3"])
	assert.Equal(t, 6, freq["4"])
	assert.Equal(t, res.TotalBalls, total)
}

func TestCustomPhase_EngineDefaults(t *testing.T) {
	e := testEngine()
	e.CustomDefaults = model.CustomPhaseParams{BallsBefore: 4, OverStart: 10, OversToAnalyze: 1, MinBallsInPhase: 5}

	res, err := e.CustomPhase(leagueCorpus(), CustomPhaseQuery{Player: kohli})
	require.NoError(t, err)
	assert.Equal(t, e.CustomDefaults, res.Params)
	assert.Equal(t, 6, res.InningsAnalyzed)
	assert.Equal(t, 30, res.TotalBalls)
	assert.Empty(t, res.Adjustments)
}

func TestCustomPhase_Thresholds(t *testing.T) {
	_, err := testEngine().CustomPhase(leagueCorpus(), CustomPhaseQuery{
		Player:          kohli,
		BallsBefore:     intp(5),
		OverStart:       intp(10),
		OversToAnalyze:  intp(1),
		MinBallsInPhase: intp(1),
	})
	assert.True(t, IsNoData(err), "four prior balls never reach balls_before=5")

	res, err := testEngine().CustomPhase(leagueCorpus(), CustomPhaseQuery{
		Player:          kohli,
		BallsBefore:     intp(4),
		OverStart:       intp(10),
		OversToAnalyze:  intp(-2),
		MinBallsInPhase: intp(0),
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultOversToAnalyze, res.Params.OversToAnalyze)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, "overs_to_analyze", res.Adjustments[0].Param)
}

// ---- MOTM and search ----

func TestPlayerMOTM(t *testing.T) {
	s, err := testEngine().PlayerMOTM(leagueCorpus(), PlayerQuery{Player: kohli})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.InWins)
	assert.Equal(t, 1, s.InLosses)
	require.Len(t, s.Awards, 3)
	assert.Equal(t, "m5", s.Awards[0].ID)

	_, err = testEngine().PlayerMOTM(leagueCorpus(), PlayerQuery{Player: warner})
	assert.True(t, IsNoData(err))
}

func TestMOTMLeaderboard(t *testing.T) {
	lb, err := testEngine().MOTMLeaderboard(leagueCorpus(), MOTMQuery{})
	require.NoError(t, err)
	require.Len(t, lb.Rows, 2)
	assert.Equal(t, model.MOTMLeader{Player: bumrah, Awards: 3, FirstAward: "2023-01-02", LatestAward: "2023-01-06"}, lb.Rows[0])
	assert.Equal(t, kohli, lb.Rows[1].Player)
}

func TestMOTMByYearAndTeam(t *testing.T) {
	rows, err := testEngine().MOTMByYear(leagueCorpus(), MOTMQuery{})
	require.NoError(t, err)
	assert.Equal(t, []model.MOTMYearRow{
		{Year: "2023", Player: bumrah, Awards: 3},
		{Year: "2023", Player: kohli, Awards: 3},
	}, rows)

	team, err := testEngine().TeamMOTM(leagueCorpus(), TeamQuery{Team: "India"})
	require.NoError(t, err)
	assert.Len(t, team, 2)

	_, err = testEngine().TeamMOTM(leagueCorpus(), TeamQuery{Team: "Australia"})
	assert.True(t, IsNoData(err))
}

func TestSearchMatches(t *testing.T) {
	res, err := testEngine().SearchMatches(leagueCorpus(), SearchQuery{Team: "India", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "m6", res.Matches[0].ID)
	assert.Equal(t, "m5", res.Matches[1].ID)

	res, err = testEngine().SearchMatches(leagueCorpus(), SearchQuery{Player: smith, Scope: Scope{Venue: "MUMBAI"}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)

	res, err = testEngine().SearchMatches(leagueCorpus(), SearchQuery{Team: "England"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestResolveTeam(t *testing.T) {
	team, ok := ResolveTeam(leagueCorpus(), "ind")
	require.True(t, ok)
	assert.Equal(t, "India", team)
	_, ok = ResolveTeam(leagueCorpus(), "zim")
	assert.False(t, ok)
}

// ---- Name resolution ----

func TestResolvePlayer(t *testing.T) {
	table := StaticNames{Names: []string{kohli, sharma, bumrah, smith}, Weights: names.DefaultPopularity}
	res, err := testEngine().ResolvePlayer(table, ResolveQuery{Query: "Virat Kohli"})
	require.NoError(t, err)
	assert.Equal(t, kohli, res.Best.Name)
	assert.GreaterOrEqual(t, res.Best.Score, 95)

	res, err = testEngine().ResolvePlayer(table, ResolveQuery{Query: "Bumrah", Threshold: intp(150)})
	require.NoError(t, err)
	assert.Equal(t, bumrah, res.Best.Name)
	require.Len(t, res.Adjustments, 1)

	_, err = testEngine().ResolvePlayer(table, ResolveQuery{Query: "Zzyzx"})
	assert.True(t, IsNoData(err))

	_, err = testEngine().ResolvePlayer(table, ResolveQuery{})
	assert.True(t, IsInvalidParameter(err))
}

func TestRatioNeverInfinite(t *testing.T) {
	lb, err := testEngine().BattingLeaderboard(leagueCorpus(), LeaderboardQuery{MinBalls: intp(0)})
	require.NoError(t, err)
	for _, r := range lb.Rows {
		assert.False(t, math.IsInf(r.StrikeRate.Value, 0))
		if r.Dismissals == 0 {
			assert.False(t, r.Average.Defined, r.Player)
		}
	}
}
