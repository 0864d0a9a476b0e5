package query

import (
	"runtime"
	"sort"

	conciter "github.com/sourcegraph/conc/iter"

	"github.com/pable/go-cricket-metrics/internal/aggregator"
	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// SortKey selects the leaderboard metric.
type SortKey string

const (
	SortRuns       SortKey = "runs"
	SortAverage    SortKey = "average"
	SortStrikeRate SortKey = "strike_rate"
	SortEconomy    SortKey = "economy"
	SortWickets    SortKey = "wickets"
	SortBalls      SortKey = "balls"
	SortFours      SortKey = "fours"
	SortSixes      SortKey = "sixes"
)

// SortKeys lists every accepted key.
var SortKeys = []SortKey{SortRuns, SortAverage, SortStrikeRate, SortEconomy, SortWickets, SortBalls, SortFours, SortSixes}

var (
	battingKeys = map[SortKey]bool{SortRuns: true, SortAverage: true, SortStrikeRate: true, SortBalls: true, SortFours: true, SortSixes: true}
	bowlingKeys = map[SortKey]bool{SortRuns: true, SortAverage: true, SortStrikeRate: true, SortEconomy: true, SortWickets: true, SortBalls: true}
)

func resolveSortKey(raw string, applies map[SortKey]bool, def SortKey, adj *[]Adjustment) SortKey {
	if raw == "" {
		return def
	}
	k := SortKey(raw)
	if applies[k] {
		return k
	}
	*adj = append(*adj, Adjustment{Param: "sort_by", Given: raw, Used: string(def)})
	return def
}

// LeaderboardQuery ranks players. Nil thresholds take the engine defaults;
// negative ones are corrected to them.
type LeaderboardQuery struct {
	SortBy     string `json:"sort_by,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	MinBalls   *int   `json:"min_balls,omitempty"`
	MinMatches *int   `json:"min_matches,omitempty"`
	// Team restricts rows to deliveries where the player's side was batting
	// (batting table) or bowling (bowling table).
	Team string `json:"team,omitempty"`
	Scope
}

// BattingLeaderboard is a ranked batting table.
type BattingLeaderboard struct {
	SortBy      SortKey              `json:"sort_by"`
	MinBalls    int                  `json:"min_balls"`
	Rows        []model.BattingStats `json:"rows"`
	Excluded    model.Exclusions     `json:"excluded,omitempty"`
	Adjustments []Adjustment         `json:"adjustments,omitempty"`
}

// BowlingLeaderboard is a ranked bowling table.
type BowlingLeaderboard struct {
	SortBy      SortKey              `json:"sort_by"`
	MinBalls    int                  `json:"min_balls"`
	MinMatches  int                  `json:"min_matches"`
	Rows        []model.BowlingStats `json:"rows"`
	Excluded    model.Exclusions     `json:"excluded,omitempty"`
	Adjustments []Adjustment         `json:"adjustments,omitempty"`
}

// shards splits the corpus into at most n contiguous slices.
func shards(corpus model.Corpus, n int) []model.Corpus {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > len(corpus) {
		n = len(corpus)
	}
	if n <= 1 {
		return []model.Corpus{corpus}
	}
	size := (len(corpus) + n - 1) / n
	out := make([]model.Corpus, 0, n)
	for start := 0; start < len(corpus); start += size {
		end := min(start+size, len(corpus))
		out = append(out, corpus[start:end])
	}
	return out
}

// BattingLeaderboard ranks batters over the scoped corpus. Shards are folded
// in parallel and merged; the result equals a sequential fold.
func (e *Engine) BattingLeaderboard(corpus model.Corpus, q LeaderboardQuery) (BattingLeaderboard, error) {
	if err := check(q); err != nil {
		return BattingLeaderboard{}, err
	}
	if err := q.validateRange(); err != nil {
		return BattingLeaderboard{}, err
	}
	var adj []Adjustment
	key := resolveSortKey(q.SortBy, battingKeys, SortRuns, &adj)
	minBalls := intParam("min_balls", q.MinBalls, e.Limits.BattingMinBalls, &adj)
	limit := positiveParam("limit", q.Limit, e.Limits.Leaderboard, &adj)

	var preds []deliveries.Predicate
	if q.Team != "" {
		preds = append(preds, deliveries.BattingTeam(q.Team))
	}
	preds = append(preds, q.facing())

	parts := conciter.Mapper[model.Corpus, *aggregator.BattingTable]{MaxGoroutines: e.parallelism()}.
		Map(shards(q.filter(corpus), e.parallelism()), func(shard *model.Corpus) *aggregator.BattingTable {
			t := aggregator.NewBattingTable()
			aggregator.Run(deliveries.Each(*shard, preds...), t)
			return t
		})
	table := aggregator.NewBattingTable()
	for _, p := range parts {
		table.Merge(p)
	}

	all := table.Finalize()
	if len(all) == 0 {
		return BattingLeaderboard{}, noData("no batting records in scope")
	}
	rows := make([]model.BattingStats, 0, len(all))
	excl := table.Excluded()
	for _, r := range all {
		if r.BallsFaced >= minBalls {
			rows = append(rows, r)
		}
		excl.Merge(r.Excluded)
	}
	sortBatting(rows, key)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	e.logExclusions("batting_leaderboard", excl)
	return BattingLeaderboard{SortBy: key, MinBalls: minBalls, Rows: rows, Excluded: excl, Adjustments: adj}, nil
}

// BowlingLeaderboard ranks bowlers with at least one wicket.
func (e *Engine) BowlingLeaderboard(corpus model.Corpus, q LeaderboardQuery) (BowlingLeaderboard, error) {
	if err := check(q); err != nil {
		return BowlingLeaderboard{}, err
	}
	if err := q.validateRange(); err != nil {
		return BowlingLeaderboard{}, err
	}
	var adj []Adjustment
	key := resolveSortKey(q.SortBy, bowlingKeys, SortWickets, &adj)
	minBalls := intParam("min_balls", q.MinBalls, e.Limits.BowlingMinBalls, &adj)
	minMatches := intParam("min_matches", q.MinMatches, e.Limits.BowlingMinMatches, &adj)
	limit := positiveParam("limit", q.Limit, e.Limits.Leaderboard, &adj)

	var preds []deliveries.Predicate
	if q.Team != "" {
		preds = append(preds, deliveries.BowlingTeam(q.Team))
	}
	preds = append(preds, q.bowlingAt())

	parts := conciter.Mapper[model.Corpus, *aggregator.BowlingTable]{MaxGoroutines: e.parallelism()}.
		Map(shards(q.filter(corpus), e.parallelism()), func(shard *model.Corpus) *aggregator.BowlingTable {
			t := aggregator.NewBowlingTable()
			aggregator.Run(deliveries.Each(*shard, preds...), t)
			return t
		})
	table := aggregator.NewBowlingTable()
	for _, p := range parts {
		table.Merge(p)
	}

	all := table.Finalize()
	if len(all) == 0 {
		return BowlingLeaderboard{}, noData("no bowling records in scope")
	}
	rows := make([]model.BowlingStats, 0, len(all))
	excl := table.Excluded()
	for _, r := range all {
		if r.BallsBowled >= minBalls && r.Matches >= minMatches && r.Wickets > 0 {
			rows = append(rows, r)
		}
		excl.Merge(r.Excluded)
	}
	sortBowling(rows, key)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	e.logExclusions("bowling_leaderboard", excl)
	return BowlingLeaderboard{SortBy: key, MinBalls: minBalls, MinMatches: minMatches, Rows: rows, Excluded: excl, Adjustments: adj}, nil
}

func (e *Engine) parallelism() int {
	if e.Parallelism > 0 {
		return e.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// cmpInt orders higher first.
func cmpInt(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// cmpRatio orders undefined values last whatever the direction.
func cmpRatio(a, b model.Ratio, ascending bool) int {
	switch {
	case a.Defined && !b.Defined:
		return -1
	case !a.Defined && b.Defined:
		return 1
	case !a.Defined:
		return 0
	case a.Value == b.Value:
		return 0
	case (a.Value < b.Value) == ascending:
		return -1
	}
	return 1
}

func sortBatting(rows []model.BattingStats, key SortKey) {
	metric := func(a, b model.BattingStats) int {
		switch key {
		case SortAverage:
			return cmpRatio(a.Average, b.Average, false)
		case SortStrikeRate:
			return cmpRatio(a.StrikeRate, b.StrikeRate, false)
		case SortBalls:
			return cmpInt(a.BallsFaced, b.BallsFaced)
		case SortFours:
			return cmpInt(a.Fours, b.Fours)
		case SortSixes:
			return cmpInt(a.Sixes, b.Sixes)
		}
		return cmpInt(a.Runs, b.Runs)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := metric(rows[i], rows[j]); c != 0 {
			return c < 0
		}
		if c := cmpInt(rows[i].Runs, rows[j].Runs); c != 0 {
			return c < 0
		}
		return rows[i].Player < rows[j].Player
	})
}

func sortBowling(rows []model.BowlingStats, key SortKey) {
	metric := func(a, b model.BowlingStats) int {
		switch key {
		case SortAverage:
			return cmpRatio(a.Average, b.Average, true)
		case SortEconomy:
			return cmpRatio(a.Economy, b.Economy, true)
		case SortStrikeRate:
			return cmpRatio(a.StrikeRate, b.StrikeRate, true)
		case SortBalls:
			return cmpInt(a.BallsBowled, b.BallsBowled)
		case SortRuns:
			return cmpInt(a.RunsConceded, b.RunsConceded)
		}
		return cmpInt(a.Wickets, b.Wickets)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := metric(rows[i], rows[j]); c != 0 {
			return c < 0
		}
		if c := cmpInt(rows[i].RunsConceded, rows[j].RunsConceded); c != 0 {
			return c < 0
		}
		return rows[i].Player < rows[j].Player
	})
}
