package query

import (
	"sort"
	"strings"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// PlayerMOTM lists the player's player-of-the-match awards, latest first.
// Wins and losses are split by the side whose squad lists the player;
// awards in matches without a winner count as losses.
func (e *Engine) PlayerMOTM(corpus model.Corpus, q PlayerQuery) (model.MOTMSummary, error) {
	if err := q.check(); err != nil {
		return model.MOTMSummary{}, err
	}
	out := model.MOTMSummary{Player: q.Player}
	for _, m := range q.filter(corpus) {
		if !awarded(m, q.Player) {
			continue
		}
		out.Total++
		out.Awards = append(out.Awards, model.Summarize(m))
		if team, ok := m.TeamOf(q.Player); ok {
			if m.Outcome.Winner == team {
				out.InWins++
			} else {
				out.InLosses++
			}
		}
	}
	if out.Total == 0 {
		return model.MOTMSummary{}, noData("no player of the match awards for %s", q.Player)
	}
	sortSummaries(out.Awards)
	return out, nil
}

// MOTMQuery scopes the awards tables.
type MOTMQuery struct {
	Limit int `json:"limit,omitempty"`
	Scope
}

// MOTMLeaderboard is the ranked awards table.
type MOTMLeaderboard struct {
	Rows        []model.MOTMLeader `json:"rows"`
	Adjustments []Adjustment       `json:"adjustments,omitempty"`
}

// MOTMLeaderboard ranks players by awards, then name.
func (e *Engine) MOTMLeaderboard(corpus model.Corpus, q MOTMQuery) (MOTMLeaderboard, error) {
	if err := check(q); err != nil {
		return MOTMLeaderboard{}, err
	}
	if err := q.validateRange(); err != nil {
		return MOTMLeaderboard{}, err
	}
	var adj []Adjustment
	limit := positiveParam("limit", q.Limit, e.Limits.Leaderboard, &adj)
	rows := leaders(q.filter(corpus), func(*model.Match, string) bool { return true })
	if len(rows) == 0 {
		return MOTMLeaderboard{Adjustments: adj}, noData("no player of the match awards in scope")
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return MOTMLeaderboard{Rows: rows, Adjustments: adj}, nil
}

// MOTMByYear counts awards per season year (the first four characters of
// the season, so "2023/24" is 2023). Latest year first, then awards.
func (e *Engine) MOTMByYear(corpus model.Corpus, q MOTMQuery) ([]model.MOTMYearRow, error) {
	if err := check(q); err != nil {
		return nil, err
	}
	if err := q.validateRange(); err != nil {
		return nil, err
	}
	type key struct{ year, player string }
	counts := make(map[key]int)
	for _, m := range q.filter(corpus) {
		if len(m.Season) < 4 {
			continue
		}
		for _, p := range m.PlayerOfMatch {
			counts[key{m.Season[:4], p}]++
		}
	}
	if len(counts) == 0 {
		return nil, noData("no player of the match awards in scope")
	}
	rows := make([]model.MOTMYearRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, model.MOTMYearRow{Year: k.year, Player: k.player, Awards: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year > rows[j].Year
		}
		if rows[i].Awards != rows[j].Awards {
			return rows[i].Awards > rows[j].Awards
		}
		return rows[i].Player < rows[j].Player
	})
	return rows, nil
}

// TeamMOTM ranks the side's players by awards won while in its squad.
func (e *Engine) TeamMOTM(corpus model.Corpus, q TeamQuery) ([]model.MOTMLeader, error) {
	if err := q.check(); err != nil {
		return nil, err
	}
	rows := leaders(q.filter(corpus), func(m *model.Match, player string) bool {
		if !m.HasTeam(q.Team) {
			return false
		}
		team, ok := m.TeamOf(player)
		return ok && team == q.Team
	})
	if len(rows) == 0 {
		return nil, noData("no player of the match awards for team %s", q.Team)
	}
	return rows, nil
}

// leaders tallies awards accepted by keep, ordered by awards then name.
func leaders(corpus model.Corpus, keep func(m *model.Match, player string) bool) []model.MOTMLeader {
	byPlayer := make(map[string]*model.MOTMLeader)
	for _, m := range corpus {
		date := m.Date()
		for _, p := range m.PlayerOfMatch {
			if !keep(m, p) {
				continue
			}
			l, ok := byPlayer[p]
			if !ok {
				l = &model.MOTMLeader{Player: p, FirstAward: date, LatestAward: date}
				byPlayer[p] = l
			}
			l.Awards++
			if date < l.FirstAward {
				l.FirstAward = date
			}
			if date > l.LatestAward {
				l.LatestAward = date
			}
		}
	}
	rows := make([]model.MOTMLeader, 0, len(byPlayer))
	for _, l := range byPlayer {
		rows = append(rows, *l)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Awards != rows[j].Awards {
			return rows[i].Awards > rows[j].Awards
		}
		return rows[i].Player < rows[j].Player
	})
	return rows
}

func awarded(m *model.Match, player string) bool {
	for _, p := range m.PlayerOfMatch {
		if p == player {
			return true
		}
	}
	return false
}

// sortSummaries orders matches latest first, then by id descending.
func sortSummaries(rows []model.MatchSummary) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].ID > rows[j].ID
	})
}

// ---- Match search ----

// SearchQuery filters stored matches. Team must have played; Player must be
// in a squad or among the awards.
type SearchQuery struct {
	Team   string `json:"team,omitempty"`
	Player string `json:"player,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Scope
}

// SearchResult is a page of matches plus the total that matched.
type SearchResult struct {
	Total       int                  `json:"total"`
	Matches     []model.MatchSummary `json:"matches"`
	Adjustments []Adjustment         `json:"adjustments,omitempty"`
}

// SearchMatches returns matching headers, latest first. An empty result is
// not an error.
func (e *Engine) SearchMatches(corpus model.Corpus, q SearchQuery) (SearchResult, error) {
	if err := check(q); err != nil {
		return SearchResult{}, err
	}
	if err := q.validateRange(); err != nil {
		return SearchResult{}, err
	}
	var adj []Adjustment
	limit := positiveParam("limit", q.Limit, e.Limits.Search, &adj)

	var rows []model.MatchSummary
	for _, m := range q.filter(corpus) {
		if q.Team != "" && !m.HasTeam(q.Team) {
			continue
		}
		if q.Player != "" && !inSquad(m, q.Player) && !awarded(m, q.Player) {
			continue
		}
		rows = append(rows, model.Summarize(m))
	}
	sortSummaries(rows)
	out := SearchResult{Total: len(rows), Adjustments: adj}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out.Matches = rows
	return out, nil
}

func inSquad(m *model.Match, player string) bool {
	_, ok := m.TeamOf(player)
	return ok
}

// teamNames lists every side in the corpus, sorted.
func teamNames(corpus model.Corpus) []string {
	seen := make(map[string]struct{})
	for _, m := range corpus {
		for _, t := range m.Teams {
			if t != "" {
				seen[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ResolveTeam maps a case-insensitive team name or unique prefix to the
// stored spelling.
func ResolveTeam(corpus model.Corpus, query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	var prefixed []string
	for _, t := range teamNames(corpus) {
		lt := strings.ToLower(t)
		if lt == q {
			return t, true
		}
		if strings.HasPrefix(lt, q) {
			prefixed = append(prefixed, t)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], true
	}
	return "", false
}
