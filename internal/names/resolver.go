// Package names resolves free-text player queries to canonical names.
//
// Scoring is an ordered rule list: exact match, substring containment, then
// surname and first-token heuristics with an additive bonus for shared
// words. A static popularity weight only breaks near-ties.
package names

import (
	"math"
	"sort"
	"strings"
)

// DefaultThreshold is the minimum score a candidate needs to be considered.
const DefaultThreshold = 60

const (
	scoreExact     = 100
	scoreSubstring = 95

	surnameExact   = 70
	firstExact     = 30
	firstInitial   = 25
	firstFuzzy     = 25
	surnameFuzzy   = 60
	firstOnFuzzy   = 30
	surnameMinSim  = 0.7
	wordBonus      = 5
	wordBonusMin   = 3 // query tokens shorter than this earn no bonus
	nearTieBand    = 10
	popularityStep = 0.1
)

// Candidate is a canonical name and its popularity weight.
type Candidate struct {
	Name       string `json:"name"`
	Popularity int    `json:"popularity"`
}

// Candidates pairs names with their weight in popularity; unknown names weigh 0.
func Candidates(names []string, popularity map[string]int) []Candidate {
	out := make([]Candidate, len(names))
	for i, n := range names {
		out[i] = Candidate{Name: n, Popularity: popularity[n]}
	}
	return out
}

// Match is a scored candidate.
type Match struct {
	Name     string  `json:"player"`
	Score    int     `json:"score"`
	Adjusted float64 `json:"adjusted_score"`
}

// Score rates how well candidate matches query, from 0 to 100.
func Score(query, candidate string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return scoreExact
	}
	if strings.Contains(c, q) || strings.Contains(q, c) {
		return scoreSubstring
	}

	qTokens, cTokens := strings.Fields(q), strings.Fields(c)
	qFirst, qLast := qTokens[0], qTokens[len(qTokens)-1]
	cFirst, cLast := cTokens[0], cTokens[len(cTokens)-1]

	var score float64
	if qLast == cLast {
		score += surnameExact
		score += firstTokenScore(qFirst, cFirst)
	} else if sim := Similarity(qLast, cLast); sim > surnameMinSim {
		score += sim * surnameFuzzy
		score += Similarity(qFirst, cFirst) * firstOnFuzzy
	}

	for _, qt := range qTokens {
		if len([]rune(qt)) < wordBonusMin {
			continue
		}
		for _, ct := range cTokens {
			if strings.Contains(ct, qt) || strings.Contains(qt, ct) {
				score += wordBonus
				break
			}
		}
	}

	return min(scoreExact, int(math.Round(score)))
}

// firstTokenScore scores given names once surnames agree.
func firstTokenScore(q, c string) float64 {
	if q == c {
		return firstExact
	}
	if isInitial(q) || isInitial(c) {
		if []rune(q)[0] == []rune(c)[0] {
			return firstInitial
		}
	}
	return Similarity(q, c) * firstFuzzy
}

// isInitial treats tokens of up to two letters ("V", "MS") as initials.
func isInitial(tok string) bool { return len([]rune(tok)) <= 2 }

// Rank scores every candidate, drops those below threshold and orders the
// rest best first. Candidates within nearTieBand of the top raw score come
// first, ordered by their popularity-adjusted score; the others follow
// strictly by raw score. Remaining ties go to the name.
func Rank(query string, candidates []Candidate, threshold int) []Match {
	var out []Match
	top := 0
	for _, c := range candidates {
		s := Score(query, c.Name)
		if s < threshold {
			continue
		}
		out = append(out, Match{Name: c.Name, Score: s, Adjusted: float64(s) + popularityStep*float64(c.Popularity)})
		top = max(top, s)
	}
	inBand := func(m Match) bool { return top-m.Score <= nearTieBand }
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := inBand(out[i]), inBand(out[j])
		if bi != bj {
			return bi
		}
		ki, kj := float64(out[i].Score), float64(out[j].Score)
		if bi {
			ki, kj = out[i].Adjusted, out[j].Adjusted
		}
		if ki != kj {
			return ki > kj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Resolve returns the best match for query, or false when no candidate
// reaches the threshold.
func Resolve(query string, candidates []Candidate, threshold int) (Match, bool) {
	ranked := Rank(query, candidates, threshold)
	if len(ranked) == 0 {
		return Match{}, false
	}
	return ranked[0], true
}

// Resolver binds a threshold and popularity table to a name list.
type Resolver struct {
	Threshold  int
	Popularity map[string]int
}

// NewResolver returns a resolver using DefaultThreshold and DefaultPopularity.
func NewResolver() *Resolver {
	return &Resolver{Threshold: DefaultThreshold, Popularity: DefaultPopularity}
}

// Resolve matches query against names.
func (r *Resolver) Resolve(query string, names []string) (Match, bool) {
	return Resolve(query, Candidates(names, r.Popularity), r.Threshold)
}

// Rank orders names by how well they match query.
func (r *Resolver) Rank(query string, names []string) []Match {
	return Rank(query, Candidates(names, r.Popularity), r.Threshold)
}
