package query

import (
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/pable/go-cricket-metrics/internal/names"
)

// NameTable provides the canonical names and popularity weights a query
// string is resolved against.
type NameTable interface {
	PlayerNames() ([]string, error)
	Popularity() (map[string]int, error)
}

// StaticNames is a NameTable over fixed values.
type StaticNames struct {
	Names   []string
	Weights map[string]int
}

func (s StaticNames) PlayerNames() ([]string, error)      { return s.Names, nil }
func (s StaticNames) Popularity() (map[string]int, error) { return s.Weights, nil }

// ResolveQuery asks for the canonical name closest to Query. A nil
// Threshold uses names.DefaultThreshold.
type ResolveQuery struct {
	Query     string `json:"query" validate:"required"`
	Threshold *int   `json:"threshold,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// Resolution is the best match and the runners-up.
type Resolution struct {
	Query        string        `json:"query"`
	Best         names.Match   `json:"best"`
	Alternatives []names.Match `json:"alternatives,omitempty"`
	Adjustments  []Adjustment  `json:"adjustments,omitempty"`
}

const defaultAlternatives = 5

// ResolvePlayer scores every name in table against the query.
func (e *Engine) ResolvePlayer(table NameTable, q ResolveQuery) (Resolution, error) {
	if err := check(q); err != nil {
		return Resolution{}, err
	}
	var adj []Adjustment
	threshold := intParam("threshold", q.Threshold, names.DefaultThreshold, &adj)
	if threshold > 100 {
		adj = append(adj, Adjustment{Param: "threshold", Given: strconv.Itoa(threshold), Used: strconv.Itoa(names.DefaultThreshold)})
		threshold = names.DefaultThreshold
	}
	limit := positiveParam("limit", q.Limit, defaultAlternatives, &adj)

	list, err := table.PlayerNames()
	if err != nil {
		return Resolution{}, crerr.Wrap(err, "load player names")
	}
	weights, err := table.Popularity()
	if err != nil {
		return Resolution{}, crerr.Wrap(err, "load popularity")
	}

	ranked := names.Rank(q.Query, names.Candidates(list, weights), threshold)
	if len(ranked) == 0 {
		return Resolution{Query: q.Query, Adjustments: adj}, noData("no player matches %q", q.Query)
	}
	out := Resolution{Query: q.Query, Best: ranked[0], Adjustments: adj}
	rest := ranked[1:]
	if len(rest) > limit {
		rest = rest[:limit]
	}
	out.Alternatives = rest
	e.logger().Debug("resolved player", "query", q.Query, "player", out.Best.Name, "score", out.Best.Score)
	return out, nil
}
