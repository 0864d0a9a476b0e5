// Package query answers named statistics queries over an in-memory corpus.
//
// The engine holds configuration only. Every method takes the corpus it
// runs over, validates and defaults its parameters, selects deliveries and
// folds them through the matching accumulators. An empty selection is
// reported as ErrNoData, distinct from a failed computation.
package query

import (
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/logging"
	"github.com/pable/go-cricket-metrics/internal/model"
)

var (
	// ErrNoData reports that the filtered selection was empty.
	ErrNoData = crerr.New("no matching data")
	// ErrInvalidParameter reports a violated caller contract, such as a missing player.
	ErrInvalidParameter = crerr.New("invalid parameter")
)

// IsNoData reports whether err is a "no data" outcome.
func IsNoData(err error) bool { return crerr.Is(err, ErrNoData) }

// IsInvalidParameter reports whether err is a caller contract violation.
func IsInvalidParameter(err error) bool { return crerr.Is(err, ErrInvalidParameter) }

func noData(format string, args ...any) error {
	return crerr.Wrapf(ErrNoData, format, args...)
}

// Leaderboard and search defaults.
const (
	DefaultBattingMinBalls   = 200
	DefaultBowlingMinBalls   = 50
	DefaultBowlingMinMatches = 80
	DefaultLeaderboardLimit  = 50
	DefaultSearchLimit       = 20
)

// Custom phase defaults.
const (
	DefaultBallsBefore     = 15
	DefaultOverStart       = 7
	DefaultOversToAnalyze  = 3
	DefaultMinBallsInPhase = 10
)

// Limits holds leaderboard eligibility thresholds and result sizes.
type Limits struct {
	BattingMinBalls   int
	BowlingMinBalls   int
	BowlingMinMatches int
	Leaderboard       int
	Search            int
}

func DefaultLimits() Limits {
	return Limits{
		BattingMinBalls:   DefaultBattingMinBalls,
		BowlingMinBalls:   DefaultBowlingMinBalls,
		BowlingMinMatches: DefaultBowlingMinMatches,
		Leaderboard:       DefaultLeaderboardLimit,
		Search:            DefaultSearchLimit,
	}
}

func DefaultCustomPhase() model.CustomPhaseParams {
	return model.CustomPhaseParams{
		BallsBefore:     DefaultBallsBefore,
		OverStart:       DefaultOverStart,
		OversToAnalyze:  DefaultOversToAnalyze,
		MinBallsInPhase: DefaultMinBallsInPhase,
	}
}

// Engine answers queries. The zero value is not usable; call New.
type Engine struct {
	Phases         model.PhaseBoundaries
	Limits         Limits
	CustomDefaults model.CustomPhaseParams
	// Parallelism caps the goroutines used by leaderboards; <= 0 means GOMAXPROCS.
	Parallelism int
	Logger      *logging.Logger
}

// New returns an engine with the 50-over phase boundaries and default limits.
func New() *Engine {
	return &Engine{
		Phases:         model.ODIPhases,
		Limits:         DefaultLimits(),
		CustomDefaults: DefaultCustomPhase(),
		Logger:         logging.Default(),
	}
}

var validate = validator.New()

// check runs the struct-tag contracts of q.
func check(q any) error {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if crerr.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return crerr.Wrap(ErrInvalidParameter, strings.Join(msgs, "; "))
		}
		return crerr.Wrap(ErrInvalidParameter, err.Error())
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "datetime":
		return fmt.Sprintf("%s %q is not a YYYY-MM-DD date", field, fe.Value())
	}
	return fmt.Sprintf("%s fails %s", field, fe.Tag())
}

// Adjustment records a parameter that was corrected to a safe value.
type Adjustment struct {
	Param string `json:"param"`
	Given string `json:"given"`
	Used  string `json:"used"`
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s: %s -> %s", a.Param, a.Given, a.Used)
}

// intParam resolves an optional non-negative parameter.
func intParam(name string, v *int, def int, adj *[]Adjustment) int {
	if v == nil {
		return def
	}
	if *v < 0 {
		*adj = append(*adj, Adjustment{Param: name, Given: fmt.Sprint(*v), Used: fmt.Sprint(def)})
		return def
	}
	return *v
}

// positiveParam resolves a parameter that must be strictly positive; zero means unset.
func positiveParam(name string, v, def int, adj *[]Adjustment) int {
	if v == 0 {
		return def
	}
	if v < 0 {
		*adj = append(*adj, Adjustment{Param: name, Given: fmt.Sprint(v), Used: fmt.Sprint(def)})
		return def
	}
	return v
}

// ---- Scope ----

// Scope restricts the matches a query considers. Empty fields match everything.
type Scope struct {
	From     string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To       string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Season   string `json:"season,omitempty"`
	Opponent string `json:"opponent,omitempty"`
	Venue    string `json:"venue,omitempty"`
}

func (s Scope) validateRange() error {
	if s.From != "" && s.To != "" && s.To < s.From {
		return crerr.Wrapf(ErrInvalidParameter, "date range %s..%s is empty", s.From, s.To)
	}
	return nil
}

// Contains reports whether m falls inside the scope. Dates are inclusive;
// the venue matches as a case-insensitive substring.
func (s Scope) Contains(m *model.Match) bool {
	date := m.Date()
	if s.From != "" && date < s.From {
		return false
	}
	if s.To != "" && date > s.To {
		return false
	}
	if s.Season != "" && m.Season != s.Season {
		return false
	}
	if s.Venue != "" && !strings.Contains(strings.ToLower(m.Venue), strings.ToLower(s.Venue)) {
		return false
	}
	if s.Opponent != "" && !m.HasTeam(s.Opponent) {
		return false
	}
	return true
}

// filter returns the matches inside the scope.
func (s Scope) filter(corpus model.Corpus) model.Corpus {
	if s == (Scope{}) {
		return corpus
	}
	out := make(model.Corpus, 0, len(corpus))
	for _, m := range corpus {
		if m != nil && s.Contains(m) {
			out = append(out, m)
		}
	}
	return out
}

// facing restricts deliveries to those against the opponent while batting.
func (s Scope) facing() deliveries.Predicate {
	if s.Opponent == "" {
		return nil
	}
	return deliveries.BowlingTeam(s.Opponent)
}

// bowlingAt restricts deliveries to those bowled at the opponent.
func (s Scope) bowlingAt() deliveries.Predicate {
	if s.Opponent == "" {
		return nil
	}
	return deliveries.BattingTeam(s.Opponent)
}

func (e *Engine) logger() *logging.Logger {
	if e.Logger == nil {
		return logging.Default()
	}
	return e.Logger
}

func (e *Engine) logExclusions(op string, excl model.Exclusions) {
	if excl.Total() == 0 {
		return
	}
	args := []any{"op", op, "total", excl.Total()}
	for _, r := range excl.Reasons() {
		args = append(args, r, excl[r])
	}
	e.logger().Debug("deliveries excluded", args...)
}
