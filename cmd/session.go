package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/pable/go-cricket-metrics/internal/cache"
	"github.com/pable/go-cricket-metrics/internal/logging"
	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/names"
	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/report"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

// corpusTTL bounds how long the shell reuses a decoded corpus.
const corpusTTL = 10 * time.Minute

// session bundles what one command (or one shell) needs: the store, an
// engine configured from settings and a cache of decoded corpora.
type session struct {
	db      *storage.DB
	engine  *query.Engine
	scope   query.Scope
	corpora *cache.Store[model.Corpus]
	out     io.Writer
}

func openSession() (*session, error) {
	if dir := filepath.Dir(settings.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	e := query.New()
	e.Phases = settings.Phases
	e.Limits = settings.Limits
	e.CustomDefaults = settings.CustomPhase
	e.Parallelism = settings.Parallelism
	e.Logger = logging.Default()

	return &session{
		db:      db,
		engine:  e,
		scope:   scope,
		corpora: cache.NewStore[model.Corpus](corpusTTL),
		out:     os.Stdout,
	}, nil
}

func (s *session) Close() error { return s.db.Close() }

// corpus loads the stored matches inside the date and season part of the
// scope. Opponent and venue are left to the engine.
func (s *session) corpus(ctx context.Context) (model.Corpus, error) {
	f := storage.MatchFilter{From: s.scope.From, To: s.scope.To, Season: s.scope.Season}
	key := strings.Join([]string{"corpus", f.From, f.To, f.Season}, "|")
	return s.corpora.GetOrLoad(ctx, key, func(context.Context) (model.Corpus, error) {
		start := time.Now()
		c, err := s.db.LoadCorpus(f)
		if err != nil {
			return nil, err
		}
		logging.Default().Debug("corpus loaded", "matches", len(c), "elapsed", time.Since(start).String())
		return c, nil
	})
}

// invalidate drops every cached corpus, e.g. after ingesting.
func (s *session) invalidate() { s.corpora.DeletePrefix("corpus|") }

// nameTable is the store's people registry weighted by the configured
// popularity, with stored weights taking precedence.
type nameTable struct {
	db      *storage.DB
	weights map[string]int
}

func (t nameTable) PlayerNames() ([]string, error) { return t.db.PlayerNames() }

func (t nameTable) Popularity() (map[string]int, error) {
	stored, err := t.db.Popularity()
	if err != nil {
		return nil, err
	}
	return names.MergePopularity(t.weights, stored), nil
}

func (s *session) names() query.NameTable {
	return nameTable{db: s.db, weights: settings.Popularity}
}

// player maps a user-typed name onto a canonical one.
func (s *session) player(arg string) (string, error) {
	arg = strings.Join(strings.Fields(arg), " ")
	if arg == "" {
		return "", crerr.Wrap(query.ErrInvalidParameter, "player is required")
	}
	if exactNames {
		return arg, nil
	}
	threshold := settings.Threshold
	res, err := s.engine.ResolvePlayer(s.names(), query.ResolveQuery{Query: arg, Threshold: &threshold, Limit: 1})
	if err != nil {
		return "", err
	}
	if res.Best.Name != arg {
		cMuted.Fprintf(os.Stderr, "(%s -> %s, score %d)\n", arg, res.Best.Name, res.Best.Score)
	}
	return res.Best.Name, nil
}

// team maps a team name or unique prefix onto the stored spelling.
func (s *session) team(ctx context.Context, arg string) (string, error) {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return "", err
	}
	if t, ok := query.ResolveTeam(corpus, arg); ok {
		return t, nil
	}
	if exactNames {
		return arg, nil
	}
	return "", crerr.Wrapf(query.ErrNoData, "no team matches %q", arg)
}

// emit prints v as JSON when --json is set, else runs render.
func (s *session) emit(v any, render func(io.Writer)) error {
	if jsonOutput {
		return report.JSON(s.out, v)
	}
	render(s.out)
	return nil
}

func warnAdjustments(adj []query.Adjustment) {
	for _, a := range adj {
		cWarn.Fprintf(os.Stderr, "note: %s\n", a)
	}
}

// explain turns a no-data outcome into a message; other errors pass through.
func explain(err error) error {
	if err == nil {
		return nil
	}
	if query.IsNoData(err) {
		cWarn.Fprintln(os.Stderr, err.Error())
		return nil
	}
	return err
}

// inSession opens a session for the duration of fn.
func inSession(fn func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	return explain(fn(s))
}

func noMatch(prefix string) error {
	return crerr.Wrapf(query.ErrNoData, "no match found with id prefix %q", prefix)
}
