// Package parser decodes cricsheet JSON match files into model.Match records.
package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// ErrInvalidJSON marks a file that could not be decoded at all.
var ErrInvalidJSON = crerr.New("invalid match json")

// Report counts the malformations found while decoding one match. None of
// them abort the file; the affected deliveries are kept and the
// accumulators decide what to do with them.
type Report struct {
	MissingRuns   int `json:"missing_runs"`
	InvalidRuns   int `json:"invalid_runs"`
	MissingBatter int `json:"missing_batter"`
	MissingBowler int `json:"missing_bowler"`
	MultiWicket   int `json:"multi_wicket"`
	EmptyInnings  int `json:"empty_innings"`
}

// Malformed returns the number of deliveries with at least one problem
// counted in the report.
func (r Report) Malformed() int {
	return r.MissingRuns + r.InvalidRuns + r.MissingBatter + r.MissingBowler
}

// Add sums o into r.
func (r *Report) Add(o Report) {
	r.MissingRuns += o.MissingRuns
	r.InvalidRuns += o.InvalidRuns
	r.MissingBatter += o.MissingBatter
	r.MissingBowler += o.MissingBowler
	r.MultiWicket += o.MultiWicket
	r.EmptyInnings += o.EmptyInnings
}

// Parsed is one decoded match with its source bytes.
type Parsed struct {
	Match   *model.Match
	Payload []byte
	Hash    string // sha256 of Payload, hex
	Report  Report
}

// ParseFile decodes the match at path. The match id is the file name
// without its extension.
func ParseFile(path string) (*Parsed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrap(err, "read match file")
	}
	return Decode(data, MatchID(path))
}

// MatchID derives the match id from a file path: "data/1384401.json" -> "1384401".
func MatchID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Decode parses a cricsheet JSON document.
func Decode(data []byte, id string) (*Parsed, error) {
	var w wireMatch
	if err := sonic.Unmarshal(data, &w); err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "decode match %s", id), ErrInvalidJSON)
	}
	if len(w.Info.Teams) != 2 {
		return nil, crerr.Mark(crerr.Newf("match %s lists %d teams, want 2", id, len(w.Info.Teams)), ErrInvalidJSON)
	}

	sum := sha256.Sum256(data)
	p := &Parsed{
		Payload: data,
		Hash:    hex.EncodeToString(sum[:]),
	}
	p.Match = convert(id, &w, &p.Report)
	return p, nil
}

func convert(id string, w *wireMatch, rep *Report) *model.Match {
	info := &w.Info
	m := &model.Match{
		ID:          id,
		Dates:       info.Dates,
		Venue:       info.Venue,
		City:        info.City,
		Season:      string(info.Season),
		EventName:   info.Event.Name,
		MatchNumber: info.Event.MatchNumber,
		MatchType:   info.MatchType,
		Teams:       [2]string{info.Teams[0], info.Teams[1]},
		Outcome: model.Outcome{
			Winner:    info.Outcome.Winner,
			ByRuns:    info.Outcome.By.Runs,
			ByWickets: info.Outcome.By.Wickets,
			Result:    info.Outcome.Result,
		},
		PlayerOfMatch: info.PlayerOfMatch,
		Squads:        info.Players,
		People:        info.Registry.People,
	}
	if m.Squads == nil {
		m.Squads = make(map[string][]string)
	}
	if m.People == nil {
		m.People = make(map[string]string)
	}

	m.Innings = make([]model.Innings, 0, len(w.Innings))
	for _, wi := range w.Innings {
		inn := model.Innings{Team: wi.Team, Overs: make([]model.Over, 0, len(wi.Overs))}
		if len(wi.Overs) == 0 {
			rep.EmptyInnings++
		}
		for _, wo := range wi.Overs {
			over := model.Over{Number: wo.Over, Deliveries: make([]model.Delivery, 0, len(wo.Deliveries))}
			for i := range wo.Deliveries {
				over.Deliveries = append(over.Deliveries, convertDelivery(&wo.Deliveries[i], rep))
			}
			inn.Overs = append(inn.Overs, over)
		}
		m.Innings = append(m.Innings, inn)
	}
	return m
}

func convertDelivery(wd *wireDelivery, rep *Report) model.Delivery {
	d := model.Delivery{
		Batter:     wd.Batter,
		Bowler:     wd.Bowler,
		NonStriker: wd.NonStriker,
	}
	if wd.Batter == "" {
		rep.MissingBatter++
	}
	if wd.Bowler == "" {
		rep.MissingBowler++
	}
	if wd.Runs == nil {
		rep.MissingRuns++
	} else {
		d.Runs = &model.Runs{Batter: wd.Runs.Batter, Extras: wd.Runs.Extras, Total: wd.Runs.Total}
		if !d.Runs.Valid() {
			rep.InvalidRuns++
		}
	}
	if e := wd.Extras; e != nil {
		d.Extras = &model.Extras{Wides: e.Wides, NoBalls: e.NoBalls, Byes: e.Byes, LegByes: e.LegByes, Penalty: e.Penalty}
	}
	for i, ww := range wd.Wickets {
		wk := model.Wicket{Kind: ww.Kind, PlayerOut: ww.PlayerOut}
		for _, f := range ww.Fielders {
			if f.Name != "" {
				wk.Fielders = append(wk.Fielders, f.Name)
			}
		}
		if i == 0 {
			d.Wicket = &wk
			continue
		}
		d.ExtraWickets = append(d.ExtraWickets, wk)
	}
	if len(wd.Wickets) > 1 {
		rep.MultiWicket++
	}
	return d
}
