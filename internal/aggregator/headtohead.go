package aggregator

import (
	"sort"

	"github.com/pable/go-cricket-metrics/internal/deliveries"
	"github.com/pable/go-cricket-metrics/internal/model"
)

type encounterAcc struct {
	date        string
	venue       string
	battingTeam string
	bat         *Batting
}

// HeadToHead applies the batting formulas to deliveries where the batter
// faced the bowler, overall and per match.
type HeadToHead struct {
	Batter string
	Bowler string

	overall  *Batting
	perMatch map[string]*encounterAcc
}

// NewHeadToHead returns an empty accumulator for batter against bowler.
func NewHeadToHead(batter, bowler string) *HeadToHead {
	return &HeadToHead{
		Batter:   batter,
		Bowler:   bowler,
		overall:  NewBatting(batter),
		perMatch: make(map[string]*encounterAcc),
	}
}

// Fold counts a delivery of the pair overall and against its match.
func (a *HeadToHead) Fold(b deliveries.Ball) {
	d := b.Delivery
	if d.Batter != a.Batter || d.Bowler != a.Bowler {
		return
	}
	a.overall.Fold(b)
	id := b.MatchID()
	enc, ok := a.perMatch[id]
	if !ok {
		enc = &encounterAcc{
			date:        b.Match.Date(),
			venue:       b.Match.Venue,
			battingTeam: b.BattingTeam,
			bat:         NewBatting(a.Batter),
		}
		a.perMatch[id] = enc
	}
	enc.bat.Fold(b)
}

// Merge adds o's state into a.
func (a *HeadToHead) Merge(o *HeadToHead) {
	a.overall.Merge(o.overall)
	for id, enc := range o.perMatch {
		mine, ok := a.perMatch[id]
		if !ok {
			mine = &encounterAcc{date: enc.date, venue: enc.venue, battingTeam: enc.battingTeam, bat: NewBatting(a.Batter)}
			a.perMatch[id] = mine
		}
		mine.bat.Merge(enc.bat)
	}
}

// Empty reports whether the pair never met.
func (a *HeadToHead) Empty() bool { return a.overall.Empty() }

// Finalize orders encounters by match date ascending, then match id.
// Encounters whose every delivery was excluded are dropped.
func (a *HeadToHead) Finalize() model.HeadToHead {
	out := model.HeadToHead{
		Batter:  a.Batter,
		Bowler:  a.Bowler,
		Overall: a.overall.Finalize(),
	}
	for id, enc := range a.perMatch {
		s := enc.bat.Finalize()
		if s.BallsFaced == 0 {
			continue
		}
		out.Encounters = append(out.Encounters, model.Encounter{
			MatchID:     id,
			Date:        enc.date,
			Venue:       enc.venue,
			BattingTeam: enc.battingTeam,
			Balls:       s.BallsFaced,
			Runs:        s.Runs,
			Dismissals:  s.Dismissals,
			StrikeRate:  s.StrikeRate,
		})
	}
	sort.Slice(out.Encounters, func(i, j int) bool {
		x, y := out.Encounters[i], out.Encounters[j]
		if x.Date != y.Date {
			return x.Date < y.Date
		}
		return x.MatchID < y.MatchID
	})
	return out
}
