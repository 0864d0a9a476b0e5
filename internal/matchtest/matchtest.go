// Package matchtest builds small in-memory match records for tests.
package matchtest

import "github.com/pable/go-cricket-metrics/internal/model"

// Builder assembles a model.Match fluently.
type Builder struct {
	m *model.Match
}

// Match starts a match between two teams on the given date.
func Match(id, date, team1, team2 string) *Builder {
	return &Builder{m: &model.Match{
		ID:        id,
		Dates:     []string{date},
		Venue:     "Test Ground",
		City:      "Test City",
		Season:    date[:4],
		MatchType: "ODI",
		Teams:     [2]string{team1, team2},
		Squads:    make(map[string][]string),
		People:    make(map[string]string),
	}}
}

// Venue sets the ground name.
func (b *Builder) Venue(venue string) *Builder {
	b.m.Venue = venue
	return b
}

// Season overrides the season label.
func (b *Builder) Season(season string) *Builder {
	b.m.Season = season
	return b
}

// Event sets the competition name.
func (b *Builder) Event(name string) *Builder {
	b.m.EventName = name
	return b
}

// Winner records the winning side and margin in runs.
func (b *Builder) Winner(team string, byRuns int) *Builder {
	b.m.Outcome = model.Outcome{Winner: team, ByRuns: byRuns}
	return b
}

// MOTM sets the player-of-the-match list.
func (b *Builder) MOTM(players ...string) *Builder {
	b.m.PlayerOfMatch = append(b.m.PlayerOfMatch, players...)
	return b
}

// Squad lists the players of team.
func (b *Builder) Squad(team string, players ...string) *Builder {
	b.m.Squads[team] = append(b.m.Squads[team], players...)
	for _, p := range players {
		b.register(p)
	}
	return b
}

// Innings appends an innings for the batting team.
func (b *Builder) Innings(team string, overs ...model.Over) *Builder {
	b.m.Innings = append(b.m.Innings, model.Innings{Team: team, Overs: overs})
	for _, o := range overs {
		for _, d := range o.Deliveries {
			b.register(d.Batter)
			b.register(d.Bowler)
			b.register(d.NonStriker)
		}
	}
	return b
}

// Build returns the assembled match.
func (b *Builder) Build() *model.Match {
	return b.m
}

func (b *Builder) register(name string) {
	if name == "" {
		return
	}
	if _, ok := b.m.People[name]; !ok {
		b.m.People[name] = "reg-" + name
	}
}

// Over groups deliveries under an over number.
func Over(n int, ds ...model.Delivery) model.Over {
	return model.Over{Number: n, Deliveries: ds}
}

// Repeat returns count copies of d.
func Repeat(count int, d model.Delivery) []model.Delivery {
	out := make([]model.Delivery, count)
	for i := range out {
		out[i] = d
	}
	return out
}

// Runs is a legal delivery with runs off the bat.
func Runs(batter, bowler string, runs int) model.Delivery {
	return model.Delivery{
		Batter: batter,
		Bowler: bowler,
		Runs:   &model.Runs{Batter: runs, Total: runs},
	}
}

// Wide is a wide worth n runs.
func Wide(batter, bowler string, n int) model.Delivery {
	return model.Delivery{
		Batter: batter,
		Bowler: bowler,
		Runs:   &model.Runs{Extras: n, Total: n},
		Extras: &model.Extras{Wides: n},
	}
}

// NoBall is a no-ball with runs off the bat plus the one-run penalty.
func NoBall(batter, bowler string, batterRuns int) model.Delivery {
	return model.Delivery{
		Batter: batter,
		Bowler: bowler,
		Runs:   &model.Runs{Batter: batterRuns, Extras: 1, Total: batterRuns + 1},
		Extras: &model.Extras{NoBalls: 1},
	}
}

// LegBye is a delivery with n leg-byes.
func LegBye(batter, bowler string, n int) model.Delivery {
	return model.Delivery{
		Batter: batter,
		Bowler: bowler,
		Runs:   &model.Runs{Extras: n, Total: n},
		Extras: &model.Extras{LegByes: n},
	}
}

// Out is a dot ball on which the batter was dismissed.
func Out(batter, bowler, kind string) model.Delivery {
	return model.Delivery{
		Batter: batter,
		Bowler: bowler,
		Runs:   &model.Runs{},
		Wicket: &model.Wicket{Kind: kind, PlayerOut: batter},
	}
}

// RunOut is a delivery on which playerOut was run out after runs were taken.
func RunOut(batter, bowler, playerOut string, runs int) model.Delivery {
	return model.Delivery{
		Batter: batter,
		Bowler: bowler,
		Runs:   &model.Runs{Batter: runs, Total: runs},
		Wicket: &model.Wicket{Kind: model.KindRunOut, PlayerOut: playerOut},
	}
}

// Malformed is a delivery whose runs breakdown is missing.
func Malformed(batter, bowler string) model.Delivery {
	return model.Delivery{Batter: batter, Bowler: bowler}
}
