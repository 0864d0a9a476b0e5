package parser

import (
	"bytes"
	"strconv"

	"github.com/bytedance/sonic"
)

// Wire shapes of a cricsheet JSON match file. Optional members are pointers
// so absence can be told apart from zero.

type wireMatch struct {
	Info    wireInfo      `json:"info"`
	Innings []wireInnings `json:"innings"`
}

type wireInfo struct {
	Dates         []string            `json:"dates"`
	City          string              `json:"city"`
	Venue         string              `json:"venue"`
	Season        flexString          `json:"season"`
	Event         wireEvent           `json:"event"`
	MatchType     string              `json:"match_type"`
	Teams         []string            `json:"teams"`
	Outcome       wireOutcome         `json:"outcome"`
	PlayerOfMatch []string            `json:"player_of_match"`
	Players       map[string][]string `json:"players"`
	Registry      struct {
		People map[string]string `json:"people"`
	} `json:"registry"`
}

type wireEvent struct {
	Name        string `json:"name"`
	MatchNumber int    `json:"match_number"`
}

type wireOutcome struct {
	Winner string `json:"winner"`
	By     struct {
		Runs    int `json:"runs"`
		Wickets int `json:"wickets"`
	} `json:"by"`
	Result string `json:"result"`
}

type wireInnings struct {
	Team  string     `json:"team"`
	Overs []wireOver `json:"overs"`
}

type wireOver struct {
	Over       int            `json:"over"`
	Deliveries []wireDelivery `json:"deliveries"`
}

type wireDelivery struct {
	Batter     string       `json:"batter"`
	Bowler     string       `json:"bowler"`
	NonStriker string       `json:"non_striker"`
	Runs       *wireRuns    `json:"runs"`
	Extras     *wireExtras  `json:"extras"`
	Wickets    []wireWicket `json:"wickets"`
}

type wireRuns struct {
	Batter int `json:"batter"`
	Extras int `json:"extras"`
	Total  int `json:"total"`
}

type wireExtras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"noballs"`
	Byes    int `json:"byes"`
	LegByes int `json:"legbyes"`
	Penalty int `json:"penalty"`
}

type wireWicket struct {
	Kind      string `json:"kind"`
	PlayerOut string `json:"player_out"`
	Fielders  []struct {
		Name string `json:"name"`
	} `json:"fielders"`
}

// flexString accepts both "2023/24" and 2019 for the season.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}
