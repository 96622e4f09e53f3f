package providers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The upstream feed is scraped from match centre pages and mixes numeric
// types freely: the same column can arrive as 12, "12", "12.0", "" or null
// depending on the season. FlexInt and FlexFloat absorb all of those so the
// rest of the codebase only ever sees typed values.

// FlexInt is an int that tolerates string and float encodings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	v, err := flexFloat(data)
	if err != nil {
		return err
	}
	*f = FlexInt(int(v))
	return nil
}

// FlexFloat is a float64 that tolerates string encodings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	v, err := flexFloat(data)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func flexFloat(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		if s == "" || s == "-" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// MatchRecord is one fixture row from the season feed.
type MatchRecord struct {
	Round     FlexInt `json:"Round"`
	HomeTeam  string  `json:"Home"`
	AwayTeam  string  `json:"Away"`
	Venue     string  `json:"Venue"`
	Date      string  `json:"Date"`
	HomeScore FlexInt `json:"Home_Score"`
	AwayScore FlexInt `json:"Away_Score"`
}

// Completed reports whether the fixture has a final score on record.
func (m MatchRecord) Completed() bool {
	return m.HomeScore > 0 || m.AwayScore > 0
}

// PlayerStatsRecord is one player's stat line for one match.
type PlayerStatsRecord struct {
	PlayerName string  `json:"Name"`
	Team       string  `json:"Team"`
	Opponent   string  `json:"Opponent"`
	Round      FlexInt `json:"Round"`
	Position   string  `json:"Position"`
	Minutes    FlexInt `json:"Mins Played"`

	Tries             FlexInt   `json:"Tries"`
	TryAssists        FlexInt   `json:"Try Assists"`
	LinebreakAssists  FlexInt   `json:"Line Break Assists"`
	LineBreaks        FlexInt   `json:"Line Breaks"`
	RunMetres         FlexInt   `json:"All Run Metres"`
	TackleBreaks      FlexInt   `json:"Tackle Breaks"`
	Tackles           FlexInt   `json:"Tackles Made"`
	MissedTackles     FlexInt   `json:"Missed Tackles"`
	Offloads          FlexInt   `json:"Offloads"`
	KickMetres        FlexFloat `json:"Kicking Metres"`
	ForcedDropouts    FlexInt   `json:"Forced Drop Outs"`
	Intercepts        FlexInt   `json:"Intercepts"`
	Errors            FlexInt   `json:"Errors"`
	PenaltiesConceded FlexInt   `json:"Penalties"`
	SinBins           FlexInt   `json:"Sin Bins"`
	SendOffs          FlexInt   `json:"Send Offs"`
}
