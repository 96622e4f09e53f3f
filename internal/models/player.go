package models

import (
	"strings"
	"time"
)

// Player is an NRL player tracked across seasons.
type Player struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NRLID     string    `gorm:"column:nrl_id;uniqueIndex" json:"nrl_id,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	Team      string    `gorm:"not null;index" json:"team"`
	Positions string    `gorm:"not null" json:"positions"` // comma-separated, primary first
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Player) TableName() string {
	return "players"
}

// PrimaryPosition returns the first entry of the comma-separated position list.
func (p *Player) PrimaryPosition() string {
	if idx := strings.Index(p.Positions, ","); idx >= 0 {
		return strings.TrimSpace(p.Positions[:idx])
	}
	return strings.TrimSpace(p.Positions)
}

// PlaysPosition reports whether the player covers the given position.
func (p *Player) PlaysPosition(position string) bool {
	return strings.Contains(p.Positions, position)
}

// Match is a single NRL fixture.
type Match struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Season    int       `gorm:"not null;index:idx_matches_season_round" json:"season"`
	Round     int       `gorm:"not null;index:idx_matches_season_round" json:"round"`
	Date      time.Time `json:"date"`
	HomeTeam  string    `gorm:"not null" json:"home_team"`
	AwayTeam  string    `gorm:"not null" json:"away_team"`
	Venue     string    `json:"venue"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Completed bool      `gorm:"default:false" json:"completed"`
}

func (Match) TableName() string {
	return "matches"
}

// Opponent returns the team facing the given side in this match, or "" when
// the side did not play.
func (m *Match) Opponent(team string) string {
	switch team {
	case m.HomeTeam:
		return m.AwayTeam
	case m.AwayTeam:
		return m.HomeTeam
	}
	return ""
}

// PlayerMatchStats is the raw stat line for one player in one match.
// Immutable once recorded; counts default to zero for events that did not
// occur.
type PlayerMatchStats struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	PlayerID uint `gorm:"not null;index" json:"player_id"`
	MatchID  uint `gorm:"not null;index" json:"match_id"`

	Minutes           int `gorm:"default:0" json:"minutes"`
	Tries             int `gorm:"default:0" json:"tries"`
	TryAssists        int `gorm:"default:0" json:"try_assists"`
	LinebreakAssists  int `gorm:"default:0" json:"linebreak_assists"`
	LineBreaks        int `gorm:"default:0" json:"line_breaks"`
	Runs              int `gorm:"default:0" json:"runs"`
	RunMetres         int `gorm:"default:0" json:"run_metres"`
	PostContactMetres int `gorm:"default:0" json:"post_contact_metres"`
	TackleBreaks      int `gorm:"default:0" json:"tackle_breaks"`
	Tackles           int `gorm:"default:0" json:"tackles"`
	MissedTackles     int `gorm:"default:0" json:"missed_tackles"`
	Offloads          int `gorm:"default:0" json:"offloads"`
	Errors            int `gorm:"default:0" json:"errors"`
	PenaltiesConceded int `gorm:"default:0" json:"penalties_conceded"`
	SinBins           int `gorm:"default:0" json:"sin_bins"`
	SendOffs          int `gorm:"default:0" json:"send_offs"`
	Kicks             int `gorm:"default:0" json:"kicks"`
	KickMetres        int `gorm:"default:0" json:"kick_metres"`
	ForcedDropouts    int `gorm:"default:0" json:"forced_dropouts"`
	Intercepts        int `gorm:"default:0" json:"intercepts"`
}

func (PlayerMatchStats) TableName() string {
	return "player_match_stats"
}

// StatValues maps the fixed stat vocabulary to counts. The scoring engine
// scores whatever subset of these keys its rule set recognizes.
func (s *PlayerMatchStats) StatValues() map[string]float64 {
	return map[string]float64{
		"tries":              float64(s.Tries),
		"try_assists":        float64(s.TryAssists),
		"linebreak_assists":  float64(s.LinebreakAssists),
		"line_breaks":        float64(s.LineBreaks),
		"run_metres":         float64(s.RunMetres),
		"tackle_breaks":      float64(s.TackleBreaks),
		"tackles":            float64(s.Tackles),
		"offloads":           float64(s.Offloads),
		"kick_metres":        float64(s.KickMetres),
		"forced_dropouts":    float64(s.ForcedDropouts),
		"intercepts":         float64(s.Intercepts),
		"missed_tackles":     float64(s.MissedTackles),
		"errors":             float64(s.Errors),
		"penalties_conceded": float64(s.PenaltiesConceded),
		"sin_bins":           float64(s.SinBins),
		"send_offs":          float64(s.SendOffs),
	}
}
