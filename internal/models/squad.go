package models

import (
	"fmt"
	"time"
)

// SquadSize is the fixed number of players in an NRL Fantasy squad.
const SquadSize = 17

// FantasyTeam is a user's fantasy team for a season.
type FantasyTeam struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TeamName        string    `gorm:"not null" json:"team_name"`
	Season          int       `gorm:"not null" json:"season"`
	CurrentRound    int       `json:"current_round"`
	BankBalance     int       `json:"bank_balance"` // in thousands
	TradesRemaining int       `json:"trades_remaining"`
	TotalPoints     int       `json:"total_points"`
	LeagueRank      int       `json:"league_rank,omitempty"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Squad []SquadSlot `gorm:"foreignKey:TeamID" json:"squad,omitempty"`
}

func (FantasyTeam) TableName() string {
	return "fantasy_teams"
}

// SquadSlot assigns one player to one roster slot on a fantasy team.
type SquadSlot struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TeamID        uint   `gorm:"not null;index" json:"team_id"`
	PlayerID      uint   `gorm:"not null" json:"player_id"`
	Position      string `gorm:"not null" json:"position"`
	IsCaptain     bool   `gorm:"default:false" json:"is_captain"`
	IsViceCaptain bool   `gorm:"default:false" json:"is_vice_captain"`
	IsOnBench     bool   `gorm:"default:false" json:"is_on_bench"`
	BenchPosition int    `json:"bench_position,omitempty"`
}

func (SquadSlot) TableName() string {
	return "squad_slots"
}

// ValidateSquad checks the roster invariants: exactly SquadSize players,
// at most one captain and one vice-captain (either both assigned or neither),
// no duplicate players, and unique bench positions where set.
func ValidateSquad(slots []SquadSlot) error {
	if len(slots) != SquadSize {
		return fmt.Errorf("squad must have exactly %d players, got %d", SquadSize, len(slots))
	}

	captains := 0
	vices := 0
	seenPlayers := make(map[uint]bool, len(slots))
	seenBench := make(map[int]bool)

	for _, slot := range slots {
		if seenPlayers[slot.PlayerID] {
			return fmt.Errorf("player %d appears twice in squad", slot.PlayerID)
		}
		seenPlayers[slot.PlayerID] = true

		if slot.IsCaptain {
			captains++
		}
		if slot.IsViceCaptain {
			vices++
		}
		if slot.IsOnBench && slot.BenchPosition > 0 {
			if seenBench[slot.BenchPosition] {
				return fmt.Errorf("duplicate bench position %d", slot.BenchPosition)
			}
			seenBench[slot.BenchPosition] = true
		}
	}

	if captains > 1 {
		return fmt.Errorf("squad has %d captains, want at most 1", captains)
	}
	if vices > 1 {
		return fmt.Errorf("squad has %d vice-captains, want at most 1", vices)
	}
	if captains != vices {
		return fmt.Errorf("captain and vice-captain must be assigned together")
	}

	return nil
}
