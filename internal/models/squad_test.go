package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSquad() []SquadSlot {
	slots := make([]SquadSlot, SquadSize)
	for i := range slots {
		slots[i] = SquadSlot{PlayerID: uint(i + 1), Position: "HLF"}
	}
	slots[0].IsCaptain = true
	slots[1].IsViceCaptain = true
	return slots
}

func TestValidateSquad(t *testing.T) {
	require.NoError(t, ValidateSquad(fullSquad()))
}

func TestValidateSquadSize(t *testing.T) {
	assert.Error(t, ValidateSquad(fullSquad()[:16]))
	assert.Error(t, ValidateSquad(nil))
}

func TestValidateSquadDuplicatePlayer(t *testing.T) {
	slots := fullSquad()
	slots[5].PlayerID = slots[4].PlayerID

	assert.Error(t, ValidateSquad(slots))
}

func TestValidateSquadLeadership(t *testing.T) {
	// Two captains.
	slots := fullSquad()
	slots[2].IsCaptain = true
	assert.Error(t, ValidateSquad(slots))

	// Captain without vice.
	slots = fullSquad()
	slots[1].IsViceCaptain = false
	assert.Error(t, ValidateSquad(slots))

	// Neither assigned yet is valid.
	slots = fullSquad()
	slots[0].IsCaptain = false
	slots[1].IsViceCaptain = false
	assert.NoError(t, ValidateSquad(slots))
}

func TestValidateSquadBenchPositions(t *testing.T) {
	slots := fullSquad()
	slots[13].IsOnBench = true
	slots[13].BenchPosition = 1
	slots[14].IsOnBench = true
	slots[14].BenchPosition = 1

	assert.Error(t, ValidateSquad(slots))

	slots[14].BenchPosition = 2
	assert.NoError(t, ValidateSquad(slots))
}

func TestPlayerPositions(t *testing.T) {
	p := Player{Positions: "HLF, 5/8"}

	assert.Equal(t, "HLF", p.PrimaryPosition())
	assert.True(t, p.PlaysPosition("5/8"))
	assert.False(t, p.PlaysPosition("FRF"))
}

func TestMatchOpponent(t *testing.T) {
	m := Match{HomeTeam: "Penrith Panthers", AwayTeam: "Melbourne Storm"}

	assert.Equal(t, "Melbourne Storm", m.Opponent("Penrith Panthers"))
	assert.Equal(t, "Penrith Panthers", m.Opponent("Melbourne Storm"))
	assert.Equal(t, "", m.Opponent("Dolphins"))
}
