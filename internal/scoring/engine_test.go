package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/utils"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(2024, Rules2024())
	require.NoError(t, err)
	return engine
}

func TestScoreGoldenCases(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		stats    models.PlayerMatchStats
		expected float64
	}{
		{
			name: "workhorse middle",
			// 1x4 + 100x0.1 + 3x1 + 30x1 + 2x1 - 2x1 - 1x3 = 44
			stats: models.PlayerMatchStats{
				Tries: 1, RunMetres: 100, TackleBreaks: 3, Tackles: 30,
				Offloads: 2, MissedTackles: 2, Errors: 1,
			},
			expected: 44.0,
		},
		{
			name: "premium scorer",
			// 2x4 + 2x4 + 1x2 + 2x4 + 200x0.1 + 6x1 + 25x1 + 3x1 = 80
			stats: models.PlayerMatchStats{
				Tries: 2, TryAssists: 2, LinebreakAssists: 1, LineBreaks: 2,
				RunMetres: 200, TackleBreaks: 6, Tackles: 25, Offloads: 3,
			},
			expected: 80.0,
		},
		{
			name: "typical forward",
			// 150x0.1 + 4x1 + 40x1 + 2x1 - 3x1 - 1x3 - 1x3 = 52
			stats: models.PlayerMatchStats{
				RunMetres: 150, TackleBreaks: 4, Tackles: 40, Offloads: 2,
				MissedTackles: 3, Errors: 1, PenaltiesConceded: 1,
			},
			expected: 52.0,
		},
		{
			name: "error-riddled outing goes negative",
			// 50x0.1 + 10x1 - 5x1 - 3x3 - 2x3 = -5
			stats: models.PlayerMatchStats{
				RunMetres: 50, Tackles: 10, MissedTackles: 5, Errors: 3,
				PenaltiesConceded: 2,
			},
			expected: -5.0,
		},
		{
			name:     "empty stat line",
			stats:    models.PlayerMatchStats{},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.Score(&tt.stats))
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	stats := models.PlayerMatchStats{
		Tries: 1, RunMetres: 137, TackleBreaks: 2, Tackles: 33, Errors: 1,
	}

	first := engine.Score(&stats)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, engine.Score(&stats))
	}
}

func TestScoreIgnoresUnrecognizedRuleKeys(t *testing.T) {
	rules := append(Rules2024(), models.ScoringRule{
		Season: 2024, StatKey: "fortieth_minute_drop_goals", Points: 99.0,
	})
	engine, err := NewEngine(2024, rules)
	require.NoError(t, err)

	stats := models.PlayerMatchStats{Tackles: 30}
	assert.Equal(t, 30.0, engine.Score(&stats))
}

func TestNewEngineMissingSeason(t *testing.T) {
	engine, err := NewEngine(2019, Rules2024())
	assert.Nil(t, engine)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrNoRuleSet)
}

func TestValidateAgainstKnownScore(t *testing.T) {
	engine := newTestEngine(t)
	stats := models.PlayerMatchStats{
		Tries: 1, LineBreaks: 1, RunMetres: 120, TackleBreaks: 3, Tackles: 25,
		Offloads: 1, MissedTackles: 1,
	}

	// 4 + 4 + 12 + 3 + 25 + 1 - 1 = 48
	assert.Equal(t, 0.0, engine.Validate(&stats, 48.0))
	assert.Equal(t, 2.5, engine.Validate(&stats, 50.5))
}

func TestScoreRoundsToOneDecimal(t *testing.T) {
	engine := newTestEngine(t)
	stats := models.PlayerMatchStats{KickMetres: 400} // 400 * 0.033 = 13.2

	assert.Equal(t, 13.2, engine.Score(&stats))
}
