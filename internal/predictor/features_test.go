package predictor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
)

func TestVenueFactor(t *testing.T) {
	tests := []struct {
		name     string
		team     string
		venue    string
		isHome   bool
		expected float64
	}{
		{"away at neutral ground", "Wests Tigers", "Leichhardt Oval", false, 0.95},
		{"home at neutral ground", "Wests Tigers", "Leichhardt Oval", true, 1.05},
		{"fortress adjustment applies", "Penrith Panthers", "Penrith Stadium", true, 1.05 * 1.08},
		{"fortress belongs to the host", "Melbourne Storm", "Penrith Stadium", false, 0.95},
		{"shared venue second tenant", "Dolphins", "Suncorp Stadium", true, 1.05 * 1.03},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, VenueFactor(tt.team, tt.venue, tt.isHome), 0.0001)
		})
	}
}

func TestOpponentDefenseDefaultsToLeagueAverage(t *testing.T) {
	assert.Equal(t, LeagueAverageDefense, OpponentDefense(nil))
	assert.Equal(t, LeagueAverageDefense, OpponentDefense([]float64{}))
	assert.InDelta(t, 40.0, OpponentDefense([]float64{30, 40, 50}), 0.001)
}

func TestFeatureVectorMatchesDocumentedOrder(t *testing.T) {
	features := ContextFeatures{
		AvgLast3:        51,
		AvgLast5:        49,
		AvgLast10:       47,
		StdLast5:        6,
		Trend:           0.1,
		Consistency:     0.8,
		AvgMinutes:      68,
		AvgTackles:      30,
		AvgRunMetres:    110,
		AvgTackleBreaks: 4,
		AvgErrors:       1,
		OpponentDefense: 44,
		VenueFactor:     1.05,
		RoundNumber:     21,
	}

	vector := features.Vector()
	require.Len(t, vector, len(FeatureOrder))

	assert.Equal(t, 51.0, vector[0])  // avg_last_3
	assert.Equal(t, 44.0, vector[11]) // opponent_defense
	assert.Equal(t, 1.05, vector[12]) // venue_factor
	assert.Equal(t, 21.0, vector[13]) // round_number
	assert.Equal(t, 0.0, vector[14])  // is_early_season
	assert.Equal(t, 1.0, vector[15])  // is_late_season
}

func TestExtractFeaturesDefaultsWithoutHistory(t *testing.T) {
	p := NewContextual(nil)

	features := p.ExtractFeatures(ContextInput{})

	assert.Equal(t, NoHistoryPoints, features.AvgLast3)
	assert.Equal(t, LeagueAverageDefense, features.OpponentDefense)
	assert.Equal(t, 1.0, features.VenueFactor)
	assert.Equal(t, 1, features.RoundNumber)
}

func TestExtractFeaturesFromHistoryAndStats(t *testing.T) {
	p := NewContextual(nil)

	in := ContextInput{
		History: historyOf(60, 55, 50, 45, 40, 35),
		RecentStats: []models.PlayerMatchStats{
			{Minutes: 80, Tackles: 30, RunMetres: 120, TackleBreaks: 4, Errors: 1},
			{Minutes: 76, Tackles: 34, RunMetres: 100, TackleBreaks: 2, Errors: 0},
		},
		OpponentDefense: 48,
		VenueFactor:     1.05,
		TargetRound:     9,
	}

	features := p.ExtractFeatures(in)

	assert.InDelta(t, 55.0, features.AvgLast3, 0.001)
	assert.InDelta(t, 50.0, features.AvgLast5, 0.001)
	assert.InDelta(t, 47.5, features.AvgLast10, 0.001)
	assert.InDelta(t, 78.0, features.AvgMinutes, 0.001)
	assert.InDelta(t, 32.0, features.AvgTackles, 0.001)
	assert.Equal(t, 48.0, features.OpponentDefense)
	assert.Equal(t, 1.05, features.VenueFactor)
	assert.Equal(t, 9, features.RoundNumber)
	// Scores decline toward older games, so the trend is positive.
	assert.Greater(t, features.Trend, 0.0)
}

func TestContextualPredictBlendWithoutModel(t *testing.T) {
	p := NewContextual(nil)

	in := ContextInput{
		History:     historyOf(50, 50, 50, 50, 50),
		VenueFactor: 1.05,
		TargetRound: 10,
	}

	result := p.Predict(in)

	require.Equal(t, MethodContextual, result.Method)
	// Flat history: blend is 50, scaled only by the venue factor.
	assert.InDelta(t, 52.5, result.PredictedPoints, 0.001)
	assert.GreaterOrEqual(t, result.Confidence, MinConfidence)
	assert.LessOrEqual(t, result.Confidence, MaxConfidence)
}

func TestContextualPredictOpponentAdjustment(t *testing.T) {
	p := NewContextual(nil)
	base := ContextInput{History: historyOf(50, 50, 50, 50, 50), TargetRound: 10}

	weak := base
	weak.OpponentDefense = 55
	strong := base
	strong.OpponentDefense = 35

	assert.InDelta(t, 52.5, p.Predict(weak).PredictedPoints, 0.001)
	assert.InDelta(t, 47.5, p.Predict(strong).PredictedPoints, 0.001)
}

// stubModel is a trained-model stand-in honoring the ScorePredictor contract.
type stubModel struct {
	points     float64
	confidence float64
	err        error

	gotFeatures []float64
}

func (m *stubModel) Predict(features []float64) (float64, float64, error) {
	m.gotFeatures = features
	return m.points, m.confidence, m.err
}

func TestContextualPredictUsesInjectedModel(t *testing.T) {
	model := &stubModel{points: 61.4, confidence: 0.82}
	p := NewContextual(model)

	result := p.Predict(ContextInput{History: historyOf(40, 42, 38), TargetRound: 12})

	assert.Equal(t, MethodModel, result.Method)
	assert.Equal(t, 61.4, result.PredictedPoints)
	assert.Equal(t, 0.82, result.Confidence)
	require.Len(t, model.gotFeatures, len(FeatureOrder))
}

func TestContextualPredictFallsBackWhenModelFails(t *testing.T) {
	model := &stubModel{err: errors.New("model unavailable")}
	p := NewContextual(model)

	result := p.Predict(ContextInput{History: historyOf(50, 50, 50, 50, 50), TargetRound: 10})

	assert.Equal(t, MethodContextual, result.Method)
	assert.InDelta(t, 50.0, result.PredictedPoints, 0.001)
}

func TestContextualPredictClampsModelConfidence(t *testing.T) {
	p := NewContextual(&stubModel{points: 55, confidence: 1.7})

	result := p.Predict(ContextInput{History: historyOf(50, 50, 50), TargetRound: 10})

	assert.Equal(t, MaxConfidence, result.Confidence)
}
