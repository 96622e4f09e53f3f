package optimizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueScore(t *testing.T) {
	assert.InDelta(t, 10.0, ValueScore(CandidateProjection{PredictedPoints: 50, Price: 500}, 400), 0.001)
	// Unknown price falls back to the default.
	assert.InDelta(t, 5.0, ValueScore(CandidateProjection{PredictedPoints: 20}, 400), 0.001)
}

func TestSuggestTradesEmptyInputs(t *testing.T) {
	squad := []CandidateProjection{{PlayerID: 1, PredictedPoints: 40, Price: 400}}
	available := []CandidateProjection{{PlayerID: 2, PredictedPoints: 80, Price: 400}}

	assert.Nil(t, SuggestTrades(nil, available, 500, 3, TradeOptions{}))
	assert.Nil(t, SuggestTrades(squad, nil, 500, 3, TradeOptions{}))
	assert.Nil(t, SuggestTrades(squad, available, 500, 0, TradeOptions{}))
}

func TestSuggestTradesRanksByPointsGain(t *testing.T) {
	squad := []CandidateProjection{
		{PlayerID: 1, Name: "S1", PredictedPoints: 30, Price: 400}, // value 7.5
		{PlayerID: 2, Name: "S2", PredictedPoints: 45, Price: 500}, // value 9.0
		{PlayerID: 3, Name: "S3", PredictedPoints: 60, Price: 800}, // value 7.5
		{PlayerID: 4, Name: "S4", PredictedPoints: 55, Price: 600}, // value 9.17, kept
	}
	available := []CandidateProjection{
		{PlayerID: 10, Name: "A1", PredictedPoints: 70, Price: 750},
		{PlayerID: 11, Name: "A2", PredictedPoints: 50, Price: 450},
		{PlayerID: 12, Name: "A3", PredictedPoints: 40, Price: 700},
	}

	suggestions := SuggestTrades(squad, available, 700, 3, TradeOptions{})

	require.Len(t, suggestions, 3)

	// Best swap: the weakest holding for the biggest scorer in reach.
	assert.Equal(t, "S1", suggestions[0].OutPlayerName)
	assert.Equal(t, "A1", suggestions[0].InPlayerName)
	assert.InDelta(t, 40.0, suggestions[0].PointsGain, 0.001)
	assert.Equal(t, 350, suggestions[0].PriceDelta)

	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].PointsGain, suggestions[i].PointsGain)
	}
}

func TestSuggestTradesAffordability(t *testing.T) {
	squad := []CandidateProjection{{PlayerID: 1, Name: "Out", PredictedPoints: 30, Price: 400}}

	// The cap is bank + leeway. The outgoing player's price never inflates
	// it: with an empty bank only 100-priced targets are in reach.
	tooDear := []CandidateProjection{{PlayerID: 2, Name: "Dear", PredictedPoints: 60, Price: 450}}
	assert.Empty(t, SuggestTrades(squad, tooDear, 0, 3, TradeOptions{}))

	exact := []CandidateProjection{{PlayerID: 2, Name: "Exact", PredictedPoints: 60, Price: 500}}
	suggestions := SuggestTrades(squad, exact, 400, 3, TradeOptions{})
	require.Len(t, suggestions, 1)
	assert.InDelta(t, 30.0, suggestions[0].PointsGain, 0.001)

	// One short of the cap.
	assert.Empty(t, SuggestTrades(squad, exact, 399, 3, TradeOptions{}))
}

func TestSuggestTradesAffordabilityScreensBeforeShortlist(t *testing.T) {
	squad := []CandidateProjection{{PlayerID: 1, Name: "Out", PredictedPoints: 30, Price: 400}}

	// Ten premium targets beyond the budget plus one affordable upgrade. The
	// shortlist must be drawn from affordable players only, so the upgrade
	// still surfaces.
	var available []CandidateProjection
	for i := 0; i < 10; i++ {
		available = append(available, CandidateProjection{
			PlayerID:        uint(10 + i),
			Name:            fmt.Sprintf("Premium %d", i),
			PredictedPoints: 90,
			Price:           900,
		})
	}
	available = append(available, CandidateProjection{PlayerID: 30, Name: "Affordable", PredictedPoints: 55, Price: 480})

	suggestions := SuggestTrades(squad, available, 400, 3, TradeOptions{})

	require.Len(t, suggestions, 1)
	assert.Equal(t, "Affordable", suggestions[0].InPlayerName)
}

func TestSuggestTradesAcceptanceThresholds(t *testing.T) {
	squad := []CandidateProjection{{PlayerID: 1, PredictedPoints: 50, Price: 500}} // value 10.0

	// Marginal on both axes: value gain 0.19, points gain 5. Rejected.
	marginal := []CandidateProjection{{PlayerID: 2, PredictedPoints: 55, Price: 540}}
	assert.Empty(t, SuggestTrades(squad, marginal, 1000, 3, TradeOptions{}))

	// Small points gain but clear value gain. Accepted.
	value := []CandidateProjection{{PlayerID: 3, PredictedPoints: 52, Price: 400}} // value 13.0
	suggestions := SuggestTrades(squad, value, 1000, 3, TradeOptions{})
	require.Len(t, suggestions, 1)
	assert.InDelta(t, 2.0, suggestions[0].PointsGain, 0.001)
	assert.InDelta(t, 3.0, suggestions[0].ValueGain, 0.001)
}

func TestSuggestTradesSkipsCurrentSquadMembers(t *testing.T) {
	squad := []CandidateProjection{
		{PlayerID: 1, PredictedPoints: 30, Price: 400},
	}
	// The only available player is already in the squad.
	available := []CandidateProjection{
		{PlayerID: 1, PredictedPoints: 30, Price: 400},
	}

	assert.Empty(t, SuggestTrades(squad, available, 1000, 3, TradeOptions{}))
}

func TestSuggestTradesRespectsLimit(t *testing.T) {
	squad := []CandidateProjection{
		{PlayerID: 1, PredictedPoints: 20, Price: 400},
		{PlayerID: 2, PredictedPoints: 22, Price: 400},
		{PlayerID: 3, PredictedPoints: 24, Price: 400},
	}
	available := []CandidateProjection{
		{PlayerID: 10, PredictedPoints: 60, Price: 400},
		{PlayerID: 11, PredictedPoints: 62, Price: 400},
		{PlayerID: 12, PredictedPoints: 64, Price: 400},
		{PlayerID: 13, PredictedPoints: 66, Price: 400},
	}

	suggestions := SuggestTrades(squad, available, 2000, 2, TradeOptions{})

	require.Len(t, suggestions, 2)
	// Highest points gain first: weakest holding for the best target.
	assert.Equal(t, uint(1), suggestions[0].OutPlayerID)
	assert.Equal(t, uint(13), suggestions[0].InPlayerID)
}

func TestTradeRationale(t *testing.T) {
	squad := []CandidateProjection{{PlayerID: 1, Name: "Out", PredictedPoints: 40, Price: 600}}
	available := []CandidateProjection{{PlayerID: 2, Name: "Gun", PredictedPoints: 65, Price: 650}}

	suggestions := SuggestTrades(squad, available, 600, 3, TradeOptions{})

	require.Len(t, suggestions, 1)
	assert.Contains(t, suggestions[0].Rationale, "+25.0 projected points")
	assert.Contains(t, suggestions[0].Rationale, "excellent value")
	assert.Contains(t, suggestions[0].Rationale, "premium scorer")
}
