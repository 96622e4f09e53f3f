// Package predictor forecasts next-round fantasy scores from score history.
// Every entry point is a pure function over fully materialized inputs: the
// caller loads history and minutes, the predictor only computes.
package predictor

import (
	"math"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
)

const (
	// DefaultLookback is the number of recent games considered by default.
	DefaultLookback = 5

	// NoHistoryPoints is the conservative estimate returned for players
	// with no recorded scores this season.
	NoHistoryPoints = 35.0

	// NoHistoryConfidence is the confidence attached to that estimate.
	NoHistoryConfidence = 0.3

	// NormalizingMinutes is the game time treated as a full workload when
	// discounting players trending toward reduced minutes.
	NormalizingMinutes = 70.0

	// MinConfidence and MaxConfidence bound every confidence this package
	// produces.
	MinConfidence = 0.3
	MaxConfidence = 1.0

	defaultAvgMinutes = 60.0
)

// Prediction methods.
const (
	MethodNoHistory       = "no_history"
	MethodWeightedAverage = "weighted_average"
	MethodContextual      = "contextual"
	MethodModel           = "model"
)

// recencyWeights is the fixed decreasing schedule over the four most recent
// games. Renormalized to equal weights when fewer games are available.
var recencyWeights = []float64{0.4, 0.3, 0.2, 0.1}

// Features is the explainability snapshot returned with every prediction.
// Consumed by the optimizer's rationale generator and by audit logging.
type Features struct {
	AvgAllGames   float64 `json:"avg_all_games"`
	AvgLast3      float64 `json:"avg_last_3"`
	AvgMinutes    float64 `json:"avg_minutes"`
	GamesAnalyzed int     `json:"games_analyzed"`
	StdDev        float64 `json:"std_dev"`
}

// Prediction is a forward-looking point estimate with its quality signal.
type Prediction struct {
	PredictedPoints float64  `json:"predicted_points"`
	Confidence      float64  `json:"confidence"`
	Method          string   `json:"method"`
	Features        Features `json:"features"`
}

// Predictor produces weighted-average forecasts over a lookback window.
// Stateless across calls.
type Predictor struct {
	lookback int
}

func New(lookback int) *Predictor {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &Predictor{lookback: lookback}
}

// Lookback returns the configured lookback window.
func (p *Predictor) Lookback() int {
	return p.lookback
}

// Predict forecasts the next round from a score history ordered most recent
// first. An empty history returns the fixed conservative default rather than
// averaging over zero samples; that is a valid degraded state, not an error.
func (p *Predictor) Predict(history []models.FantasyScore, avgMinutes float64) Prediction {
	if len(history) == 0 {
		return Prediction{
			PredictedPoints: NoHistoryPoints,
			Confidence:      NoHistoryConfidence,
			Method:          MethodNoHistory,
		}
	}

	points := scorePoints(history, p.lookback)
	avgAll := mean(points)
	stdDev := stddev(points, avgAll)

	last3 := points
	if len(points) > 3 {
		last3 = points[:3]
	}
	avgLast3 := mean(last3)

	if avgMinutes <= 0 {
		avgMinutes = defaultAvgMinutes
	}

	weighted := weightedAverage(points)
	minutesFactor := math.Min(1.0, avgMinutes/NormalizingMinutes)
	predicted := weighted * minutesFactor

	// Confidence blends form consistency with data availability. The floor
	// keeps highly volatile players at a usable non-zero signal.
	consistency := math.Max(MinConfidence, 1.0-stdDev/math.Max(1.0, avgAll))
	dataScore := math.Min(1.0, float64(len(points))/float64(p.lookback))
	confidence := clampConfidence(0.7*consistency + 0.3*dataScore)

	return Prediction{
		PredictedPoints: round1(predicted),
		Confidence:      round2(confidence),
		Method:          MethodWeightedAverage,
		Features: Features{
			AvgAllGames:   round1(avgAll),
			AvgLast3:      round1(avgLast3),
			AvgMinutes:    round1(avgMinutes),
			GamesAnalyzed: len(points),
			StdDev:        round1(stdDev),
		},
	}
}

// scorePoints extracts up to limit fantasy point values, preserving the
// most-recent-first ordering.
func scorePoints(history []models.FantasyScore, limit int) []float64 {
	if len(history) > limit {
		history = history[:limit]
	}
	points := make([]float64, len(history))
	for i, record := range history {
		points[i] = record.FantasyPoints
	}
	return points
}

// weightedAverage applies the recency schedule over the four most recent
// games, or equal weights summing to 1 when fewer are available.
func weightedAverage(points []float64) float64 {
	if len(points) < len(recencyWeights) {
		return mean(points)
	}

	total := 0.0
	for i, w := range recencyWeights {
		total += points[i] * w
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - avg) * (v - avg)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func clampConfidence(c float64) float64 {
	return math.Min(MaxConfidence, math.Max(MinConfidence, c))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
