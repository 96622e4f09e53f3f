package predictor

import (
	"math"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
)

const (
	// LeagueAverageDefense is the defensive-strength rating assumed for an
	// opponent with no completed matches on record.
	LeagueAverageDefense = 45.0

	// Home/away base venue factors.
	HomeBaseFactor = 1.05
	AwayBaseFactor = 0.95

	// ExtendedLookback is the deeper window used for feature extraction.
	ExtendedLookback = 10

	earlySeasonCutoff = 5
	lateSeasonStart   = 20
)

// venueAdjustments holds venue-specific multipliers on top of the home/away
// base factor, keyed venue -> team.
var venueAdjustments = map[string]map[string]float64{
	"Penrith Stadium": {"Penrith Panthers": 1.08},
	"AAMI Park":       {"Melbourne Storm": 1.07},
	"Suncorp Stadium": {"Brisbane Broncos": 1.06, "Dolphins": 1.03},
	"Allianz Stadium": {"Sydney Roosters": 1.05},
}

// VenueFactor returns the multiplicative venue adjustment for a team playing
// at the given venue.
func VenueFactor(team, venue string, isHome bool) float64 {
	factor := AwayBaseFactor
	if isHome {
		factor = HomeBaseFactor
	}
	if teams, ok := venueAdjustments[venue]; ok {
		if adj, ok := teams[team]; ok {
			factor *= adj
		}
	}
	return factor
}

// OpponentDefense turns the fantasy points an opponent has conceded to a
// position into a defensive-strength rating (lower = stronger defense).
// Defaults to the league average when no conceded scores are available.
func OpponentDefense(concededPoints []float64) float64 {
	if len(concededPoints) == 0 {
		return LeagueAverageDefense
	}
	return mean(concededPoints)
}

// ContextFeatures is the full feature set for contextual and model-backed
// prediction.
type ContextFeatures struct {
	AvgLast3        float64 `json:"avg_last_3"`
	AvgLast5        float64 `json:"avg_last_5"`
	AvgLast10       float64 `json:"avg_last_10"`
	StdLast5        float64 `json:"std_last_5"`
	Trend           float64 `json:"trend"`
	Consistency     float64 `json:"consistency"`
	AvgMinutes      float64 `json:"avg_minutes"`
	AvgTackles      float64 `json:"avg_tackles"`
	AvgRunMetres    float64 `json:"avg_run_metres"`
	AvgTackleBreaks float64 `json:"avg_tackle_breaks"`
	AvgErrors       float64 `json:"avg_errors"`
	OpponentDefense float64 `json:"opponent_defense"`
	VenueFactor     float64 `json:"venue_factor"`
	RoundNumber     int     `json:"round_number"`
}

// Vector flattens the features in FeatureOrder for ScorePredictor input.
func (f ContextFeatures) Vector() []float64 {
	isEarly, isLate := 0.0, 0.0
	if f.RoundNumber <= earlySeasonCutoff {
		isEarly = 1.0
	}
	if f.RoundNumber >= lateSeasonStart {
		isLate = 1.0
	}
	return []float64{
		f.AvgLast3,
		f.AvgLast5,
		f.AvgLast10,
		f.StdLast5,
		f.Trend,
		f.Consistency,
		f.AvgMinutes,
		f.AvgTackles,
		f.AvgRunMetres,
		f.AvgTackleBreaks,
		f.AvgErrors,
		f.OpponentDefense,
		f.VenueFactor,
		float64(f.RoundNumber),
		isEarly,
		isLate,
	}
}

// ContextInput carries the materialized context for one contextual
// prediction. History and RecentStats are ordered most recent first.
type ContextInput struct {
	History     []models.FantasyScore
	RecentStats []models.PlayerMatchStats

	// OpponentDefense from OpponentDefense(); zero means unknown and is
	// replaced by the league average.
	OpponentDefense float64

	// VenueFactor from VenueFactor(); zero means no venue context.
	VenueFactor float64

	TargetRound int
}

// ContextualPredictor layers opponent and venue context over the recent-form
// blend, with an optional trained model taking over when injected.
type ContextualPredictor struct {
	model ScorePredictor
}

// NewContextual builds a contextual predictor. Pass nil to always use the
// deterministic blend.
func NewContextual(model ScorePredictor) *ContextualPredictor {
	return &ContextualPredictor{model: model}
}

// ExtractFeatures builds the full feature set from the input context.
// Players with no history get fixed conservative defaults.
func (p *ContextualPredictor) ExtractFeatures(in ContextInput) ContextFeatures {
	features := defaultContextFeatures()

	if len(in.History) > 0 {
		points := scorePoints(in.History, ExtendedLookback)
		avgAll := mean(points)

		features.AvgLast3 = meanOfFirst(points, 3)
		features.AvgLast5 = meanOfFirst(points, 5)
		features.AvgLast10 = avgAll

		first5 := points
		if len(points) > 5 {
			first5 = points[:5]
		}
		features.StdLast5 = stddev(first5, mean(first5))

		features.Trend = trend(points)
		features.Consistency = 1.0 - stddev(points, avgAll)/math.Max(1.0, avgAll)
	}

	if len(in.RecentStats) > 0 {
		var minutes, tackles, metres, breaks, errs float64
		for _, s := range in.RecentStats {
			minutes += float64(s.Minutes)
			tackles += float64(s.Tackles)
			metres += float64(s.RunMetres)
			breaks += float64(s.TackleBreaks)
			errs += float64(s.Errors)
		}
		n := float64(len(in.RecentStats))
		features.AvgMinutes = minutes / n
		features.AvgTackles = tackles / n
		features.AvgRunMetres = metres / n
		features.AvgTackleBreaks = breaks / n
		features.AvgErrors = errs / n
	}

	if in.OpponentDefense > 0 {
		features.OpponentDefense = in.OpponentDefense
	}
	if in.VenueFactor > 0 {
		features.VenueFactor = in.VenueFactor
	}
	if in.TargetRound > 0 {
		features.RoundNumber = in.TargetRound
	}

	return features
}

// Predict produces a contextual prediction. With a trained model injected,
// the model consumes the feature vector directly; otherwise (or when the
// model call fails) the deterministic blend applies. Model absence is never
// an error.
func (p *ContextualPredictor) Predict(in ContextInput) Prediction {
	features := p.ExtractFeatures(in)

	if p.model != nil {
		points, confidence, err := p.model.Predict(features.Vector())
		if err == nil {
			return Prediction{
				PredictedPoints: round1(points),
				Confidence:      round2(clampConfidence(confidence)),
				Method:          MethodModel,
				Features:        snapshot(features, in),
			}
		}
	}

	// Deterministic blend of recent averages, scaled by venue and opponent
	// context.
	points := features.AvgLast3*0.5 + features.AvgLast5*0.3 + features.AvgLast10*0.2
	points *= features.VenueFactor

	switch {
	case features.OpponentDefense > 50: // weak defense
		points *= 1.05
	case features.OpponentDefense < 40: // strong defense
		points *= 0.95
	}

	confidence := clampConfidence(features.Consistency * 0.8)

	return Prediction{
		PredictedPoints: round1(points),
		Confidence:      round2(confidence),
		Method:          MethodContextual,
		Features:        snapshot(features, in),
	}
}

func snapshot(features ContextFeatures, in ContextInput) Features {
	return Features{
		AvgAllGames:   round1(features.AvgLast10),
		AvgLast3:      round1(features.AvgLast3),
		AvgMinutes:    round1(features.AvgMinutes),
		GamesAnalyzed: min(len(in.History), ExtendedLookback),
		StdDev:        round1(features.StdLast5),
	}
}

func defaultContextFeatures() ContextFeatures {
	return ContextFeatures{
		AvgLast3:        NoHistoryPoints,
		AvgLast5:        NoHistoryPoints,
		AvgLast10:       NoHistoryPoints,
		StdLast5:        10.0,
		Trend:           0.0,
		Consistency:     0.5,
		AvgMinutes:      defaultAvgMinutes,
		AvgTackles:      20.0,
		AvgRunMetres:    80.0,
		AvgTackleBreaks: 3.0,
		AvgErrors:       1.0,
		OpponentDefense: LeagueAverageDefense,
		VenueFactor:     1.0,
		RoundNumber:     1,
	}
}

func meanOfFirst(points []float64, n int) float64 {
	if len(points) > n {
		points = points[:n]
	}
	return mean(points)
}

// trend compares an exponentially weighted recent average against the older
// tail; positive values mean improving form.
func trend(points []float64) float64 {
	if len(points) < 3 {
		return 0.0
	}

	weights := make([]float64, len(points))
	for i := range points {
		weights[i] = math.Exp(-0.2 * float64(i))
	}

	recent := weightedMean(points[:3], weights[:3])
	older := recent
	if len(points) > 3 {
		older = weightedMean(points[3:], weights[3:])
	}

	return (recent - older) / math.Max(1.0, older)
}

func weightedMean(values, weights []float64) float64 {
	sum, weightSum := 0.0, 0.0
	for i, v := range values {
		sum += v * weights[i]
		weightSum += weights[i]
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}
