package predictor

// FeatureOrder is the fixed, documented order of the numeric feature vector
// consumed by trained ScorePredictor implementations. ContextFeatures.Vector
// emits features in exactly this order.
var FeatureOrder = []string{
	"avg_last_3",
	"avg_last_5",
	"avg_last_10",
	"std_last_5",
	"trend",
	"consistency",
	"avg_minutes",
	"avg_tackles",
	"avg_run_metres",
	"avg_tackle_breaks",
	"avg_errors",
	"opponent_defense",
	"venue_factor",
	"round_number",
	"is_early_season",
	"is_late_season",
}

// ScorePredictor is the contract for an externally trained model. Given a
// feature vector in FeatureOrder, it returns a point estimate and a
// confidence. The contextual engine treats it as a black box and falls back
// to the deterministic blend whenever no model is injected or a call fails.
type ScorePredictor interface {
	Predict(features []float64) (points float64, confidence float64, err error)
}
