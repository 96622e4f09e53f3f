package models

import "time"

// ScoringRule maps one stat key to its point coefficient for a season.
// Rule sets are season-scoped: a stat line must only be scored with rules
// for its own season.
type ScoringRule struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Season      int     `gorm:"not null;index" json:"season"`
	StatKey     string  `gorm:"not null" json:"stat_key"`
	Points      float64 `gorm:"not null" json:"points"`
	FormulaType string  `gorm:"default:flat" json:"formula_type"` // flat, per_1
	Description string  `json:"description,omitempty"`
}

func (ScoringRule) TableName() string {
	return "fantasy_scoring_rules"
}

// FantasyScore is the calculated fantasy points for a player in a match.
// One record per (player, match).
type FantasyScore struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	PlayerID         uint    `gorm:"not null;index:idx_scores_player_season" json:"player_id"`
	MatchID          uint    `gorm:"not null" json:"match_id"`
	Round            int     `gorm:"not null" json:"round"`
	Season           int     `gorm:"not null;index:idx_scores_player_season" json:"season"`
	FantasyPoints    float64 `gorm:"not null" json:"fantasy_points"`
	CalculatedPoints float64 `json:"calculated_points"`
	ErrorMargin      float64 `json:"error_margin"`
}

func (FantasyScore) TableName() string {
	return "fantasy_scores"
}

// PriceHistory records a player's fantasy price per round, in thousands.
type PriceHistory struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	PlayerID     uint    `gorm:"not null;index" json:"player_id"`
	Round        int     `gorm:"not null" json:"round"`
	Season       int     `gorm:"not null" json:"season"`
	Price        int     `gorm:"not null" json:"price"`
	PriceChange  int     `gorm:"default:0" json:"price_change"`
	Breakeven    float64 `json:"breakeven,omitempty"`
	OwnershipPct float64 `json:"ownership_pct,omitempty"`
}

func (PriceHistory) TableName() string {
	return "fantasy_price_history"
}

// Projection is a forward-looking score estimate for a player's upcoming
// round, along with the feature snapshot that produced it. Confidence is a
// dimensionless quality signal in [0.3, 1.0], not a probability.
type Projection struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PlayerID        uint      `gorm:"not null;index:idx_projections_lookup" json:"player_id"`
	Round           int       `gorm:"not null;index:idx_projections_lookup" json:"round"`
	Season          int       `gorm:"not null;index:idx_projections_lookup" json:"season"`
	PredictedPoints float64   `gorm:"not null" json:"predicted_points"`
	Confidence      float64   `json:"confidence"`
	Method          string    `json:"method"` // no_history, weighted_average, contextual, model
	ModelVersion    string    `json:"model_version,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	// Feature snapshot (explainability payload)
	AvgAllGames           float64 `json:"avg_all_games"`
	AvgLast3              float64 `json:"avg_last_3"`
	AvgMinutes            float64 `json:"avg_minutes"`
	GamesAnalyzed         int     `json:"games_analyzed"`
	StdDev                float64 `json:"std_dev"`
	OpponentDefenseRating float64 `json:"opponent_defense_rating,omitempty"`
	VenueFactor           float64 `json:"venue_factor,omitempty"`
}

func (Projection) TableName() string {
	return "projections"
}
