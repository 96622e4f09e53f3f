// Package optimizer recommends captain picks and trades from projections and
// price data. All suggestions are advisory; nothing here mutates a squad.
package optimizer

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// CandidateProjection pairs a player's projection with the pricing and form
// context the optimizer ranks on.
type CandidateProjection struct {
	PlayerID        uint    `json:"player_id"`
	Name            string  `json:"name"`
	Team            string  `json:"team"`
	Position        string  `json:"position"`
	PredictedPoints float64 `json:"predicted_points"`
	Confidence      float64 `json:"confidence"`
	Price           int     `json:"price"` // thousands; 0 means unknown

	// Form context for rationale text.
	AvgMinutes float64 `json:"avg_minutes,omitempty"`
	AvgLast3   float64 `json:"avg_last_3,omitempty"`
}

// CaptainPick is a captain or vice-captain recommendation.
type CaptainPick struct {
	PlayerID        uint    `json:"player_id"`
	Name            string  `json:"player_name"`
	PredictedPoints float64 `json:"predicted_points"`
	Confidence      float64 `json:"confidence"`
	Score           float64 `json:"score"`
	Rationale       string  `json:"reason"`
}

// SuggestCaptain ranks squad projections by predicted_points*confidence and
// returns the top two as captain and vice-captain. The sort is stable, so
// ties keep their input order and the result is deterministic. An empty
// projection set returns (nil, nil): a degraded-but-valid outcome, not an
// error.
func SuggestCaptain(projections []CandidateProjection) (*CaptainPick, *CaptainPick) {
	if len(projections) == 0 {
		return nil, nil
	}

	ranked := make([]CandidateProjection, len(projections))
	copy(ranked, projections)
	sort.SliceStable(ranked, func(i, j int) bool {
		return captainScore(ranked[i]) > captainScore(ranked[j])
	})

	captain := captainPick(ranked[0])
	var vice *CaptainPick
	if len(ranked) > 1 {
		vice = captainPick(ranked[1])
	}

	return captain, vice
}

// TeamProjection totals predicted points across a projection set, rounded to
// one decimal place.
func TeamProjection(projections []CandidateProjection) float64 {
	total := 0.0
	for _, p := range projections {
		total += p.PredictedPoints
	}
	return math.Round(total*10) / 10
}

func captainScore(p CandidateProjection) float64 {
	return p.PredictedPoints * p.Confidence
}

func captainPick(p CandidateProjection) *CaptainPick {
	return &CaptainPick{
		PlayerID:        p.PlayerID,
		Name:            p.Name,
		PredictedPoints: p.PredictedPoints,
		Confidence:      p.Confidence,
		Score:           captainScore(p),
		Rationale:       captainRationale(p),
	}
}

func captainRationale(p CandidateProjection) string {
	var reasons []string

	if p.PredictedPoints > 60 {
		reasons = append(reasons, "high scoring potential")
	}
	if p.Confidence > 0.7 {
		reasons = append(reasons, "consistent form")
	}
	if p.AvgMinutes > 70 {
		reasons = append(reasons, "plays big minutes")
	}
	if p.AvgLast3 > 55 {
		reasons = append(reasons, "strong recent form")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "solid all-around option")
	}

	return fmt.Sprintf("%s star with %s", p.Team, strings.Join(reasons, ", "))
}
