// Package scoring converts raw match stat lines into fantasy points using
// season-scoped rule sets.
package scoring

import (
	"fmt"
	"math"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/utils"
)

// Engine scores stat lines with one season's rule set. Rules are loaded once
// at construction and never change for the engine's lifetime, so Score is a
// pure function of its input.
type Engine struct {
	season int
	coeffs map[string]float64
}

// NewEngine builds an engine from the rules matching the given season.
// It fails with ErrNoRuleSet when the rule slice holds nothing for that
// season: scoring with another season's coefficients would silently corrupt
// every downstream projection, so there is no default rule set.
func NewEngine(season int, rules []models.ScoringRule) (*Engine, error) {
	coeffs := make(map[string]float64)
	for _, rule := range rules {
		if rule.Season != season {
			continue
		}
		coeffs[rule.StatKey] = rule.Points
	}

	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: season %d", utils.ErrNoRuleSet, season)
	}

	return &Engine{season: season, coeffs: coeffs}, nil
}

// Season returns the season this engine scores.
func (e *Engine) Season() int {
	return e.season
}

// Score calculates fantasy points for a stat line. Each stat key with a
// coefficient contributes count*coefficient; keys without a rule are ignored
// so the stat vocabulary can grow ahead of the rule table. The result is
// rounded to one decimal place.
func (e *Engine) Score(stats *models.PlayerMatchStats) float64 {
	total := 0.0
	for key, value := range stats.StatValues() {
		if coeff, ok := e.coeffs[key]; ok {
			total += value * coeff
		}
	}
	return round1(total)
}

// Validate returns the absolute error between the engine's calculation and a
// known reference score. Used to audit the engine against published score
// lines.
func (e *Engine) Validate(stats *models.PlayerMatchStats, knownPoints float64) float64 {
	return math.Abs(e.Score(stats) - knownPoints)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
