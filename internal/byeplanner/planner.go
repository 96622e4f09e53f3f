// Package byeplanner maps squad exposure to bye rounds and plans the trades
// that keep a fieldable team through the bye period.
package byeplanner

import (
	"fmt"
	"sort"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/optimizer"
)

// Default2024Schedule maps bye round -> teams resting that round for the 2024
// season. Teams absent from every round never go on bye.
var Default2024Schedule = map[int][]string{
	13: {"Penrith Panthers", "Melbourne Storm", "Brisbane Broncos", "Cronulla Sharks"},
	14: {"Sydney Roosters", "Parramatta Eels", "South Sydney Rabbitohs", "Manly Sea Eagles"},
	15: {"Newcastle Knights", "North Queensland Cowboys", "Canberra Raiders", "New Zealand Warriors"},
	16: {"Gold Coast Titans", "St George Illawarra Dragons"},
	17: {"Canterbury Bulldogs", "Wests Tigers"},
}

// Options tunes coverage analysis and trade planning. Zero values fall back
// to defaults.
type Options struct {
	// BenchCoverage is how many byes a round can absorb without action.
	BenchCoverage int

	// MaxTradesPerRound caps planned trades in any single round so one bad
	// round cannot exhaust the trade budget.
	MaxTradesPerRound int

	// HighPriorityCount is the bye count above which a round is flagged
	// high priority.
	HighPriorityCount int

	// AggressiveImpactThreshold is the total bye impact above which the
	// plan recommends trading beyond the per-round minimum.
	AggressiveImpactThreshold int
}

// DefaultOptions returns the standard planning thresholds.
func DefaultOptions() Options {
	return Options{
		BenchCoverage:             2,
		MaxTradesPerRound:         2,
		HighPriorityCount:         3,
		AggressiveImpactThreshold: 8,
	}
}

func (o Options) normalize() Options {
	defaults := DefaultOptions()
	if o.BenchCoverage == 0 {
		o.BenchCoverage = defaults.BenchCoverage
	}
	if o.MaxTradesPerRound == 0 {
		o.MaxTradesPerRound = defaults.MaxTradesPerRound
	}
	if o.HighPriorityCount == 0 {
		o.HighPriorityCount = defaults.HighPriorityCount
	}
	if o.AggressiveImpactThreshold == 0 {
		o.AggressiveImpactThreshold = defaults.AggressiveImpactThreshold
	}
	return o
}

// RoundCoverage is the bye exposure for one round.
type RoundCoverage struct {
	Round       int                             `json:"round"`
	ByeTeams    []string                        `json:"bye_teams"`
	PlayersOut  []optimizer.CandidateProjection `json:"players_out"`
	PlayersIn   []optimizer.CandidateProjection `json:"players_available"`
	NeedsAction bool                            `json:"needs_action"`
}

// PlannedTrade is one player swap scheduled ahead of a bye round.
type PlannedTrade struct {
	Round         int     `json:"round"`
	ByeRound      int     `json:"bye_round"`
	OutPlayerID   uint    `json:"out_player_id"`
	OutPlayerName string  `json:"out_player_name"`
	InPlayerID    uint    `json:"in_player_id"`
	InPlayerName  string  `json:"in_player_name"`
	PointsGain    float64 `json:"points_gain"`
	Reason        string  `json:"reason"`
	Priority      string  `json:"priority"`
}

// Plan is a complete bye-period strategy for a squad.
type Plan struct {
	Coverage           []RoundCoverage `json:"coverage"`
	Trades             []PlannedTrade  `json:"planned_trades"`
	TotalByeImpact     int             `json:"total_bye_impact"`
	Aggressive         bool            `json:"aggressive"`
	TradesRecommended  int             `json:"trades_recommended"`
	WorstRound         int             `json:"worst_round"`
	WorstRoundByeCount int             `json:"worst_round_bye_count"`
}

// AnalyzeCoverage partitions the squad per bye round into players resting and
// players available. Every squad member lands in exactly one of the two sets
// for each round. Rounds come back in ascending order.
func AnalyzeCoverage(squad []optimizer.CandidateProjection, schedule map[int][]string, opts Options) []RoundCoverage {
	opts = opts.normalize()

	rounds := make([]int, 0, len(schedule))
	for round := range schedule {
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)

	coverage := make([]RoundCoverage, 0, len(rounds))
	for _, round := range rounds {
		onBye := make(map[string]bool, len(schedule[round]))
		for _, team := range schedule[round] {
			onBye[team] = true
		}

		rc := RoundCoverage{Round: round, ByeTeams: schedule[round]}
		for _, p := range squad {
			if onBye[p.Team] {
				rc.PlayersOut = append(rc.PlayersOut, p)
			} else {
				rc.PlayersIn = append(rc.PlayersIn, p)
			}
		}
		rc.NeedsAction = len(rc.PlayersOut) > opts.BenchCoverage
		coverage = append(coverage, rc)
	}

	return coverage
}

// SuggestTrades plans replacement trades for the rounds that need action,
// worst round first. Each such round plans up to MaxTradesPerRound trades,
// starting with the weakest projected players resting that round; each gets
// the highest-projected available replacement sharing their position whose
// team is not on bye that round. Trades land the round before the bye so the
// incoming player is rostered in time. Planning stops once tradesAvailable
// suggestions exist (0 means unlimited).
func SuggestTrades(coverage []RoundCoverage, available []optimizer.CandidateProjection, tradesAvailable int, opts Options) []PlannedTrade {
	opts = opts.normalize()

	needy := make([]RoundCoverage, 0, len(coverage))
	for _, rc := range coverage {
		if rc.NeedsAction {
			needy = append(needy, rc)
		}
	}
	sort.SliceStable(needy, func(i, j int) bool {
		return len(needy[i].PlayersOut) > len(needy[j].PlayersOut)
	})

	byeTeams := make(map[int]map[string]bool, len(coverage))
	for _, rc := range coverage {
		teams := make(map[string]bool, len(rc.ByeTeams))
		for _, team := range rc.ByeTeams {
			teams[team] = true
		}
		byeTeams[rc.Round] = teams
	}

	var trades []PlannedTrade
	used := make(map[uint]bool)

	for _, rc := range needy {
		// Once a round exceeds bench coverage, trade out up to the per-round
		// cap; the bench carries whoever remains.
		planned := len(rc.PlayersOut)
		if planned > opts.MaxTradesPerRound {
			planned = opts.MaxTradesPerRound
		}

		priority := "medium"
		if len(rc.PlayersOut) > opts.HighPriorityCount {
			priority = "high"
		}

		// Trade out the weakest projected players first; the bench can
		// carry the rest.
		outs := make([]optimizer.CandidateProjection, len(rc.PlayersOut))
		copy(outs, rc.PlayersOut)
		sort.SliceStable(outs, func(i, j int) bool {
			return outs[i].PredictedPoints < outs[j].PredictedPoints
		})

		for _, out := range outs[:planned] {
			if tradesAvailable > 0 && len(trades) >= tradesAvailable {
				return trades
			}

			replacement, ok := bestReplacement(out, available, byeTeams[rc.Round], used)
			if !ok {
				continue
			}
			used[replacement.PlayerID] = true

			trades = append(trades, PlannedTrade{
				Round:         rc.Round - 1,
				ByeRound:      rc.Round,
				OutPlayerID:   out.PlayerID,
				OutPlayerName: out.Name,
				InPlayerID:    replacement.PlayerID,
				InPlayerName:  replacement.Name,
				PointsGain:    replacement.PredictedPoints - out.PredictedPoints,
				Reason:        fmt.Sprintf("Avoid %d players on bye in round %d", len(rc.PlayersOut), rc.Round),
				Priority:      priority,
			})
		}
	}

	return trades
}

// bestReplacement finds the highest-projected available player covering the
// outgoing player's position whose team plays that round.
func bestReplacement(out optimizer.CandidateProjection, available []optimizer.CandidateProjection, onBye map[string]bool, used map[uint]bool) (optimizer.CandidateProjection, bool) {
	var best optimizer.CandidateProjection
	found := false

	for _, candidate := range available {
		if used[candidate.PlayerID] || candidate.PlayerID == out.PlayerID {
			continue
		}
		if onBye[candidate.Team] {
			continue
		}
		if out.Position != "" && candidate.Position != out.Position {
			continue
		}
		if !found || candidate.PredictedPoints > best.PredictedPoints {
			best = candidate
			found = true
		}
	}

	return best, found
}

// CreatePlan runs coverage analysis and trade planning in one pass and rolls
// the results up into a full bye strategy.
func CreatePlan(squad, available []optimizer.CandidateProjection, schedule map[int][]string, tradesAvailable int, opts Options) Plan {
	opts = opts.normalize()

	coverage := AnalyzeCoverage(squad, schedule, opts)
	trades := SuggestTrades(coverage, available, tradesAvailable, opts)

	plan := Plan{Coverage: coverage, Trades: trades}
	for _, rc := range coverage {
		plan.TotalByeImpact += len(rc.PlayersOut)
		if len(rc.PlayersOut) > plan.WorstRoundByeCount {
			plan.WorstRound = rc.Round
			plan.WorstRoundByeCount = len(rc.PlayersOut)
		}
	}

	plan.TradesRecommended = len(trades)
	if plan.TotalByeImpact > opts.AggressiveImpactThreshold {
		plan.Aggressive = true
		plan.TradesRecommended = len(trades) + 2
	}

	return plan
}
