package optimizer

import (
	"fmt"
	"math"
	"sort"
)

// TradeOptions tunes the trade search. Zero values fall back to defaults via
// normalize, so callers can set only what they care about.
type TradeOptions struct {
	// ValueGain and PointsGain are the acceptance thresholds: a swap is
	// suggested when it clears either one.
	ValueGain  float64
	PointsGain float64

	// OutCandidates caps how many of the squad's lowest-value players are
	// considered for trading out. InCandidates caps the shortlist of
	// highest-value targets.
	OutCandidates int
	InCandidates  int

	// PriceLeeway extends the bank balance when screening targets, standing
	// in for the sale proceeds of whoever gets traded out.
	PriceLeeway int

	// DefaultPrice substitutes for players with no price on record.
	DefaultPrice int
}

// DefaultTradeOptions returns the standard thresholds.
func DefaultTradeOptions() TradeOptions {
	return TradeOptions{
		ValueGain:     0.5,
		PointsGain:    10,
		OutCandidates: 3,
		InCandidates:  10,
		PriceLeeway:   100,
		DefaultPrice:  400,
	}
}

func (o TradeOptions) normalize() TradeOptions {
	defaults := DefaultTradeOptions()
	if o.ValueGain == 0 {
		o.ValueGain = defaults.ValueGain
	}
	if o.PointsGain == 0 {
		o.PointsGain = defaults.PointsGain
	}
	if o.OutCandidates == 0 {
		o.OutCandidates = defaults.OutCandidates
	}
	if o.InCandidates == 0 {
		o.InCandidates = defaults.InCandidates
	}
	if o.PriceLeeway == 0 {
		o.PriceLeeway = defaults.PriceLeeway
	}
	if o.DefaultPrice == 0 {
		o.DefaultPrice = defaults.DefaultPrice
	}
	return o
}

// TradeSuggestion is one recommended player swap.
type TradeSuggestion struct {
	OutPlayerID   uint    `json:"out_player_id"`
	OutPlayerName string  `json:"out_player_name"`
	InPlayerID    uint    `json:"in_player_id"`
	InPlayerName  string  `json:"in_player_name"`
	PointsGain    float64 `json:"points_gain"`
	ValueGain     float64 `json:"value_gain"`
	PriceDelta    int     `json:"price_delta"`
	Rationale     string  `json:"reason"`
}

// ValueScore is projected points per unit of price, scaled to a readable
// range. Unknown prices fall back to DefaultPrice so free-to-pick players do
// not dominate the ranking.
func ValueScore(p CandidateProjection, defaultPrice int) float64 {
	price := p.Price
	if price <= 0 {
		price = defaultPrice
	}
	return p.PredictedPoints / math.Max(1, float64(price)) * 100
}

// SuggestTrades pairs the squad's weakest holdings with the strongest
// affordable targets. The squad's bottom players by value score become
// out-candidates; available players outside the squad priced within the bank
// balance plus leeway, ranked by value, become in-candidates. Affordability
// is screened before shortlisting so out-of-reach premiums never crowd out
// targets the budget can actually buy. A pairing is kept when it clears the
// value-gain or points-gain threshold. Results are ranked by points gain and
// truncated to limit.
func SuggestTrades(squad, available []CandidateProjection, bankBalance, limit int, opts TradeOptions) []TradeSuggestion {
	opts = opts.normalize()

	if len(squad) == 0 || len(available) == 0 || limit <= 0 {
		return nil
	}

	inSquad := make(map[uint]bool, len(squad))
	for _, p := range squad {
		inSquad[p.PlayerID] = true
	}

	outCandidates := make([]CandidateProjection, len(squad))
	copy(outCandidates, squad)
	sort.SliceStable(outCandidates, func(i, j int) bool {
		return ValueScore(outCandidates[i], opts.DefaultPrice) < ValueScore(outCandidates[j], opts.DefaultPrice)
	})
	if len(outCandidates) > opts.OutCandidates {
		outCandidates = outCandidates[:opts.OutCandidates]
	}

	maxPrice := bankBalance + opts.PriceLeeway
	var targets []CandidateProjection
	for _, p := range available {
		if inSquad[p.PlayerID] || priceOf(p, opts.DefaultPrice) > maxPrice {
			continue
		}
		targets = append(targets, p)
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return ValueScore(targets[i], opts.DefaultPrice) > ValueScore(targets[j], opts.DefaultPrice)
	})
	if len(targets) > opts.InCandidates {
		targets = targets[:opts.InCandidates]
	}

	var suggestions []TradeSuggestion
	for _, out := range outCandidates {
		outPrice := priceOf(out, opts.DefaultPrice)

		for _, in := range targets {
			inPrice := priceOf(in, opts.DefaultPrice)

			pointsGain := in.PredictedPoints - out.PredictedPoints
			valueGain := ValueScore(in, opts.DefaultPrice) - ValueScore(out, opts.DefaultPrice)
			if valueGain <= opts.ValueGain && pointsGain <= opts.PointsGain {
				continue
			}

			suggestions = append(suggestions, TradeSuggestion{
				OutPlayerID:   out.PlayerID,
				OutPlayerName: out.Name,
				InPlayerID:    in.PlayerID,
				InPlayerName:  in.Name,
				PointsGain:    math.Round(pointsGain*10) / 10,
				ValueGain:     math.Round(valueGain*100) / 100,
				PriceDelta:    inPrice - outPrice,
				Rationale:     tradeRationale(in, pointsGain, valueGain, opts.DefaultPrice),
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].PointsGain > suggestions[j].PointsGain
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	return suggestions
}

func priceOf(p CandidateProjection, defaultPrice int) int {
	if p.Price <= 0 {
		return defaultPrice
	}
	return p.Price
}

func tradeRationale(in CandidateProjection, pointsGain, valueGain float64, defaultPrice int) string {
	var reasons []string

	switch {
	case pointsGain > 15:
		reasons = append(reasons, fmt.Sprintf("+%.1f projected points", pointsGain))
	case pointsGain > 0:
		reasons = append(reasons, fmt.Sprintf("+%.1f pts", pointsGain))
	}

	switch {
	case valueGain > 1.0:
		reasons = append(reasons, "excellent value")
	case valueGain > 0.5:
		reasons = append(reasons, "good value")
	}

	if in.PredictedPoints > 60 {
		reasons = append(reasons, "premium scorer")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "strategic upgrade")
	}

	text := reasons[0]
	for _, r := range reasons[1:] {
		text += ", " + r
	}
	return text
}
