package scoring

import "github.com/jstittsworth/nrl-fantasy-edge/internal/models"

// Rules2024 returns the official 2024 NRL Fantasy scoring rules. Used to seed
// the rule table and as the reference set for golden-case validation.
func Rules2024() []models.ScoringRule {
	return []models.ScoringRule{
		// Positive stats
		{Season: 2024, StatKey: "tries", Points: 4.0, FormulaType: "flat", Description: "4 points per try"},
		{Season: 2024, StatKey: "try_assists", Points: 4.0, FormulaType: "flat", Description: "4 points per try assist"},
		{Season: 2024, StatKey: "linebreak_assists", Points: 2.0, FormulaType: "flat", Description: "2 points per linebreak assist"},
		{Season: 2024, StatKey: "line_breaks", Points: 4.0, FormulaType: "flat", Description: "4 points per line break"},
		{Season: 2024, StatKey: "run_metres", Points: 0.1, FormulaType: "per_1", Description: "1 point per 10 run metres"},
		{Season: 2024, StatKey: "tackle_breaks", Points: 1.0, FormulaType: "flat", Description: "1 point per tackle break"},
		{Season: 2024, StatKey: "tackles", Points: 1.0, FormulaType: "flat", Description: "1 point per tackle"},
		{Season: 2024, StatKey: "offloads", Points: 1.0, FormulaType: "flat", Description: "1 point per offload"},
		{Season: 2024, StatKey: "kick_metres", Points: 0.033, FormulaType: "per_1", Description: "1 point per 30 kick metres"},
		{Season: 2024, StatKey: "forced_dropouts", Points: 1.0, FormulaType: "flat", Description: "1 point per forced dropout"},
		{Season: 2024, StatKey: "intercepts", Points: 4.0, FormulaType: "flat", Description: "4 points per intercept"},

		// Negative stats
		{Season: 2024, StatKey: "missed_tackles", Points: -1.0, FormulaType: "flat", Description: "-1 point per missed tackle"},
		{Season: 2024, StatKey: "errors", Points: -3.0, FormulaType: "flat", Description: "-3 points per error"},
		{Season: 2024, StatKey: "penalties_conceded", Points: -3.0, FormulaType: "flat", Description: "-3 points per penalty conceded"},
		{Season: 2024, StatKey: "sin_bins", Points: -10.0, FormulaType: "flat", Description: "-10 points per sin bin"},
		{Season: 2024, StatKey: "send_offs", Points: -20.0, FormulaType: "flat", Description: "-20 points per send off"},
	}
}
