package draft

import (
	"math"
)

// ScoringRules holds the point coefficients for converting a raw stat line
// into fantasy points. Milestone bonuses are policy constants awarded per
// qualifying game, judged on the season's per-game averages.
type ScoringRules struct {
	PassingYardsPerPoint   float64 `json:"passing_yds_per_point"`
	PassingTD              float64 `json:"passing_td"`
	Interception           float64 `json:"interception"`
	RushingYardsPerPoint   float64 `json:"rushing_yds_per_point"`
	RushingTD              float64 `json:"rushing_td"`
	ReceivingYardsPerPoint float64 `json:"receiving_yds_per_point"`
	ReceivingTD            float64 `json:"receiving_td"`
	Reception              float64 `json:"reception"`
	FumbleLost             float64 `json:"fumble_lost"`
	ReturnTD               float64 `json:"return_td"`
	TwoPointConversion     float64 `json:"two_pt_conversion"`

	Passing300Bonus   float64 `json:"passing_300_399_bonus"`
	Passing400Bonus   float64 `json:"passing_400_bonus"`
	Rushing100Bonus   float64 `json:"rushing_100_199_bonus"`
	Rushing200Bonus   float64 `json:"rushing_200_bonus"`
	Receiving100Bonus float64 `json:"receiving_100_199_bonus"`
	Receiving200Bonus float64 `json:"receiving_200_bonus"`
}

// DefaultScoringRules returns ESPN standard scoring with full PPR
func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		PassingYardsPerPoint:   25,
		PassingTD:              4,
		Interception:           -2,
		RushingYardsPerPoint:   10,
		RushingTD:              6,
		ReceivingYardsPerPoint: 10,
		ReceivingTD:            6,
		Reception:              1, // PPR
		FumbleLost:             -2,
		ReturnTD:               6,
		TwoPointConversion:     2,
		Passing300Bonus:        3,
		Passing400Bonus:        5,
		Rushing100Bonus:        3,
		Rushing200Bonus:        5,
		Receiving100Bonus:      3,
		Receiving200Bonus:      5,
	}
}

// ScoreBreakdown itemizes where a player's fantasy points came from
type ScoreBreakdown struct {
	Passing   float64 `json:"passing"`
	Rushing   float64 `json:"rushing"`
	Receiving float64 `json:"receiving"`
	Returns   float64 `json:"returns"`
	Turnovers float64 `json:"turnovers"`
	Bonuses   float64 `json:"bonuses"`
	Total     float64 `json:"total"`
}

// CalculatePoints converts one season's stat line into fantasy points under
// the given rules. Pure: identical input always yields an identical result,
// rounded to 2 decimal places.
func CalculatePoints(rules ScoringRules, stats SeasonStats) float64 {
	return CalculateBreakdown(rules, stats).Total
}

// CalculateBreakdown is CalculatePoints with per-category contributions kept
// for prompts and debugging. Categories are rounded only in the total.
func CalculateBreakdown(rules ScoringRules, stats SeasonStats) ScoreBreakdown {
	var b ScoreBreakdown

	b.Passing = stats.PassingYards/rules.PassingYardsPerPoint +
		stats.PassingTDs*rules.PassingTD
	b.Rushing = stats.RushingYards/rules.RushingYardsPerPoint +
		stats.RushingTDs*rules.RushingTD
	b.Receiving = stats.ReceivingYards/rules.ReceivingYardsPerPoint +
		stats.ReceivingTDs*rules.ReceivingTD +
		stats.Receptions*rules.Reception
	b.Returns = stats.ReturnTDs * rules.ReturnTD
	b.Turnovers = stats.Interceptions*rules.Interception +
		stats.FumblesLost*rules.FumbleLost
	b.Bonuses = milestoneBonuses(rules, stats) +
		stats.TwoPointConversions*rules.TwoPointConversion

	b.Total = round2(b.Passing + b.Rushing + b.Receiving + b.Returns + b.Turnovers + b.Bonuses)
	return b
}

// milestoneBonuses awards the per-game milestone bonuses. Thresholds are
// judged on per-game averages over the season; each qualifying category pays
// its bonus once per game played.
func milestoneBonuses(rules ScoringRules, stats SeasonStats) float64 {
	gp := float64(stats.GamesPlayed)
	if gp <= 0 {
		return 0
	}

	var bonus float64

	avgPassing := stats.PassingYards / gp
	switch {
	case avgPassing >= 400:
		bonus += rules.Passing400Bonus * gp
	case avgPassing >= 300:
		bonus += rules.Passing300Bonus * gp
	}

	avgRushing := stats.RushingYards / gp
	switch {
	case avgRushing >= 200:
		bonus += rules.Rushing200Bonus * gp
	case avgRushing >= 100:
		bonus += rules.Rushing100Bonus * gp
	}

	avgReceiving := stats.ReceivingYards / gp
	switch {
	case avgReceiving >= 200:
		bonus += rules.Receiving200Bonus * gp
	case avgReceiving >= 100:
		bonus += rules.Receiving100Bonus * gp
	}

	return bonus
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
