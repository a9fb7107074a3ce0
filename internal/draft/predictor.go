package draft

import (
	"gonum.org/v1/gonum/stat"
)

// DefaultTargetGames is the regular-season length projections scale to
const DefaultTargetGames = 17

// DefaultSeasonWeights weight per-game averages most recent season first.
// Only this many recent seasons participate in a projection.
var DefaultSeasonWeights = []float64{0.5, 0.3, 0.2}

// trendFactor is the share of the newest-vs-oldest per-game delta folded
// into a projection when two or more seasons of history exist.
const trendFactor = 0.1

// positionBaselines are full-season fantasy totals, at 17 games, assumed for
// players with no usable history. Prorated to the configured target games.
var positionBaselines = map[Position]float64{
	PositionQB:  250,
	PositionRB:  180,
	PositionWR:  160,
	PositionTE:  120,
	PositionK:   130,
	PositionDEF: 150,
}

// fallback for positions missing from the baseline table
const defaultBaseline = 120

// Predictor projects a player's upcoming-season fantasy total from
// historical per-game scoring. Pure; safe for concurrent use.
type Predictor struct {
	TargetGames int
	Weights     []float64
}

// NewPredictor returns a predictor with the default recency weights
func NewPredictor(targetGames int) *Predictor {
	if targetGames <= 0 {
		targetGames = DefaultTargetGames
	}
	return &Predictor{
		TargetGames: targetGames,
		Weights:     DefaultSeasonWeights,
	}
}

// Project converts a player's season history (most recent first) into one
// projected season total, rounded to 2 decimals and clamped to >= 0.
// Histories of 0, 1, 2, or 3+ seasons are all handled; seasons with no games
// played contribute nothing. Zero usable history falls back to the player's
// position baseline instead of zero.
func (p *Predictor) Project(position Position, history []SeasonScore) float64 {
	perGame := make([]float64, 0, len(history))
	for _, s := range history {
		if s.Games <= 0 {
			continue
		}
		perGame = append(perGame, s.Points/float64(s.Games))
	}

	if len(perGame) == 0 {
		return p.baseline(position)
	}

	weights := p.Weights
	if len(weights) == 0 {
		weights = DefaultSeasonWeights
	}
	if len(perGame) > len(weights) {
		perGame = perGame[:len(weights)]
	}

	// stat.Mean divides by the weight sum, which renormalizes the
	// truncated weight slice for short histories.
	avg := stat.Mean(perGame, weights[:len(perGame)])

	if len(perGame) > 1 {
		avg += trendFactor * (perGame[0] - perGame[len(perGame)-1])
	}

	projected := avg * float64(p.TargetGames)
	if projected < 0 {
		return 0
	}
	return round2(projected)
}

func (p *Predictor) baseline(position Position) float64 {
	base, ok := positionBaselines[position]
	if !ok {
		base = defaultBaseline
	}
	return round2(base * float64(p.TargetGames) / float64(DefaultTargetGames))
}
