package draft

import (
	"time"
)

// Position represents a fantasy football roster position
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
)

// League size bounds accepted by the draft context resolver
const (
	MinTeams = 2
	MaxTeams = 20
)

// SeasonStats is one season's raw stat line for a player
type SeasonStats struct {
	SeasonYear          int     `json:"season_year"`
	GamesPlayed         int     `json:"games_played"`
	PassingYards        float64 `json:"passing_yards"`
	PassingTDs          float64 `json:"passing_tds"`
	Interceptions       float64 `json:"interceptions"`
	RushingYards        float64 `json:"rushing_yards"`
	RushingTDs          float64 `json:"rushing_tds"`
	ReceivingYards      float64 `json:"receiving_yards"`
	ReceivingTDs        float64 `json:"receiving_tds"`
	Receptions          float64 `json:"receptions"`
	FumblesLost         float64 `json:"fumbles_lost"`
	ReturnTDs           float64 `json:"return_tds"`
	TwoPointConversions float64 `json:"two_point_conversions"`
}

// PlayerSeasonData is a player's identity plus historical stat lines as
// delivered by a stat provider, most recent season first.
type PlayerSeasonData struct {
	Name     string        `json:"name"`
	Team     string        `json:"team"`
	Position Position      `json:"position"`
	Seasons  []SeasonStats `json:"seasons"`
}

// PlayerRecord is the computed, cacheable view of a player for one season.
// FantasyPoints and PredictedPoints are always written together; readers
// never see one refreshed without the other.
type PlayerRecord struct {
	Name            string        `json:"name"`
	Team            string        `json:"team"`
	Position        Position      `json:"position"`
	SeasonYear      int           `json:"season_year"`
	GamesPlayed     int           `json:"games_played"`
	Seasons         []SeasonStats `json:"seasons"`
	FantasyPoints   float64       `json:"fantasy_points"`
	PredictedPoints float64       `json:"predicted_points"`
	CachedAt        time.Time     `json:"cached_at"`
}

// SeasonScore is a single season's computed fantasy total, the predictor's
// input unit. Slices of these are ordered most recent season first.
type SeasonScore struct {
	SeasonYear int     `json:"season_year"`
	Games      int     `json:"games"`
	Points     float64 `json:"points"`
}

// Recommendation is one ranked entry in a recommendation response
type Recommendation struct {
	Name            string   `json:"name"`
	Team            string   `json:"team"`
	Position        Position `json:"position"`
	FantasyPoints   float64  `json:"fantasy_points"`
	PredictedPoints float64  `json:"predicted_points"`
	PositionRank    int      `json:"position_rank"`
}

// DraftContext describes the caller's place in a snake draft
type DraftContext struct {
	NumTeams      int `json:"num_teams"`
	DraftPosition int `json:"draft_position"`
	PicksMade     int `json:"picks_made"`
	RoundNumber   int `json:"round_number"`
	PickInRound   int `json:"pick_in_round"`
	CurrentPick   int `json:"current_pick"`
}
