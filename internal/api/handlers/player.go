package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/services"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

type PlayerHandler struct {
	playerCache *services.PlayerCacheService
	rules       draft.ScoringRules
	logger      *logrus.Logger
}

func NewPlayerHandler(playerCache *services.PlayerCacheService, rules draft.ScoringRules, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		playerCache: playerCache,
		rules:       rules,
		logger:      logger,
	}
}

// PlayerDetailResponse pairs a scored record with the per-category
// breakdown of its most recent season.
type PlayerDetailResponse struct {
	Player    draft.PlayerRecord   `json:"player"`
	Breakdown draft.ScoreBreakdown `json:"score_breakdown"`
}

// PlayerListResponse is the filtered board for list queries.
type PlayerListResponse struct {
	SeasonYear   int                    `json:"season_year"`
	Count        int                    `json:"count"`
	Players      []draft.Recommendation `json:"players"`
	DegradedData bool                   `json:"degraded_data,omitempty"`
}

// ListPlayers returns the ranked board filtered by the query parameters.
// GET /api/v1/players?season=2025&position=RB&team=SF&search=mccaffrey
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	season, ok := parseSeasonQuery(c)
	if !ok {
		return
	}

	position, ok := parsePositionQuery(c)
	if !ok {
		return
	}
	team := strings.ToUpper(strings.TrimSpace(c.Query("team")))
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	data, err := h.playerCache.GetOrPopulate(c.Request.Context(), season)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	players := make([]draft.Recommendation, 0)
	for _, entry := range draft.RankAll(data.Records) {
		if position != "" && entry.Position != position {
			continue
		}
		if team != "" && strings.ToUpper(entry.Team) != team {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(entry.Name), search) {
			continue
		}
		players = append(players, entry)
	}

	utils.SendSuccess(c, PlayerListResponse{
		SeasonYear:   data.SeasonYear,
		Count:        len(players),
		Players:      players,
		DegradedData: data.Degraded,
	})
}

// GetPlayer returns a single player's scored record by name, with the
// scoring breakdown of the latest season. Matching is case-insensitive.
// GET /api/v1/players/:name?season=2025
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		utils.SendValidationError(c, "Invalid player name", "name must not be empty")
		return
	}

	season, ok := parseSeasonQuery(c)
	if !ok {
		return
	}

	record, err := h.playerCache.GetPlayer(c.Request.Context(), name, season)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	var latest draft.SeasonStats
	if len(record.Seasons) > 0 {
		latest = record.Seasons[0]
	}

	utils.SendSuccess(c, PlayerDetailResponse{
		Player:    record,
		Breakdown: draft.CalculateBreakdown(h.rules, latest),
	})
}

// parseSeasonQuery reads the optional season query parameter. Zero means
// "current season" and is resolved downstream. Writes the error response
// itself so callers can just return.
func parseSeasonQuery(c *gin.Context) (int, bool) {
	seasonStr := c.DefaultQuery("season", "0")
	season, err := strconv.Atoi(seasonStr)
	if err != nil || season < 0 {
		utils.SendValidationError(c, "Invalid season", "season must be a four-digit year")
		return 0, false
	}
	if season != 0 && (season < 2000 || season > 2100) {
		utils.SendValidationError(c, "Invalid season", "season out of range")
		return 0, false
	}
	return season, true
}

func parsePositionQuery(c *gin.Context) (draft.Position, bool) {
	raw := strings.ToUpper(strings.TrimSpace(c.Query("position")))
	if raw == "" {
		return "", true
	}
	switch position := draft.Position(raw); position {
	case draft.PositionQB, draft.PositionRB, draft.PositionWR, draft.PositionTE, draft.PositionK, draft.PositionDEF:
		return position, true
	default:
		utils.SendValidationError(c, "Invalid position", "position must be one of QB, RB, WR, TE, K, DEF")
		return "", false
	}
}
