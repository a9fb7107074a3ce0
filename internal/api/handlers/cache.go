package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/services"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

type CacheHandler struct {
	playerCache   *services.PlayerCacheService
	refresher     *services.RefresherService
	defaultSeason int
	logger        *logrus.Logger
}

func NewCacheHandler(playerCache *services.PlayerCacheService, refresher *services.RefresherService, defaultSeason int, logger *logrus.Logger) *CacheHandler {
	return &CacheHandler{
		playerCache:   playerCache,
		refresher:     refresher,
		defaultSeason: defaultSeason,
		logger:        logger,
	}
}

type invalidateRequest struct {
	SeasonYear int `json:"season_year"`
}

// InvalidateCache drops both cache tiers for a season and kicks off a
// background repopulation.
func (h *CacheHandler) InvalidateCache(c *gin.Context) {
	var req invalidateRequest
	// An empty body means the current season.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	seasonYear := req.SeasonYear
	if seasonYear == 0 {
		seasonYear = h.defaultSeason
	}
	if seasonYear < 2000 || seasonYear > 2100 {
		utils.SendValidationError(c, "Invalid season", "season_year out of range")
		return
	}

	if err := h.playerCache.Invalidate(c.Request.Context(), seasonYear); err != nil {
		respondDraftError(c, err)
		return
	}

	if h.refresher != nil {
		h.refresher.RefreshOnDemand(seasonYear)
	}

	utils.SendSuccess(c, gin.H{"invalidated_season": seasonYear})
}
