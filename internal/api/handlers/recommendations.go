package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/api/middleware"
	"github.com/kickoffkings/draft-engine/internal/services"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

type RecommendationHandler struct {
	recommendations *services.RecommendationService
	defaultLimit    int
	logger          *logrus.Logger
}

func NewRecommendationHandler(recommendations *services.RecommendationService, defaultLimit int, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		defaultLimit:    defaultLimit,
		logger:          logger,
	}
}

// GetRecommendations returns the ranked draft board for the submitted draft
// state. Anonymous callers are allowed; premium extras require a token.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	var req services.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Limit == 0 {
		req.Limit = h.defaultLimit
	}

	userID := middleware.GetUserID(c)
	response, err := h.recommendations.Recommend(c.Request.Context(), userID, req)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	utils.SendSuccess(c, response)
}

// GetPredictions returns the full projected board for a season.
func (h *RecommendationHandler) GetPredictions(c *gin.Context) {
	season, ok := parseSeasonQuery(c)
	if !ok {
		return
	}

	response, err := h.recommendations.Predictions(c.Request.Context(), season)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	utils.SendSuccess(c, response)
}
