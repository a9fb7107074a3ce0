package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

// ScoringHandler publishes the scoring settings behind every computed total
// so clients can show users how a number was reached.
type ScoringHandler struct {
	rules       draft.ScoringRules
	targetGames int
}

func NewScoringHandler(rules draft.ScoringRules, targetGames int) *ScoringHandler {
	return &ScoringHandler{
		rules:       rules,
		targetGames: targetGames,
	}
}

// ScoringCategory is one scored stat explained in plain words.
type ScoringCategory struct {
	Category string `json:"category"`
	Detail   string `json:"detail"`
}

// ScoringRulesResponse carries the active rules plus a readable summary.
type ScoringRulesResponse struct {
	Rules       draft.ScoringRules `json:"rules"`
	TargetGames int                `json:"target_games"`
	Categories  []ScoringCategory  `json:"categories"`
}

// GetScoringRules returns the scoring settings used by the calculator.
// GET /api/v1/scoring
func (h *ScoringHandler) GetScoringRules(c *gin.Context) {
	utils.SendSuccess(c, ScoringRulesResponse{
		Rules:       h.rules,
		TargetGames: h.targetGames,
		Categories:  describeRules(h.rules),
	})
}

// describeRules renders each coefficient from the live rules so the summary
// can never drift from what the calculator actually awards.
func describeRules(r draft.ScoringRules) []ScoringCategory {
	return []ScoringCategory{
		{Category: "Passing yards", Detail: fmt.Sprintf("1 point per %.0f yards", r.PassingYardsPerPoint)},
		{Category: "Passing touchdowns", Detail: fmt.Sprintf("%.0f points each", r.PassingTD)},
		{Category: "Interceptions", Detail: fmt.Sprintf("%.0f points each", r.Interception)},
		{Category: "Rushing yards", Detail: fmt.Sprintf("1 point per %.0f yards", r.RushingYardsPerPoint)},
		{Category: "Rushing touchdowns", Detail: fmt.Sprintf("%.0f points each", r.RushingTD)},
		{Category: "Receptions", Detail: fmt.Sprintf("%.1f points each", r.Reception)},
		{Category: "Receiving yards", Detail: fmt.Sprintf("1 point per %.0f yards", r.ReceivingYardsPerPoint)},
		{Category: "Receiving touchdowns", Detail: fmt.Sprintf("%.0f points each", r.ReceivingTD)},
		{Category: "Return touchdowns", Detail: fmt.Sprintf("%.0f points each", r.ReturnTD)},
		{Category: "Two-point conversions", Detail: fmt.Sprintf("%.0f points each", r.TwoPointConversion)},
		{Category: "Fumbles lost", Detail: fmt.Sprintf("%.0f points each", r.FumbleLost)},
		{Category: "300-399 passing yard games", Detail: fmt.Sprintf("%.0f point bonus per qualifying game", r.Passing300Bonus)},
		{Category: "400+ passing yard games", Detail: fmt.Sprintf("%.0f point bonus per qualifying game", r.Passing400Bonus)},
		{Category: "100-199 rushing yard games", Detail: fmt.Sprintf("%.0f point bonus per qualifying game", r.Rushing100Bonus)},
		{Category: "200+ rushing yard games", Detail: fmt.Sprintf("%.0f point bonus per qualifying game", r.Rushing200Bonus)},
		{Category: "100-199 receiving yard games", Detail: fmt.Sprintf("%.0f point bonus per qualifying game", r.Receiving100Bonus)},
		{Category: "200+ receiving yard games", Detail: fmt.Sprintf("%.0f point bonus per qualifying game", r.Receiving200Bonus)},
	}
}
