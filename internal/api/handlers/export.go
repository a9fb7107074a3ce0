package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/services"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

// ExportHandler renders the projected board in spreadsheet-friendly form for
// drafters who want a printed cheat sheet.
type ExportHandler struct {
	recommendations *services.RecommendationService
	logger          *logrus.Logger
}

func NewExportHandler(recommendations *services.RecommendationService, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{
		recommendations: recommendations,
		logger:          logger,
	}
}

// ExportPredictions streams the full projected board as a CSV cheat sheet.
// GET /api/v1/predictions/export?season=2025
func (h *ExportHandler) ExportPredictions(c *gin.Context) {
	season, ok := parseSeasonQuery(c)
	if !ok {
		return
	}

	response, err := h.recommendations.Predictions(c.Request.Context(), season)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	data, err := buildBoardCSV(response)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render predictions CSV")
		utils.SendInternalError(c, "Failed to render CSV")
		return
	}

	filename := fmt.Sprintf("draft-board-%d.csv", response.SeasonYear)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

func buildBoardCSV(response *services.PredictionsResponse) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"overall_rank", "name", "team", "position", "position_rank", "last_season_points", "projected_points"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, player := range response.Players {
		row := []string{
			strconv.Itoa(i + 1),
			player.Name,
			player.Team,
			string(player.Position),
			strconv.Itoa(player.PositionRank),
			strconv.FormatFloat(player.FantasyPoints, 'f', 2, 64),
			strconv.FormatFloat(player.PredictedPoints, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", player.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("csv writer error: %w", err)
	}
	return buf.Bytes(), nil
}
