package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

const analysisSystemPrompt = `You are a fantasy football draft analyst. Given the draft state and the top recommended players, write a short strategy note: which position to target now, which recommended player is the best value, and what to plan for in the next round. Two or three sentences, no preamble.`

// maxAnalysisPlayers caps how many recommendations go into the prompt.
const maxAnalysisPlayers = 10

// AnalysisService produces the optional AI strategy note attached to premium
// recommendation responses. It is strictly best-effort: any failure returns
// an empty note, never an error, so the recommendation path cannot be
// blocked by the AI provider.
type AnalysisService struct {
	client  *ClaudeClient
	timeout time.Duration
	logger  *logrus.Logger
}

func NewAnalysisService(client *ClaudeClient, timeout time.Duration, logger *logrus.Logger) *AnalysisService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AnalysisService{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// AnalyzeDraftBoard returns a strategy note for premium users, or an empty
// string for everyone else and for any failure.
func (s *AnalysisService) AnalyzeDraftBoard(ctx context.Context, premium bool, draftCtx draft.DraftContext, recommendations []draft.Recommendation, draftedCount int) string {
	if !premium || s.client == nil || !s.client.Configured() {
		return ""
	}
	if len(recommendations) == 0 {
		return ""
	}

	analysisCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := s.buildPrompt(draftCtx, recommendations, draftedCount)
	note, err := s.client.GenerateText(analysisCtx, prompt, analysisSystemPrompt)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"round": draftCtx.RoundNumber,
			"pick":  draftCtx.CurrentPick,
		}).Warn("Draft analysis unavailable")
		return ""
	}
	return note
}

func (s *AnalysisService) buildPrompt(draftCtx draft.DraftContext, recommendations []draft.Recommendation, draftedCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Draft state: %d-team league, drafting from slot %d.\n", draftCtx.NumTeams, draftCtx.DraftPosition)
	fmt.Fprintf(&b, "Round %d, overall pick %d. %d players are already off the board.\n\n", draftCtx.RoundNumber, draftCtx.CurrentPick, draftedCount)
	b.WriteString("Top available players by projection:\n")

	limit := len(recommendations)
	if limit > maxAnalysisPlayers {
		limit = maxAnalysisPlayers
	}
	for i := 0; i < limit; i++ {
		rec := recommendations[i]
		fmt.Fprintf(&b, "%d. %s (%s, %s) - projected %.1f, last season %.1f, %s%d\n",
			i+1, rec.Name, rec.Position, rec.Team, rec.PredictedPoints, rec.FantasyPoints, rec.Position, rec.PositionRank)
	}

	return b.String()
}
