package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

// RecommendationRequest is the draft state a caller submits. Either the
// inline fields or a session ID describe the draft; when both are present
// the session is the base and inline drafted players are merged in for this
// request only.
type RecommendationRequest struct {
	NumTeams       int      `json:"num_teams"`
	DraftPosition  int      `json:"draft_position"`
	DraftedPlayers []string `json:"already_drafted"`
	SessionID      string   `json:"session_id,omitempty"`
	SeasonYear     int      `json:"season_year,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

// RecommendationResponse carries the ranked board plus the resolved draft
// position, with the context fields (round_number, pick_in_round,
// current_pick) flattened into the envelope. SessionID echoes the session
// used, including one created on the caller's behalf. DegradedData warns
// that the fallback dataset or stale records produced the numbers. Analysis
// is present only for premium users when the AI provider answered in time.
type RecommendationResponse struct {
	Recommendations []draft.Recommendation `json:"recommendations"`
	draft.DraftContext
	SessionID    string `json:"session_id,omitempty"`
	SeasonYear   int    `json:"season_year"`
	DegradedData bool   `json:"degraded_data,omitempty"`
	Analysis     string `json:"analysis,omitempty"`
}

// PredictionsResponse is the full projected board for a season.
type PredictionsResponse struct {
	SeasonYear   int                    `json:"season_year"`
	Players      []draft.Recommendation `json:"players"`
	DegradedData bool                   `json:"degraded_data,omitempty"`
}

// RecommendationService runs the full pipeline: resolve the snake position,
// pull scored records from the cache, rank what is left on the board, and
// attach the premium analysis note.
type RecommendationService struct {
	playerCache   *PlayerCacheService
	sessions      *SessionService
	subscriptions *SubscriptionService
	analysis      *AnalysisService
	currentSeason int
	logger        *logrus.Logger
}

func NewRecommendationService(
	playerCache *PlayerCacheService,
	sessions *SessionService,
	subscriptions *SubscriptionService,
	analysis *AnalysisService,
	currentSeason int,
	logger *logrus.Logger,
) *RecommendationService {
	return &RecommendationService{
		playerCache:   playerCache,
		sessions:      sessions,
		subscriptions: subscriptions,
		analysis:      analysis,
		currentSeason: currentSeason,
		logger:        logger,
	}
}

// Recommend produces the ranked draft board for the request's draft state.
// userID may be empty for anonymous callers; they get the free-tier board.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, req RecommendationRequest) (*RecommendationResponse, error) {
	numTeams := req.NumTeams
	draftPosition := req.DraftPosition
	seasonYear := req.SeasonYear
	drafted := req.DraftedPlayers
	sessionID := req.SessionID

	if sessionID != "" {
		session, err := s.sessions.GetSession(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}
		numTeams = session.NumTeams
		draftPosition = session.DraftPosition
		if seasonYear == 0 {
			seasonYear = session.SeasonYear
		}
		// Inline names are merged for this response only, never persisted.
		drafted = append(append([]string{}, session.DraftedPlayers...), req.DraftedPlayers...)
	}
	if seasonYear == 0 {
		seasonYear = s.currentSeason
	}

	draftCtx, err := draft.ResolveContext(numTeams, draftPosition, countDrafted(drafted))
	if err != nil {
		return nil, err
	}

	// An authenticated caller without a session gets one started for them,
	// seeded with the names they already submitted. Anonymous callers have
	// no owner to scope a session to, so none is created.
	if sessionID == "" && userID != "" {
		session, err := s.sessions.CreateSession(ctx, userID, CreateSessionInput{
			NumTeams:      numTeams,
			DraftPosition: draftPosition,
			SeasonYear:    seasonYear,
		}, s.currentSeason)
		if err != nil {
			return nil, err
		}
		sessionID = session.ID
		if len(drafted) > 0 {
			if _, _, err := s.sessions.RecordPicks(ctx, userID, session.ID, drafted); err != nil {
				s.logger.WithError(err).WithField("session_id", session.ID).
					Warn("Failed to seed picks into new session")
			}
		}
	}

	data, err := s.playerCache.GetOrPopulate(ctx, seasonYear)
	if err != nil {
		return nil, err
	}

	recommendations := draft.RankPlayers(data.Records, drafted, req.Limit)

	response := &RecommendationResponse{
		Recommendations: recommendations,
		DraftContext:    draftCtx,
		SessionID:       sessionID,
		SeasonYear:      seasonYear,
		DegradedData:    data.Degraded,
	}

	if s.analysis != nil && s.subscriptions != nil {
		premium := s.subscriptions.IsPremium(ctx, userID)
		response.Analysis = s.analysis.AnalyzeDraftBoard(ctx, premium, draftCtx, recommendations, countDrafted(drafted))
	}

	s.logger.WithFields(logrus.Fields{
		"season_year":  seasonYear,
		"round":        draftCtx.RoundNumber,
		"current_pick": draftCtx.CurrentPick,
		"drafted":      countDrafted(drafted),
		"returned":     len(recommendations),
		"degraded":     data.Degraded,
	}).Info("Draft recommendations served")

	return response, nil
}

// Predictions returns every scored record for a season, ranked by projection.
func (s *RecommendationService) Predictions(ctx context.Context, seasonYear int) (*PredictionsResponse, error) {
	if seasonYear == 0 {
		seasonYear = s.currentSeason
	}

	data, err := s.playerCache.GetOrPopulate(ctx, seasonYear)
	if err != nil {
		return nil, err
	}

	return &PredictionsResponse{
		SeasonYear:   seasonYear,
		Players:      draft.RankAll(data.Records),
		DegradedData: data.Degraded,
	}, nil
}

// countDrafted counts distinct named players. Blanks and repeats do not
// advance the pick counter, which matters when a session's pick list is
// merged with inline names that overlap it.
func countDrafted(drafted []string) int {
	seen := make(map[string]struct{}, len(drafted))
	for _, name := range drafted {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}
	return len(seen)
}
