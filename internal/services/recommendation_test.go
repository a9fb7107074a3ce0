package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

// boardRoster is a small board with name collisions and one exact-value
// scoring anchor (25 passing yards is exactly one fantasy point).
func boardRoster() []draft.PlayerSeasonData {
	qb := func(name, team string, yards float64) draft.PlayerSeasonData {
		return draft.PlayerSeasonData{
			Name: name, Team: team, Position: draft.PositionQB,
			Seasons: []draft.SeasonStats{{SeasonYear: 2025, GamesPlayed: 17, PassingYards: yards, PassingTDs: 30}},
		}
	}
	return []draft.PlayerSeasonData{
		qb("Josh Allen", "BUF", 4300),
		qb("Patrick Mahomes", "KC", 4100),
		{
			Name: "Keenan Allen", Team: "CHI", Position: draft.PositionWR,
			Seasons: []draft.SeasonStats{{SeasonYear: 2025, GamesPlayed: 16, ReceivingYards: 1200, ReceivingTDs: 7, Receptions: 100}},
		},
		{
			Name: "Bijan Robinson", Team: "ATL", Position: draft.PositionRB,
			Seasons: []draft.SeasonStats{{SeasonYear: 2025, GamesPlayed: 17, RushingYards: 1450, RushingTDs: 14, Receptions: 58, ReceivingYards: 480}},
		},
		{
			Name: "Travis Kelce", Team: "KC", Position: draft.PositionTE,
			Seasons: []draft.SeasonStats{{SeasonYear: 2025, GamesPlayed: 16, ReceivingYards: 980, ReceivingTDs: 6, Receptions: 93}},
		},
		{
			Name: "Anchor Passer", Team: "FA", Position: draft.PositionQB,
			Seasons: []draft.SeasonStats{{SeasonYear: 2025, GamesPlayed: 17, PassingYards: 25}},
		},
	}
}

// newRecommendationStack wires the full pipeline against fakes: stub stat
// provider, in-memory tiers, fake Supabase, fake Claude.
func newRecommendationStack(t *testing.T, roster []draft.PlayerSeasonData, premiumUsers map[string]string, claudeDelay time.Duration, claudeHits *int64) (*RecommendationService, *SessionService, *stubProvider) {
	t.Helper()

	db := testDB(t)
	primary := &stubProvider{players: roster}
	collector := NewCollectorService(primary, nil, 3, testLogger())
	playerCache := newPlayerCache(t, db, collector, time.Hour)
	sessions := NewSessionService(db, testLogger())

	var supaHits int64
	supabase := fakeSupabase(t, premiumUsers, nil, &supaHits)
	t.Cleanup(supabase.Close)
	subscriptions := NewSubscriptionService(supabase.URL, "service-key", NewCacheService(nil), time.Minute, testLogger())

	claude := fakeClaude("Best value on the board right now.", claudeDelay, claudeHits, nil)
	t.Cleanup(claude.Close)
	client := NewClaudeClient("test-key", "", 0, testLogger())
	client.baseURL = claude.URL
	analysis := NewAnalysisService(client, 100*time.Millisecond, testLogger())

	svc := NewRecommendationService(playerCache, sessions, subscriptions, analysis, 2025, testLogger())
	return svc, sessions, primary
}

// TestRecommendOpeningPick tests the round-one board for an untouched draft
func TestRecommendOpeningPick(t *testing.T) {
	var claudeHits int64
	svc, _, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)

	resp, err := svc.Recommend(context.Background(), "", RecommendationRequest{
		NumTeams:      12,
		DraftPosition: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.DraftContext.RoundNumber)
	assert.Equal(t, 5, resp.DraftContext.PickInRound)
	assert.Equal(t, 5, resp.DraftContext.CurrentPick)
	assert.Equal(t, 2025, resp.SeasonYear)
	assert.False(t, resp.DegradedData)
	assert.Empty(t, resp.Analysis)
	assert.Empty(t, resp.SessionID, "anonymous callers get no session")
	require.Len(t, resp.Recommendations, 6)

	// Ranked by projection, best first.
	for i := 1; i < len(resp.Recommendations); i++ {
		assert.GreaterOrEqual(t,
			resp.Recommendations[i-1].PredictedPoints,
			resp.Recommendations[i].PredictedPoints)
	}

	// The scoring anchor comes through the whole pipeline intact.
	var anchor *draft.Recommendation
	for i := range resp.Recommendations {
		if resp.Recommendations[i].Name == "Anchor Passer" {
			anchor = &resp.Recommendations[i]
		}
	}
	require.NotNil(t, anchor)
	assert.Equal(t, 1.0, anchor.FantasyPoints)
}

// TestRecommendAfterFullRound tests the snake turnaround after twelve picks
func TestRecommendAfterFullRound(t *testing.T) {
	var claudeHits int64
	svc, _, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)

	drafted := make([]string, 12)
	for i := range drafted {
		drafted[i] = uuid.NewString()
	}

	resp, err := svc.Recommend(context.Background(), "", RecommendationRequest{
		NumTeams:       12,
		DraftPosition:  5,
		DraftedPlayers: drafted,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.DraftContext.RoundNumber)
	assert.Equal(t, 8, resp.DraftContext.PickInRound)
	assert.Equal(t, 20, resp.DraftContext.CurrentPick)
	assert.Equal(t, 12, resp.DraftContext.PicksMade)
}

// TestRecommendExcludesDrafted tests that drafted names, including partial
// matches, never appear on the board
func TestRecommendExcludesDrafted(t *testing.T) {
	var claudeHits int64
	svc, _, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)

	resp, err := svc.Recommend(context.Background(), "", RecommendationRequest{
		NumTeams:       12,
		DraftPosition:  5,
		DraftedPlayers: []string{"patrick MAHOMES", "Allen"},
	})
	require.NoError(t, err)

	names := make([]string, 0, len(resp.Recommendations))
	for _, rec := range resp.Recommendations {
		names = append(names, rec.Name)
	}
	assert.NotContains(t, names, "Patrick Mahomes")
	// "Allen" knocks out every name containing it.
	assert.NotContains(t, names, "Josh Allen")
	assert.NotContains(t, names, "Keenan Allen")
	assert.Contains(t, names, "Bijan Robinson")
	assert.Contains(t, names, "Travis Kelce")
}

// TestRecommendLimit tests the board size cap
func TestRecommendLimit(t *testing.T) {
	var claudeHits int64
	svc, _, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)

	resp, err := svc.Recommend(context.Background(), "", RecommendationRequest{
		NumTeams:      12,
		DraftPosition: 5,
		Limit:         2,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Recommendations, 2)
}

// TestRecommendSessionMerge tests that a session's picks combine with inline
// names for one request without being persisted
func TestRecommendSessionMerge(t *testing.T) {
	var claudeHits int64
	svc, sessions, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)
	userID := uuid.NewString()

	session, err := sessions.CreateSession(context.Background(), userID, CreateSessionInput{
		NumTeams:      12,
		DraftPosition: 5,
	}, 2025)
	require.NoError(t, err)
	_, _, err = sessions.RecordPicks(context.Background(), userID, session.ID, []string{"Josh Allen", "Bijan Robinson"})
	require.NoError(t, err)

	resp, err := svc.Recommend(context.Background(), userID, RecommendationRequest{
		SessionID:      session.ID,
		DraftedPlayers: []string{"bijan robinson", "Travis Kelce"},
	})
	require.NoError(t, err)

	// Two session picks plus one distinct inline name.
	assert.Equal(t, 3, resp.DraftContext.PicksMade)
	assert.Equal(t, 12, resp.DraftContext.NumTeams)
	assert.Equal(t, 5, resp.DraftContext.DraftPosition)
	assert.Equal(t, session.ID, resp.SessionID)

	names := make([]string, 0, len(resp.Recommendations))
	for _, rec := range resp.Recommendations {
		names = append(names, rec.Name)
	}
	assert.NotContains(t, names, "Josh Allen")
	assert.NotContains(t, names, "Bijan Robinson")
	assert.NotContains(t, names, "Travis Kelce")

	// The inline names were for this response only.
	reloaded, err := sessions.GetSession(context.Background(), userID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.PicksMade())
}

// TestRecommendSessionNotFound tests the unknown-session path
func TestRecommendSessionNotFound(t *testing.T) {
	var claudeHits int64
	svc, _, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)

	_, err := svc.Recommend(context.Background(), uuid.NewString(), RecommendationRequest{
		SessionID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

// TestRecommendAutoCreatesSession tests that an authenticated caller without
// a session gets one started and seeded with the submitted names
func TestRecommendAutoCreatesSession(t *testing.T) {
	var claudeHits int64
	svc, sessions, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)
	userID := uuid.NewString()

	resp, err := svc.Recommend(context.Background(), userID, RecommendationRequest{
		NumTeams:       12,
		DraftPosition:  5,
		DraftedPlayers: []string{"Josh Allen", "josh allen", "Travis Kelce"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)

	session, err := sessions.GetSession(context.Background(), userID, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 12, session.NumTeams)
	assert.Equal(t, 5, session.DraftPosition)
	assert.Equal(t, 2025, session.SeasonYear)
	assert.Equal(t, 2, session.PicksMade())

	// Passing the session back reuses it instead of creating another.
	resp, err = svc.Recommend(context.Background(), userID, RecommendationRequest{
		SessionID: resp.SessionID,
	})
	require.NoError(t, err)
	assert.Equal(t, session.ID, resp.SessionID)

	list, err := sessions.ListSessions(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// TestRecommendValidation tests league bounds on the inline path
func TestRecommendValidation(t *testing.T) {
	var claudeHits int64
	svc, _, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)

	_, err := svc.Recommend(context.Background(), "", RecommendationRequest{
		NumTeams:      1,
		DraftPosition: 1,
	})
	var valErr *draft.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "num_teams", valErr.Field)
}

// TestRecommendPremiumAnalysis tests that premium users get the note and
// free users do not
func TestRecommendPremiumAnalysis(t *testing.T) {
	var claudeHits int64
	premium := uuid.NewString()
	free := uuid.NewString()
	svc, _, _ := newRecommendationStack(t, boardRoster(), map[string]string{premium: TierPremium}, 0, &claudeHits)

	resp, err := svc.Recommend(context.Background(), premium, RecommendationRequest{
		NumTeams:      12,
		DraftPosition: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Best value on the board right now.", resp.Analysis)
	assert.Equal(t, int64(1), atomic.LoadInt64(&claudeHits))

	resp, err = svc.Recommend(context.Background(), free, RecommendationRequest{
		NumTeams:      12,
		DraftPosition: 5,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Analysis)
	assert.Equal(t, int64(1), atomic.LoadInt64(&claudeHits), "free tier must not call the AI provider")
}

// TestRecommendAnalysisTimeoutStillServes tests that a stalled AI provider
// costs the note, never the board
func TestRecommendAnalysisTimeoutStillServes(t *testing.T) {
	var claudeHits int64
	premium := uuid.NewString()
	svc, _, _ := newRecommendationStack(t, boardRoster(), map[string]string{premium: TierPremium}, 500*time.Millisecond, &claudeHits)

	resp, err := svc.Recommend(context.Background(), premium, RecommendationRequest{
		NumTeams:      12,
		DraftPosition: 5,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Analysis)
	assert.NotEmpty(t, resp.Recommendations, "board must survive an AI timeout")
}

// TestRecommendDegradedData tests that fallback-sourced boards are flagged
func TestRecommendDegradedData(t *testing.T) {
	db := testDB(t)
	primary := &stubProvider{name: "primary", err: assert.AnError}
	fallback := &stubProvider{name: "fallback", players: boardRoster()}
	collector := NewCollectorService(primary, fallback, 3, testLogger())
	playerCache := newPlayerCache(t, db, collector, time.Hour)
	svc := NewRecommendationService(playerCache, NewSessionService(db, testLogger()), nil, nil, 2025, testLogger())

	resp, err := svc.Recommend(context.Background(), "", RecommendationRequest{
		NumTeams:      12,
		DraftPosition: 5,
	})
	require.NoError(t, err)
	assert.True(t, resp.DegradedData)
	assert.NotEmpty(t, resp.Recommendations)
}

// TestPredictionsRankedBoard tests the full projected board ordering and
// per-position ranks
func TestPredictionsRankedBoard(t *testing.T) {
	var claudeHits int64
	svc, _, _ := newRecommendationStack(t, boardRoster(), nil, 0, &claudeHits)

	resp, err := svc.Predictions(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, resp.SeasonYear)
	require.Len(t, resp.Players, 6)

	for i := 1; i < len(resp.Players); i++ {
		assert.GreaterOrEqual(t, resp.Players[i-1].PredictedPoints, resp.Players[i].PredictedPoints)
	}

	// Position ranks count within each position in board order.
	qbRank := 0
	for _, p := range resp.Players {
		if p.Position == draft.PositionQB {
			qbRank++
			assert.Equal(t, qbRank, p.PositionRank, p.Name)
		}
	}
}
