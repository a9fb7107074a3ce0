package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

// fakeClaude returns a Messages API stub that replies with the given text
// after an optional delay, counting requests and capturing the last prompt.
func fakeClaude(text string, delay time.Duration, hits *int64, lastPrompt *atomic.Value) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)

		if lastPrompt != nil {
			body, _ := io.ReadAll(r.Body)
			var req ClaudeRequest
			if json.Unmarshal(body, &req) == nil && len(req.Messages) > 0 {
				lastPrompt.Store(req.Messages[0].Content)
			}
		}

		if delay > 0 {
			time.Sleep(delay)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ClaudeResponse{
			ID:         "msg_test",
			Type:       "message",
			Role:       "assistant",
			Content:    []ClaudeContentBlock{{Type: "text", Text: text}},
			StopReason: "end_turn",
			Usage:      ClaudeUsage{InputTokens: 200, OutputTokens: 60},
		})
	}))
}

func analysisFixtures() (draft.DraftContext, []draft.Recommendation) {
	draftCtx := draft.DraftContext{
		NumTeams:      12,
		DraftPosition: 5,
		PicksMade:     12,
		RoundNumber:   2,
		PickInRound:   8,
		CurrentPick:   20,
	}
	recs := []draft.Recommendation{
		{Name: "Bijan Robinson", Team: "ATL", Position: draft.PositionRB, FantasyPoints: 280.5, PredictedPoints: 295.0, PositionRank: 1},
		{Name: "CeeDee Lamb", Team: "DAL", Position: draft.PositionWR, FantasyPoints: 310.2, PredictedPoints: 290.4, PositionRank: 1},
	}
	return draftCtx, recs
}

// TestAnalyzeDraftBoardPremium tests the happy path and the prompt contents
func TestAnalyzeDraftBoardPremium(t *testing.T) {
	var hits int64
	var lastPrompt atomic.Value
	server := fakeClaude("Lock in Bijan Robinson here.", 0, &hits, &lastPrompt)
	defer server.Close()

	client := NewClaudeClient("test-key", "", 0, testLogger())
	client.baseURL = server.URL
	svc := NewAnalysisService(client, 5*time.Second, testLogger())

	draftCtx, recs := analysisFixtures()
	note := svc.AnalyzeDraftBoard(context.Background(), true, draftCtx, recs, 12)

	assert.Equal(t, "Lock in Bijan Robinson here.", note)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))

	prompt, ok := lastPrompt.Load().(string)
	require.True(t, ok)
	assert.Contains(t, prompt, "Round 2, overall pick 20")
	assert.Contains(t, prompt, "12 players are already off the board")
	assert.Contains(t, prompt, "Bijan Robinson")
	assert.Contains(t, prompt, "RB1")
}

// TestAnalyzeDraftBoardFreeTier tests that free users never reach the API
func TestAnalyzeDraftBoardFreeTier(t *testing.T) {
	var hits int64
	server := fakeClaude("should never be seen", 0, &hits, nil)
	defer server.Close()

	client := NewClaudeClient("test-key", "", 0, testLogger())
	client.baseURL = server.URL
	svc := NewAnalysisService(client, 5*time.Second, testLogger())

	draftCtx, recs := analysisFixtures()
	note := svc.AnalyzeDraftBoard(context.Background(), false, draftCtx, recs, 12)

	assert.Empty(t, note)
	assert.Zero(t, atomic.LoadInt64(&hits))
}

// TestAnalyzeDraftBoardTimeout tests that a slow API degrades to no note
// instead of stalling the response
func TestAnalyzeDraftBoardTimeout(t *testing.T) {
	var hits int64
	server := fakeClaude("too slow", 300*time.Millisecond, &hits, nil)
	defer server.Close()

	client := NewClaudeClient("test-key", "", 0, testLogger())
	client.baseURL = server.URL
	svc := NewAnalysisService(client, 50*time.Millisecond, testLogger())

	draftCtx, recs := analysisFixtures()
	start := time.Now()
	note := svc.AnalyzeDraftBoard(context.Background(), true, draftCtx, recs, 12)

	assert.Empty(t, note)
	assert.Less(t, time.Since(start), 250*time.Millisecond, "analysis must respect its deadline")
}

// TestAnalyzeDraftBoardUnconfigured tests skipping without an API key or
// without a client at all
func TestAnalyzeDraftBoardUnconfigured(t *testing.T) {
	draftCtx, recs := analysisFixtures()

	svc := NewAnalysisService(NewClaudeClient("", "", 0, testLogger()), time.Second, testLogger())
	assert.Empty(t, svc.AnalyzeDraftBoard(context.Background(), true, draftCtx, recs, 12))

	svc = NewAnalysisService(nil, time.Second, testLogger())
	assert.Empty(t, svc.AnalyzeDraftBoard(context.Background(), true, draftCtx, recs, 12))
}

// TestAnalyzeDraftBoardNoRecommendations tests the empty-board guard
func TestAnalyzeDraftBoardNoRecommendations(t *testing.T) {
	var hits int64
	server := fakeClaude("nothing to say", 0, &hits, nil)
	defer server.Close()

	client := NewClaudeClient("test-key", "", 0, testLogger())
	client.baseURL = server.URL
	svc := NewAnalysisService(client, time.Second, testLogger())

	draftCtx, _ := analysisFixtures()
	assert.Empty(t, svc.AnalyzeDraftBoard(context.Background(), true, draftCtx, nil, 0))
	assert.Zero(t, atomic.LoadInt64(&hits))
}

// TestGenerateTextAPIError tests that server errors surface as errors after
// retries
func TestGenerateTextAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"type":"error","message":"overloaded"}`))
	}))
	defer server.Close()

	client := NewClaudeClient("test-key", "", 0, testLogger())
	client.baseURL = server.URL
	client.retryAttempts = 0

	_, err := client.GenerateText(context.Background(), "prompt", "system")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
}
