package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

// stubProvider is a scriptable StatProvider shared by the service tests.
type stubProvider struct {
	mu      sync.Mutex
	name    string
	players []draft.PlayerSeasonData
	err     error
	delay   func()
	calls   int
}

func (p *stubProvider) Name() string {
	if p.name == "" {
		return "stub"
	}
	return p.name
}

func (p *stubProvider) FetchPlayers(_ context.Context, _ int) ([]draft.PlayerSeasonData, error) {
	p.mu.Lock()
	p.calls++
	players, err, delay := p.players, p.err, p.delay
	p.mu.Unlock()

	if delay != nil {
		delay()
	}
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *stubProvider) set(players []draft.PlayerSeasonData, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.players = players
	p.err = err
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func stubRoster(names ...string) []draft.PlayerSeasonData {
	players := make([]draft.PlayerSeasonData, 0, len(names))
	for i, name := range names {
		players = append(players, draft.PlayerSeasonData{
			Name:     name,
			Team:     "KC",
			Position: draft.PositionRB,
			Seasons: []draft.SeasonStats{{
				SeasonYear:   2025,
				GamesPlayed:  17,
				RushingYards: float64(800 + i*100),
				RushingTDs:   float64(5 + i),
				Receptions:   float64(30 + i),
			}},
		})
	}
	return players
}

// TestCollectPrimarySuccess tests the healthy path: primary serves, fallback
// stays untouched, degraded stays false
func TestCollectPrimarySuccess(t *testing.T) {
	primary := &stubProvider{name: "primary", players: stubRoster("Alpha", "Bravo")}
	fallback := &stubProvider{name: "fallback", players: stubRoster("Sample")}
	collector := NewCollectorService(primary, fallback, 3, testLogger())

	players, degraded, err := collector.Collect(context.Background(), 2025)
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Len(t, players, 2)
	assert.Equal(t, 1, primary.callCount())
	assert.Equal(t, 0, fallback.callCount())
	assert.True(t, collector.IsHealthy())
}

// TestCollectFallback tests that primary failure flips degraded and serves
// the fallback dataset
func TestCollectFallback(t *testing.T) {
	primary := &stubProvider{name: "primary", err: fmt.Errorf("connection refused")}
	fallback := &stubProvider{name: "fallback", players: stubRoster("Sample One", "Sample Two")}
	collector := NewCollectorService(primary, fallback, 3, testLogger())

	players, degraded, err := collector.Collect(context.Background(), 2025)
	require.NoError(t, err)
	assert.True(t, degraded, "fallback data must be flagged degraded")
	assert.Len(t, players, 2)
	assert.Equal(t, 1, fallback.callCount())
}

// TestCollectEmptyPrimaryIsFailure tests that an empty primary result is
// treated like an outage, not an answer
func TestCollectEmptyPrimaryIsFailure(t *testing.T) {
	primary := &stubProvider{name: "primary", players: nil}
	fallback := &stubProvider{name: "fallback", players: stubRoster("Sample")}
	collector := NewCollectorService(primary, fallback, 3, testLogger())

	players, degraded, err := collector.Collect(context.Background(), 2025)
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Len(t, players, 1)
}

// TestCollectBothFail tests the hard-failure path
func TestCollectBothFail(t *testing.T) {
	primary := &stubProvider{name: "primary", err: fmt.Errorf("primary down")}
	fallback := &stubProvider{name: "fallback", err: fmt.Errorf("fallback broken")}
	collector := NewCollectorService(primary, fallback, 3, testLogger())

	_, _, err := collector.Collect(context.Background(), 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary down")
}

// TestCollectNoFallback tests failure without a fallback configured
func TestCollectNoFallback(t *testing.T) {
	primary := &stubProvider{name: "primary", err: fmt.Errorf("primary down")}
	collector := NewCollectorService(primary, nil, 3, testLogger())

	_, _, err := collector.Collect(context.Background(), 2025)
	require.Error(t, err)
}

// TestCollectCircuitBreakerOpens tests that repeated primary failures stop
// reaching the provider while the fallback keeps serving
func TestCollectCircuitBreakerOpens(t *testing.T) {
	primary := &stubProvider{name: "primary", err: fmt.Errorf("primary down")}
	fallback := &stubProvider{name: "fallback", players: stubRoster("Sample")}
	collector := NewCollectorService(primary, fallback, 1, testLogger())

	// threshold 1 trips after the second consecutive failure
	for i := 0; i < 4; i++ {
		players, degraded, err := collector.Collect(context.Background(), 2025)
		require.NoError(t, err)
		assert.True(t, degraded)
		assert.Len(t, players, 1)
	}

	assert.Equal(t, 2, primary.callCount(), "open breaker must stop hitting the primary")
	assert.False(t, collector.IsHealthy())
	assert.Equal(t, "open", collector.CircuitState())
}
