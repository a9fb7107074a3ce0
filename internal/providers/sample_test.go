package providers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

// TestSampleProviderRebasesSeasons tests that the snapshot lands on the
// requested season, newest first
func TestSampleProviderRebasesSeasons(t *testing.T) {
	provider := NewSampleProvider()

	players, err := provider.FetchPlayers(context.Background(), 2025)
	require.NoError(t, err)
	require.NotEmpty(t, players)

	for _, player := range players {
		require.NotEmpty(t, player.Seasons, player.Name)
		for j, season := range player.Seasons {
			assert.Equal(t, 2025-j, season.SeasonYear, "%s season %d", player.Name, j)
			assert.Greater(t, season.GamesPlayed, 0, player.Name)
		}
	}

	// A different request year moves every line with it.
	players, err = provider.FetchPlayers(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, 2023, players[0].Seasons[0].SeasonYear)
}

// TestSampleProviderDeterministic tests that repeated fetches are identical
func TestSampleProviderDeterministic(t *testing.T) {
	provider := NewSampleProvider()

	first, err := provider.FetchPlayers(context.Background(), 2025)
	require.NoError(t, err)
	second, err := provider.FetchPlayers(context.Background(), 2025)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

// TestSampleProviderCopiesSnapshot tests that callers cannot corrupt the
// shared dataset
func TestSampleProviderCopiesSnapshot(t *testing.T) {
	provider := NewSampleProvider()

	first, err := provider.FetchPlayers(context.Background(), 2025)
	require.NoError(t, err)
	original := first[0].Seasons[0].PassingYards
	first[0].Seasons[0].PassingYards = -1

	second, err := provider.FetchPlayers(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, original, second[0].Seasons[0].PassingYards)
}

// TestSampleProviderCoverage tests that the snapshot spans the draftable
// positions with mixed history depths
func TestSampleProviderCoverage(t *testing.T) {
	provider := NewSampleProvider()
	assert.Equal(t, "sample", provider.Name())

	players, err := provider.FetchPlayers(context.Background(), 2025)
	require.NoError(t, err)

	positions := map[draft.Position]int{}
	depths := map[int]int{}
	for _, player := range players {
		positions[player.Position]++
		depths[len(player.Seasons)]++
	}

	for _, pos := range []draft.Position{draft.PositionQB, draft.PositionRB, draft.PositionWR, draft.PositionTE} {
		assert.Greater(t, positions[pos], 0, string(pos))
	}

	// Veterans, second-year players, and rookies all need representation so
	// every projection depth gets exercised.
	assert.Greater(t, depths[3], 0, "three-season histories")
	assert.Greater(t, depths[2], 0, "two-season histories")
	assert.Greater(t, depths[1], 0, "single-season histories")
}
