package draft

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveContextScenarios tests the documented draft-math anchor cases
func TestResolveContextScenarios(t *testing.T) {
	tests := []struct {
		name          string
		numTeams      int
		draftPosition int
		picksMade     int
		wantRound     int
		wantPick      int
		wantCurrent   int
	}{
		{
			name:          "fresh draft, slot five of twelve",
			numTeams:      12,
			draftPosition: 5,
			picksMade:     0,
			wantRound:     1,
			wantPick:      5,
			wantCurrent:   5,
		},
		{
			name:          "second round reverses direction",
			numTeams:      12,
			draftPosition: 5,
			picksMade:     12,
			wantRound:     2,
			wantPick:      8, // 12 - 5 + 1
			wantCurrent:   20,
		},
		{
			name:          "about to be on the clock in round one",
			numTeams:      12,
			draftPosition: 5,
			picksMade:     4,
			wantRound:     1,
			wantPick:      5,
			wantCurrent:   5,
		},
		{
			name:          "own pick spent, next chance is the snake return",
			numTeams:      12,
			draftPosition: 5,
			picksMade:     5,
			wantRound:     1,
			wantPick:      5,
			wantCurrent:   20,
		},
		{
			name:          "turn pick for the last slot",
			numTeams:      10,
			draftPosition: 10,
			picksMade:     9,
			wantRound:     1,
			wantPick:      10,
			wantCurrent:   10, // slot 10 also owns pick 11
		},
		{
			name:          "deep draft spanning many rounds",
			numTeams:      12,
			draftPosition: 5,
			picksMade:     150, // round 13, odd, base 144
			wantRound:     13,
			wantPick:      5,
			wantCurrent:   164, // 144 + 5 already passed, next is round 14: 156 + 8
		},
		{
			name:          "two team league",
			numTeams:      2,
			draftPosition: 2,
			picksMade:     1,
			wantRound:     1,
			wantPick:      2,
			wantCurrent:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := ResolveContext(tt.numTeams, tt.draftPosition, tt.picksMade)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRound, ctx.RoundNumber, "round number")
			assert.Equal(t, tt.wantPick, ctx.PickInRound, "pick in round")
			assert.Equal(t, tt.wantCurrent, ctx.CurrentPick, "current pick")
		})
	}
}

// TestResolveContextValidation tests range rejection with the offending field
func TestResolveContextValidation(t *testing.T) {
	tests := []struct {
		name          string
		numTeams      int
		draftPosition int
		picksMade     int
		wantField     string
	}{
		{"too few teams", 1, 1, 0, "num_teams"},
		{"too many teams", 21, 1, 0, "num_teams"},
		{"position below range", 12, 0, 0, "draft_position"},
		{"position beyond league size", 12, 13, 0, "draft_position"},
		{"negative picks", 12, 5, -1, "already_drafted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveContext(tt.numTeams, tt.draftPosition, tt.picksMade)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected a ValidationError")
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

// TestSnakeRoundStructure tests that every round distributes exactly one
// pick per slot and alternates direction
func TestSnakeRoundStructure(t *testing.T) {
	for _, numTeams := range []int{2, 8, 12, 20} {
		t.Run(fmt.Sprintf("%d teams", numTeams), func(t *testing.T) {
			for round := 1; round <= 5; round++ {
				seen := make(map[int]bool)
				base := (round - 1) * numTeams

				for slot := 1; slot <= numTeams; slot++ {
					pick := PickForRound(numTeams, slot, round)
					assert.Greater(t, pick, base, "pick must land in its round")
					assert.LessOrEqual(t, pick, base+numTeams, "pick must land in its round")
					seen[pick] = true
				}
				// one pick per slot fills the round exactly
				assert.Len(t, seen, numTeams)

				first := PickForRound(numTeams, 1, round)
				last := PickForRound(numTeams, numTeams, round)
				if round%2 == 1 {
					assert.Less(t, first, last, "odd rounds run forward")
				} else {
					assert.Greater(t, first, last, "even rounds run backward")
				}
			}
		})
	}
}

// TestCurrentPickAlwaysAhead tests that the projected pick is in the future
// and owned by the slot
func TestCurrentPickAlwaysAhead(t *testing.T) {
	const numTeams = 10
	for slot := 1; slot <= numTeams; slot++ {
		for picksMade := 0; picksMade <= numTeams*4; picksMade++ {
			ctx, err := ResolveContext(numTeams, slot, picksMade)
			require.NoError(t, err)

			assert.Greater(t, ctx.CurrentPick, picksMade)

			round := (ctx.CurrentPick - 1) / numTeams
			assert.Equal(t, ctx.CurrentPick, PickForRound(numTeams, slot, round+1),
				"slot %d after %d picks", slot, picksMade)
		}
	}
}

// TestIsOnTheClock tests next-pick detection used by draft alerts
func TestIsOnTheClock(t *testing.T) {
	assert.True(t, IsOnTheClock(12, 5, 4), "pick five follows four picks")
	assert.False(t, IsOnTheClock(12, 5, 5), "own pick already spent")
	assert.True(t, IsOnTheClock(12, 5, 19), "snake return at pick twenty")
	assert.True(t, IsOnTheClock(10, 10, 9), "turn: last slot owns pick ten")
	assert.True(t, IsOnTheClock(10, 10, 10), "turn: and pick eleven right after")
}
