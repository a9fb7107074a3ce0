package draft

import (
	"fmt"
)

// ValidationError reports a draft parameter outside its allowed range,
// carrying the offending field for the API layer.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ResolveContext computes round number, pick-in-round, and the next overall
// pick for a draft slot under snake ordering. picksMade counts every pick
// made so far across all teams.
func ResolveContext(numTeams, draftPosition, picksMade int) (DraftContext, error) {
	if numTeams < MinTeams || numTeams > MaxTeams {
		return DraftContext{}, &ValidationError{
			Field:   "num_teams",
			Message: fmt.Sprintf("must be between %d and %d", MinTeams, MaxTeams),
		}
	}
	if draftPosition < 1 || draftPosition > numTeams {
		return DraftContext{}, &ValidationError{
			Field:   "draft_position",
			Message: fmt.Sprintf("must be between 1 and %d", numTeams),
		}
	}
	if picksMade < 0 {
		return DraftContext{}, &ValidationError{
			Field:   "already_drafted",
			Message: "picks made cannot be negative",
		}
	}

	round := picksMade/numTeams + 1
	pickInRound := draftPosition
	if round%2 == 0 {
		// Even rounds run in reverse
		pickInRound = numTeams - draftPosition + 1
	}

	return DraftContext{
		NumTeams:      numTeams,
		DraftPosition: draftPosition,
		PicksMade:     picksMade,
		RoundNumber:   round,
		PickInRound:   pickInRound,
		CurrentPick:   nextSlotPick(numTeams, draftPosition, picksMade),
	}, nil
}

// PickForRound returns the overall pick number a draft slot owns in the
// given 1-based round.
func PickForRound(numTeams, draftPosition, round int) int {
	if round%2 == 1 {
		return (round-1)*numTeams + draftPosition
	}
	return (round-1)*numTeams + (numTeams - draftPosition + 1)
}

// IsOnTheClock reports whether the slot owns the very next pick
func IsOnTheClock(numTeams, draftPosition, picksMade int) bool {
	return nextSlotPick(numTeams, draftPosition, picksMade) == picksMade+1
}

// nextSlotPick finds the smallest overall pick owned by the slot that has
// not happened yet. The slot picks exactly once per round, so the answer is
// in the current round or the one after it.
func nextSlotPick(numTeams, draftPosition, picksMade int) int {
	round := picksMade/numTeams + 1
	if pick := PickForRound(numTeams, draftPosition, round); pick > picksMade {
		return pick
	}
	return PickForRound(numTeams, draftPosition, round+1)
}
