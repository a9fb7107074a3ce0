package providers

import (
	"context"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

// StatProvider delivers raw multi-season stat lines for the players relevant
// to a season. Implementations must tolerate cancellation via ctx and return
// seasons ordered most recent first.
type StatProvider interface {
	Name() string
	FetchPlayers(ctx context.Context, seasonYear int) ([]draft.PlayerSeasonData, error)
}
