package providers

import (
	"context"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

// SampleProvider serves a built-in snapshot of season stat lines. It is the
// documented ingestion fallback: deterministic and always available, so the
// engine keeps answering when live stat sources are down. The snapshot is
// rebased onto whatever season is requested.
type SampleProvider struct{}

// NewSampleProvider creates the fallback provider
func NewSampleProvider() *SampleProvider {
	return &SampleProvider{}
}

func (p *SampleProvider) Name() string {
	return "sample"
}

// FetchPlayers returns the snapshot with its seasons rebased so the newest
// line carries the requested season year. Never fails.
func (p *SampleProvider) FetchPlayers(_ context.Context, seasonYear int) ([]draft.PlayerSeasonData, error) {
	players := make([]draft.PlayerSeasonData, len(samplePlayers))
	for i, sp := range samplePlayers {
		seasons := make([]draft.SeasonStats, len(sp.Seasons))
		copy(seasons, sp.Seasons)
		for j := range seasons {
			seasons[j].SeasonYear = seasonYear - j
		}
		players[i] = draft.PlayerSeasonData{
			Name:     sp.Name,
			Team:     sp.Team,
			Position: sp.Position,
			Seasons:  seasons,
		}
	}
	return players, nil
}

// samplePlayers spans the draftable positions with realistic stat lines,
// seasons ordered most recent first. History depth is deliberately uneven:
// veterans carry three seasons, second-year players two, rookies one, so the
// fallback data walks every projection path. Season years are zero here;
// FetchPlayers rebases them per request.
var samplePlayers = []draft.PlayerSeasonData{
	{
		Name: "Patrick Mahomes", Team: "KC", Position: draft.PositionQB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 16, PassingYards: 4183, PassingTDs: 27, Interceptions: 14,
				RushingYards: 389, RushingTDs: 4, FumblesLost: 3,
			},
			{
				GamesPlayed: 17, PassingYards: 5250, PassingTDs: 41, Interceptions: 12,
				RushingYards: 358, RushingTDs: 4, FumblesLost: 2,
			},
			{
				GamesPlayed: 17, PassingYards: 4839, PassingTDs: 37, Interceptions: 13,
				RushingYards: 381, RushingTDs: 2, FumblesLost: 2,
			},
		},
	},
	{
		Name: "Josh Allen", Team: "BUF", Position: draft.PositionQB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, PassingYards: 4306, PassingTDs: 29, Interceptions: 18,
				RushingYards: 524, RushingTDs: 15, FumblesLost: 4,
			},
			{
				GamesPlayed: 16, PassingYards: 4283, PassingTDs: 35, Interceptions: 14,
				RushingYards: 762, RushingTDs: 7, FumblesLost: 3,
			},
			{
				GamesPlayed: 17, PassingYards: 4407, PassingTDs: 36, Interceptions: 15,
				RushingYards: 763, RushingTDs: 6, FumblesLost: 3,
			},
		},
	},
	{
		Name: "Lamar Jackson", Team: "BAL", Position: draft.PositionQB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 16, PassingYards: 3678, PassingTDs: 24, Interceptions: 7,
				RushingYards: 821, RushingTDs: 5, FumblesLost: 6,
			},
			{
				GamesPlayed: 12, PassingYards: 2242, PassingTDs: 17, Interceptions: 7,
				RushingYards: 764, RushingTDs: 3, FumblesLost: 3,
			},
			{
				GamesPlayed: 12, PassingYards: 2882, PassingTDs: 16, Interceptions: 13,
				RushingYards: 767, RushingTDs: 2, FumblesLost: 4,
			},
		},
	},
	{
		Name: "Jalen Hurts", Team: "PHI", Position: draft.PositionQB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, PassingYards: 3858, PassingTDs: 23, Interceptions: 15,
				RushingYards: 605, RushingTDs: 15, FumblesLost: 3,
			},
			{
				GamesPlayed: 15, PassingYards: 3701, PassingTDs: 22, Interceptions: 6,
				RushingYards: 760, RushingTDs: 13, FumblesLost: 3,
			},
			{
				GamesPlayed: 15, PassingYards: 3144, PassingTDs: 16, Interceptions: 9,
				RushingYards: 784, RushingTDs: 10, FumblesLost: 2,
			},
		},
	},
	{
		Name: "C.J. Stroud", Team: "HOU", Position: draft.PositionQB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 15, PassingYards: 4108, PassingTDs: 23, Interceptions: 5,
				RushingYards: 167, RushingTDs: 3, FumblesLost: 3,
			},
		},
	},
	{
		Name: "Christian McCaffrey", Team: "SF", Position: draft.PositionRB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 16, RushingYards: 1459, RushingTDs: 14,
				Receptions: 67, ReceivingYards: 564, ReceivingTDs: 7, FumblesLost: 1,
			},
			{
				GamesPlayed: 17, RushingYards: 1139, RushingTDs: 8,
				Receptions: 85, ReceivingYards: 741, ReceivingTDs: 5, FumblesLost: 1,
			},
			{
				GamesPlayed: 7, RushingYards: 442, RushingTDs: 3,
				Receptions: 37, ReceivingYards: 343, ReceivingTDs: 1, FumblesLost: 1,
			},
		},
	},
	{
		Name: "Derrick Henry", Team: "TEN", Position: draft.PositionRB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, RushingYards: 1167, RushingTDs: 12,
				Receptions: 21, ReceivingYards: 214, FumblesLost: 2,
			},
			{
				GamesPlayed: 16, RushingYards: 1538, RushingTDs: 13,
				Receptions: 33, ReceivingYards: 398, ReceivingTDs: 1, FumblesLost: 3,
			},
			{
				GamesPlayed: 8, RushingYards: 937, RushingTDs: 10,
				Receptions: 18, ReceivingYards: 154, FumblesLost: 1,
			},
		},
	},
	{
		Name: "Saquon Barkley", Team: "NYG", Position: draft.PositionRB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 14, RushingYards: 962, RushingTDs: 6,
				Receptions: 41, ReceivingYards: 280, ReceivingTDs: 4, FumblesLost: 1,
			},
			{
				GamesPlayed: 16, RushingYards: 1312, RushingTDs: 10,
				Receptions: 57, ReceivingYards: 338, FumblesLost: 1,
			},
			{
				GamesPlayed: 13, RushingYards: 593, RushingTDs: 2,
				Receptions: 41, ReceivingYards: 263, ReceivingTDs: 2, FumblesLost: 2,
			},
		},
	},
	{
		Name: "Breece Hall", Team: "NYJ", Position: draft.PositionRB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, RushingYards: 994, RushingTDs: 5,
				Receptions: 76, ReceivingYards: 591, ReceivingTDs: 4, FumblesLost: 1,
			},
			{
				GamesPlayed: 7, RushingYards: 463, RushingTDs: 4,
				Receptions: 19, ReceivingYards: 218, ReceivingTDs: 1,
			},
		},
	},
	{
		Name: "Bijan Robinson", Team: "ATL", Position: draft.PositionRB,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, RushingYards: 976, RushingTDs: 4,
				Receptions: 58, ReceivingYards: 487, ReceivingTDs: 4, FumblesLost: 1,
			},
		},
	},
	{
		Name: "Tyreek Hill", Team: "MIA", Position: draft.PositionWR,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 16, Receptions: 119, ReceivingYards: 1799, ReceivingTDs: 13,
				RushingYards: 15, FumblesLost: 1,
			},
			{
				GamesPlayed: 17, Receptions: 119, ReceivingYards: 1710, ReceivingTDs: 7,
				RushingYards: 32, RushingTDs: 1,
			},
			{
				GamesPlayed: 17, Receptions: 111, ReceivingYards: 1239, ReceivingTDs: 9,
				RushingYards: 96, FumblesLost: 1,
			},
		},
	},
	{
		Name: "CeeDee Lamb", Team: "DAL", Position: draft.PositionWR,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, Receptions: 135, ReceivingYards: 1749, ReceivingTDs: 12,
				RushingYards: 113, RushingTDs: 2, FumblesLost: 1,
			},
			{
				GamesPlayed: 17, Receptions: 107, ReceivingYards: 1359, ReceivingTDs: 9,
				FumblesLost: 1,
			},
			{
				GamesPlayed: 16, Receptions: 79, ReceivingYards: 1102, ReceivingTDs: 6,
				FumblesLost: 1,
			},
		},
	},
	{
		Name: "Amon-Ra St. Brown", Team: "DET", Position: draft.PositionWR,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 16, Receptions: 119, ReceivingYards: 1515, ReceivingTDs: 10,
			},
			{
				GamesPlayed: 16, Receptions: 106, ReceivingYards: 1161, ReceivingTDs: 6,
				RushingYards: 95, RushingTDs: 1,
			},
			{
				GamesPlayed: 17, Receptions: 90, ReceivingYards: 912, ReceivingTDs: 5,
				RushingYards: 61, FumblesLost: 1,
			},
		},
	},
	{
		Name: "Mike Evans", Team: "TB", Position: draft.PositionWR,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, Receptions: 79, ReceivingYards: 1255, ReceivingTDs: 13,
			},
			{
				GamesPlayed: 15, Receptions: 77, ReceivingYards: 1124, ReceivingTDs: 6,
				FumblesLost: 1,
			},
			{
				GamesPlayed: 16, Receptions: 74, ReceivingYards: 1035, ReceivingTDs: 14,
			},
		},
	},
	{
		Name: "Garrett Wilson", Team: "NYJ", Position: draft.PositionWR,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, Receptions: 95, ReceivingYards: 1042, ReceivingTDs: 3,
				FumblesLost: 1,
			},
			{
				GamesPlayed: 17, Receptions: 83, ReceivingYards: 1103, ReceivingTDs: 4,
			},
		},
	},
	{
		Name: "Puka Nacua", Team: "LAR", Position: draft.PositionWR,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, Receptions: 105, ReceivingYards: 1486, ReceivingTDs: 6,
				RushingYards: 35, FumblesLost: 1,
			},
		},
	},
	{
		Name: "Travis Kelce", Team: "KC", Position: draft.PositionTE,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 15, Receptions: 93, ReceivingYards: 984, ReceivingTDs: 5,
				FumblesLost: 1,
			},
			{
				GamesPlayed: 17, Receptions: 110, ReceivingYards: 1338, ReceivingTDs: 12,
			},
			{
				GamesPlayed: 16, Receptions: 92, ReceivingYards: 1125, ReceivingTDs: 9,
				FumblesLost: 1,
			},
		},
	},
	{
		Name: "Mark Andrews", Team: "BAL", Position: draft.PositionTE,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 10, Receptions: 45, ReceivingYards: 544, ReceivingTDs: 6,
			},
			{
				GamesPlayed: 17, Receptions: 73, ReceivingYards: 847, ReceivingTDs: 5,
				FumblesLost: 1,
			},
			{
				GamesPlayed: 17, Receptions: 107, ReceivingYards: 1361, ReceivingTDs: 9,
			},
		},
	},
	{
		Name: "T.J. Hockenson", Team: "MIN", Position: draft.PositionTE,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 15, Receptions: 95, ReceivingYards: 960, ReceivingTDs: 5,
			},
			{
				GamesPlayed: 17, Receptions: 86, ReceivingYards: 914, ReceivingTDs: 6,
				FumblesLost: 1,
			},
			{
				GamesPlayed: 12, Receptions: 61, ReceivingYards: 583, ReceivingTDs: 4,
			},
		},
	},
	{
		Name: "Sam LaPorta", Team: "DET", Position: draft.PositionTE,
		Seasons: []draft.SeasonStats{
			{
				GamesPlayed: 17, Receptions: 86, ReceivingYards: 889, ReceivingTDs: 10,
				FumblesLost: 1,
			},
		},
	},
}
