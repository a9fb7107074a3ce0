package draft

import (
	"sort"
	"strings"
)

// Result size bounds for a recommendation response
const (
	DefaultResultLimit = 20
	MaxResultLimit     = 50
)

// FilterDrafted removes records whose name matches an already-drafted entry.
// Matching is case-insensitive and a drafted entry matches when it equals
// the record name or appears anywhere inside it, so partial names like a
// bare surname still exclude the player. A short drafted name can therefore
// over-exclude longer names containing it; that is documented behavior
// callers depend on, not an accident to fix here.
func FilterDrafted(records []PlayerRecord, alreadyDrafted []string) []PlayerRecord {
	needles := make([]string, 0, len(alreadyDrafted))
	for _, d := range alreadyDrafted {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			// an empty needle would match every name
			continue
		}
		needles = append(needles, d)
	}

	filtered := make([]PlayerRecord, 0, len(records))
	for _, r := range records {
		name := strings.ToLower(r.Name)
		drafted := false
		for _, n := range needles {
			if strings.Contains(name, n) {
				drafted = true
				break
			}
		}
		if !drafted {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SortRecords orders records for recommendation: predicted points
// descending, then fantasy points descending, then name ascending. The full
// tie-break chain makes the ordering deterministic for identical inputs.
func SortRecords(records []PlayerRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].PredictedPoints != records[j].PredictedPoints {
			return records[i].PredictedPoints > records[j].PredictedPoints
		}
		if records[i].FantasyPoints != records[j].FantasyPoints {
			return records[i].FantasyPoints > records[j].FantasyPoints
		}
		return records[i].Name < records[j].Name
	})
}

// RankAll sorts every record and assigns 1-based position ranks, without
// filtering or truncation. The input slice is not modified.
func RankAll(records []PlayerRecord) []Recommendation {
	sorted := make([]PlayerRecord, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	recommendations := make([]Recommendation, len(sorted))
	positionCounts := make(map[Position]int)
	for i, r := range sorted {
		positionCounts[r.Position]++
		recommendations[i] = Recommendation{
			Name:            r.Name,
			Team:            r.Team,
			Position:        r.Position,
			FantasyPoints:   r.FantasyPoints,
			PredictedPoints: r.PredictedPoints,
			PositionRank:    positionCounts[r.Position],
		}
	}
	return recommendations
}

// RankPlayers filters out drafted players, sorts the remainder, assigns
// 1-based position ranks over the filtered sorted set, and truncates to the
// requested size. Position ranks are computed before truncation so a
// player's rank does not depend on the page size.
func RankPlayers(records []PlayerRecord, alreadyDrafted []string, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if limit > MaxResultLimit {
		limit = MaxResultLimit
	}

	recommendations := RankAll(FilterDrafted(records, alreadyDrafted))
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}
