package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// DraftSession persists one user's draft: the league configuration snapshot
// and the picks recorded so far. Sessions belong to exactly one user and are
// deleted explicitly by their owner.
type DraftSession struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string         `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionName    string         `json:"session_name"`
	NumTeams       int            `gorm:"not null" json:"num_teams"`
	DraftPosition  int            `gorm:"not null" json:"draft_position"`
	SeasonYear     int            `gorm:"not null" json:"season_year"`
	DraftedPlayers pq.StringArray `gorm:"type:text[]" json:"already_drafted"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DraftSession) TableName() string {
	return "draft_sessions"
}

// PicksMade counts picks recorded across all teams in this session
func (s *DraftSession) PicksMade() int {
	return len(s.DraftedPlayers)
}

// AddPicks appends drafted names that are not already recorded, comparing
// case-insensitively so resubmitting a pick never duplicates it. Returns the
// names that were actually new.
func (s *DraftSession) AddPicks(names []string) []string {
	existing := make(map[string]bool, len(s.DraftedPlayers))
	for _, p := range s.DraftedPlayers {
		existing[strings.ToLower(strings.TrimSpace(p))] = true
	}

	var added []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		key := strings.ToLower(trimmed)
		if trimmed == "" || existing[key] {
			continue
		}
		existing[key] = true
		s.DraftedPlayers = append(s.DraftedPlayers, trimmed)
		added = append(added, trimmed)
	}
	return added
}

// RemovePick deletes a drafted name (case-insensitive) and reports whether
// anything was removed. Supports the explicit-removal path for undoing a
// mistaken pick.
func (s *DraftSession) RemovePick(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return false
	}

	kept := s.DraftedPlayers[:0]
	removed := false
	for _, p := range s.DraftedPlayers {
		if strings.ToLower(strings.TrimSpace(p)) == key {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.DraftedPlayers = kept
	return removed
}
