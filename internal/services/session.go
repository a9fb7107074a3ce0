package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/models"
	"github.com/kickoffkings/draft-engine/pkg/database"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

// SessionService owns draft session lifecycle and the drafted-player list.
// All reads and writes are scoped to the owning user.
type SessionService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewSessionService(db *database.DB, logger *logrus.Logger) *SessionService {
	return &SessionService{
		db:     db,
		logger: logger,
	}
}

// CreateSessionInput carries the draft setup a user submits when starting a
// session. SeasonYear of zero means the engine's current season.
type CreateSessionInput struct {
	SessionName   string `json:"session_name"`
	NumTeams      int    `json:"num_teams" binding:"required"`
	DraftPosition int    `json:"draft_position" binding:"required"`
	SeasonYear    int    `json:"season_year"`
}

func (s *SessionService) CreateSession(ctx context.Context, userID string, input CreateSessionInput, defaultSeason int) (*models.DraftSession, error) {
	if input.NumTeams < draft.MinTeams || input.NumTeams > draft.MaxTeams {
		return nil, &draft.ValidationError{
			Field:   "num_teams",
			Message: fmt.Sprintf("must be between %d and %d", draft.MinTeams, draft.MaxTeams),
		}
	}
	if input.DraftPosition < 1 || input.DraftPosition > input.NumTeams {
		return nil, &draft.ValidationError{
			Field:   "draft_position",
			Message: fmt.Sprintf("must be between 1 and %d", input.NumTeams),
		}
	}

	seasonYear := input.SeasonYear
	if seasonYear == 0 {
		seasonYear = defaultSeason
	}

	name := strings.TrimSpace(input.SessionName)
	if name == "" {
		name = fmt.Sprintf("%d Draft", seasonYear)
	}

	session := &models.DraftSession{
		ID:            uuid.New().String(),
		UserID:        userID,
		SessionName:   name,
		NumTeams:      input.NumTeams,
		DraftPosition: input.DraftPosition,
		SeasonYear:    seasonYear,
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create draft session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":     session.ID,
		"user_id":        userID,
		"num_teams":      session.NumTeams,
		"draft_position": session.DraftPosition,
	}).Info("Draft session created")

	return session, nil
}

func (s *SessionService) GetSession(ctx context.Context, userID, sessionID string) (*models.DraftSession, error) {
	var session models.DraftSession
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft session: %w", err)
	}
	return &session, nil
}

func (s *SessionService) ListSessions(ctx context.Context, userID string) ([]models.DraftSession, error) {
	var sessions []models.DraftSession
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list draft sessions: %w", err)
	}
	return sessions, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.DraftSession{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete draft session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrSessionNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"user_id":    userID,
	}).Info("Draft session deleted")
	return nil
}

// RecordPicks appends newly drafted players to a session. Names already on
// the list are ignored, so replayed requests cannot double-count a pick.
// Returns the updated session and the names that were actually new.
func (s *SessionService) RecordPicks(ctx context.Context, userID, sessionID string, playerNames []string) (*models.DraftSession, []string, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	added := session.AddPicks(playerNames)
	if len(added) == 0 {
		return session, nil, nil
	}

	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to record picks: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"user_id":    userID,
		"added":      added,
		"total":      session.PicksMade(),
	}).Info("Draft picks recorded")

	return session, added, nil
}

// UndoPick removes a single player from the drafted list, for correcting a
// mistyped name mid-draft.
func (s *SessionService) UndoPick(ctx context.Context, userID, sessionID, playerName string) (*models.DraftSession, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.RemovePick(playerName) {
		return nil, fmt.Errorf("player %q is not on the drafted list: %w", playerName, utils.ErrNotFound)
	}

	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to undo pick: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"player":     playerName,
	}).Info("Draft pick removed")

	return session, nil
}

// DraftContext resolves the snake-order position for a session's current
// state.
func (s *SessionService) DraftContext(session *models.DraftSession) (draft.DraftContext, error) {
	return draft.ResolveContext(session.NumTeams, session.DraftPosition, session.PicksMade())
}
