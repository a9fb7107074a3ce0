package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/api/middleware"
	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/services"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

type SessionHandler struct {
	sessions      *services.SessionService
	hub           *services.DraftHub
	alerts        *services.AlertService
	defaultSeason int
	logger        *logrus.Logger
}

func NewSessionHandler(
	sessions *services.SessionService,
	hub *services.DraftHub,
	alerts *services.AlertService,
	defaultSeason int,
	logger *logrus.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessions:      sessions,
		hub:           hub,
		alerts:        alerts,
		defaultSeason: defaultSeason,
		logger:        logger,
	}
}

// recordPicksRequest is the body for appending drafted players.
type recordPicksRequest struct {
	Players []string `json:"players" binding:"required"`
}

// CreateSession starts a new draft session for the authenticated user.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var input services.CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	session, err := h.sessions.CreateSession(c.Request.Context(), userID, input, h.defaultSeason)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	utils.SendSuccess(c, session)
}

// ListSessions returns the user's sessions, most recently updated first.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sessions, err := h.sessions.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	utils.SendSuccess(c, sessions)
}

// GetSession returns one session with its resolved draft position.
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID := middleware.GetUserID(c)
	session, err := h.sessions.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	draftCtx, err := h.sessions.DraftContext(session)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	utils.SendSuccess(c, gin.H{
		"session":       session,
		"draft_context": draftCtx,
	})
}

// DeleteSession removes a session and tells its watchers it is gone.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sessionID := c.Param("id")

	if err := h.sessions.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		respondDraftError(c, err)
		return
	}

	h.hub.NotifySession(sessionID, services.EventSessionDeleted, nil)
	utils.SendSuccess(c, gin.H{"deleted": sessionID})
}

// RecordPicks appends drafted players to the session, pushes the update to
// watchers, and fires the on-the-clock alert when the next pick is the
// owner's.
func (h *SessionHandler) RecordPicks(c *gin.Context) {
	var req recordPicksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	sessionID := c.Param("id")

	session, added, err := h.sessions.RecordPicks(c.Request.Context(), userID, sessionID, req.Players)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	draftCtx, err := h.sessions.DraftContext(session)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	if len(added) > 0 {
		h.hub.NotifySession(sessionID, services.EventPickRecorded, gin.H{
			"players":       added,
			"picks_made":    session.PicksMade(),
			"draft_context": draftCtx,
		})

		if draft.IsOnTheClock(draftCtx.NumTeams, draftCtx.DraftPosition, draftCtx.PicksMade) {
			h.hub.NotifySession(sessionID, services.EventOnTheClock, gin.H{
				"round": draftCtx.RoundNumber,
				"pick":  draftCtx.CurrentPick,
			})
		}

		// The request context dies with the response; the alert gets its own.
		go func() {
			alertCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			h.alerts.NotifyOnTheClock(alertCtx, session, draftCtx)
		}()
	}

	utils.SendSuccess(c, gin.H{
		"session":       session,
		"added":         added,
		"draft_context": draftCtx,
	})
}

// UndoPick removes one player from the drafted list.
func (h *SessionHandler) UndoPick(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sessionID := c.Param("id")
	playerName := c.Param("player")

	session, err := h.sessions.UndoPick(c.Request.Context(), userID, sessionID, playerName)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	draftCtx, err := h.sessions.DraftContext(session)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	h.hub.NotifySession(sessionID, services.EventPickRemoved, gin.H{
		"player":        playerName,
		"picks_made":    session.PicksMade(),
		"draft_context": draftCtx,
	})

	utils.SendSuccess(c, gin.H{
		"session":       session,
		"draft_context": draftCtx,
	})
}

// ServeWebSocket attaches a connection to the session's event stream after
// an ownership check.
func (h *SessionHandler) ServeWebSocket(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sessionID := c.Param("id")

	if _, err := h.sessions.GetSession(c.Request.Context(), userID, sessionID); err != nil {
		respondDraftError(c, err)
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, sessionID, userID); err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("WebSocket upgrade failed")
	}
}
