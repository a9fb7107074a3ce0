package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/models"
)

// AlertService texts premium users when their pick comes up. Alerts are
// best-effort: a failed send is logged and dropped, never surfaced to the
// request that recorded the pick.
type AlertService struct {
	sender        SMSSender
	subscriptions *SubscriptionService
	limiter       *AlertRateLimiter
	logger        *logrus.Logger
}

func NewAlertService(sender SMSSender, subscriptions *SubscriptionService, limiter *AlertRateLimiter, logger *logrus.Logger) *AlertService {
	return &AlertService{
		sender:        sender,
		subscriptions: subscriptions,
		limiter:       limiter,
		logger:        logger,
	}
}

// NotifyOnTheClock sends the on-the-clock SMS when the session owner's slot
// holds the next pick. Callers run it in a goroutine after recording picks.
func (s *AlertService) NotifyOnTheClock(ctx context.Context, session *models.DraftSession, draftCtx draft.DraftContext) {
	if s.sender == nil {
		return
	}
	if !draft.IsOnTheClock(draftCtx.NumTeams, draftCtx.DraftPosition, draftCtx.PicksMade) {
		return
	}
	if !s.subscriptions.IsPremium(ctx, session.UserID) {
		return
	}

	phone, err := s.subscriptions.GetPhoneNumber(ctx, session.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", session.UserID).Warn("Phone lookup failed, skipping draft alert")
		return
	}
	if phone == "" {
		return
	}

	if s.limiter != nil {
		if err := s.limiter.Allow(phone); err != nil {
			s.logger.WithFields(logrus.Fields{
				"session_id": session.ID,
				"user_id":    session.UserID,
			}).Debug("Draft alert suppressed by rate limit")
			return
		}
	}

	message := fmt.Sprintf("You're on the clock in %s: round %d, pick %d overall.",
		session.SessionName, draftCtx.RoundNumber, draftCtx.CurrentPick)

	if err := s.sender.SendMessage(phone, message); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"session_id": session.ID,
			"user_id":    session.UserID,
		}).Warn("Failed to send draft alert")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"round":      draftCtx.RoundNumber,
		"pick":       draftCtx.CurrentPick,
	}).Info("On-the-clock alert delivered")
}
