package services

import (
	"github.com/sirupsen/logrus"
)

// SMSSender delivers draft alert text messages.
type SMSSender interface {
	SendMessage(phoneNumber, message string) error
}

// MockSMSSender logs alerts instead of sending them. It is the default
// sender outside production so local drafts never text anyone.
type MockSMSSender struct {
	logger *logrus.Logger
}

func NewMockSMSSender(logger *logrus.Logger) *MockSMSSender {
	return &MockSMSSender{logger: logger}
}

func (s *MockSMSSender) SendMessage(phoneNumber, message string) error {
	s.logger.WithFields(logrus.Fields{
		"phone":   phoneNumber,
		"message": message,
	}).Info("MOCK SMS: draft alert")
	return nil
}
