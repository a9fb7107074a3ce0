package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSSender sends draft alerts through the Twilio API.
type TwilioSMSSender struct {
	client         *twilio.RestClient
	fromNumber     string
	logger         *logrus.Logger
	circuitBreaker *gobreaker.CircuitBreaker
}

func NewTwilioSMSSender(accountSID, authToken, fromNumber string, logger *logrus.Logger) *TwilioSMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "twilio-sms",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 4
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Info("Twilio circuit breaker state changed")
		},
	})

	return &TwilioSMSSender{
		client:         client,
		fromNumber:     fromNumber,
		logger:         logger,
		circuitBreaker: cb,
	}
}

// SendMessage sends an SMS through Twilio.
func (s *TwilioSMSSender) SendMessage(phoneNumber, message string) error {
	normalizedNumber, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	result, err := s.circuitBreaker.Execute(func() (interface{}, error) {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(normalizedNumber)
		params.SetFrom(s.fromNumber)
		params.SetBody(message)

		return s.client.Api.CreateMessage(params)
	})
	if err != nil {
		s.logger.WithError(err).WithField("phone", normalizedNumber).Warn("Twilio send failed")
		return mapTwilioError(err)
	}

	resp := result.(*twilioApi.ApiV2010Message)
	fields := logrus.Fields{"phone": normalizedNumber}
	if resp.Sid != nil {
		fields["sid"] = *resp.Sid
	}
	s.logger.WithFields(fields).Info("Draft alert sent")
	return nil
}

// normalizePhoneNumber coerces input into E.164. Bare ten-digit numbers are
// assumed to be US.
func normalizePhoneNumber(phone string) (string, error) {
	re := regexp.MustCompile(`[^\d+]`)
	cleaned := re.ReplaceAllString(phone, "")

	if !regexp.MustCompile(`^\+`).MatchString(cleaned) {
		if regexp.MustCompile(`^\d{10}$`).MatchString(cleaned) {
			cleaned = "+1" + cleaned
		} else {
			return "", fmt.Errorf("invalid phone number format")
		}
	}

	if !regexp.MustCompile(`^\+[1-9]\d{1,14}$`).MatchString(cleaned) {
		return "", fmt.Errorf("invalid phone number format")
	}

	return cleaned, nil
}

// mapTwilioError maps Twilio-specific errors to user-friendly messages
func mapTwilioError(err error) error {
	errStr := err.Error()

	switch {
	case regexp.MustCompile(`(?i)invalid.*phone.*number`).MatchString(errStr):
		return fmt.Errorf("invalid phone number")
	case regexp.MustCompile(`(?i)unverified.*number`).MatchString(errStr):
		return fmt.Errorf("phone number not verified for trial account")
	case regexp.MustCompile(`(?i)insufficient.*funds`).MatchString(errStr):
		return fmt.Errorf("SMS service temporarily unavailable")
	case regexp.MustCompile(`(?i)rate.*limit`).MatchString(errStr):
		return fmt.Errorf("too many SMS requests, please try again later")
	case regexp.MustCompile(`(?i)blocked.*number`).MatchString(errStr):
		return fmt.Errorf("unable to send SMS to this number")
	default:
		return fmt.Errorf("failed to send SMS: %w", err)
	}
}
