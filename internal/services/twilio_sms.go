package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSService implements SMSService using Twilio API
type TwilioSMSService struct {
	client      *twilio.RestClient
	fromNumber  string
	logger      *logrus.Logger
	rateLimiter *SMSRateLimiter
}

// NewTwilioSMSService creates a new Twilio SMS service
func NewTwilioSMSService(accountSID, authToken, fromNumber string, rateLimiter *SMSRateLimiter, logger *logrus.Logger) *TwilioSMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSService{
		client:      client,
		fromNumber:  fromNumber,
		logger:      logger,
		rateLimiter: rateLimiter,
	}
}

// SendMessage sends an SMS message via Twilio
func (s *TwilioSMSService) SendMessage(phoneNumber, message string) error {
	// Validate phone number format (E.164)
	normalizedNumber, err := s.normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	// Check rate limiting
	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(normalizedNumber); err != nil {
			s.logger.Warnf("Twilio SMS: rate limited for %s", normalizedNumber)
			return fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(normalizedNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp.Sid != nil {
		s.logger.Infof("Twilio SMS sent to %s (sid %s)", normalizedNumber, *resp.Sid)
	}
	return nil
}

var e164Re = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// normalizePhoneNumber coerces common US formats into E.164.
func (s *TwilioSMSService) normalizePhoneNumber(phoneNumber string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '+' {
			return r
		}
		return -1
	}, phoneNumber)

	if !strings.HasPrefix(cleaned, "+") {
		if len(cleaned) == 10 {
			cleaned = "+1" + cleaned
		} else if len(cleaned) == 11 && strings.HasPrefix(cleaned, "1") {
			cleaned = "+" + cleaned
		}
	}

	if !e164Re.MatchString(cleaned) {
		return "", fmt.Errorf("number %q is not E.164", phoneNumber)
	}
	return cleaned, nil
}
