package services

import (
	"context"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Ananth-NQI/transitlink-ussd/internal/config"
	"github.com/Ananth-NQI/transitlink-ussd/internal/utils"
)

// Notifier delivers best-effort SMS to subscribers
type Notifier interface {
	SendSMS(ctx context.Context, to, message string) error
}

// TwilioService sends SMS through the Twilio REST API
type TwilioService struct {
	client *twilio.RestClient
	from   string // Your Twilio SMS number or messaging service sender
}

var _ Notifier = (*TwilioService)(nil)

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(cfg config.Twilio) (*TwilioService, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioService{
		client: client,
		from:   cfg.From,
	}, nil
}

// SendSMS sends a plain text message. The Twilio client has no context
// support, so ctx is only checked before the call.
func (t *TwilioService) SendSMS(ctx context.Context, to, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		msg := ""
		if resp.ErrorMessage != nil {
			msg = *resp.ErrorMessage
		}
		return fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, msg)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Printf("✅ SMS sent to %s! SID: %s", utils.MaskPhone(to), sid)
	return nil
}

// LogNotifier only logs messages; used when Twilio is not configured
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) SendSMS(ctx context.Context, to, message string) error {
	log.Printf("📤 SMS (not sent - Twilio not configured) to %s: %s", utils.MaskPhone(to), message)
	return nil
}
