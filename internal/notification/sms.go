// SMS delivery: Twilio for production, mock for development and tests

package notification

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSProvider delivers SMS notifications
type SMSProvider interface {
	SendSMS(ctx context.Context, msg *SMSMessage) error
}

// TwilioSMSProvider sends SMS through the Twilio API
type TwilioSMSProvider struct {
	client      *twilio.RestClient
	phoneNumber string
}

// NewTwilioSMSProvider creates a Twilio SMS provider
func NewTwilioSMSProvider(accountSID, authToken, phoneNumber string) SMSProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSProvider{
		client:      client,
		phoneNumber: phoneNumber,
	}
}

func (p *TwilioSMSProvider) SendSMS(_ context.Context, msg *SMSMessage) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(p.phoneNumber)
	params.SetBody(msg.Message)

	if _, err := p.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS via Twilio: %w", err)
	}
	return nil
}

// MockSMSProvider records SMS messages instead of sending them
type MockSMSProvider struct {
	mu           sync.Mutex
	SentMessages []SMSMessage
}

// NewMockSMSProvider creates a mock SMS provider
func NewMockSMSProvider() *MockSMSProvider {
	return &MockSMSProvider{SentMessages: make([]SMSMessage, 0)}
}

func (p *MockSMSProvider) SendSMS(_ context.Context, msg *SMSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SentMessages = append(p.SentMessages, *msg)
	log.Printf("[mock sms] to=%s", msg.To)
	return nil
}
