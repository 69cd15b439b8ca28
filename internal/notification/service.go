// Notification business logic: persist in-app notifications and fan out
// to email/SMS channels

package notification

import (
	"context"
	"fmt"
	"log"
)

// Options controls which outbound channels are active
type Options struct {
	EmailEnabled bool
	SMSEnabled   bool
}

// Service defines notification operations. Notify satisfies the notifier
// hook the discovery engine calls on match events.
type Service interface {
	Notify(ctx context.Context, userID, eventType string, payload map[string]interface{})
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo  Repository
	email EmailProvider
	sms   SMSProvider
	opts  Options
}

// NewService creates the notification service
func NewService(repo Repository, email EmailProvider, sms SMSProvider, opts Options) Service {
	return &service{
		repo:  repo,
		email: email,
		sms:   sms,
		opts:  opts,
	}
}

// Notify records an in-app notification and fans out to the enabled
// channels. It is fire-and-forget: delivery failures are logged, never
// surfaced to the caller, so a flaky channel cannot break a match.
func (s *service) Notify(ctx context.Context, userID, eventType string, payload map[string]interface{}) {
	n := &Notification{
		UserID:    userID,
		EventType: eventType,
		Payload:   Payload(payload),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("Failed to persist notification for %s: %v", userID, err)
		return
	}

	subject, body := renderMessage(eventType, payload)
	if subject == "" {
		return
	}

	go s.deliver(userID, subject, body)
}

// deliver sends the notification out-of-band over email and SMS
func (s *service) deliver(userID, subject, body string) {
	ctx := context.Background()

	if s.opts.EmailEnabled && s.email != nil {
		email, err := s.repo.GetContactEmail(ctx, userID)
		if err != nil || email == "" {
			log.Printf("No contact email for %s: %v", userID, err)
		} else if err := s.email.SendEmail(ctx, &EmailMessage{
			To:      email,
			Subject: subject,
			Body:    body,
		}); err != nil {
			log.Printf("Failed to send email to %s: %v", userID, err)
		}
	}

	if s.opts.SMSEnabled && s.sms != nil {
		phone, err := s.repo.GetContactPhone(ctx, userID)
		if err != nil || phone == "" {
			return
		}
		if err := s.sms.SendSMS(ctx, &SMSMessage{To: phone, Message: body}); err != nil {
			log.Printf("Failed to send SMS to %s: %v", userID, err)
		}
	}
}

func (s *service) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListForUser(ctx, userID, unreadOnly, limit)
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// renderMessage maps an event to user-facing copy. Events without copy
// stay in-app only.
func renderMessage(eventType string, payload map[string]interface{}) (subject, body string) {
	switch eventType {
	case EventNewMatch:
		return "You have a new match on Qiran",
			"Someone you liked has liked you back. Open Qiran to start the conversation."
	case EventLikeReceived:
		return "Someone is interested in you",
			"A member has expressed interest in your profile. Open Qiran to see who."
	case EventProfileApproved:
		return "Your profile is live",
			"Your profile has been approved and is now visible in discovery."
	case EventProfileRejected:
		reason := ""
		if r, ok := payload["reason"].(string); ok && r != "" {
			reason = fmt.Sprintf(" Reason: %s.", r)
		}
		return "Your profile needs changes",
			"Your profile could not be approved." + reason + " Please review and resubmit."
	default:
		return "", ""
	}
}
