package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created []*Notification
	email   string
	phone   string
}

func (f *fakeRepo) Create(_ context.Context, n *Notification) error {
	f.created = append(f.created, n)
	return nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]*Notification, error) {
	return f.created, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, _, _ string) error  { return nil }
func (f *fakeRepo) MarkAllRead(_ context.Context, _ string) error  { return nil }
func (f *fakeRepo) CountUnread(_ context.Context, _ string) (int, error) {
	count := 0
	for _, n := range f.created {
		if n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}
func (f *fakeRepo) GetContactEmail(_ context.Context, _ string) (string, error) { return f.email, nil }
func (f *fakeRepo) GetContactPhone(_ context.Context, _ string) (string, error) { return f.phone, nil }

func TestNotifyPersistsInApp(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, NewMockEmailProvider(), NewMockSMSProvider(), Options{})

	svc.Notify(context.Background(), "u1", EventNewMatch, map[string]interface{}{
		"match_id": "m1",
	})

	require.Len(t, repo.created, 1)
	assert.Equal(t, "u1", repo.created[0].UserID)
	assert.Equal(t, EventNewMatch, repo.created[0].EventType)
	assert.Equal(t, "m1", repo.created[0].Payload["match_id"])
}

func TestDeliverSendsEmailAndSMS(t *testing.T) {
	repo := &fakeRepo{email: "amina@example.com", phone: "+447700900000"}
	email := NewMockEmailProvider()
	sms := NewMockSMSProvider()
	svc := NewService(repo, email, sms, Options{EmailEnabled: true, SMSEnabled: true}).(*service)

	svc.deliver("u1", "You have a new match on Qiran", "Open the app")

	require.Len(t, email.SentEmails, 1)
	assert.Equal(t, "amina@example.com", email.SentEmails[0].To)
	require.Len(t, sms.SentMessages, 1)
	assert.Equal(t, "+447700900000", sms.SentMessages[0].To)
}

func TestDeliverRespectsDisabledChannels(t *testing.T) {
	repo := &fakeRepo{email: "amina@example.com", phone: "+447700900000"}
	email := NewMockEmailProvider()
	sms := NewMockSMSProvider()
	svc := NewService(repo, email, sms, Options{EmailEnabled: true}).(*service)

	svc.deliver("u1", "subject", "body")

	assert.Len(t, email.SentEmails, 1)
	assert.Empty(t, sms.SentMessages)
}

func TestRenderMessage(t *testing.T) {
	subject, body := renderMessage(EventNewMatch, nil)
	assert.NotEmpty(t, subject)
	assert.NotEmpty(t, body)

	subject, body = renderMessage(EventProfileRejected, map[string]interface{}{
		"reason": "photo does not show your face",
	})
	assert.NotEmpty(t, subject)
	assert.Contains(t, body, "photo does not show your face")

	// Unknown events stay in-app only
	subject, _ = renderMessage("something_else", nil)
	assert.Empty(t, subject)
}
