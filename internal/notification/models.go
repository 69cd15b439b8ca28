// Data structures for in-app notifications

package notification

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Notification event types
const (
	EventNewMatch     = "new_match"
	EventLikeReceived = "like_received"
	EventProfileApproved = "profile_approved"
	EventProfileRejected = "profile_rejected"
)

// Payload is the free-form event data attached to a notification.
// Stored as JSONB.
type Payload map[string]interface{}

// Scan implements sql.Scanner so Payload reads from JSONB columns
func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return nil
	}
}

// Value implements driver.Valuer so Payload writes to JSONB columns
func (p Payload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Notification is a single in-app notification
type Notification struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	EventType string     `json:"event_type" db:"event_type"`
	Payload   Payload    `json:"payload" db:"payload"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// EmailMessage is what email providers send
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// SMSMessage is what SMS providers send
type SMSMessage struct {
	To      string
	Message string
}
