// Data structures for admin and moderation

package admin

import (
	"time"

	"github.com/lib/pq"
)

// Report statuses
const (
	ReportOpen      = "open"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// ModerationEntry is a profile waiting for review
type ModerationEntry struct {
	UserID      string         `json:"user_id" db:"user_id"`
	DisplayName string         `json:"display_name" db:"display_name"`
	Gender      string         `json:"gender" db:"gender"`
	Religion    string         `json:"religion" db:"religion"`
	AboutMe     string         `json:"about_me" db:"about_me"`
	Photos      pq.StringArray `json:"photos" db:"photos"`
	City        string         `json:"city" db:"city"`
	Country     string         `json:"country" db:"country"`
	Status      string         `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// Report is a member-filed complaint about another member
type Report struct {
	ID         string     `json:"id" db:"id"`
	ReporterID string     `json:"reporter_id" db:"reporter_id"`
	ReportedID string     `json:"reported_id" db:"reported_id"`
	Reason     string     `json:"reason" db:"reason"`
	Details    *string    `json:"details,omitempty" db:"details"`
	Status     string     `json:"status" db:"status"`
	ResolvedBy *string    `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Stats is the aggregate platform snapshot for the admin dashboard
type Stats struct {
	TotalProfiles     int `json:"total_profiles" db:"total_profiles"`
	PendingReview     int `json:"pending_review" db:"pending_review"`
	ApprovedProfiles  int `json:"approved_profiles" db:"approved_profiles"`
	SuspendedOrBanned int `json:"suspended_or_banned" db:"suspended_or_banned"`
	TotalMatches      int `json:"total_matches" db:"total_matches"`
	MatchesLast7Days  int `json:"matches_last_7_days" db:"matches_last_7_days"`
	OpenReports       int `json:"open_reports" db:"open_reports"`
	ActiveLast24h     int `json:"active_last_24h" db:"active_last_24h"`
}
