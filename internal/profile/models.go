// Data structures for marriage profiles

package profile

import (
	"time"

	"github.com/lib/pq"
)

// Profile is the member-facing marriage profile. It is the editable
// counterpart of the read model the discovery engine consumes.
type Profile struct {
	UserID         string         `json:"user_id" db:"id"`
	DisplayName    string         `json:"display_name" db:"display_name"`
	BirthDate      *time.Time     `json:"birth_date,omitempty" db:"birth_date"`
	Gender         string         `json:"gender" db:"gender"`
	SeekingGender  string         `json:"seeking_gender" db:"seeking_gender"`
	Religion       string         `json:"religion" db:"religion"`
	PracticeLevel  *int           `json:"practice_level,omitempty" db:"practice_level"`
	MarriageIntent *int           `json:"marriage_intent,omitempty" db:"marriage_intent"`
	MaritalHistory string         `json:"marital_history,omitempty" db:"marital_history"`
	AboutMe        string         `json:"about_me" db:"about_me"`
	Languages      pq.StringArray `json:"languages" db:"languages"`
	Photos         pq.StringArray `json:"photos" db:"photos"`
	City           string         `json:"city" db:"city"`
	Country        string         `json:"country" db:"country"`
	Latitude       *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64       `json:"longitude,omitempty" db:"longitude"`
	Smoking        string         `json:"smoking,omitempty" db:"smoking"`
	Drinking       string         `json:"drinking,omitempty" db:"drinking"`
	Education      string         `json:"education,omitempty" db:"education"`
	Occupation     string         `json:"occupation,omitempty" db:"occupation"`

	Status           string    `json:"status" db:"status"`
	VerificationTier int       `json:"verification_tier" db:"verification_tier"`
	IsPremium        bool      `json:"is_premium" db:"is_premium"`
	LastActive       time.Time `json:"last_active" db:"last_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	// Derived, not stored
	CompletionPercentage int `json:"completion_percentage,omitempty" db:"-"`
}

// ProfileCompletion breaks down how complete a profile is and what is
// still missing before it can enter the discovery pool.
type ProfileCompletion struct {
	Percentage    int      `json:"percentage"`
	MissingFields []string `json:"missing_fields"`
	ReadyForPool  bool     `json:"ready_for_pool"`
}

// ProfileView records who looked at whom
type ProfileView struct {
	ViewerID  string    `json:"viewer_id" db:"viewer_id"`
	ProfileID string    `json:"profile_id" db:"profile_id"`
	ViewedAt  time.Time `json:"viewed_at" db:"viewed_at"`
}
