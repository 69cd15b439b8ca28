package matching

import (
	"strings"
	"time"
)

// AccountStatus is the moderation state of a profile.
type AccountStatus string

const (
	StatusPendingReview AccountStatus = "pending_review"
	StatusApproved      AccountStatus = "approved"
	StatusSuspended     AccountStatus = "suspended"
	StatusBanned        AccountStatus = "banned"
)

// VerificationTier is ordinal: higher tiers rank above lower ones on ties.
type VerificationTier int

const (
	TierUnverified VerificationTier = iota
	TierBasic
	TierIdentity
	TierMarriageVerified
)

type Location struct {
	City    string   `json:"city" db:"city"`
	Country string   `json:"country" db:"country"`
	Lat     *float64 `json:"latitude,omitempty" db:"latitude"`
	Lng     *float64 `json:"longitude,omitempty" db:"longitude"`
}

// Profile is a user's matchmaking record as the engine sees it. Age is always
// derived from BirthDate at evaluation time and never stored alongside it.
type Profile struct {
	ID             string           `json:"id" db:"id"`
	DisplayName    string           `json:"display_name" db:"display_name"`
	BirthDate      *time.Time       `json:"birth_date,omitempty" db:"birth_date"`
	Gender         string           `json:"gender" db:"gender"`
	SeekingGender  string           `json:"seeking_gender" db:"seeking_gender"`
	Location       Location         `json:"location"`
	Religion       string           `json:"religion" db:"religion"`
	PracticeLevel  *int             `json:"practice_level,omitempty" db:"practice_level"`
	MaritalHistory string           `json:"marital_history" db:"marital_history"`
	Smoking        string           `json:"smoking" db:"smoking"`
	Drinking       string           `json:"drinking" db:"drinking"`
	Education      string           `json:"education" db:"education"`
	Occupation     string           `json:"occupation" db:"occupation"`
	Languages      []string         `json:"languages"`
	MarriageIntent *int             `json:"marriage_intent,omitempty" db:"marriage_intent"`
	Bio            string           `json:"bio" db:"bio"`
	Photos         []string         `json:"photos"`
	Verification   VerificationTier `json:"verification_tier" db:"verification_tier"`
	IsPremium      bool             `json:"is_premium" db:"is_premium"`
	Status         AccountStatus    `json:"status" db:"status"`
	LastActive     time.Time        `json:"last_active" db:"last_active"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

// AgeAt derives the profile's age at the given instant. The second return
// value is false when no birth date is on record.
func (p *Profile) AgeAt(now time.Time) (int, bool) {
	if p.BirthDate == nil {
		return 0, false
	}
	age := now.Year() - p.BirthDate.Year()
	anniversary := time.Date(now.Year(), p.BirthDate.Month(), p.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(anniversary) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, true
}

// BioLength is the trimmed character count used by the eligibility filter.
func (p *Profile) BioLength() int {
	return len([]rune(strings.TrimSpace(p.Bio)))
}

// Threshold keys understood by the engine. Absent keys fail open (no limit).
const (
	ThresholdMaxDaysLastActive = "max_days_last_active"
	ThresholdMaxAgeGapYears    = "max_age_gap_years"
	ThresholdMinAboutMeChars   = "min_about_me_chars"
	ThresholdMinPhotos         = "min_photos_for_recommendations"
	ThresholdMaxDistanceKM     = "max_distance_km"
)

// MatchingConfig is the shared tunable snapshot read on every discovery
// request. The engine treats it as read-only and never assumes it is well
// formed: weights that do not sum to 100 are normalized, unknown factor keys
// are skipped, and missing thresholds mean no limit.
type MatchingConfig struct {
	Weights    map[string]int     `json:"weights"`
	Thresholds map[string]float64 `json:"thresholds"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Threshold looks up a threshold value; ok is false when the key is absent.
func (c *MatchingConfig) Threshold(key string) (float64, bool) {
	if c == nil || c.Thresholds == nil {
		return 0, false
	}
	v, ok := c.Thresholds[key]
	return v, ok
}

// DefaultMatchingConfig seeds the platform before an admin has saved one.
func DefaultMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		Weights: map[string]int{
			FactorReligion:       25,
			FactorPracticeLevel:  20,
			FactorMarriageIntent: 20,
			FactorLocation:       15,
			FactorLanguages:      10,
			FactorLifestyle:      10,
		},
		Thresholds: map[string]float64{
			ThresholdMaxDaysLastActive: 90,
			ThresholdMaxAgeGapYears:    15,
			ThresholdMinAboutMeChars:   50,
			ThresholdMinPhotos:         1,
			ThresholdMaxDistanceKM:     150,
		},
	}
}

// CandidateResult is the engine's output unit, computed fresh per request.
type CandidateResult struct {
	Profile            *Profile `json:"profile"`
	CompatibilityScore int      `json:"compatibility_score"`
	DistanceKM         *float64 `json:"distance_km,omitempty"`
}

// ExclusionSet holds candidate ids the caller wants omitted: already liked,
// passed, matched, or blocked in either direction.
type ExclusionSet map[string]struct{}

func NewExclusionSet(ids ...string) ExclusionSet {
	set := make(ExclusionSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s ExclusionSet) Add(id string) {
	s[id] = struct{}{}
}

func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Like is a recorded one-directional interest expression.
type Like struct {
	UserID    string    `json:"user_id" db:"user_id"`
	TargetID  string    `json:"target_id" db:"target_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ConversationKey identifies the unordered pair a conversation belongs to.
// UserA is always the lexically smaller id so the pair has one canonical form.
type ConversationKey struct {
	UserA string
	UserB string
}

func NewConversationKey(id1, id2 string) ConversationKey {
	if id1 > id2 {
		id1, id2 = id2, id1
	}
	return ConversationKey{UserA: id1, UserB: id2}
}

// MatchDecision describes the outcome of a like evaluation. The engine only
// computes it; persistence and notification are the caller's job.
type MatchDecision struct {
	IsMutualMatch bool            `json:"is_mutual_match"`
	Conversation  ConversationKey `json:"-"`
	NotifyUserIDs []string        `json:"-"`
}

// Match is a persisted mutual match between two users.
type Match struct {
	ID                 string     `json:"id" db:"id"`
	UserAID            string     `json:"user_a_id" db:"user_a_id"`
	UserBID            string     `json:"user_b_id" db:"user_b_id"`
	ConversationID     string     `json:"conversation_id" db:"conversation_id"`
	CompatibilityScore *int       `json:"compatibility_score,omitempty" db:"compatibility_score"`
	IsActive           bool       `json:"is_active" db:"is_active"`
	UnmatchedBy        *string    `json:"unmatched_by,omitempty" db:"unmatched_by"`
	UnmatchedAt        *time.Time `json:"unmatched_at,omitempty" db:"unmatched_at"`
	MatchedAt          time.Time  `json:"matched_at" db:"matched_at"`

	MatchedUser *Profile `json:"matched_user,omitempty"`
}
