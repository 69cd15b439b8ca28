package matching

import "time"

// DTOs for the discovery API.

type DiscoverParams struct {
	PageSize  int       `json:"page_size" validate:"omitempty,min=1,max=100"`
	PageToken string    `json:"page_token,omitempty"`
	Sort      SortOrder `json:"sort,omitempty" validate:"omitempty,oneof=best_match most_recent"`
}

type DiscoverResponse struct {
	Items         []*CandidateDTO `json:"items"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

// CandidateDTO is the discovery-card projection of a candidate: enough for
// the card UI, nothing private.
type CandidateDTO struct {
	ID                 string    `json:"id"`
	DisplayName        string    `json:"display_name"`
	Age                *int      `json:"age,omitempty"`
	City               string    `json:"city,omitempty"`
	Country            string    `json:"country,omitempty"`
	Religion           string    `json:"religion,omitempty"`
	Occupation         string    `json:"occupation,omitempty"`
	Bio                string    `json:"bio"`
	Photos             []string  `json:"photos"`
	VerificationTier   int       `json:"verification_tier"`
	IsPremium          bool      `json:"is_premium"`
	LastActive         time.Time `json:"last_active"`
	CompatibilityScore int       `json:"compatibility_score"`
	DistanceKM         *float64  `json:"distance_km,omitempty"`
}

func newCandidateDTO(result CandidateResult, now time.Time) *CandidateDTO {
	dto := &CandidateDTO{
		ID:                 result.Profile.ID,
		DisplayName:        result.Profile.DisplayName,
		City:               result.Profile.Location.City,
		Country:            result.Profile.Location.Country,
		Religion:           result.Profile.Religion,
		Occupation:         result.Profile.Occupation,
		Bio:                result.Profile.Bio,
		Photos:             result.Profile.Photos,
		VerificationTier:   int(result.Profile.Verification),
		IsPremium:          result.Profile.IsPremium,
		LastActive:         result.Profile.LastActive,
		CompatibilityScore: result.CompatibilityScore,
		DistanceKM:         result.DistanceKM,
	}
	if age, ok := result.Profile.AgeAt(now); ok {
		dto.Age = &age
	}
	return dto
}

type LikeRequestDTO struct {
	TargetID string `json:"target_id" validate:"required,uuid4"`
}

type LikeResponse struct {
	IsMutualMatch  bool   `json:"is_mutual_match"`
	ConversationID string `json:"conversation_id,omitempty"`
	MatchID        string `json:"match_id,omitempty"`
}

type CompatibilityResponse struct {
	TargetID           string   `json:"target_id"`
	CompatibilityScore int      `json:"compatibility_score"`
	DistanceKM         *float64 `json:"distance_km,omitempty"`
}
