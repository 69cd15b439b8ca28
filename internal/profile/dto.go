// Request/response shapes for profile endpoints

package profile

// SetupProfileRequest is the initial onboarding payload. Everything a
// profile needs to become reviewable is required here.
type SetupProfileRequest struct {
	DisplayName   string `json:"display_name" validate:"required,min=2,max=50"`
	BirthDate     string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Gender        string `json:"gender" validate:"required,oneof=male female"`
	SeekingGender string `json:"seeking_gender" validate:"required,oneof=male female"`
	Religion      string `json:"religion" validate:"required,max=50"`
	City          string `json:"city" validate:"required,max=100"`
	Country       string `json:"country" validate:"required,max=100"`
}

// UpdateProfileRequest carries partial edits. Pointer fields distinguish
// "not sent" from "clear this value".
type UpdateProfileRequest struct {
	DisplayName    *string   `json:"display_name,omitempty" validate:"omitempty,min=2,max=50"`
	Religion       *string   `json:"religion,omitempty" validate:"omitempty,max=50"`
	PracticeLevel  *int      `json:"practice_level,omitempty" validate:"omitempty,min=0,max=4"`
	MarriageIntent *int      `json:"marriage_intent,omitempty" validate:"omitempty,min=0,max=3"`
	MaritalHistory *string   `json:"marital_history,omitempty" validate:"omitempty,oneof=never_married divorced widowed"`
	AboutMe        *string   `json:"about_me,omitempty" validate:"omitempty,max=2000"`
	Languages      *[]string `json:"languages,omitempty" validate:"omitempty,max=10,dive,min=2,max=30"`
	City           *string   `json:"city,omitempty" validate:"omitempty,max=100"`
	Country        *string   `json:"country,omitempty" validate:"omitempty,max=100"`
	Latitude       *float64  `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude      *float64  `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Smoking        *string   `json:"smoking,omitempty" validate:"omitempty,oneof=never occasionally regularly"`
	Drinking       *string   `json:"drinking,omitempty" validate:"omitempty,oneof=never occasionally socially regularly"`
	Education      *string   `json:"education,omitempty" validate:"omitempty,max=100"`
	Occupation     *string   `json:"occupation,omitempty" validate:"omitempty,max=100"`
}

// BlockRequest blocks another member
type BlockRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}
