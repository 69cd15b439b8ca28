package profile

import (
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func completeProfile() *Profile {
	birthDate := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	practice := 3
	intent := 2
	return &Profile{
		UserID:         "u1",
		DisplayName:    "Amina",
		BirthDate:      &birthDate,
		Gender:         "female",
		SeekingGender:  "male",
		Religion:       "islam",
		PracticeLevel:  &practice,
		MarriageIntent: &intent,
		AboutMe:        "Looking for a partner who shares my values and wants to build a family together.",
		Languages:      []string{"english", "arabic"},
		Photos:         []string{"https://example.com/p1.jpg"},
		City:           "London",
		Country:        "UK",
		Status:         "approved",
	}
}

func TestCompletionFullProfile(t *testing.T) {
	svc := &service{}

	completion := svc.completion(completeProfile())

	assert.Equal(t, 100, completion.Percentage)
	assert.Empty(t, completion.MissingFields)
	assert.True(t, completion.ReadyForPool)
}

func TestCompletionMissingFields(t *testing.T) {
	svc := &service{}

	p := completeProfile()
	p.AboutMe = "too short"
	p.Photos = nil

	completion := svc.completion(p)

	assert.Equal(t, 65, completion.Percentage)
	assert.ElementsMatch(t, []string{"about_me", "photos"}, completion.MissingFields)
	assert.False(t, completion.ReadyForPool)
}

func TestCompletionAboutMeCountsRunes(t *testing.T) {
	svc := &service{}

	p := completeProfile()
	// 50 multibyte runes should satisfy the length requirement
	runes := make([]rune, 50)
	for i := range runes {
		runes[i] = 'م'
	}
	p.AboutMe = string(runes)

	completion := svc.completion(p)
	assert.NotContains(t, completion.MissingFields, "about_me")
}

func TestCompletionPendingProfileNotReady(t *testing.T) {
	svc := &service{}

	p := completeProfile()
	p.Status = "pending_review"

	completion := svc.completion(p)

	assert.Equal(t, 100, completion.Percentage)
	assert.False(t, completion.ReadyForPool)
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate time.Time
		want      int
	}{
		{"birthday passed this year", time.Date(2000, 3, 15, 0, 0, 0, 0, time.UTC), 26},
		{"birthday later this year", time.Date(2000, 11, 15, 0, 0, 0, 0, time.UTC), 25},
		{"birthday today", time.Date(2000, 9, 1, 0, 0, 0, 0, time.UTC), 26},
		{"just under 18", time.Date(2008, 9, 2, 0, 0, 0, 0, time.UTC), 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ageAt(tt.birthDate, now))
		})
	}
}

func photoHeader(contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "photo",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidatePhoto(t *testing.T) {
	ext, err := validatePhoto(photoHeader("image/jpeg", 1024))
	assert.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = validatePhoto(photoHeader("application/pdf", 1024))
	assert.ErrorIs(t, err, ErrInvalidPhotoFormat)

	_, err = validatePhoto(photoHeader("image/png", maxPhotoSize+1))
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
}
