// Profile business logic: onboarding, edits, photos, completion, blocking

package profile

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"time"

	"github.com/lib/pq"
)

var (
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrInvalidPhotoFormat = errors.New("invalid photo format")
	ErrPhotoTooLarge      = errors.New("photo size exceeds limit")
	ErrTooManyPhotos      = errors.New("photo limit reached")
	ErrCannotBlockSelf    = errors.New("cannot block yourself")
	ErrUnderage           = errors.New("must be at least 18 years old")
	ErrAlreadyExists      = errors.New("profile already exists")
)

// minAdultAge is the hard floor for joining the platform
const minAdultAge = 18

// completionField pairs a profile attribute with its weight toward the
// completion percentage. Weights sum to 100.
type completionField struct {
	name   string
	weight int
	filled func(*Profile) bool
}

var completionFields = []completionField{
	{"display_name", 10, func(p *Profile) bool { return p.DisplayName != "" }},
	{"birth_date", 10, func(p *Profile) bool { return p.BirthDate != nil }},
	{"religion", 10, func(p *Profile) bool { return p.Religion != "" }},
	{"practice_level", 10, func(p *Profile) bool { return p.PracticeLevel != nil }},
	{"marriage_intent", 15, func(p *Profile) bool { return p.MarriageIntent != nil }},
	{"about_me", 20, func(p *Profile) bool { return len([]rune(p.AboutMe)) >= 50 }},
	{"photos", 15, func(p *Profile) bool { return len(p.Photos) >= 1 }},
	{"languages", 5, func(p *Profile) bool { return len(p.Languages) > 0 }},
	{"location", 5, func(p *Profile) bool { return p.City != "" && p.Country != "" }},
}

// Service defines profile operations
type Service interface {
	SetupProfile(ctx context.Context, userID string, req *SetupProfileRequest) (*Profile, error)
	GetMyProfile(ctx context.Context, userID string) (*Profile, error)
	GetProfile(ctx context.Context, userID, viewerID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*Profile, error)
	GetCompletion(ctx context.Context, userID string) (*ProfileCompletion, error)

	UploadPhoto(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (string, error)
	DeletePhoto(ctx context.Context, userID, photoURL string) error

	BlockUser(ctx context.Context, userID, blockedID string) error
	UnblockUser(ctx context.Context, userID, blockedID string) error
	GetBlockedUsers(ctx context.Context, userID string) ([]string, error)

	TouchLastActive(ctx context.Context, userID string)
}

type service struct {
	repo      Repository
	uploads   UploadService
	maxPhotos int
}

// NewService creates the profile service
func NewService(repo Repository, uploads UploadService, maxPhotos int) Service {
	return &service{
		repo:      repo,
		uploads:   uploads,
		maxPhotos: maxPhotos,
	}
}

// SetupProfile creates the initial profile. New profiles always enter the
// moderation queue as pending_review.
func (s *service) SetupProfile(ctx context.Context, userID string, req *SetupProfileRequest) (*Profile, error) {
	if _, err := s.repo.GetProfileByUserID(ctx, userID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, errors.New("invalid birth date")
	}
	if ageAt(birthDate, time.Now()) < minAdultAge {
		return nil, ErrUnderage
	}

	profile := &Profile{
		UserID:        userID,
		DisplayName:   req.DisplayName,
		BirthDate:     &birthDate,
		Gender:        req.Gender,
		SeekingGender: req.SeekingGender,
		Religion:      req.Religion,
		City:          req.City,
		Country:       req.Country,
		Languages:     pq.StringArray{},
		Photos:        pq.StringArray{},
	}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	profile.CompletionPercentage = s.completion(profile).Percentage
	return profile, nil
}

func (s *service) GetMyProfile(ctx context.Context, userID string) (*Profile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.CompletionPercentage = s.completion(profile).Percentage
	return profile, nil
}

// GetProfile returns another member's profile and records the view
func (s *service) GetProfile(ctx context.Context, userID, viewerID string) (*Profile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if userID != viewerID {
		// Only approved profiles are visible to other members
		if profile.Status != "approved" {
			return nil, ErrNotFound
		}

		go func() {
			if err := s.repo.RecordProfileView(context.Background(), viewerID, userID); err != nil {
				log.Printf("Failed to record profile view: %v", err)
			}
		}()
	}

	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*Profile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Religion != nil {
		profile.Religion = *req.Religion
	}
	if req.PracticeLevel != nil {
		profile.PracticeLevel = req.PracticeLevel
	}
	if req.MarriageIntent != nil {
		profile.MarriageIntent = req.MarriageIntent
	}
	if req.MaritalHistory != nil {
		profile.MaritalHistory = *req.MaritalHistory
	}
	if req.AboutMe != nil {
		profile.AboutMe = *req.AboutMe
	}
	if req.Languages != nil {
		profile.Languages = pq.StringArray(*req.Languages)
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.Latitude != nil {
		profile.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		profile.Longitude = req.Longitude
	}
	if req.Smoking != nil {
		profile.Smoking = *req.Smoking
	}
	if req.Drinking != nil {
		profile.Drinking = *req.Drinking
	}
	if req.Education != nil {
		profile.Education = *req.Education
	}
	if req.Occupation != nil {
		profile.Occupation = *req.Occupation
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	profile.CompletionPercentage = s.completion(profile).Percentage
	return profile, nil
}

func (s *service) GetCompletion(ctx context.Context, userID string) (*ProfileCompletion, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.completion(profile), nil
}

// UploadPhoto stores a photo and appends it to the profile
func (s *service) UploadPhoto(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	if len(profile.Photos) >= s.maxPhotos {
		return "", ErrTooManyPhotos
	}

	url, err := s.uploads.UploadPhoto(ctx, file, header, "photos/"+userID)
	if err != nil {
		return "", err
	}

	photos := append([]string(profile.Photos), url)
	if err := s.repo.UpdatePhotos(ctx, userID, photos); err != nil {
		// Storage succeeded but the profile row didn't; clean up the orphan
		_ = s.uploads.DeletePhoto(ctx, url)
		return "", err
	}

	return url, nil
}

func (s *service) DeletePhoto(ctx context.Context, userID, photoURL string) error {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return err
	}

	remaining := make([]string, 0, len(profile.Photos))
	found := false
	for _, url := range profile.Photos {
		if url == photoURL {
			found = true
			continue
		}
		remaining = append(remaining, url)
	}
	if !found {
		return ErrNotFound
	}

	if err := s.repo.UpdatePhotos(ctx, userID, remaining); err != nil {
		return err
	}

	if err := s.uploads.DeletePhoto(ctx, photoURL); err != nil {
		log.Printf("Failed to delete stored photo %s: %v", photoURL, err)
	}
	return nil
}

func (s *service) BlockUser(ctx context.Context, userID, blockedID string) error {
	if userID == blockedID {
		return ErrCannotBlockSelf
	}
	return s.repo.BlockUser(ctx, userID, blockedID)
}

func (s *service) UnblockUser(ctx context.Context, userID, blockedID string) error {
	return s.repo.UnblockUser(ctx, userID, blockedID)
}

func (s *service) GetBlockedUsers(ctx context.Context, userID string) ([]string, error) {
	return s.repo.GetBlockedUsers(ctx, userID)
}

// TouchLastActive is fire-and-forget; activity tracking must never block
// or fail a request.
func (s *service) TouchLastActive(ctx context.Context, userID string) {
	go func() {
		if err := s.repo.TouchLastActive(context.Background(), userID); err != nil {
			log.Printf("Failed to touch last active for %s: %v", userID, err)
		}
	}()
}

// completion scores profile completeness and reports what is missing
func (s *service) completion(p *Profile) *ProfileCompletion {
	total := 0
	var missing []string
	for _, field := range completionFields {
		if field.filled(p) {
			total += field.weight
		} else {
			missing = append(missing, field.name)
		}
	}

	return &ProfileCompletion{
		Percentage:    total,
		MissingFields: missing,
		ReadyForPool:  total == 100 && p.Status == "approved",
	}
}

// ageAt computes full years elapsed since birth
func ageAt(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
