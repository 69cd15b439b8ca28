// Admin business logic: matching configuration, moderation, reports, stats

package admin

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/qiranapp/qiran-backend/internal/matching"
	"github.com/qiranapp/qiran-backend/internal/notification"
)

var (
	// ErrInvalidWeights is returned when the submitted weights do not sum to 100
	ErrInvalidWeights = errors.New("weights must sum to 100")

	// ErrInvalidThreshold is returned when a threshold value is negative
	ErrInvalidThreshold = errors.New("thresholds must be non-negative")

	// ErrCannotReportSelf is returned when a member reports themselves
	ErrCannotReportSelf = errors.New("cannot report yourself")
)

// autoSuspendReportCount is the open-report threshold that flags a profile
// back into the moderation queue.
const autoSuspendReportCount = 3

// Notifier pushes moderation outcomes to affected members
type Notifier interface {
	Notify(ctx context.Context, userID, eventType string, payload map[string]interface{})
}

// Service defines admin operations
type Service interface {
	GetMatchingConfig(ctx context.Context) (*matching.MatchingConfig, error)
	UpdateMatchingConfig(ctx context.Context, req *UpdateConfigRequest) (*matching.MatchingConfig, error)

	ListModerationQueue(ctx context.Context, limit, offset int) ([]*ModerationEntry, error)
	ModerateProfile(ctx context.Context, userID string, req *ModerateRequest) error
	SetVerificationTier(ctx context.Context, userID string, tier int) error

	CreateReport(ctx context.Context, reporterID string, req *CreateReportRequest) (*Report, error)
	ListReports(ctx context.Context, status string, limit, offset int) ([]*Report, error)
	ResolveReport(ctx context.Context, reportID, adminID string, req *ResolveReportRequest) error

	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo         Repository
	matchingRepo matching.Repository
	redis        *redis.Client
	notifier     Notifier
}

// NewService creates the admin service
func NewService(repo Repository, matchingRepo matching.Repository, redisClient *redis.Client, notifier Notifier) Service {
	return &service{
		repo:         repo,
		matchingRepo: matchingRepo,
		redis:        redisClient,
		notifier:     notifier,
	}
}

func (s *service) GetMatchingConfig(ctx context.Context) (*matching.MatchingConfig, error) {
	return s.matchingRepo.GetMatchingConfig(ctx)
}

// UpdateMatchingConfig validates and persists a new configuration, then
// invalidates the cached snapshot so the engine picks it up promptly.
func (s *service) UpdateMatchingConfig(ctx context.Context, req *UpdateConfigRequest) (*matching.MatchingConfig, error) {
	if err := ValidateConfig(req.Weights, req.Thresholds); err != nil {
		return nil, err
	}

	cfg := &matching.MatchingConfig{
		Weights:    req.Weights,
		Thresholds: req.Thresholds,
	}
	if err := s.matchingRepo.SaveMatchingConfig(ctx, cfg); err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, matching.ConfigCacheKey).Err(); err != nil {
			log.Printf("Failed to invalidate config cache: %v", err)
		}
	}

	log.Printf("Matching configuration updated: %d weights, %d thresholds",
		len(cfg.Weights), len(cfg.Thresholds))
	return cfg, nil
}

// ValidateConfig enforces the invariants a stored configuration must hold.
// Weight keys are not restricted: unknown factors are tolerated and logged
// by the engine, which lets config and code deploy independently.
func ValidateConfig(weights map[string]int, thresholds map[string]float64) error {
	sum := 0
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: %q is negative", ErrInvalidWeights, name)
		}
		sum += w
	}
	if sum != 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeights, sum)
	}

	for name, v := range thresholds {
		if v < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidThreshold, name)
		}
	}
	return nil
}

func (s *service) ListModerationQueue(ctx context.Context, limit, offset int) ([]*ModerationEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListModerationQueue(ctx, limit, offset)
}

// ModerateProfile applies a status decision and notifies the member
func (s *service) ModerateProfile(ctx context.Context, userID string, req *ModerateRequest) error {
	if err := s.repo.SetProfileStatus(ctx, userID, req.Status); err != nil {
		return err
	}

	if s.notifier == nil {
		return nil
	}

	payload := map[string]interface{}{}
	if req.Reason != nil {
		payload["reason"] = *req.Reason
	}

	switch req.Status {
	case "approved":
		s.notifier.Notify(ctx, userID, notification.EventProfileApproved, payload)
	case "suspended", "banned":
		s.notifier.Notify(ctx, userID, notification.EventProfileRejected, payload)
	}
	return nil
}

func (s *service) SetVerificationTier(ctx context.Context, userID string, tier int) error {
	return s.repo.SetVerificationTier(ctx, userID, tier)
}

// CreateReport files a report. Enough open reports push the reported
// profile back into review automatically.
func (s *service) CreateReport(ctx context.Context, reporterID string, req *CreateReportRequest) (*Report, error) {
	if reporterID == req.ReportedID {
		return nil, ErrCannotReportSelf
	}

	report := &Report{
		ReporterID: reporterID,
		ReportedID: req.ReportedID,
		Reason:     req.Reason,
		Details:    req.Details,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	count, err := s.repo.CountOpenReportsAgainst(ctx, req.ReportedID)
	if err != nil {
		log.Printf("Failed to count reports against %s: %v", req.ReportedID, err)
		return report, nil
	}
	if count >= autoSuspendReportCount {
		if err := s.repo.SetProfileStatus(ctx, req.ReportedID, "pending_review"); err != nil {
			log.Printf("Failed to flag reported profile %s: %v", req.ReportedID, err)
		} else {
			log.Printf("Profile %s flagged for review after %d open reports", req.ReportedID, count)
		}
	}

	return report, nil
}

func (s *service) ListReports(ctx context.Context, status string, limit, offset int) ([]*Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListReports(ctx, status, limit, offset)
}

func (s *service) ResolveReport(ctx context.Context, reportID, adminID string, req *ResolveReportRequest) error {
	return s.repo.ResolveReport(ctx, reportID, adminID, req.Status)
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	return s.repo.GetStats(ctx)
}
