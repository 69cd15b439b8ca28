package matching

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrCannotActOnSelf    = errors.New("cannot act on your own profile")
	ErrProfileNotApproved = errors.New("profile is not approved for discovery")
	ErrRateLimited        = errors.New("too many actions, please slow down")
	ErrUnauthorized       = errors.New("unauthorized to perform this action")
)

const (
	ActionLike     = "like"
	ActionPass     = "pass"
	ActionFavorite = "favorite"
	ActionDiscover = "discover"

	candidatePoolLimit = 500

	// ConfigCacheKey is where the active matching configuration is cached.
	// Exported so admin config updates can invalidate it.
	ConfigCacheKey = "matching:config"
	configCacheTTL = time.Minute
)

// RateLimiter gates like/pass actions before they are accepted. The engine
// itself assumes the gate has already been consulted.
type RateLimiter interface {
	Allow(ctx context.Context, userID, action string) (bool, error)
}

// Notifier is the fire-and-forget notification contract. Failures are the
// notifier's problem; the matching flow never blocks on delivery.
type Notifier interface {
	Notify(ctx context.Context, userID, eventType string, payload map[string]interface{})
}

type Service interface {
	Discover(ctx context.Context, userID string, params *DiscoverParams) (*DiscoverResponse, error)
	Like(ctx context.Context, userID, targetID string) (*LikeResponse, error)
	Pass(ctx context.Context, userID, targetID string) error
	Favorite(ctx context.Context, userID, targetID string) error
	Compatibility(ctx context.Context, userID, targetID string) (*CompatibilityResponse, error)
	GetMatches(ctx context.Context, userID string, active bool) ([]*Match, error)
	Unmatch(ctx context.Context, matchID, userID string) error
}

type service struct {
	repo     Repository
	redis    *redis.Client
	limiter  RateLimiter
	notifier Notifier
	hub      *Hub
}

func NewService(repo Repository, redisClient *redis.Client, limiter RateLimiter, notifier Notifier, hub *Hub) Service {
	return &service{
		repo:     repo,
		redis:    redisClient,
		limiter:  limiter,
		notifier: notifier,
		hub:      hub,
	}
}

func (s *service) Discover(ctx context.Context, userID string, params *DiscoverParams) (*DiscoverResponse, error) {
	started := time.Now()

	if err := s.checkRateLimit(ctx, userID, ActionDiscover); err != nil {
		return nil, err
	}

	requester, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requester.Status != StatusApproved {
		return nil, ErrProfileNotApproved
	}

	cfg := s.loadConfig(ctx)

	pool, err := s.repo.GetCandidatePool(ctx, requester, candidatePoolLimit)
	if err != nil {
		return nil, err
	}

	exclusions, err := s.repo.GetExclusions(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := FilterAndScore(requester, pool, cfg, exclusions)
	RecordEligibleCandidates(len(results))

	page, err := RankAndPage(results, params.PageSize, params.PageToken, params.Sort)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &DiscoverResponse{
		Items:         make([]*CandidateDTO, 0, len(page.Items)),
		NextPageToken: page.NextPageToken,
	}
	for _, item := range page.Items {
		RecordCompatibilityScore(item.CompatibilityScore)
		resp.Items = append(resp.Items, newCandidateDTO(item, now))
	}

	RecordDiscoveryDuration(time.Since(started))
	return resp, nil
}

func (s *service) Like(ctx context.Context, userID, targetID string) (*LikeResponse, error) {
	if userID == targetID {
		return nil, ErrCannotActOnSelf
	}
	if err := s.checkRateLimit(ctx, userID, ActionLike); err != nil {
		return nil, err
	}

	target, err := s.repo.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// Read the target's existing likes before recording ours, so our own
	// like never counts as the reciprocal one.
	existing, err := s.repo.GetLikesBetween(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecordAction(ctx, userID, targetID, ActionLike); err != nil {
		return nil, err
	}
	RecordDiscoveryAction(ActionLike)

	decision := EvaluateLike(userID, targetID, existing)
	if !decision.IsMutualMatch {
		s.notifier.Notify(ctx, targetID, "like_received", map[string]interface{}{
			"from_user_id": userID,
		})
		if s.hub != nil {
			s.hub.NotifyLike(targetID, userID)
		}
		return &LikeResponse{IsMutualMatch: false}, nil
	}

	// Mutual match: apply the side effects the engine prescribed.
	conversationID, err := s.repo.CreateConversationIfAbsent(ctx, decision.Conversation)
	if err != nil {
		return nil, err
	}

	requester, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	score := Score(requester, target, s.loadConfig(ctx))

	match := &Match{
		UserAID:            decision.Conversation.UserA,
		UserBID:            decision.Conversation.UserB,
		ConversationID:     conversationID,
		CompatibilityScore: &score,
	}
	if err := s.repo.CreateMatch(ctx, match); err != nil {
		return nil, err
	}
	RecordMatch()

	for _, notifyID := range decision.NotifyUserIDs {
		s.notifier.Notify(ctx, notifyID, "new_match", map[string]interface{}{
			"match_id":        match.ID,
			"conversation_id": conversationID,
		})
	}
	if s.hub != nil {
		s.hub.NotifyMatch(match)
	}

	return &LikeResponse{
		IsMutualMatch:  true,
		ConversationID: conversationID,
		MatchID:        match.ID,
	}, nil
}

func (s *service) Pass(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return ErrCannotActOnSelf
	}
	if err := s.checkRateLimit(ctx, userID, ActionPass); err != nil {
		return err
	}
	if err := s.repo.RecordAction(ctx, userID, targetID, ActionPass); err != nil {
		return err
	}
	RecordDiscoveryAction(ActionPass)
	return nil
}

func (s *service) Favorite(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return ErrCannotActOnSelf
	}
	if err := s.repo.RecordAction(ctx, userID, targetID, ActionFavorite); err != nil {
		return err
	}
	RecordDiscoveryAction(ActionFavorite)
	return nil
}

func (s *service) Compatibility(ctx context.Context, userID, targetID string) (*CompatibilityResponse, error) {
	requester, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	return &CompatibilityResponse{
		TargetID:           targetID,
		CompatibilityScore: Score(requester, target, s.loadConfig(ctx)),
		DistanceKM:         distanceBetween(requester.Location, target.Location),
	}, nil
}

func (s *service) GetMatches(ctx context.Context, userID string, active bool) ([]*Match, error) {
	matches, err := s.repo.GetUserMatches(ctx, userID, active)
	if err != nil {
		return nil, err
	}

	// Hydrate the other side of each pair for the matches screen.
	for _, match := range matches {
		otherID := match.UserAID
		if otherID == userID {
			otherID = match.UserBID
		}
		if other, err := s.repo.GetProfile(ctx, otherID); err == nil {
			match.MatchedUser = other
		}
	}
	return matches, nil
}

func (s *service) Unmatch(ctx context.Context, matchID, userID string) error {
	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.UserAID != userID && match.UserBID != userID {
		return ErrUnauthorized
	}
	return s.repo.DeactivateMatch(ctx, matchID, userID)
}

func (s *service) checkRateLimit(ctx context.Context, userID, action string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, err := s.limiter.Allow(ctx, userID, action)
	if err != nil {
		// Fail open: a broken limiter must not take down discovery.
		log.Printf("matching: rate limiter error for user %s: %v", userID, err)
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

// loadConfig returns the current matching config snapshot, preferring a
// short-lived Redis cache over the database. A stale snapshot is acceptable;
// an unreadable one falls back to defaults so discovery stays up.
func (s *service) loadConfig(ctx context.Context) *MatchingConfig {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, ConfigCacheKey).Bytes(); err == nil {
			var cfg MatchingConfig
			if json.Unmarshal(raw, &cfg) == nil {
				return &cfg
			}
		}
	}

	cfg, err := s.repo.GetMatchingConfig(ctx)
	if err != nil {
		log.Printf("matching: failed to load config, using defaults: %v", err)
		return DefaultMatchingConfig()
	}

	if sum := weightSum(cfg.Weights); sum != 100 {
		log.Printf("matching: config weights sum to %d, normalizing", sum)
		RecordConfigDrift()
	}

	if s.redis != nil {
		if raw, err := json.Marshal(cfg); err == nil {
			s.redis.Set(ctx, ConfigCacheKey, raw, configCacheTTL)
		}
	}
	return cfg
}

func weightSum(weights map[string]int) int {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	return sum
}
