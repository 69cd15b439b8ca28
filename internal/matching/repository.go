package matching

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	// Profiles
	GetProfile(ctx context.Context, id string) (*Profile, error)
	GetCandidatePool(ctx context.Context, requester *Profile, limit int) ([]*Profile, error)

	// Discovery actions & exclusions
	RecordAction(ctx context.Context, userID, targetID, action string) error
	GetExclusions(ctx context.Context, userID string) (ExclusionSet, error)
	GetLikesBetween(ctx context.Context, userID, otherID string) ([]Like, error)

	// Matches & conversations
	CreateConversationIfAbsent(ctx context.Context, key ConversationKey) (string, error)
	CreateMatch(ctx context.Context, match *Match) error
	GetMatch(ctx context.Context, id string) (*Match, error)
	GetUserMatches(ctx context.Context, userID string, active bool) ([]*Match, error)
	DeactivateMatch(ctx context.Context, matchID, userID string) error

	// Configuration
	GetMatchingConfig(ctx context.Context) (*MatchingConfig, error)
	SaveMatchingConfig(ctx context.Context, cfg *MatchingConfig) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// profileRow flattens the profiles table for sqlx scanning; arrays and nested
// location fields hydrate into the engine's Profile.
type profileRow struct {
	ID             string         `db:"id"`
	DisplayName    string         `db:"display_name"`
	BirthDate      *time.Time     `db:"birth_date"`
	Gender         string         `db:"gender"`
	SeekingGender  string         `db:"seeking_gender"`
	City           string         `db:"city"`
	Country        string         `db:"country"`
	Latitude       *float64       `db:"latitude"`
	Longitude      *float64       `db:"longitude"`
	Religion       string         `db:"religion"`
	PracticeLevel  *int           `db:"practice_level"`
	MaritalHistory string         `db:"marital_history"`
	Smoking        string         `db:"smoking"`
	Drinking       string         `db:"drinking"`
	Education      string         `db:"education"`
	Occupation     string         `db:"occupation"`
	Languages      pq.StringArray `db:"languages"`
	MarriageIntent *int           `db:"marriage_intent"`
	Bio            string         `db:"about_me"`
	Photos         pq.StringArray `db:"photos"`
	Verification   int            `db:"verification_tier"`
	IsPremium      bool           `db:"is_premium"`
	Status         string         `db:"status"`
	LastActive     time.Time      `db:"last_active"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r profileRow) toProfile() *Profile {
	return &Profile{
		ID:             r.ID,
		DisplayName:    r.DisplayName,
		BirthDate:      r.BirthDate,
		Gender:         r.Gender,
		SeekingGender:  r.SeekingGender,
		Location:       Location{City: r.City, Country: r.Country, Lat: r.Latitude, Lng: r.Longitude},
		Religion:       r.Religion,
		PracticeLevel:  r.PracticeLevel,
		MaritalHistory: r.MaritalHistory,
		Smoking:        r.Smoking,
		Drinking:       r.Drinking,
		Education:      r.Education,
		Occupation:     r.Occupation,
		Languages:      []string(r.Languages),
		MarriageIntent: r.MarriageIntent,
		Bio:            r.Bio,
		Photos:         []string(r.Photos),
		Verification:   VerificationTier(r.Verification),
		IsPremium:      r.IsPremium,
		Status:         AccountStatus(r.Status),
		LastActive:     r.LastActive,
		CreatedAt:      r.CreatedAt,
	}
}

const profileColumns = `
	id, display_name, birth_date, gender, seeking_gender,
	city, country, latitude, longitude,
	religion, practice_level, marital_history, smoking, drinking,
	education, occupation, languages, marriage_intent, about_me, photos,
	verification_tier, is_premium, status, last_active, created_at
`

func (r *postgresRepository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toProfile(), nil
}

// GetCandidatePool prefilters in SQL on the cheap indexable rules (approved
// status, mutual gender seeking); the engine re-applies the full rule set in
// memory so a stale row can never leak through.
func (r *postgresRepository) GetCandidatePool(ctx context.Context, requester *Profile, limit int) ([]*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id != $1
		  AND status = 'approved'
		  AND LOWER(gender) = LOWER($2)
		  AND LOWER(seeking_gender) = LOWER($3)
		ORDER BY last_active DESC
		LIMIT $4
	`

	rows, err := r.db.QueryxContext(ctx, query, requester.ID, requester.SeekingGender, requester.Gender, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []*Profile
	for rows.Next() {
		var row profileRow
		if err := rows.StructScan(&row); err != nil {
			continue
		}
		pool = append(pool, row.toProfile())
	}
	return pool, rows.Err()
}

// Discovery actions

func (r *postgresRepository) RecordAction(ctx context.Context, userID, targetID, action string) error {
	query := `
		INSERT INTO discovery_actions (user_id, target_id, action)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, target_id)
		DO UPDATE SET action = $3, created_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, userID, targetID, action)
	return err
}

// GetExclusions gathers every id the requester must never be shown again:
// anyone they acted on, anyone they matched, and blocks in either direction.
func (r *postgresRepository) GetExclusions(ctx context.Context, userID string) (ExclusionSet, error) {
	query := `
		SELECT target_id FROM discovery_actions WHERE user_id = $1
		UNION
		SELECT CASE WHEN user_a_id = $1 THEN user_b_id ELSE user_a_id END
		FROM matches WHERE user_a_id = $1 OR user_b_id = $1
		UNION
		SELECT CASE WHEN blocker_id = $1 THEN blocked_id ELSE blocker_id END
		FROM blocks WHERE blocker_id = $1 OR blocked_id = $1
	`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, err
	}
	return NewExclusionSet(ids...), nil
}

func (r *postgresRepository) GetLikesBetween(ctx context.Context, userID, otherID string) ([]Like, error) {
	query := `
		SELECT user_id, target_id, created_at
		FROM discovery_actions
		WHERE action = 'like'
		  AND ((user_id = $1 AND target_id = $2) OR (user_id = $2 AND target_id = $1))
	`

	var likes []Like
	err := r.db.SelectContext(ctx, &likes, query, userID, otherID)
	return likes, err
}

// Matches & conversations

// CreateConversationIfAbsent resolves the race when both sides like each
// other near-simultaneously: the unordered pair is unique, so the second
// writer gets the first writer's conversation back.
func (r *postgresRepository) CreateConversationIfAbsent(ctx context.Context, key ConversationKey) (string, error) {
	query := `
		INSERT INTO conversations (id, user_a_id, user_b_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_a_id, user_b_id) DO UPDATE SET user_a_id = EXCLUDED.user_a_id
		RETURNING id
	`

	var id string
	err := r.db.QueryRowxContext(ctx, query, uuid.New().String(), key.UserA, key.UserB).Scan(&id)
	return id, err
}

func (r *postgresRepository) CreateMatch(ctx context.Context, match *Match) error {
	if match.UserAID > match.UserBID {
		match.UserAID, match.UserBID = match.UserBID, match.UserAID
	}
	if match.ID == "" {
		match.ID = uuid.New().String()
	}

	query := `
		INSERT INTO matches (id, user_a_id, user_b_id, conversation_id, compatibility_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_a_id, user_b_id)
		DO UPDATE SET
			is_active = TRUE,
			unmatched_by = NULL,
			unmatched_at = NULL,
			matched_at = CURRENT_TIMESTAMP
		RETURNING id, matched_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		match.ID, match.UserAID, match.UserBID, match.ConversationID, match.CompatibilityScore,
	).Scan(&match.ID, &match.MatchedAt)
}

func (r *postgresRepository) GetMatch(ctx context.Context, id string) (*Match, error) {
	var match Match
	query := `
		SELECT id, user_a_id, user_b_id, conversation_id, compatibility_score,
		       is_active, unmatched_by, unmatched_at, matched_at
		FROM matches WHERE id = $1
	`

	err := r.db.GetContext(ctx, &match, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	return &match, err
}

func (r *postgresRepository) GetUserMatches(ctx context.Context, userID string, active bool) ([]*Match, error) {
	query := `
		SELECT id, user_a_id, user_b_id, conversation_id, compatibility_score,
		       is_active, unmatched_by, unmatched_at, matched_at
		FROM matches
		WHERE (user_a_id = $1 OR user_b_id = $1) AND is_active = $2
		ORDER BY matched_at DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, userID, active)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		var match Match
		if err := rows.StructScan(&match); err != nil {
			continue
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}

func (r *postgresRepository) DeactivateMatch(ctx context.Context, matchID, userID string) error {
	query := `
		UPDATE matches
		SET is_active = FALSE, unmatched_by = $2, unmatched_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, matchID, userID)
	return err
}

// Configuration

func (r *postgresRepository) GetMatchingConfig(ctx context.Context) (*MatchingConfig, error) {
	var row struct {
		Weights    json.RawMessage `db:"weights"`
		Thresholds json.RawMessage `db:"thresholds"`
		UpdatedAt  time.Time       `db:"updated_at"`
	}

	query := `SELECT weights, thresholds, updated_at FROM matching_config WHERE id = 1`
	err := r.db.GetContext(ctx, &row, query)
	if err == sql.ErrNoRows {
		return DefaultMatchingConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := &MatchingConfig{UpdatedAt: row.UpdatedAt}
	if err := json.Unmarshal(row.Weights, &cfg.Weights); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.Thresholds, &cfg.Thresholds); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *postgresRepository) SaveMatchingConfig(ctx context.Context, cfg *MatchingConfig) error {
	weights, err := json.Marshal(cfg.Weights)
	if err != nil {
		return err
	}
	thresholds, err := json.Marshal(cfg.Thresholds)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matching_config (id, weights, thresholds, updated_at)
		VALUES (1, $1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (id)
		DO UPDATE SET weights = $1, thresholds = $2, updated_at = CURRENT_TIMESTAMP
	`

	_, err = r.db.ExecContext(ctx, query, weights, thresholds)
	return err
}
