// Database access for marriage profiles

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrNotFound is returned when no profile exists for the user
var ErrNotFound = errors.New("profile not found")

// Repository defines data access for profiles
type Repository interface {
	CreateProfile(ctx context.Context, profile *Profile) error
	GetProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, profile *Profile) error
	UpdatePhotos(ctx context.Context, userID string, photos []string) error
	TouchLastActive(ctx context.Context, userID string) error

	BlockUser(ctx context.Context, userID, blockedID string) error
	UnblockUser(ctx context.Context, userID, blockedID string) error
	GetBlockedUsers(ctx context.Context, userID string) ([]string, error)

	RecordProfileView(ctx context.Context, viewerID, profileID string) error
	GetProfileViews(ctx context.Context, userID string, limit int) ([]*ProfileView, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	id, display_name, birth_date, gender, seeking_gender, religion,
	practice_level, marriage_intent, marital_history, about_me, languages, photos,
	city, country, latitude, longitude, smoking, drinking, education, occupation,
	status, verification_tier, is_premium, last_active, created_at, updated_at`

func (r *postgresRepository) CreateProfile(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (
			id, display_name, birth_date, gender, seeking_gender, religion,
			city, country, languages, photos, status, verification_tier, last_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending_review', 0, NOW())
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.DisplayName, p.BirthDate, p.Gender, p.SeekingGender,
		p.Religion, p.City, p.Country,
		pq.StringArray(p.Languages), pq.StringArray(p.Photos),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	p.Status = "pending_review"
	return nil
}

func (r *postgresRepository) GetProfileByUserID(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileColumns)

	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles SET
			display_name = $2, religion = $3, practice_level = $4,
			marriage_intent = $5, marital_history = $6, about_me = $7,
			languages = $8, city = $9, country = $10, latitude = $11,
			longitude = $12, smoking = $13, drinking = $14,
			education = $15, occupation = $16, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.DisplayName, p.Religion, p.PracticeLevel,
		p.MarriageIntent, p.MaritalHistory, p.AboutMe,
		pq.StringArray(p.Languages), p.City, p.Country,
		p.Latitude, p.Longitude, p.Smoking, p.Drinking,
		p.Education, p.Occupation,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdatePhotos(ctx context.Context, userID string, photos []string) error {
	query := `UPDATE profiles SET photos = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID, pq.StringArray(photos))
	if err != nil {
		return fmt.Errorf("failed to update photos: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastActive bumps last_active; discovery ranks and filters on it
func (r *postgresRepository) TouchLastActive(ctx context.Context, userID string) error {
	query := `UPDATE profiles SET last_active = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to touch last active: %w", err)
	}
	return nil
}

func (r *postgresRepository) BlockUser(ctx context.Context, userID, blockedID string) error {
	query := `
		INSERT INTO blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, blockedID); err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	return nil
}

func (r *postgresRepository) UnblockUser(ctx context.Context, userID, blockedID string) error {
	query := `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, blockedID); err != nil {
		return fmt.Errorf("failed to unblock user: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetBlockedUsers(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `SELECT blocked_id FROM blocks WHERE blocker_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get blocked users: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) RecordProfileView(ctx context.Context, viewerID, profileID string) error {
	query := `
		INSERT INTO profile_views (viewer_id, profile_id, viewed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (viewer_id, profile_id) DO UPDATE SET viewed_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, viewerID, profileID); err != nil {
		return fmt.Errorf("failed to record profile view: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetProfileViews(ctx context.Context, userID string, limit int) ([]*ProfileView, error) {
	var views []*ProfileView
	query := `
		SELECT viewer_id, profile_id, viewed_at
		FROM profile_views
		WHERE profile_id = $1
		ORDER BY viewed_at DESC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &views, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get profile views: %w", err)
	}
	return views, nil
}
