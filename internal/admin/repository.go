// Database access for moderation and reporting

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrProfileNotFound is returned when no profile matches the user ID
	ErrProfileNotFound = errors.New("profile not found")

	// ErrReportNotFound is returned when no report matches the ID
	ErrReportNotFound = errors.New("report not found")
)

// Repository defines data access for admin operations
type Repository interface {
	ListModerationQueue(ctx context.Context, limit, offset int) ([]*ModerationEntry, error)
	SetProfileStatus(ctx context.Context, userID, status string) error
	SetVerificationTier(ctx context.Context, userID string, tier int) error

	CreateReport(ctx context.Context, report *Report) error
	ListReports(ctx context.Context, status string, limit, offset int) ([]*Report, error)
	ResolveReport(ctx context.Context, reportID, adminID, status string) error
	CountOpenReportsAgainst(ctx context.Context, userID string) (int, error)

	GetStats(ctx context.Context) (*Stats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed admin repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// ListModerationQueue returns pending profiles, oldest first so nobody
// waits at the back of the queue indefinitely.
func (r *postgresRepository) ListModerationQueue(ctx context.Context, limit, offset int) ([]*ModerationEntry, error) {
	var entries []*ModerationEntry
	query := `
		SELECT id AS user_id, display_name, gender, religion, about_me, photos,
		       city, country, status, created_at
		FROM profiles
		WHERE status = 'pending_review'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &entries, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list moderation queue: %w", err)
	}
	return entries, nil
}

func (r *postgresRepository) SetProfileStatus(ctx context.Context, userID, status string) error {
	query := `UPDATE profiles SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID, status)
	if err != nil {
		return fmt.Errorf("failed to set profile status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) SetVerificationTier(ctx context.Context, userID string, tier int) error {
	query := `UPDATE profiles SET verification_tier = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID, tier)
	if err != nil {
		return fmt.Errorf("failed to set verification tier: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) CreateReport(ctx context.Context, report *Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.Status = ReportOpen

	query := `
		INSERT INTO reports (id, reporter_id, reported_id, reason, details, status)
		VALUES ($1, $2, $3, $4, $5, 'open')
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		report.ID, report.ReporterID, report.ReportedID, report.Reason, report.Details,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListReports(ctx context.Context, status string, limit, offset int) ([]*Report, error) {
	var reports []*Report
	query := `
		SELECT id, reporter_id, reported_id, reason, details, status,
		       resolved_by, resolved_at, created_at
		FROM reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	if err := r.db.SelectContext(ctx, &reports, query, status, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (r *postgresRepository) ResolveReport(ctx context.Context, reportID, adminID, status string) error {
	query := `
		UPDATE reports SET status = $3, resolved_by = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'open'`
	result, err := r.db.ExecContext(ctx, query, reportID, adminID, status)
	if err != nil {
		return fmt.Errorf("failed to resolve report: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *postgresRepository) CountOpenReportsAgainst(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reports WHERE reported_id = $1 AND status = 'open'`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// GetStats aggregates the dashboard snapshot in one round trip per table
func (r *postgresRepository) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats

	profileQuery := `
		SELECT
			COUNT(*) AS total_profiles,
			COUNT(*) FILTER (WHERE status = 'pending_review') AS pending_review,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved_profiles,
			COUNT(*) FILTER (WHERE status IN ('suspended', 'banned')) AS suspended_or_banned,
			COUNT(*) FILTER (WHERE last_active > NOW() - INTERVAL '24 hours') AS active_last_24h
		FROM profiles`
	if err := r.db.GetContext(ctx, &stats, profileQuery); err != nil {
		return nil, fmt.Errorf("failed to get profile stats: %w", err)
	}

	matchQuery := `
		SELECT
			COUNT(*) AS total_matches,
			COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '7 days') AS matches_last_7_days
		FROM matches WHERE is_active = TRUE`
	var matchStats struct {
		TotalMatches     int `db:"total_matches"`
		MatchesLast7Days int `db:"matches_last_7_days"`
	}
	if err := r.db.GetContext(ctx, &matchStats, matchQuery); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get match stats: %w", err)
	}
	stats.TotalMatches = matchStats.TotalMatches
	stats.MatchesLast7Days = matchStats.MatchesLast7Days

	reportQuery := `SELECT COUNT(*) FROM reports WHERE status = 'open'`
	if err := r.db.GetContext(ctx, &stats.OpenReports, reportQuery); err != nil {
		return nil, fmt.Errorf("failed to get report stats: %w", err)
	}

	return &stats, nil
}
