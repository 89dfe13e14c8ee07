package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonesrussell/formguard/internal/domain"
)

// clickSelectList is the column list for SELECT on click_events.
const clickSelectList = `id, event_ts, x, y, is_suspicious, confidence, reason,
		action_type, action_details, COALESCE(page_url, ''), page_title,
		target_tag, target_id, target_class, is_trusted, created_at`

// ClickRepository manages stored page-click records.
type ClickRepository struct {
	db *sql.DB
}

// NewClickRepository creates a new repository.
func NewClickRepository(db *sql.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

// Insert stores a click event and fills in its ID and creation time.
// The correlation verdict is part of the insert; records never change
// afterwards.
func (r *ClickRepository) Insert(ctx context.Context, e *domain.ClickEvent) error {
	query := `
		INSERT INTO click_events (event_ts, x, y, is_suspicious, confidence, reason,
			action_type, action_details, page_url, page_title,
			target_tag, target_id, target_class, is_trusted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	row := r.db.QueryRowContext(ctx, query,
		e.Timestamp, e.X, e.Y, e.IsSuspicious, e.Confidence, e.Reason,
		e.ActionType, e.ActionDetails, e.PageURL, e.PageTitle,
		e.TargetTag, e.TargetID, e.TargetClass, e.IsTrusted,
	)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("insert click event: %w", err)
	}
	return nil
}

// ListRecent returns the most recent click events, newest first.
func (r *ClickRepository) ListRecent(ctx context.Context, limit int) ([]domain.ClickEvent, error) {
	query := `SELECT ` + clickSelectList + `
		FROM click_events
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent clicks: %w", err)
	}
	defer rows.Close()

	return scanClickEvents(rows)
}

// ListSuspicious returns the most recent suspicious click events.
func (r *ClickRepository) ListSuspicious(ctx context.Context, limit int) ([]domain.ClickEvent, error) {
	query := `SELECT ` + clickSelectList + `
		FROM click_events
		WHERE is_suspicious = TRUE
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list suspicious clicks: %w", err)
	}
	defer rows.Close()

	return scanClickEvents(rows)
}

// Counts returns total, suspicious, legitimate, and distinct-page counts.
// COUNT(DISTINCT page_url) skips null page URLs.
func (r *ClickRepository) Counts(ctx context.Context) (total, suspicious, legitimate, uniquePages int64, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_suspicious = TRUE),
		       COUNT(*) FILTER (WHERE is_suspicious = FALSE),
		       COUNT(DISTINCT page_url)
		FROM click_events`

	if err := r.db.QueryRowContext(ctx, query).Scan(&total, &suspicious, &legitimate, &uniquePages); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("count clicks: %w", err)
	}
	return total, suspicious, legitimate, uniquePages, nil
}

// ActionSummary returns per-action-type counts with suspicious counts,
// one row per distinct action_type, most frequent first.
func (r *ClickRepository) ActionSummary(ctx context.Context) ([]domain.ActionSummary, error) {
	query := `
		SELECT action_type,
		       COUNT(*) AS count,
		       COUNT(*) FILTER (WHERE is_suspicious = TRUE)
		FROM click_events
		GROUP BY action_type
		ORDER BY count DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("action summary: %w", err)
	}
	defer rows.Close()

	summaries := []domain.ActionSummary{}
	for rows.Next() {
		var s domain.ActionSummary
		if scanErr := rows.Scan(&s.ActionType, &s.Count, &s.SuspiciousCount); scanErr != nil {
			return nil, fmt.Errorf("scan action summary: %w", scanErr)
		}
		summaries = append(summaries, s)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate action summaries: %w", rowsErr)
	}
	return summaries, nil
}

// scanClickEvents reads click event rows into domain records.
func scanClickEvents(rows *sql.Rows) ([]domain.ClickEvent, error) {
	events := []domain.ClickEvent{}

	for rows.Next() {
		var e domain.ClickEvent
		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.X, &e.Y, &e.IsSuspicious, &e.Confidence, &e.Reason,
			&e.ActionType, &e.ActionDetails, &e.PageURL, &e.PageTitle,
			&e.TargetTag, &e.TargetID, &e.TargetClass, &e.IsTrusted, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan click event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate click events: %w", err)
	}
	return events, nil
}
