// Package storage provides PostgreSQL persistence for formguard records.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/jonesrussell/formguard/internal/domain"
)

// submissionSelectList is the column list for SELECT on submissions
// (single source for schema changes).
const submissionSelectList = `id, created_at, target_url, target_hostname, source_url,
		matched_fields, matched_values, request_method, status,
		is_bot, has_click_correlation, click_time_diff_ms, click_coordinates`

// SubmissionRepository manages stored submission records.
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new repository.
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Insert stores a submission and fills in its ID and timestamp.
func (r *SubmissionRepository) Insert(ctx context.Context, s *domain.Submission) error {
	values, err := json.Marshal(nonNilValues(s.MatchedValues))
	if err != nil {
		return fmt.Errorf("marshal matched values: %w", err)
	}

	var coords any
	if s.ClickCoordinates != nil {
		data, marshalErr := json.Marshal(s.ClickCoordinates)
		if marshalErr != nil {
			return fmt.Errorf("marshal click coordinates: %w", marshalErr)
		}
		coords = data
	}

	query := `
		INSERT INTO submissions (target_url, target_hostname, source_url,
			matched_fields, matched_values, request_method, status,
			is_bot, has_click_correlation, click_time_diff_ms, click_coordinates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	row := r.db.QueryRowContext(ctx, query,
		s.TargetURL, s.TargetHostname, s.SourceURL,
		pq.Array(nonNilFields(s.MatchedFields)), values,
		s.RequestMethod, s.Status,
		s.IsBot, s.HasClickCorrelation, s.ClickTimeDiffMS, coords,
	)
	if err := row.Scan(&s.ID, &s.Timestamp); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// ListNewestFirst returns submissions ordered by descending timestamp.
// A non-empty hostname narrows the result to exact, case-sensitive
// matches on target_hostname. Category filtering happens in the
// detection package, on top of this ordering.
func (r *SubmissionRepository) ListNewestFirst(ctx context.Context, hostname string) ([]domain.Submission, error) {
	query := `SELECT ` + submissionSelectList + ` FROM submissions`
	args := []any{}
	if hostname != "" {
		query += ` WHERE target_hostname = $1`
		args = append(args, hostname)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// StatsCounts returns the total submission count and the count since the
// start of the current UTC day.
func (r *SubmissionRepository) StatsCounts(ctx context.Context, startOfDay time.Time) (total, today int64, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= $1)
		FROM submissions`

	if err := r.db.QueryRowContext(ctx, query, startOfDay).Scan(&total, &today); err != nil {
		return 0, 0, fmt.Errorf("count submissions: %w", err)
	}
	return total, today, nil
}

// ClassificationCounts returns the counts backing classification stats.
func (r *SubmissionRepository) ClassificationCounts(ctx context.Context) (total, human, bot, uncorrelated int64, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_bot = FALSE),
		       COUNT(*) FILTER (WHERE is_bot = TRUE),
		       COUNT(*) FILTER (WHERE has_click_correlation = FALSE)
		FROM submissions`

	if err := r.db.QueryRowContext(ctx, query).Scan(&total, &human, &bot, &uncorrelated); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("count classifications: %w", err)
	}
	return total, human, bot, uncorrelated, nil
}

// TopHostnames returns hostnames by submission count, descending.
func (r *SubmissionRepository) TopHostnames(ctx context.Context, limit int) ([]domain.HostnameCount, error) {
	query := `
		SELECT target_hostname, COUNT(*) AS count
		FROM submissions
		GROUP BY target_hostname
		ORDER BY count DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top hostnames: %w", err)
	}
	defer rows.Close()

	counts := []domain.HostnameCount{}
	for rows.Next() {
		var hc domain.HostnameCount
		if scanErr := rows.Scan(&hc.Hostname, &hc.Count); scanErr != nil {
			return nil, fmt.Errorf("scan hostname count: %w", scanErr)
		}
		counts = append(counts, hc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate hostname counts: %w", rowsErr)
	}
	return counts, nil
}

// DailyCounts returns per-day submission counts since the given time,
// ascending by date.
func (r *SubmissionRepository) DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	query := `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM submissions
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day ASC`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.DailyCount{}
	for rows.Next() {
		var dc domain.DailyCount
		if scanErr := rows.Scan(&dc.Date, &dc.Count); scanErr != nil {
			return nil, fmt.Errorf("scan daily count: %w", scanErr)
		}
		counts = append(counts, dc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate daily counts: %w", rowsErr)
	}
	return counts, nil
}

// DeleteByID deletes one submission, returning domain.ErrNotFound when no
// row matched.
func (r *SubmissionRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll removes every submission and returns the number deleted.
func (r *SubmissionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM submissions`)
	if err != nil {
		return 0, fmt.Errorf("delete all submissions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get affected rows: %w", err)
	}
	return rows, nil
}

// scanSubmissions reads submission rows into domain records.
func scanSubmissions(rows *sql.Rows) ([]domain.Submission, error) {
	subs := []domain.Submission{}

	for rows.Next() {
		var (
			s      domain.Submission
			values []byte
			coords []byte
		)

		err := rows.Scan(
			&s.ID, &s.Timestamp, &s.TargetURL, &s.TargetHostname, &s.SourceURL,
			pq.Array(&s.MatchedFields), &values, &s.RequestMethod, &s.Status,
			&s.IsBot, &s.HasClickCorrelation, &s.ClickTimeDiffMS, &coords,
		)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}

		if len(values) > 0 {
			if err := json.Unmarshal(values, &s.MatchedValues); err != nil {
				return nil, fmt.Errorf("unmarshal matched values: %w", err)
			}
		}
		if len(coords) > 0 {
			s.ClickCoordinates = &domain.Coordinates{}
			if err := json.Unmarshal(coords, s.ClickCoordinates); err != nil {
				return nil, fmt.Errorf("unmarshal click coordinates: %w", err)
			}
		}

		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

// nonNilFields keeps the stored array column non-null.
func nonNilFields(fields []string) []string {
	if fields == nil {
		return []string{}
	}
	return fields
}

// nonNilValues keeps the stored JSONB column an object, never null.
func nonNilValues(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return values
}
