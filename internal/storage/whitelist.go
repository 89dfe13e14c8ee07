package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jonesrussell/formguard/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// WhitelistRepository manages whitelisted URLs.
type WhitelistRepository struct {
	db *sql.DB
}

// NewWhitelistRepository creates a new repository.
func NewWhitelistRepository(db *sql.DB) *WhitelistRepository {
	return &WhitelistRepository{db: db}
}

// Insert stores a whitelist entry, returning domain.ErrDuplicate when the
// URL is already whitelisted.
func (r *WhitelistRepository) Insert(ctx context.Context, entry *domain.WhitelistEntry) error {
	query := `
		INSERT INTO whitelist (url, hostname, notes)
		VALUES ($1, $2, $3)
		RETURNING id, added_at`

	row := r.db.QueryRowContext(ctx, query, entry.URL, entry.Hostname, entry.Notes)
	if err := row.Scan(&entry.ID, &entry.AddedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert whitelist entry: %w", err)
	}
	return nil
}

// List returns all whitelist entries, most recently added first.
func (r *WhitelistRepository) List(ctx context.Context) ([]domain.WhitelistEntry, error) {
	query := `
		SELECT id, url, hostname, added_at, notes
		FROM whitelist
		ORDER BY added_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list whitelist: %w", err)
	}
	defer rows.Close()

	entries := []domain.WhitelistEntry{}
	for rows.Next() {
		var e domain.WhitelistEntry
		if scanErr := rows.Scan(&e.ID, &e.URL, &e.Hostname, &e.AddedAt, &e.Notes); scanErr != nil {
			return nil, fmt.Errorf("scan whitelist entry: %w", scanErr)
		}
		entries = append(entries, e)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate whitelist: %w", rowsErr)
	}
	return entries, nil
}

// Match reports how a URL matches the whitelist: an exact URL match wins
// over a hostname match.
func (r *WhitelistRepository) Match(ctx context.Context, url, hostname string) (domain.WhitelistMatch, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM whitelist WHERE url = $1),
		       EXISTS (SELECT 1 FROM whitelist WHERE hostname = $2)`

	var exact, host bool
	if err := r.db.QueryRowContext(ctx, query, url, hostname).Scan(&exact, &host); err != nil {
		return domain.MatchNone, fmt.Errorf("check whitelist: %w", err)
	}

	switch {
	case exact:
		return domain.MatchExact, nil
	case host:
		return domain.MatchHostname, nil
	default:
		return domain.MatchNone, nil
	}
}

// DeleteByID removes a whitelist entry, returning domain.ErrNotFound when
// no row matched.
func (r *WhitelistRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM whitelist WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete whitelist entry: %w", err)
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
