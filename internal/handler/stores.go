// Package handler implements the HTTP handlers for the formguard API.
package handler

import (
	"context"
	"time"

	"github.com/jonesrussell/formguard/internal/domain"
)

// SubmissionStore is the storage surface the submission handlers need.
type SubmissionStore interface {
	Insert(ctx context.Context, s *domain.Submission) error
	ListNewestFirst(ctx context.Context, hostname string) ([]domain.Submission, error)
	StatsCounts(ctx context.Context, startOfDay time.Time) (total, today int64, err error)
	ClassificationCounts(ctx context.Context) (total, human, bot, uncorrelated int64, err error)
	TopHostnames(ctx context.Context, limit int) ([]domain.HostnameCount, error)
	DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyCount, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ClickStore is the storage surface the click handlers need.
type ClickStore interface {
	Insert(ctx context.Context, e *domain.ClickEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.ClickEvent, error)
	ListSuspicious(ctx context.Context, limit int) ([]domain.ClickEvent, error)
	Counts(ctx context.Context) (total, suspicious, legitimate, uniquePages int64, err error)
	ActionSummary(ctx context.Context) ([]domain.ActionSummary, error)
}

// WhitelistStore is the storage surface the whitelist handlers need.
type WhitelistStore interface {
	Insert(ctx context.Context, entry *domain.WhitelistEntry) error
	List(ctx context.Context) ([]domain.WhitelistEntry, error)
	Match(ctx context.Context, url, hostname string) (domain.WhitelistMatch, error)
	DeleteByID(ctx context.Context, id int64) error
}
