package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/jonesrussell/formguard/internal/domain"
	"github.com/jonesrussell/formguard/internal/storage"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock
}

func submissionColumns() []string {
	return []string{
		"id", "created_at", "target_url", "target_hostname", "source_url",
		"matched_fields", "matched_values", "request_method", "status",
		"is_bot", "has_click_correlation", "click_time_diff_ms", "click_coordinates",
	}
}

func TestSubmissionRepository_Insert(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	defer db.Close()

	repo := storage.NewSubmissionRepository(db)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO submissions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	sub := domain.Submission{
		TargetURL:      "https://api.example.com/subscribe",
		TargetHostname: "api.example.com",
		SourceURL:      "https://example.com/signup",
		MatchedFields:  []string{"email"},
		MatchedValues:  map[string]string{"email": "x@example.com"},
		RequestMethod:  "POST",
		Status:         "detected",
		IsBot:          domain.VerdictHuman,
	}

	if err := repo.Insert(ctx, &sub); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if sub.ID != 7 {
		t.Errorf("id: got %d, want 7", sub.ID)
	}
	if !sub.Timestamp.Equal(now) {
		t.Errorf("timestamp not filled in from RETURNING")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSubmissionRepository_ListNewestFirst(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	defer db.Close()

	repo := storage.NewSubmissionRepository(db)
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name      string
		hostname  string
		setupMock func()
		wantCount int
		wantErr   bool
	}{
		{
			name:     "returns all records",
			hostname: "",
			setupMock: func() {
				rows := sqlmock.NewRows(submissionColumns()).
					AddRow(int64(2), now, "https://a.example", "a.example", "https://src",
						pq.Array([]string{"email"}), []byte(`{"email":"x"}`), "POST", "detected",
						true, false, nil, nil).
					AddRow(int64(1), now.Add(-time.Minute), "https://b.example", "b.example", "https://src",
						pq.Array([]string{}), []byte(`{}`), "POST", "detected",
						nil, true, int64(120), []byte(`{"x":10,"y":20}`))
				mock.ExpectQuery("SELECT (.+) FROM submissions ORDER BY created_at DESC").
					WillReturnRows(rows)
			},
			wantCount: 2,
		},
		{
			name:     "hostname filter is passed through",
			hostname: "a.example",
			setupMock: func() {
				rows := sqlmock.NewRows(submissionColumns()).
					AddRow(int64(2), now, "https://a.example", "a.example", "https://src",
						pq.Array([]string{"email"}), []byte(`{"email":"x"}`), "POST", "detected",
						false, true, nil, nil)
				mock.ExpectQuery("SELECT (.+) FROM submissions WHERE target_hostname").
					WithArgs("a.example").
					WillReturnRows(rows)
			},
			wantCount: 1,
		},
		{
			name:     "database error is wrapped",
			hostname: "",
			setupMock: func() {
				mock.ExpectQuery("SELECT (.+) FROM submissions").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			subs, err := repo.ListNewestFirst(ctx, tt.hostname)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListNewestFirst() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(subs) != tt.wantCount {
				t.Errorf("count: got %d, want %d", len(subs), tt.wantCount)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestSubmissionRepository_ListNewestFirst_ScansVerdictAndCoordinates(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	defer db.Close()

	repo := storage.NewSubmissionRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(submissionColumns()).
		AddRow(int64(1), now, "https://a.example", "a.example", "https://src",
			pq.Array([]string{}), []byte(`{}`), "POST", "detected",
			nil, true, int64(120), []byte(`{"x":10,"y":20}`))
	mock.ExpectQuery("SELECT (.+) FROM submissions").WillReturnRows(rows)

	subs, err := repo.ListNewestFirst(context.Background(), "")
	if err != nil {
		t.Fatalf("ListNewestFirst() error: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("count: got %d, want 1", len(subs))
	}

	got := subs[0]
	if got.IsBot != domain.VerdictUnknown {
		t.Errorf("verdict: got %v, want unknown", got.IsBot)
	}
	if got.ClickTimeDiffMS == nil || *got.ClickTimeDiffMS != 120 {
		t.Errorf("click_time_diff_ms: got %v, want 120", got.ClickTimeDiffMS)
	}
	if got.ClickCoordinates == nil || got.ClickCoordinates.X != 10 || got.ClickCoordinates.Y != 20 {
		t.Errorf("click_coordinates: got %+v", got.ClickCoordinates)
	}
}

func TestSubmissionRepository_DeleteByID(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	defer db.Close()

	repo := storage.NewSubmissionRepository(db)
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "deletes existing record",
			setupMock: func() {
				mock.ExpectExec("DELETE FROM submissions WHERE id").
					WithArgs(int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing record returns not found",
			setupMock: func() {
				mock.ExpectExec("DELETE FROM submissions WHERE id").
					WithArgs(int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := repo.DeleteByID(ctx, 5)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DeleteByID() error = %v, want %v", err, tt.wantErr)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestSubmissionRepository_DeleteAll(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	defer db.Close()

	repo := storage.NewSubmissionRepository(db)

	mock.ExpectExec("DELETE FROM submissions").
		WillReturnResult(sqlmock.NewResult(0, 42))

	count, err := repo.DeleteAll(context.Background())
	if err != nil {
		t.Fatalf("DeleteAll() error: %v", err)
	}
	if count != 42 {
		t.Errorf("count: got %d, want 42", count)
	}
}

func TestSubmissionRepository_ClassificationCounts(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	defer db.Close()

	repo := storage.NewSubmissionRepository(db)

	rows := sqlmock.NewRows([]string{"total", "human", "bot", "uncorrelated"}).
		AddRow(int64(10), int64(6), int64(2), int64(3))
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(rows)

	total, human, bot, uncorrelated, err := repo.ClassificationCounts(context.Background())
	if err != nil {
		t.Fatalf("ClassificationCounts() error: %v", err)
	}
	if total != 10 || human != 6 || bot != 2 || uncorrelated != 3 {
		t.Errorf("counts: got (%d, %d, %d, %d)", total, human, bot, uncorrelated)
	}
}

func TestSubmissionRepository_TopHostnames(t *testing.T) {
	t.Helper()

	db, mock := newMockDB(t)
	defer db.Close()

	repo := storage.NewSubmissionRepository(db)

	rows := sqlmock.NewRows([]string{"target_hostname", "count"}).
		AddRow("a.example", int64(9)).
		AddRow("b.example", int64(4))
	mock.ExpectQuery("SELECT target_hostname, COUNT").
		WithArgs(10).
		WillReturnRows(rows)

	counts, err := repo.TopHostnames(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopHostnames() error: %v", err)
	}
	if len(counts) != 2 || counts[0].Hostname != "a.example" || counts[0].Count != 9 {
		t.Errorf("counts: got %+v", counts)
	}
}
