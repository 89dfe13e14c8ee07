package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/formguard/internal/domain"
)

// fakeSubmissionStore is an in-memory SubmissionStore for handler tests.
type fakeSubmissionStore struct {
	subs      []domain.Submission
	nextID    int64
	insertErr error
	listErr   error

	total, today                                int64
	clsTotal, clsHuman, clsBot, clsUncorrelated int64
	hostnames                                   []domain.HostnameCount
	daily                                       []domain.DailyCount
}

func (f *fakeSubmissionStore) Insert(_ context.Context, s *domain.Submission) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	s.ID = f.nextID
	s.Timestamp = time.Now().UTC()
	f.subs = append(f.subs, *s)
	return nil
}

func (f *fakeSubmissionStore) ListNewestFirst(_ context.Context, hostname string) ([]domain.Submission, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if hostname == "" {
		return f.subs, nil
	}
	var out []domain.Submission
	for _, s := range f.subs {
		if s.TargetHostname == hostname {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) StatsCounts(_ context.Context, _ time.Time) (int64, int64, error) {
	return f.total, f.today, nil
}

func (f *fakeSubmissionStore) ClassificationCounts(_ context.Context) (int64, int64, int64, int64, error) {
	return f.clsTotal, f.clsHuman, f.clsBot, f.clsUncorrelated, nil
}

func (f *fakeSubmissionStore) TopHostnames(_ context.Context, _ int) ([]domain.HostnameCount, error) {
	return f.hostnames, nil
}

func (f *fakeSubmissionStore) DailyCounts(_ context.Context, _ time.Time) ([]domain.DailyCount, error) {
	return f.daily, nil
}

func (f *fakeSubmissionStore) DeleteByID(_ context.Context, id int64) error {
	for i, s := range f.subs {
		if s.ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSubmissionStore) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(f.subs))
	f.subs = nil
	return n, nil
}

// fakeClickStore is an in-memory ClickStore for handler tests.
type fakeClickStore struct {
	events    []domain.ClickEvent
	nextID    int64
	insertErr error

	total, suspicious, legitimate, uniquePages int64
	actions                                    []domain.ActionSummary
}

func (f *fakeClickStore) Insert(_ context.Context, e *domain.ClickEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now().UTC()
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeClickStore) ListRecent(_ context.Context, limit int) ([]domain.ClickEvent, error) {
	if limit > len(f.events) {
		limit = len(f.events)
	}
	return f.events[:limit], nil
}

func (f *fakeClickStore) ListSuspicious(_ context.Context, limit int) ([]domain.ClickEvent, error) {
	var out []domain.ClickEvent
	for _, e := range f.events {
		if e.IsSuspicious && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeClickStore) Counts(_ context.Context) (int64, int64, int64, int64, error) {
	return f.total, f.suspicious, f.legitimate, f.uniquePages, nil
}

func (f *fakeClickStore) ActionSummary(_ context.Context) ([]domain.ActionSummary, error) {
	return f.actions, nil
}

// fakeWhitelistStore is an in-memory WhitelistStore for handler tests.
type fakeWhitelistStore struct {
	entries []domain.WhitelistEntry
	nextID  int64
}

func (f *fakeWhitelistStore) Insert(_ context.Context, entry *domain.WhitelistEntry) error {
	for _, e := range f.entries {
		if e.URL == entry.URL {
			return domain.ErrDuplicate
		}
	}
	f.nextID++
	entry.ID = f.nextID
	entry.AddedAt = time.Now().UTC()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeWhitelistStore) List(_ context.Context) ([]domain.WhitelistEntry, error) {
	return f.entries, nil
}

func (f *fakeWhitelistStore) Match(_ context.Context, url, hostname string) (domain.WhitelistMatch, error) {
	for _, e := range f.entries {
		if e.URL == url {
			return domain.MatchExact, nil
		}
	}
	for _, e := range f.entries {
		if e.Hostname == hostname {
			return domain.MatchHostname, nil
		}
	}
	return domain.MatchNone, nil
}

func (f *fakeWhitelistStore) DeleteByID(_ context.Context, id int64) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// doJSON performs a request with a JSON body against the router.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func init() {
	gin.SetMode(gin.TestMode)
}
