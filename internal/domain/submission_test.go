package domain

import (
	"math"
	"testing"
)

func TestSubmission_HasInput(t *testing.T) {
	t.Helper()

	tests := []struct {
		name   string
		fields []string
		values map[string]string
		want   bool
	}{
		{
			name:   "fields and values present",
			fields: []string{"email"},
			values: map[string]string{"email": "x@example.com"},
			want:   true,
		},
		{
			name:   "fields without values",
			fields: []string{"email"},
			values: nil,
			want:   false,
		},
		{
			name:   "values without fields",
			fields: nil,
			values: map[string]string{"email": "x@example.com"},
			want:   false,
		},
		{
			name:   "both empty",
			fields: []string{},
			values: map[string]string{},
			want:   false,
		},
		{
			name:   "values key not listed in fields still counts",
			fields: []string{"email"},
			values: map[string]string{"password": "hunter2"},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Submission{MatchedFields: tt.fields, MatchedValues: tt.values}
			if got := s.HasInput(); got != tt.want {
				t.Errorf("HasInput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewClassificationStats(t *testing.T) {
	t.Helper()

	tests := []struct {
		name                      string
		total, human, bot, uncorr int64
		wantRate                  float64
	}{
		{"empty dataset has zero rate", 0, 0, 0, 0, 0.0},
		{"all classified", 10, 6, 4, 2, 100.0},
		{"half classified", 10, 3, 2, 5, 50.0},
		{"none classified", 10, 0, 0, 10, 0.0},
		{"thirds", 3, 1, 1, 0, 200.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := NewClassificationStats(tt.total, tt.human, tt.bot, tt.uncorr)

			if math.Abs(stats.CorrelationRate-tt.wantRate) > 1e-9 {
				t.Errorf("rate: got %v, want %v", stats.CorrelationRate, tt.wantRate)
			}
			if stats.TotalSubmissions != tt.total {
				t.Errorf("total: got %d, want %d", stats.TotalSubmissions, tt.total)
			}
			if stats.UncorrelatedSubmissions != tt.uncorr {
				t.Errorf("uncorrelated: got %d, want %d", stats.UncorrelatedSubmissions, tt.uncorr)
			}
		})
	}
}
