package detection_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jonesrussell/formguard/internal/detection"
)

const testWindow = 250 * time.Millisecond

func TestCorrelator_EmptyBuffer(t *testing.T) {
	t.Helper()

	buf := detection.NewBuffer(10)
	cor := detection.NewCorrelator(buf, testWindow)

	result := cor.Correlate(click(10.0))

	if !result.IsSuspicious {
		t.Error("expected suspicious verdict on empty buffer")
	}
	if result.Confidence != 0.9 {
		t.Errorf("confidence: got %v, want 0.9", result.Confidence)
	}
	if result.Reason != "no reference clicks recorded" {
		t.Errorf("reason: got %q", result.Reason)
	}
}

func TestCorrelator_WindowBoundaries(t *testing.T) {
	t.Helper()

	tests := []struct {
		name           string
		pointerTS      float64
		pageTS         float64
		wantSuspicious bool
		wantConfidence float64
	}{
		{"well inside window", 10.000, 10.100, false, 1.0},
		{"just inside window", 10.000, 10.249, false, 1.0},
		{"exactly on window boundary", 10.000, 10.250, false, 1.0},
		{"just outside window", 10.000, 10.251, true, 0.9},
		{"clearly outside window", 10.000, 10.300, true, 0.9},
		{"page click before pointer click", 10.000, 9.900, false, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := detection.NewBuffer(10)
			buf.Append(click(tt.pointerTS))
			cor := detection.NewCorrelator(buf, testWindow)

			result := cor.Correlate(click(tt.pageTS))

			if result.IsSuspicious != tt.wantSuspicious {
				t.Errorf("suspicious: got %v, want %v", result.IsSuspicious, tt.wantSuspicious)
			}
			if result.Confidence != tt.wantConfidence {
				t.Errorf("confidence: got %v, want %v", result.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestCorrelator_MatchHasNoReason(t *testing.T) {
	t.Helper()

	buf := detection.NewBuffer(10)
	buf.Append(click(10.0))
	cor := detection.NewCorrelator(buf, testWindow)

	result := cor.Correlate(click(10.1))

	if result.Reason != "" {
		t.Errorf("expected empty reason on match, got %q", result.Reason)
	}
}

func TestCorrelator_NoMatchReasonMentionsWindow(t *testing.T) {
	t.Helper()

	buf := detection.NewBuffer(10)
	buf.Append(click(10.000))
	cor := detection.NewCorrelator(buf, testWindow)

	result := cor.Correlate(click(10.300))

	if !result.IsSuspicious {
		t.Fatal("expected suspicious verdict")
	}
	if !strings.Contains(result.Reason, "250ms") {
		t.Errorf("reason should mention the window, got %q", result.Reason)
	}
}

func TestCorrelator_ScanStopsAtFirstOutOfWindowCandidate(t *testing.T) {
	t.Helper()

	// Newest entry is out of window; older entries would match the page
	// click but are never reached, since the buffer is timestamp-ordered
	// and the scan breaks on the first miss.
	buf := detection.NewBuffer(10)
	buf.Append(click(10.000)) // would match
	buf.Append(click(20.000)) // newest, out of window

	cor := detection.NewCorrelator(buf, testWindow)
	result := cor.Correlate(click(10.100))

	if !result.IsSuspicious {
		t.Error("expected suspicious verdict when newest candidate breaks the scan")
	}
}

func TestCorrelator_DefaultWindow(t *testing.T) {
	t.Helper()

	cor := detection.NewCorrelator(detection.NewBuffer(10), 0)
	if cor.Window() != detection.DefaultWindow {
		t.Errorf("window: got %v, want %v", cor.Window(), detection.DefaultWindow)
	}
}
