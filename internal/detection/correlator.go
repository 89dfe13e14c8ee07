package detection

import (
	"fmt"
	"math"
	"time"

	"github.com/jonesrussell/formguard/internal/domain"
)

// DefaultWindow is the correlation window used when none is configured.
const DefaultWindow = 250 * time.Millisecond

// Confidence scores attached to correlation verdicts. A match is treated
// as fully legitimate; there is no partial scoring near the boundary.
const (
	matchConfidence   = 1.0
	noMatchConfidence = 0.9
)

// Correlator decides whether a page-level click is backed by a pointer
// click close enough in time to be the same physical action.
type Correlator struct {
	buffer *Buffer
	window time.Duration
}

// NewCorrelator creates a correlator over the given buffer.
// Non-positive windows fall back to DefaultWindow.
func NewCorrelator(buffer *Buffer, window time.Duration) *Correlator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Correlator{
		buffer: buffer,
		window: window,
	}
}

// Window returns the configured correlation window.
func (c *Correlator) Window() time.Duration {
	return c.window
}

// Correlate scans pointer clicks newest-first for one within the window of
// the page click. Buffer entries arrive in timestamp order, so the first
// candidate farther away than the window means every older candidate is
// farther still and the scan stops early. A gap exactly equal to the
// window counts as a match: the scan breaks only on strictly greater.
func (c *Correlator) Correlate(click domain.PointerClick) domain.CorrelationResult {
	if c.buffer.Len() == 0 {
		return domain.CorrelationResult{
			IsSuspicious: true,
			Confidence:   noMatchConfidence,
			Reason:       "no reference clicks recorded",
		}
	}

	windowSec := c.window.Seconds()
	matched := false

	c.buffer.ScanNewestFirst(func(pointer domain.PointerClick) bool {
		if math.Abs(click.Timestamp-pointer.Timestamp) > windowSec {
			return false
		}
		matched = true
		return false
	})

	if matched {
		return domain.CorrelationResult{
			IsSuspicious: false,
			Confidence:   matchConfidence,
		}
	}

	return domain.CorrelationResult{
		IsSuspicious: true,
		Confidence:   noMatchConfidence,
		Reason:       fmt.Sprintf("no reference click within %dms", c.window.Milliseconds()),
	}
}
