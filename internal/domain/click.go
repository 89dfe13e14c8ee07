package domain

import "time"

// PointerClick is a single hardware/OS-level click observation. Entries
// live only in the in-memory ring buffer and are never persisted.
type PointerClick struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp float64 `json:"timestamp"` // seconds since epoch, sub-ms precision
}

// ClickEvent is a persisted page-level (DOM) click with the correlation
// verdict attached at creation. Records are immutable after insert.
type ClickEvent struct {
	ID           int64    `json:"id"`
	Timestamp    float64  `json:"timestamp"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	IsSuspicious bool     `json:"is_suspicious"`
	Confidence   *float64 `json:"confidence"`
	Reason       *string  `json:"reason"`

	// Contextual metadata supplied by the extension, opaque to correlation.
	ActionType    string `json:"action_type"`
	ActionDetails string `json:"action_details"`
	PageURL       string `json:"page_url"`
	PageTitle     string `json:"page_title"`
	TargetTag     string `json:"target_tag"`
	TargetID      string `json:"target_id"`
	TargetClass   string `json:"target_class"`
	IsTrusted     bool   `json:"is_trusted"`

	CreatedAt time.Time `json:"created_at"`
}

// CorrelationResult is the verdict produced by correlating a page click
// against the pointer-click buffer. Reason is set only on suspicious
// verdicts.
type CorrelationResult struct {
	IsSuspicious bool    `json:"is_suspicious"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason,omitempty"`
}

// ClickStats summarizes stored page clicks and current buffer occupancy.
type ClickStats struct {
	TotalClicks      int64 `json:"total_clicks"`
	SuspiciousClicks int64 `json:"suspicious_clicks"`
	LegitimateClicks int64 `json:"legitimate_clicks"`
	UniquePages      int64 `json:"unique_pages"`
	BufferedClicks   int   `json:"buffered_pointer_clicks"`
}

// ActionSummary is the per-action-type click breakdown.
type ActionSummary struct {
	ActionType      string `json:"action_type"`
	Count           int64  `json:"count"`
	SuspiciousCount int64  `json:"suspicious_count"`
}
